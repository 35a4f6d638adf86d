package sigscan

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"housemem/internal/memacc"
)

const testBase = 0x140000000

// buildPEImage lays out a minimal PE32+ image: headers, .text, .rdata and .data.
// .rdata does not follow .text directly so zero displacements never resolve.
func buildPEImage() *memacc.Image {
	img := memacc.NewImage(testBase, 0x4000)
	img.PutBytes(testBase, []byte("MZ"))
	img.PutU32(testBase+0x3C, 0x80)
	img.PutBytes(testBase+0x80, []byte("PE\x00\x00"))

	fh := uint64(testBase + 0x84)
	img.PutU16(fh, 0x8664)  // Machine
	img.PutU16(fh+2, 3)     // NumberOfSections
	img.PutU16(fh+16, 112)  // SizeOfOptionalHeader
	img.PutU16(fh+18, 0x22) // Characteristics

	oh := uint64(testBase + 0x98)
	img.PutU16(oh, 0x20B)     // PE32+
	img.PutU32(oh+56, 0x4000) // SizeOfImage
	img.PutU32(oh+108, 0)     // NumberOfRvaAndSizes

	sections := []struct {
		name string
		va   uint32
		size uint32
	}{
		{".text", 0x1000, 0x1000},
		{".rdata", 0x2400, 0xC00},
		{".data", 0x3000, 0x800},
	}
	sh := uint64(testBase + 0x108)
	for i, s := range sections {
		hdr := sh + uint64(i)*40
		img.PutBytes(hdr, []byte(s.name))
		img.PutU32(hdr+8, s.size)
		img.PutU32(hdr+12, s.va)
		img.PutU32(hdr+16, s.size)
		img.PutU32(hdr+20, s.va)
	}
	return img
}

// putRIPLoad writes "48 8B <modrm> disp32" at addr referring to target, followed by tail.
func putRIPLoad(img *memacc.Image, addr uint64, modrm byte, target uint64, tail ...byte) {
	img.PutBytes(addr, []byte{0x48, 0x8B, modrm})
	img.PutU32(addr+3, uint32(int32(int64(target)-int64(addr+7))))
	img.PutBytes(addr+7, tail)
}

func TestParsePattern(t *testing.T) {
	tests := []struct {
		in       string
		want     Pattern
		wantErr  bool
		wantText string
	}{
		{
			in:       "48 8B 05 ?? ?? ?? ?? 8B 52",
			want:     Pattern{Bytes: []byte{0x48, 0x8B, 0x05, 0, 0, 0, 0, 0x8B, 0x52}, Mask: []bool{true, true, true, false, false, false, false, true, true}},
			wantText: "48 8B 05 ?? ?? ?? ?? 8B 52",
		},
		{
			in:       "e8 ? ? ? ? 90",
			want:     Pattern{Bytes: []byte{0xE8, 0, 0, 0, 0, 0x90}, Mask: []bool{true, false, false, false, false, true}},
			wantText: "E8 ?? ?? ?? ?? 90",
		},
		{in: "", wantErr: true},
		{in: "?? 48", wantErr: true},
		{in: "48 XYZ", wantErr: true},
		{in: "48 8", wantErr: true},
		{in: "148", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePattern(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePattern(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrBadPattern) {
					t.Errorf("error = %v, want ErrBadPattern", err)
				}
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParsePattern() mismatch (-want +got):\n%s", diff)
			}
			if got.String() != tt.wantText {
				t.Errorf("String() = %q, want %q", got.String(), tt.wantText)
			}
		})
	}
}

func TestPattern_Index(t *testing.T) {
	p := MustParsePattern("8B ?? 74")
	data := []byte{0x00, 0x8B, 0x01, 0x75, 0x8B, 0xFF, 0x74, 0x8B}
	if got := p.Index(data); got != 4 {
		t.Errorf("Index() = %d, want 4", got)
	}
	if got := p.Index(data[:6]); got != -1 {
		t.Errorf("Index() on truncated data = %d, want -1", got)
	}
}

func TestLoadPEModule(t *testing.T) {
	img := buildPEImage()
	mod, err := LoadPEModule(img.Accessor(), "ffxiv_dx11.exe", testBase)
	if err != nil {
		t.Fatalf("LoadPEModule() error = %v", err)
	}
	want := Module{
		Name:  "ffxiv_dx11.exe",
		Base:  testBase,
		Size:  0x4000,
		Text:  Section{Start: testBase + 0x1000, Size: 0x1000},
		RData: Section{Start: testBase + 0x2400, Size: 0xC00},
		Data:  Section{Start: testBase + 0x3000, Size: 0x800},
	}
	if diff := cmp.Diff(want, mod); diff != "" {
		t.Errorf("LoadPEModule() mismatch (-want +got):\n%s", diff)
	}

	if _, err := LoadPEModule(img.Accessor(), "missing", 0x10); err == nil {
		t.Error("LoadPEModule() at an unmapped base should fail")
	}
}

func TestScanner_StaticAddress(t *testing.T) {
	img := buildPEImage()
	text := uint64(testBase + 0x1000)

	// noise that shares a prefix with the housing signature
	img.PutBytes(text+0x10, []byte{0x48, 0x8B, 0x05, 0x00, 0x00, 0x00, 0x00, 0x8B, 0x53})
	putRIPLoad(img, text+0x200, 0x05, testBase+0x3040, 0x8B, 0x52)
	putRIPLoad(img, text+0x400, 0x0D, testBase+0x2410, 0x85, 0xC0, 0x74, 0x15)

	mod, err := LoadPEModule(img.Accessor(), "game", testBase)
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewScanner(img.Accessor(), mod)
	if err != nil {
		t.Fatalf("NewScanner() error = %v", err)
	}

	tests := []struct {
		name    string
		pattern string
		offset  int
		want    uint64
		wantErr error
	}{
		{name: "data section", pattern: "48 8B 05 ?? ?? ?? ?? 8B 52", want: testBase + 0x3040},
		{name: "rdata section", pattern: "48 8B 0D ?? ?? ?? ?? 85 C0 74 15", want: testBase + 0x2410},
		{name: "offset past the load", pattern: "48 8B 0D ?? ?? ?? ?? 85 C0 74 15", offset: 0x10, wantErr: ErrPatternNotFound},
		{name: "absent", pattern: "CC CC CC 48 8B", wantErr: ErrPatternNotFound},
		{name: "malformed", pattern: "48 8B 0", wantErr: ErrBadPattern},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.StaticAddress(tt.pattern, tt.offset)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("StaticAddress() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("StaticAddress() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("StaticAddress() = 0x%x, want 0x%x", got, tt.want)
			}
		})
	}

	if addr, err := s.ScanText("8B 52"); err != nil || addr != text+0x207 {
		t.Errorf("ScanText() = 0x%x, %v; want 0x%x", addr, err, text+0x207)
	}
}

func TestNewScanner_Errors(t *testing.T) {
	img := buildPEImage()
	if _, err := NewScanner(img.Accessor(), Module{Name: "empty"}); err == nil {
		t.Error("NewScanner() without a code section should fail")
	}
	mod := Module{Name: "unmapped", Text: Section{Start: 0x10, Size: 0x100}}
	if _, err := NewScanner(img.Accessor(), mod); err == nil {
		t.Error("NewScanner() over unmapped code should fail")
	}
}
