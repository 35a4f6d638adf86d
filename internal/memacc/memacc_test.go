package memacc

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBufferAccessor_ReadMemory(t *testing.T) {
	acc := NewBufferAccessor(0x1000, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})

	tests := []struct {
		name      string
		addr      uint64
		size      int
		wantBytes []byte
		wantN     int
		wantErr   bool
	}{
		{name: "read from start", addr: 0x1000, size: 4, wantBytes: []byte{0x01, 0x02, 0x03, 0x04}, wantN: 4},
		{name: "read from middle", addr: 0x1003, size: 3, wantBytes: []byte{0x04, 0x05, 0x06}, wantN: 3},
		{name: "partial read beyond end", addr: 0x1007, size: 4, wantBytes: []byte{0x08, 0, 0, 0}, wantN: 1},
		{name: "read before buffer", addr: 0x0FFF, size: 4, wantErr: true},
		{name: "read after buffer", addr: 0x1008, size: 4, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, tt.size)
			n, err := acc.ReadMemory(tt.addr, buf)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadMemory() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrOutOfRange) {
					t.Errorf("ReadMemory() error = %v, want ErrOutOfRange", err)
				}
				return
			}
			if n != tt.wantN {
				t.Errorf("ReadMemory() n = %d, want %d", n, tt.wantN)
			}
			if diff := cmp.Diff(tt.wantBytes, buf); diff != "" {
				t.Errorf("ReadMemory() bytes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMapper_Overlap(t *testing.T) {
	m := NewMapper()
	if err := m.AddAccessor(NewBufferAccessor(0x0000, make([]byte, 0x2000))); err != nil {
		t.Fatalf("AddAccessor() first region: %v", err)
	}
	if err := m.AddAccessor(NewBufferAccessor(0x1000, make([]byte, 0x2000))); !errors.Is(err, ErrMemAccOverlap) {
		t.Errorf("AddAccessor() overlapping region error = %v, want ErrMemAccOverlap", err)
	}
	if err := m.AddAccessor(NewBufferAccessor(0x2000, make([]byte, 0x100))); err != nil {
		t.Errorf("AddAccessor() adjacent region: %v", err)
	}
	if err := m.AddAccessor(NewCBAccessor(0x9000, 0x8000)); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("AddAccessor() inverted range error = %v, want ErrRangeInvalid", err)
	}
	if got := len(m.Accessors()); got != 2 {
		t.Errorf("len(Accessors()) = %d, want 2", got)
	}
}

func TestMapper_Dispatch(t *testing.T) {
	low := NewImage(0x1000, 0x100)
	low.PutU32(0x1010, 0x11111111)
	high := NewImage(0x8000, 0x100)
	high.PutU32(0x8010, 0x22222222)

	m := NewMapper()
	for _, acc := range []Accessor{low.Accessor(), high.Accessor()} {
		if err := m.AddAccessor(acc); err != nil {
			t.Fatalf("AddAccessor(%s): %v", acc, err)
		}
	}

	r := NewReader(m)
	for _, tc := range []struct {
		addr uint64
		want uint32
	}{{0x1010, 0x11111111}, {0x8010, 0x22222222}, {0x1010, 0x11111111}} {
		got, ok := r.U32(tc.addr)
		if !ok || got != tc.want {
			t.Errorf("U32(0x%x) = 0x%x, %v; want 0x%x, true", tc.addr, got, ok, tc.want)
		}
	}

	if _, err := m.ReadMemory(0x4000, make([]byte, 4)); !errors.Is(err, ErrAccessInvalid) {
		t.Errorf("ReadMemory() unmapped error = %v, want ErrAccessInvalid", err)
	}

	m.RemoveAllAccessors()
	if _, ok := r.U32(0x1010); ok {
		t.Error("U32() after RemoveAllAccessors should be absent")
	}
}

func TestMapper_RemoveAccessor(t *testing.T) {
	m := NewMapper()
	acc := NewBufferAccessor(0x1000, make([]byte, 16))
	if err := m.AddAccessor(acc); err != nil {
		t.Fatal(err)
	}
	if _, err := m.ReadMemory(0x1000, make([]byte, 4)); err != nil {
		t.Fatalf("ReadMemory() = %v", err)
	}
	if err := m.RemoveAccessor(acc); err != nil {
		t.Fatalf("RemoveAccessor() = %v", err)
	}
	if err := m.RemoveAccessor(acc); err == nil {
		t.Error("RemoveAccessor() twice should fail")
	}
	if _, err := m.ReadMemory(0x1000, make([]byte, 4)); err == nil {
		t.Error("ReadMemory() after removal should fail")
	}
}

func TestCBAccessor(t *testing.T) {
	backing := NewImage(0x4000, 0x40)
	backing.PutU16(0x4002, 0xBEEF)

	calls := 0
	acc := NewCBAccessor(0x4000, 0x403F)
	if _, err := acc.ReadMemory(0x4000, make([]byte, 2)); !errors.Is(err, ErrCallbackNotSet) {
		t.Fatalf("ReadMemory() without callback error = %v", err)
	}
	acc.SetCB(func(ctx any, addr uint64, data []byte) (int, error) {
		calls++
		return ctx.(*Image).Accessor().ReadMemory(addr, data)
	}, backing)

	r := NewReader(acc)
	if got, ok := r.U16(0x4002); !ok || got != 0xBEEF {
		t.Errorf("U16() = 0x%x, %v; want 0xBEEF, true", got, ok)
	}
	if _, ok := r.U64(0x403C); ok {
		t.Error("U64() straddling the end of the range should be absent")
	}
	if _, err := acc.ReadMemory(0x5000, make([]byte, 1)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("ReadMemory() out of range error = %v", err)
	}
	if calls != 2 {
		t.Errorf("callback calls = %d, want 2", calls)
	}
}

func TestReader_TypedReads(t *testing.T) {
	img := NewImage(0x10000, 0x40)
	img.PutU8(0x10000, 0xAB)
	img.PutU16(0x10002, 0x1234)
	img.PutI32(0x10004, -1)
	img.PutU64(0x10008, 0x10020)
	img.PutF32(0x10010, 3.5)
	img.PutBytes(0x10020, []byte("sofa"))

	r := NewReader(img.Accessor())

	if v, ok := r.U8(0x10000); !ok || v != 0xAB {
		t.Errorf("U8() = 0x%x, %v", v, ok)
	}
	if v, ok := r.U16(0x10002); !ok || v != 0x1234 {
		t.Errorf("U16() = 0x%x, %v", v, ok)
	}
	if v, ok := r.I32(0x10004); !ok || v != -1 {
		t.Errorf("I32() = %d, %v", v, ok)
	}
	if v, ok := r.F32(0x10010); !ok || v != 3.5 {
		t.Errorf("F32() = %v, %v", v, ok)
	}
	p, ok := r.Ptr(0x10008)
	if !ok || p != 0x10020 {
		t.Fatalf("Ptr() = 0x%x, %v", p, ok)
	}
	if b, ok := r.Bytes(p, 4); !ok || string(b) != "sofa" {
		t.Errorf("Bytes() = %q, %v", b, ok)
	}
	// zeroed slot
	if _, ok := r.Ptr(0x10018); ok {
		t.Error("Ptr() of a zero slot should be absent")
	}
	if _, ok := r.U32(0); ok {
		t.Error("U32(0) should be absent")
	}
	if _, ok := NewReader(nil).U32(0x10000); ok {
		t.Error("reads on a nil reader should be absent")
	}
	if NewReader(nil).Valid() {
		t.Error("Valid() on nil reader")
	}
}

func TestImage_PutOutsidePanics(t *testing.T) {
	img := NewImage(0x100, 8)
	defer func() {
		if recover() == nil {
			t.Error("PutU64() past the end should panic")
		}
	}()
	img.PutF32(0x104, float32(math.Pi))
	img.PutU64(0x104, 1)
}
