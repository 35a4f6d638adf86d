package lister

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"housemem/catalogue"
	"housemem/housing"
	"housemem/internal/config"
	"housemem/internal/dump"
	"housemem/internal/layout"
	"housemem/internal/memacc"
	"housemem/internal/process"
	"housemem/internal/sigscan"
	"housemem/tests/helpers"
)

func testCatalogue(t *testing.T) string {
	t.Helper()
	c := catalogue.NewBuilder().
		AddItem(
			catalogue.Item{ID: 1, Name: "Manor Exterior Set A", AdditionalData: 900, SearchCategory: catalogue.SearchExteriorFixture},
			catalogue.Item{ID: 2, Name: "Oak Table"},
		).
		AddStain(catalogue.Stain{ID: 1, Name: "Snow White", Color: 0xFFE4DFD0}).
		AddFurniture(catalogue.Furniture{ID: 10, ItemID: 2}).
		AddUnitedExterior(900, 500).
		AddLandSets(339, []catalogue.LandSetRow{{PlacardID: 2000, Size: 2}}).
		Build()
	path := filepath.Join(t.TempDir(), "catalogue.db")
	require.NoError(t, catalogue.WriteSQLite(context.Background(), path, c))
	return path
}

// outdoorClient is a ward with a united manor on plot 1 and two placed objects.
func outdoorClient() *helpers.Client {
	c := helpers.NewClient()
	c.SetOutdoor()
	c.SetTerritory(339)
	var parts [layout.HousePartsMax]helpers.Part
	parts[0] = helpers.Part{Key: 500, Color: 1}
	c.SetHouse(0, 2, parts)
	c.AddObject(0, 10, 3, 0, 0, 1)
	c.AddObject(1, 99, 40, 0, 0, 0)
	return c
}

func writeDump(t *testing.T, c *helpers.Client) string {
	t.Helper()
	m := c.Mapper()
	mod, err := sigscan.LoadPEModule(m, helpers.ModuleName, helpers.ModuleBase)
	require.NoError(t, err)
	scanner, err := sigscan.NewScanner(m, mod)
	require.NoError(t, err)
	mem, err := housing.Init(scanner, memacc.NewReader(m), housing.DefaultSignatures(), nil, nil)
	require.NoError(t, err)

	d, skipped, err := dump.Capture(m, mod, mem.Footprint(), "lister test")
	require.NoError(t, err)
	require.Empty(t, skipped)
	dir := filepath.Join(t.TempDir(), "dump")
	require.NoError(t, dump.Write(dir, d))
	return dir
}

func TestRun_Dump(t *testing.T) {
	var out, logs bytes.Buffer
	err := Run(context.Background(), Config{
		DumpDir:      writeDump(t, outdoorClient()),
		Catalogue:    testCatalogue(t),
		OutputWriter: &out,
		LogWriter:    &logs,
	})
	require.NoError(t, err)

	got := out.String()
	require.Contains(t, got, "Zone: Outdoors\n")
	require.Contains(t, got, "Territory: 339\n")
	require.Contains(t, got, "Plot 1 (placard 2000, large)\n")
	require.Contains(t, got, "Manor Exterior Set A (Snow White #E4DFD0)")
	require.Contains(t, got, "Objects: 1 of 2\n")
	require.Contains(t, got, "      3.00  Oak Table (Snow White #E4DFD0)\n")
	require.Contains(t, logs.String(), "HousingModuleBase at")
}

func TestRun_CaptureRoundTrip(t *testing.T) {
	src := writeDump(t, outdoorClient())
	dst := filepath.Join(t.TempDir(), "again")

	var first, second bytes.Buffer
	require.NoError(t, Run(context.Background(), Config{DumpDir: src, CaptureDir: dst, OutputWriter: &first, LogWriter: &bytes.Buffer{}}))
	require.NoError(t, Run(context.Background(), Config{DumpDir: dst, OutputWriter: &second, LogWriter: &bytes.Buffer{}}))
	require.Equal(t, first.String(), second.String())
}

func TestRun_RenderDistanceOverride(t *testing.T) {
	var out bytes.Buffer
	unlimited := float32(0)
	err := Run(context.Background(), Config{
		DumpDir:        writeDump(t, outdoorClient()),
		RenderDistance: &unlimited,
		OutputWriter:   &out,
		LogWriter:      &bytes.Buffer{},
	})
	require.NoError(t, err)
	require.Contains(t, out.String(), "Objects: 2 of 2\n")
	require.Contains(t, out.String(), "unknown [99]")
}

func TestRun_Unresolved(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "housedump.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`signatures:
  housing_module:
    pattern: "DE AD BE EF"
  layout_world:
    pattern: "DE AD BE EF"
`), 0o600))

	var out bytes.Buffer
	err := Run(context.Background(), Config{
		ConfigPath:   cfgPath,
		DumpDir:      writeDump(t, outdoorClient()),
		OutputWriter: &out,
		LogWriter:    &bytes.Buffer{},
	})
	require.ErrorIs(t, err, housing.ErrPatternNotFound)
	require.Equal(t, "Housing memory unavailable: signatures not resolved\n", out.String())
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"bad sort", Config{DumpDir: "unused", SortType: "size"}, config.ErrInvalid},
		{"missing dump", Config{DumpDir: filepath.Join(t.TempDir(), "none")}, dump.ErrNoDump},
		{"missing catalogue", Config{DumpDir: "unused", Catalogue: filepath.Join(t.TempDir(), "none.db")}, catalogue.ErrNoCatalogue},
		{"no process", Config{}, ErrNoTarget},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.OutputWriter = &bytes.Buffer{}
			tt.cfg.LogWriter = &bytes.Buffer{}
			err := Run(context.Background(), tt.cfg)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRun_LiveModuleMissing(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("live process access is exercised on linux")
	}
	err := Run(context.Background(), Config{
		PID:          os.Getpid(),
		OutputWriter: &bytes.Buffer{},
		LogWriter:    &bytes.Buffer{},
	})
	require.ErrorIs(t, err, process.ErrModuleNotFound)
}

func TestReadProcess_OutsideUserSpace(t *testing.T) {
	acc := memacc.NewCBAccessor(userSpaceStart, userSpaceEnd)
	acc.SetCB(readProcess, (*process.Process)(nil))
	m := memacc.NewMapper()
	require.NoError(t, m.AddAccessor(acc))
	_, ok := memacc.NewReader(m).U64(0xFFFF800000000000)
	require.False(t, ok)
}
