// Package lister runs a housedump session: it opens a live client or an offline dump, resolves the
// housing structures and prints what it finds.
package lister

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"housemem/catalogue"
	"housemem/common"
	"housemem/housing"
	"housemem/internal/config"
	"housemem/internal/dump"
	"housemem/internal/memacc"
	"housemem/internal/process"
	"housemem/internal/report"
	"housemem/internal/sigscan"
)

var ErrNoTarget = errors.New("no target: give a pid, a process name or a dump directory")

// Config mirrors the command line arguments of housedump.
type Config struct {
	ConfigPath string // YAML settings, optional
	DumpDir    string // read an offline dump instead of a live process
	PID        int    // live process, 0 to look it up by module name
	CaptureDir string // write the decoded footprint as a dump
	Origin     housing.Vec3

	// Overrides of the settings file, applied when set.
	Catalogue      string
	SortType       string
	SortObjects    *bool
	RenderDistance *float32
	LogLevel       string

	OutputWriter io.Writer
	LogWriter    io.Writer
}

// target is an opened memory source.
type target struct {
	mem    memacc.Memory
	module sigscan.Module
	close  func() error
}

// Run executes one session.
func Run(ctx context.Context, cfg Config) error {
	w := cfg.OutputWriter
	if w == nil {
		w = os.Stdout
	}
	settings, err := loadSettings(cfg)
	if err != nil {
		return err
	}
	logw := cfg.LogWriter
	if logw == nil {
		logw = os.Stderr
	}
	logger := common.NewStdLoggerWithWriter(logw, logw, settings.Severity())

	var lookup catalogue.Lookup = catalogue.NewBuilder().Build()
	if settings.Catalogue != "" {
		c, err := catalogue.OpenSQLite(ctx, settings.Catalogue, logger.Named("catalogue"))
		if err != nil {
			return fmt.Errorf("failed to load catalogue: %w", err)
		}
		lookup = c
	}

	tgt, err := open(cfg, settings, logger)
	if err != nil {
		return err
	}
	defer func() { _ = tgt.close() }()

	scanner, err := sigscan.NewScanner(tgt.mem, tgt.module)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", tgt.module.Name, err)
	}
	mem, initErr := housing.Init(scanner, memacc.NewReader(tgt.mem), settings.HousingSignatures(), lookup, logger.Named("housing"))
	if !mem.Available() {
		// nothing to decode, the report says so
		return errors.Join(report.Write(w, mem, lookup, report.Options{}), initErr)
	}

	if cfg.CaptureDir != "" {
		if err := capture(cfg.CaptureDir, tgt, mem, logger); err != nil {
			return err
		}
	}

	return report.Write(w, mem, lookup, report.Options{
		Origin:         cfg.Origin,
		Sort:           settings.SortObjects,
		SortBy:         settings.SortType,
		RenderDistance: settings.RenderDistance,
	})
}

func loadSettings(cfg Config) (config.Config, error) {
	s, err := config.Load(cfg.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	if cfg.Catalogue != "" {
		s.Catalogue = cfg.Catalogue
	}
	if cfg.SortType != "" {
		s.SortType = cfg.SortType
	}
	if cfg.SortObjects != nil {
		s.SortObjects = *cfg.SortObjects
	}
	if cfg.RenderDistance != nil {
		s.RenderDistance = *cfg.RenderDistance
	}
	if cfg.LogLevel != "" {
		s.LogLevel = cfg.LogLevel
	}
	if err := s.Validate(); err != nil {
		return config.Config{}, err
	}
	return s, nil
}

func open(cfg Config, settings config.Config, logger common.Logger) (*target, error) {
	if cfg.DumpDir != "" {
		d, err := dump.Load(cfg.DumpDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read dump: %w", err)
		}
		m, err := d.Mapper()
		if err != nil {
			return nil, fmt.Errorf("failed to map dump: %w", err)
		}
		logger.Logf(common.SeverityInfo, "Reading dump %s (%s), %d regions", cfg.DumpDir, d.Description, len(d.Regions))
		return &target{mem: m, module: d.Module, close: func() error { return nil }}, nil
	}

	pid := cfg.PID
	if pid == 0 {
		if settings.Module == "" {
			return nil, ErrNoTarget
		}
		var err error
		if pid, err = process.FindProcess(settings.Module); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoTarget, err)
		}
	}
	p, err := process.Open(pid)
	if err != nil {
		return nil, err
	}
	mod, err := p.Module(settings.Module)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	logger.Logf(common.SeverityInfo, "Found %s in pid %d at %X", mod.Name, pid, mod.Base)

	acc := memacc.NewCBAccessor(userSpaceStart, userSpaceEnd)
	acc.SetCB(readProcess, p)
	m := memacc.NewMapper()
	if err := m.AddAccessor(acc); err != nil {
		_ = p.Close()
		return nil, err
	}
	image, err := sigscan.LoadPEModule(m, mod.Name, mod.Base)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return &target{mem: m, module: image, close: p.Close}, nil
}

// Pointers outside the user half of a 64-bit address space are never followed.
const (
	userSpaceStart = 0x10000
	userSpaceEnd   = 0x7FFFFFFFFFFF
)

func readProcess(ctx any, addr uint64, data []byte) (int, error) {
	return ctx.(*process.Process).ReadMemory(addr, data)
}

func capture(dir string, tgt *target, mem *housing.Memory, logger common.Logger) error {
	d, skipped, err := dump.Capture(tgt.mem, tgt.module, mem.Footprint(), "housedump capture of "+tgt.module.Name)
	if err != nil {
		return fmt.Errorf("failed to capture: %w", err)
	}
	for _, s := range skipped {
		logger.Logf(common.SeverityWarning, "skipped unreadable range %X+%X", s.Start, s.Size)
	}
	if err := dump.Write(dir, d); err != nil {
		return fmt.Errorf("failed to write dump: %w", err)
	}
	logger.Logf(common.SeverityInfo, "Wrote %d regions to %s", len(d.Regions), dir)
	return nil
}
