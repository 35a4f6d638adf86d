// Package config loads the housedump settings file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"housemem/common"
	"housemem/housing"
	"housemem/internal/sigscan"
)

const (
	SortDistance = "distance"
	SortName     = "name"

	DefaultModule         = "ffxiv_dx11.exe"
	DefaultRenderDistance = 10
)

var ErrInvalid = errors.New("invalid config")

// Signature is a signature as written in the file.
type Signature struct {
	Pattern string `yaml:"pattern"`
	Offset  int    `yaml:"offset"`
}

type Signatures struct {
	HousingModule Signature `yaml:"housing_module"`
	LayoutWorld   Signature `yaml:"layout_world"`
}

// Config holds every setting. Zero values are replaced by defaults on load.
type Config struct {
	Signatures     Signatures `yaml:"signatures"`
	RenderDistance float32    `yaml:"render_distance"`
	SortObjects    bool       `yaml:"sort_objects"`
	SortType       string     `yaml:"sort_type"`
	Catalogue      string     `yaml:"catalogue"`
	LogLevel       string     `yaml:"log_level"`
	Module         string     `yaml:"module"`
}

// Default returns the built-in settings.
func Default() Config {
	sigs := housing.DefaultSignatures()
	return Config{
		Signatures: Signatures{
			HousingModule: Signature{Pattern: sigs.HousingModule.Pattern, Offset: sigs.HousingModule.Offset},
			LayoutWorld:   Signature{Pattern: sigs.LayoutWorld.Pattern, Offset: sigs.LayoutWorld.Offset},
		},
		RenderDistance: DefaultRenderDistance,
		SortType:       SortDistance,
		LogLevel:       "info",
		Module:         DefaultModule,
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if len(bytes.TrimSpace(data)) != 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that decoding alone cannot.
func (c Config) Validate() error {
	var errs []error
	if c.SortType != SortDistance && c.SortType != SortName {
		errs = append(errs, fmt.Errorf("%w: sort_type %q, want %q or %q", ErrInvalid, c.SortType, SortDistance, SortName))
	}
	if c.RenderDistance < 0 {
		errs = append(errs, fmt.Errorf("%w: render_distance %v is negative", ErrInvalid, c.RenderDistance))
	}
	if _, err := common.ParseSeverity(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalid, err))
	}
	for name, sig := range map[string]Signature{"housing_module": c.Signatures.HousingModule, "layout_world": c.Signatures.LayoutWorld} {
		if _, err := sigscan.ParsePattern(sig.Pattern); err != nil {
			errs = append(errs, fmt.Errorf("%w: signatures.%s: %v", ErrInvalid, name, err))
		}
	}
	if c.Module == "" {
		errs = append(errs, fmt.Errorf("%w: module is empty", ErrInvalid))
	}
	return errors.Join(errs...)
}

// HousingSignatures converts the file signatures for the resolver.
func (c Config) HousingSignatures() housing.Signatures {
	return housing.Signatures{
		HousingModule: housing.Signature{Name: "HousingModule", Pattern: c.Signatures.HousingModule.Pattern, Offset: c.Signatures.HousingModule.Offset},
		LayoutWorld:   housing.Signature{Name: "LayoutWorld", Pattern: c.Signatures.LayoutWorld.Pattern, Offset: c.Signatures.LayoutWorld.Offset},
	}
}

// Severity returns the minimum log level.
func (c Config) Severity() common.Severity {
	s, err := common.ParseSeverity(c.LogLevel)
	if err != nil {
		return common.SeverityInfo
	}
	return s
}

// Marshal encodes c as YAML.
func (c Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
