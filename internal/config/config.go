// Package config loads alignment settings from a TOML file.
//
// Example:
//
//	[scoring]
//	preset = "blast"
//	gap_extend = -1
//
//	[align]
//	mode = "semi-global"
//	line_width = 80
//	threads = 4
package config

import (
	"io"
	"os"

	"github.com/aria-lang/bioalign-go/internal/alignment"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Defaults
const (
	DefaultPreset  = "dna"
	DefaultMode    = "local"
	DefaultThreads = 1
)

// Scoring selects a preset and optionally overrides single parameters.
// A nil field keeps the preset's value.
type Scoring struct {
	Preset    string `toml:"preset" json:"preset,omitempty"`
	Match     *int   `toml:"match" json:"match,omitempty"`
	Mismatch  *int   `toml:"mismatch" json:"mismatch,omitempty"`
	GapOpen   *int   `toml:"gap_open" json:"gap_open,omitempty"`
	GapExtend *int   `toml:"gap_extend" json:"gap_extend,omitempty"`
}

// Align holds run settings.
type Align struct {
	Mode      string `toml:"mode"`
	LineWidth int    `toml:"line_width"`
	Threads   int    `toml:"threads"`
}

// Config is the whole file.
type Config struct {
	Scoring Scoring `toml:"scoring"`
	Align   Align   `toml:"align"`
}

// Default returns the settings used without a config file.
func Default() *Config {
	return &Config{
		Scoring: Scoring{Preset: DefaultPreset},
		Align: Align{
			Mode:      DefaultMode,
			LineWidth: alignment.DefaultLineWidth,
			Threads:   DefaultThreads,
		},
	}
}

// Load reads a config file; "~" is expanded. Keys missing from the file
// keep their defaults, unknown keys are an error.
func Load(path string) (*Config, error) {
	file, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Wrapf(err, "expanding %s", path)
	}

	fh, err := os.Open(file)
	if err != nil {
		return nil, errors.Wrap(err, "opening config")
	}
	defer fh.Close()

	cfg, err := Parse(fh)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", file)
	}
	return cfg, nil
}

// Parse decodes TOML from r on top of Default and validates the result.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, errors.Wrap(err, "decoding toml")
	}

	if _, err := cfg.ScoringMatrix(); err != nil {
		return nil, err
	}
	if _, err := cfg.AlignmentType(); err != nil {
		return nil, err
	}
	if cfg.Align.LineWidth < 0 {
		return nil, errors.Wrapf(alignment.ErrInvalidLineWidth, "%d", cfg.Align.LineWidth)
	}
	if cfg.Align.Threads < 1 {
		cfg.Align.Threads = DefaultThreads
	}
	return cfg, nil
}

// ScoringMatrix resolves the configured scoring.
func (c *Config) ScoringMatrix() (*alignment.ScoringMatrix, error) {
	return c.Scoring.Matrix()
}

// Matrix resolves the preset (DefaultPreset when empty) and applies
// overrides. HTTP requests reuse this for their optional scoring object.
func (sc Scoring) Matrix() (*alignment.ScoringMatrix, error) {
	preset := sc.Preset
	if preset == "" {
		preset = DefaultPreset
	}
	s, err := alignment.Preset(preset)
	if err != nil {
		return nil, err
	}

	if sc.Match != nil {
		s.MatchScore = *sc.Match
	}
	if sc.Mismatch != nil {
		s.MismatchPenalty = *sc.Mismatch
	}
	if sc.GapOpen != nil {
		s.GapOpenPenalty = *sc.GapOpen
	}
	if sc.GapExtend != nil {
		s.GapExtendPenalty = *sc.GapExtend
	}

	return alignment.NewScoringMatrix(s.MatchScore, s.MismatchPenalty, s.GapOpenPenalty, s.GapExtendPenalty)
}

// AlignmentType parses Align.Mode.
func (c *Config) AlignmentType() (alignment.AlignmentType, error) {
	if c.Align.Mode == "" {
		return alignment.ParseAlignmentType(DefaultMode)
	}
	return alignment.ParseAlignmentType(c.Align.Mode)
}
