// Package alignment provides pairwise and reference-star multiple sequence
// alignment.
//
// Three pairwise modes share one dynamic-programming driver: global
// (Needleman-Wunsch style), local (Smith-Waterman) and semi-global
// (query against a reference with free reference overhangs).
package alignment

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// AlignDirection represents the traceback direction in the alignment matrix.
type AlignDirection uint8

const (
	// Stop marks a cell traceback never leaves (origin, or a zero cell in local mode)
	Stop AlignDirection = iota
	// Diagonal represents a match or mismatch
	Diagonal
	// Up represents a gap in sequence 2
	Up
	// Left represents a gap in sequence 1
	Left
)

// AlignmentType represents the type of alignment.
type AlignmentType int

const (
	// Local represents Smith-Waterman local alignment
	Local AlignmentType = iota
	// Global represents Needleman-Wunsch global alignment
	Global
	// SemiGlobal aligns a full query with free overhangs on the reference
	SemiGlobal
)

func (t AlignmentType) String() string {
	switch t {
	case Local:
		return "local"
	case Global:
		return "global"
	case SemiGlobal:
		return "semi-global"
	default:
		return "unknown"
	}
}

// ParseAlignmentType parses the names produced by AlignmentType.String.
func ParseAlignmentType(s string) (AlignmentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "local":
		return Local, nil
	case "global":
		return Global, nil
	case "semi-global", "semiglobal":
		return SemiGlobal, nil
	}
	return 0, errors.Wrapf(ErrUnknownAlignmentType, "%q", s)
}

// ScoringMatrix represents the scoring parameters for alignment.
//
// GapOpenPenalty is only charged on the first step away from the matrix
// origin in global mode. Every other gap column costs GapExtendPenalty.
type ScoringMatrix struct {
	MatchScore       int `json:"match" toml:"match"`
	MismatchPenalty  int `json:"mismatch" toml:"mismatch"`
	GapOpenPenalty   int `json:"gap_open" toml:"gap_open"`
	GapExtendPenalty int `json:"gap_extend" toml:"gap_extend"`
}

// NewScoringMatrix creates a new scoring matrix with validation.
func NewScoringMatrix(match, mismatch, gapOpen, gapExtend int) (*ScoringMatrix, error) {
	if match < 0 {
		return nil, errors.Wrap(ErrInvalidScoring, "match score should be >= 0")
	}
	if mismatch > 0 {
		return nil, errors.Wrap(ErrInvalidScoring, "mismatch penalty should be <= 0")
	}
	if gapOpen > 0 {
		return nil, errors.Wrap(ErrInvalidScoring, "gap open penalty should be <= 0")
	}
	if gapExtend > 0 {
		return nil, errors.Wrap(ErrInvalidScoring, "gap extend penalty should be <= 0")
	}

	return &ScoringMatrix{
		MatchScore:       match,
		MismatchPenalty:  mismatch,
		GapOpenPenalty:   gapOpen,
		GapExtendPenalty: gapExtend,
	}, nil
}

// DefaultDNA creates a default DNA scoring matrix.
func DefaultDNA() *ScoringMatrix {
	return &ScoringMatrix{
		MatchScore:       2,
		MismatchPenalty:  -1,
		GapOpenPenalty:   -2,
		GapExtendPenalty: -1,
	}
}

// BLASTLike creates a BLAST-like scoring matrix.
func BLASTLike() *ScoringMatrix {
	return &ScoringMatrix{
		MatchScore:       1,
		MismatchPenalty:  -3,
		GapOpenPenalty:   -5,
		GapExtendPenalty: -2,
	}
}

// HighIdentity creates a scoring matrix that punishes any divergence hard,
// for comparing near-identical sequences.
func HighIdentity() *ScoringMatrix {
	return &ScoringMatrix{
		MatchScore:       1,
		MismatchPenalty:  -4,
		GapOpenPenalty:   -6,
		GapExtendPenalty: -3,
	}
}

// Simple creates a simple scoring matrix with uniform gap penalty.
func Simple(match, mismatch, gap int) (*ScoringMatrix, error) {
	return NewScoringMatrix(match, mismatch, gap, gap)
}

var presets = map[string]func() *ScoringMatrix{
	"dna":           DefaultDNA,
	"blast":         BLASTLike,
	"high-identity": HighIdentity,
}

// Preset returns a fresh copy of a named scoring preset.
func Preset(name string) (*ScoringMatrix, error) {
	fn, ok := presets[strings.ToLower(name)]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownPreset, "%q (available: %s)",
			name, strings.Join(PresetNames(), ", "))
	}
	return fn(), nil
}

// PresetNames lists the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Score returns the score for comparing two bases.
func (s *ScoringMatrix) Score(base1, base2 byte) int {
	if base1 == base2 {
		return s.MatchScore
	}
	return s.MismatchPenalty
}

// String returns a string representation of the scoring matrix.
func (s *ScoringMatrix) String() string {
	return fmt.Sprintf("ScoringMatrix { match: %d, mismatch: %d, gap_open: %d, gap_extend: %d }",
		s.MatchScore, s.MismatchPenalty, s.GapOpenPenalty, s.GapExtendPenalty)
}
