package alignment

import (
	"fmt"

	"github.com/pkg/errors"
)

type columnKind uint8

const (
	columnMatch columnKind = iota
	columnMismatch
	columnGap
)

// classify is the single column rule shared by statistics, the match
// display and CIGAR output: any gap wins, then equality.
func classify(b1, b2 byte) columnKind {
	switch {
	case b1 == GapSymbol || b2 == GapSymbol:
		return columnGap
	case b1 == b2:
		return columnMatch
	default:
		return columnMismatch
	}
}

// Statistics holds column counts of an alignment and the percentages
// derived from them. Percentages are 0 for a zero-length alignment.
type Statistics struct {
	Matches     int     `json:"matches"`
	Mismatches  int     `json:"mismatches"`
	Gaps        int     `json:"gaps"`
	GapOpenings int     `json:"gap_openings"`
	Length      int     `json:"length"`
	Identity    float64 `json:"identity"`
	Similarity  float64 `json:"similarity"`
	GapPercent  float64 `json:"gap_percent"`
}

// CalculateStatistics scans an alignment column by column.
func CalculateStatistics(a *Alignment) (*Statistics, error) {
	if a == nil {
		return nil, ErrNilAlignment
	}
	return StatisticsOf(a.AlignedSeq1, a.AlignedSeq2)
}

// StatisticsOf computes statistics for a pre-aligned pair of strings.
func StatisticsOf(aligned1, aligned2 string) (*Statistics, error) {
	if len(aligned1) != len(aligned2) {
		return nil, errors.Wrapf(ErrLengthMismatch, "%d vs %d", len(aligned1), len(aligned2))
	}

	s := &Statistics{Length: len(aligned1)}
	for i := 0; i < len(aligned1); i++ {
		switch classify(aligned1[i], aligned2[i]) {
		case columnMatch:
			s.Matches++
		case columnMismatch:
			s.Mismatches++
		default:
			s.Gaps++
		}
	}

	s.GapOpenings = gapOpenings(aligned1, aligned2)

	if s.Length > 0 {
		total := float64(s.Length)
		s.Identity = float64(s.Matches) / total * 100
		s.Similarity = float64(s.Matches+s.Mismatches) / total * 100
		s.GapPercent = float64(s.Gaps) / total * 100
	}
	return s, nil
}

func (s *Statistics) String() string {
	return fmt.Sprintf("Statistics { length: %d, matches: %d, mismatches: %d, gaps: %d, gap openings: %d, identity: %.1f%%, similarity: %.1f%%, gaps: %.1f%% }",
		s.Length, s.Matches, s.Mismatches, s.Gaps, s.GapOpenings, s.Identity, s.Similarity, s.GapPercent)
}

// gapOpenings counts runs of consecutive gap symbols, each row on its own.
// Rows must have equal length.
func gapOpenings(aligned1, aligned2 string) int {
	openings := 0
	inGap1, inGap2 := false, false
	for i := 0; i < len(aligned1); i++ {
		gap1, gap2 := aligned1[i] == GapSymbol, aligned2[i] == GapSymbol
		if gap1 && !inGap1 {
			openings++
		}
		if gap2 && !inGap2 {
			openings++
		}
		inGap1, inGap2 = gap1, gap2
	}
	return openings
}
