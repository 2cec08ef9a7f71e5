package alignment

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// GapSymbol is the only character used for gap columns in aligned output.
const GapSymbol = '-'

// Alignment represents the result of an alignment between two sequences.
//
// AlignedSeq1 and AlignedSeq2 always have equal length. Start/End are
// 0-based inclusive positions in the original, ungapped inputs; an empty
// span is reported as Start 0, End -1.
type Alignment struct {
	AlignedSeq1   string
	AlignedSeq2   string
	Score         int
	Start1        int
	End1          int
	Start2        int
	End2          int
	AlignmentType AlignmentType
}

// Empty returns the zero result of the given type, used when an input is
// empty or a local alignment finds no positive-scoring pair.
func Empty(alignType AlignmentType) *Alignment {
	return &Alignment{
		Start1:        0,
		End1:          -1,
		Start2:        0,
		End2:          -1,
		AlignmentType: alignType,
	}
}

// NewAlignment creates an alignment whose span covers every residue of both
// aligned strings.
func NewAlignment(aligned1, aligned2 string, score int, alignType AlignmentType) (*Alignment, error) {
	return NewAlignmentWithPositions(aligned1, aligned2, score,
		0, residues(aligned1)-1, 0, residues(aligned2)-1, alignType)
}

// NewAlignmentWithPositions creates an alignment with position information.
func NewAlignmentWithPositions(aligned1, aligned2 string, score int,
	start1, end1, start2, end2 int, alignType AlignmentType) (*Alignment, error) {
	if len(aligned1) != len(aligned2) {
		return nil, errors.Wrapf(ErrLengthMismatch, "%d vs %d", len(aligned1), len(aligned2))
	}

	return &Alignment{
		AlignedSeq1:   aligned1,
		AlignedSeq2:   aligned2,
		Score:         score,
		Start1:        start1,
		End1:          end1,
		Start2:        start2,
		End2:          end2,
		AlignmentType: alignType,
	}, nil
}

// residues counts the non-gap symbols of an aligned string.
func residues(aligned string) int {
	return len(aligned) - strings.Count(aligned, string(GapSymbol))
}

// Length returns the length of the alignment.
func (a *Alignment) Length() int {
	return len(a.AlignedSeq1)
}

// IsEmpty reports whether the alignment has no columns.
func (a *Alignment) IsEmpty() bool {
	return len(a.AlignedSeq1) == 0
}

// Identity returns matches divided by alignment length, in [0, 1].
func (a *Alignment) Identity() float64 {
	if len(a.AlignedSeq1) == 0 {
		return 0.0
	}
	return float64(a.MatchCount()) / float64(len(a.AlignedSeq1))
}

// MatchCount returns the number of matches.
func (a *Alignment) MatchCount() int {
	count := 0
	for i := 0; i < len(a.AlignedSeq1); i++ {
		if classify(a.AlignedSeq1[i], a.AlignedSeq2[i]) == columnMatch {
			count++
		}
	}
	return count
}

// MismatchCount returns the number of mismatches.
func (a *Alignment) MismatchCount() int {
	count := 0
	for i := 0; i < len(a.AlignedSeq1); i++ {
		if classify(a.AlignedSeq1[i], a.AlignedSeq2[i]) == columnMismatch {
			count++
		}
	}
	return count
}

// GapsSeq1 returns the number of gaps in sequence 1.
func (a *Alignment) GapsSeq1() int {
	return strings.Count(a.AlignedSeq1, string(GapSymbol))
}

// GapsSeq2 returns the number of gaps in sequence 2.
func (a *Alignment) GapsSeq2() int {
	return strings.Count(a.AlignedSeq2, string(GapSymbol))
}

// TotalGaps returns the total number of gap symbols on both rows.
func (a *Alignment) TotalGaps() int {
	return a.GapsSeq1() + a.GapsSeq2()
}

// GapOpenings counts runs of consecutive gaps on either row.
func (a *Alignment) GapOpenings() int {
	return gapOpenings(a.AlignedSeq1, a.AlignedSeq2)
}

// ToCIGAR generates an extended CIGAR string with sequence 1 as the query:
// a gap in sequence 2 is an insertion, a gap in sequence 1 a deletion.
func (a *Alignment) ToCIGAR() string {
	if len(a.AlignedSeq1) == 0 {
		return ""
	}

	var cigar strings.Builder
	currentOp := byte(0)
	count := 0

	for i := 0; i < len(a.AlignedSeq1); i++ {
		var op byte
		switch classify(a.AlignedSeq1[i], a.AlignedSeq2[i]) {
		case columnMatch:
			op = 'M'
		case columnMismatch:
			op = 'X'
		default:
			if a.AlignedSeq1[i] == GapSymbol {
				op = 'D'
			} else {
				op = 'I'
			}
		}

		if op == currentOp {
			count++
		} else {
			if count > 0 {
				fmt.Fprintf(&cigar, "%d%c", count, currentOp)
			}
			currentOp = op
			count = 1
		}
	}

	if count > 0 {
		fmt.Fprintf(&cigar, "%d%c", count, currentOp)
	}

	return cigar.String()
}

// Format returns the match display followed by a short summary.
func (a *Alignment) Format() string {
	block, err := FormatAlignment(a, DefaultLineWidth)
	if err != nil {
		return err.Error()
	}

	return fmt.Sprintf("%s\nType: %s\nScore: %d\nSeq1: %d-%d  Seq2: %d-%d\nIdentity: %.1f%%\nCIGAR: %s",
		block, a.AlignmentType, a.Score,
		a.Start1, a.End1, a.Start2, a.End2,
		a.Identity()*100, a.ToCIGAR())
}

func (a *Alignment) String() string {
	return fmt.Sprintf("Alignment { type: %s, score: %d, identity: %.1f%%, length: %d }",
		a.AlignmentType, a.Score, a.Identity()*100, a.Length())
}
