// Package bioflow provides a high-level API for DNA sequence alignment.
//
// This package exposes the alignment engine through validated sequences,
// taking care of nil checks and case normalisation.
//
// Example usage:
//
//	seq1, err := bioflow.NewSequence("ttacgtt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	seq2, _ := bioflow.NewSequence("GGACGTGG")
//
//	alignment, err := bioflow.Align(seq1, seq2)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(alignment.Format())
package bioflow

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aria-lang/bioalign-go/internal/alignment"
	"github.com/aria-lang/bioalign-go/internal/sequence"
	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seqio/fastx"
)

// Re-export types for convenience
type (
	Sequence          = sequence.Sequence
	Alignment         = alignment.Alignment
	AlignmentType     = alignment.AlignmentType
	ScoringMatrix     = alignment.ScoringMatrix
	Statistics        = alignment.Statistics
	MultipleAlignment = alignment.MultipleAlignment
)

// Alignment modes
const (
	Local      = alignment.Local
	Global     = alignment.Global
	SemiGlobal = alignment.SemiGlobal
)

// ErrNilSequence is returned when a nil *Sequence is passed in.
var ErrNilSequence = errors.New("sequence is nil")

// NewSequence creates a new DNA sequence.
func NewSequence(bases string) (*Sequence, error) {
	return sequence.New(bases)
}

// NewSequenceWithID creates a new sequence with an identifier.
func NewSequenceWithID(bases, id string) (*Sequence, error) {
	return sequence.WithID(bases, id)
}

func checkPair(seq1, seq2 *Sequence) error {
	if seq1 == nil {
		return errors.Wrap(ErrNilSequence, "sequence 1")
	}
	if seq2 == nil {
		return errors.Wrap(ErrNilSequence, "sequence 2")
	}
	return nil
}

// Align performs local alignment with the default DNA scoring.
func Align(seq1, seq2 *Sequence) (*Alignment, error) {
	return AlignWithScoring(Local, seq1, seq2, nil)
}

// AlignGlobal performs global alignment with the default DNA scoring.
func AlignGlobal(seq1, seq2 *Sequence) (*Alignment, error) {
	return AlignWithScoring(Global, seq1, seq2, nil)
}

// AlignSemiGlobal aligns query end to end inside ref with the default DNA
// scoring.
func AlignSemiGlobal(query, ref *Sequence) (*Alignment, error) {
	return AlignWithScoring(SemiGlobal, query, ref, nil)
}

// AlignWithScoring aligns in the given mode. A nil scoring selects
// DefaultScoring.
func AlignWithScoring(alignType AlignmentType, seq1, seq2 *Sequence, scoring *ScoringMatrix) (*Alignment, error) {
	return AlignContext(context.Background(), alignType, seq1, seq2, scoring)
}

// AlignContext is AlignWithScoring with cancellation.
func AlignContext(ctx context.Context, alignType AlignmentType, seq1, seq2 *Sequence,
	scoring *ScoringMatrix) (*Alignment, error) {
	if err := checkPair(seq1, seq2); err != nil {
		return nil, err
	}
	if scoring == nil {
		scoring = DefaultScoring()
	}

	al, err := alignment.NewAligner(scoring)
	if err != nil {
		return nil, err
	}
	return al.Align(ctx, alignType, seq1.Bases, seq2.Bases)
}

// StrandAlignment is the better of the forward and reverse-complement
// alignments of a query.
type StrandAlignment struct {
	*Alignment
	Reverse bool
}

// AlignBothStrands aligns seq1 and the reverse complement of seq1 against
// seq2 and keeps the higher score. The forward strand wins ties. When the
// reverse strand wins, the alignment coordinates refer to the reverse
// complement of seq1.
func AlignBothStrands(alignType AlignmentType, seq1, seq2 *Sequence, scoring *ScoringMatrix) (*StrandAlignment, error) {
	return AlignBothStrandsContext(context.Background(), alignType, seq1, seq2, scoring)
}

// AlignBothStrandsContext is AlignBothStrands with cancellation.
func AlignBothStrandsContext(ctx context.Context, alignType AlignmentType, seq1, seq2 *Sequence,
	scoring *ScoringMatrix) (*StrandAlignment, error) {
	forward, err := AlignContext(ctx, alignType, seq1, seq2, scoring)
	if err != nil {
		return nil, err
	}

	reverse, err := AlignContext(ctx, alignType, seq1.ReverseComplement(), seq2, scoring)
	if err != nil {
		return nil, errors.Wrap(err, "reverse strand")
	}

	if reverse.Score > forward.Score {
		return &StrandAlignment{Alignment: reverse, Reverse: true}, nil
	}
	return &StrandAlignment{Alignment: forward}, nil
}

// Score returns the alignment score without building the alignment.
func Score(alignType AlignmentType, seq1, seq2 *Sequence, scoring *ScoringMatrix) (int, error) {
	if err := checkPair(seq1, seq2); err != nil {
		return 0, err
	}
	if scoring == nil {
		scoring = DefaultScoring()
	}
	return alignment.ScoreOnly(alignType, seq1.Bases, seq2.Bases, scoring)
}

// CalculateStatistics summarises an alignment.
func CalculateStatistics(a *Alignment) (*Statistics, error) {
	return alignment.CalculateStatistics(a)
}

// StatisticsOf summarises an already aligned pair of rows.
func StatisticsOf(aligned1, aligned2 string) (*Statistics, error) {
	return alignment.StatisticsOf(aligned1, aligned2)
}

// Format renders an alignment as match-display blocks of lineWidth columns.
func Format(a *Alignment, lineWidth int) (string, error) {
	return alignment.FormatAlignment(a, lineWidth)
}

// FormatAligned renders an already aligned pair of rows.
func FormatAligned(aligned1, aligned2 string, lineWidth int) (string, error) {
	a, err := alignment.NewAlignment(aligned1, aligned2, 0, Global)
	if err != nil {
		return "", err
	}
	return alignment.FormatAlignment(a, lineWidth)
}

// MultipleAlign builds a reference-star alignment with sequences[0] as the
// reference. A nil scoring selects DefaultScoring.
func MultipleAlign(sequences []*Sequence, scoring *ScoringMatrix) (*MultipleAlignment, error) {
	return MultipleAlignContext(context.Background(), sequences, scoring, 1)
}

// MultipleAlignContext is MultipleAlign with cancellation, running up to
// threads pairwise alignments at once.
func MultipleAlignContext(ctx context.Context, sequences []*Sequence, scoring *ScoringMatrix,
	threads int) (*MultipleAlignment, error) {
	if len(sequences) == 0 {
		return nil, alignment.ErrNoSequences
	}
	if scoring == nil {
		scoring = DefaultScoring()
	}

	bases := make([]string, len(sequences))
	for i, s := range sequences {
		if s == nil {
			return nil, errors.Wrapf(ErrNilSequence, "sequence %d", i)
		}
		bases[i] = s.Bases
	}

	al, err := alignment.NewAligner(scoring, alignment.WithThreads(threads))
	if err != nil {
		return nil, err
	}
	return al.MultipleAlign(ctx, bases)
}

// DefaultScoring returns the default DNA scoring matrix.
func DefaultScoring() *ScoringMatrix {
	return alignment.DefaultDNA()
}

// Preset returns a named scoring preset.
func Preset(name string) (*ScoringMatrix, error) {
	return alignment.Preset(name)
}

// NewScoringMatrix creates a validated scoring matrix.
func NewScoringMatrix(match, mismatch, gapOpen, gapExtend int) (*ScoringMatrix, error) {
	return alignment.NewScoringMatrix(match, mismatch, gapOpen, gapExtend)
}

// ParseAlignmentType parses "local", "global" or "semi-global".
func ParseAlignmentType(s string) (AlignmentType, error) {
	return alignment.ParseAlignmentType(s)
}

// ReadFASTA reads sequences from a FASTA or FASTQ file, plain or
// compressed. "-" reads from stdin.
func ReadFASTA(filename string) ([]*Sequence, error) {
	if filename != "-" {
		if _, err := os.Stat(filename); err != nil {
			return nil, errors.Wrap(err, "opening file")
		}
	}

	reader, err := fastx.NewReader(nil, filename, "")
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", filename)
	}
	defer reader.Close()

	sequences := make([]*Sequence, 0)
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrapf(err, "reading %s", filename)
		}

		seq, err := sequence.WithMetadata(string(record.Seq.Seq), string(record.ID), string(record.Desc))
		if err != nil {
			return nil, errors.Wrapf(err, "record %s", record.ID)
		}
		sequences = append(sequences, seq)
	}

	return sequences, nil
}

// Version returns the bioalign version.
func Version() string {
	return "1.0.0"
}

// Info returns information about bioalign.
func Info() string {
	return fmt.Sprintf(`bioalign v%s - DNA Sequence Alignment

Features:
  - Global, local and semi-global pairwise alignment
  - Score-only alignment in linear memory
  - Reverse-complement search
  - Reference-star multiple alignment with consensus
  - Alignment statistics, match display and CIGAR
  - SAM export
  - FASTA/FASTQ input

For more information, see: https://github.com/aria-lang/bioalign-go
`, Version())
}
