package alignment

import (
	"context"
	"runtime"

	"github.com/aria-lang/bioalign-go/internal/logutil"
	"github.com/pkg/errors"
)

// Aligner runs alignments with a fixed scoring model. It holds no mutable
// state, so one Aligner may serve concurrent callers.
type Aligner struct {
	scoring  ScoringMatrix
	progress ProgressFunc
	threads  int
}

// Option configures an Aligner.
type Option func(*Aligner)

// WithProgress installs a callback reporting the fraction of DP rows filled
// in pairwise runs, or the fraction of sequences aligned in MultipleAlign
// and AlignAgainstMultiple. Calls are serialised.
func WithProgress(fn ProgressFunc) Option {
	return func(al *Aligner) {
		al.progress = fn
	}
}

// WithThreads sets how many pairwise alignments MultipleAlign and
// AlignAgainstMultiple may run at once. Values below 1 mean 1 and values
// above runtime.NumCPU() are capped there.
func WithThreads(n int) Option {
	return func(al *Aligner) {
		al.threads = min(max(n, 1), runtime.NumCPU())
	}
}

// NewAligner creates an Aligner. The scoring model is copied.
func NewAligner(scoring *ScoringMatrix, opts ...Option) (*Aligner, error) {
	if scoring == nil {
		return nil, ErrNilScoring
	}

	al := &Aligner{scoring: *scoring, threads: 1}
	for _, opt := range opts {
		opt(al)
	}
	return al, nil
}

// Scoring returns a copy of the scoring model.
func (al *Aligner) Scoring() ScoringMatrix {
	return al.scoring
}

// Align aligns seq1 against seq2 in the given mode. Inputs are used as-is:
// callers normalise case and validate the alphabet beforehand. An empty
// input yields Empty(alignType).
func (al *Aligner) Align(ctx context.Context, alignType AlignmentType, seq1, seq2 string) (*Alignment, error) {
	return al.align(ctx, alignType, seq1, seq2, al.progress)
}

func (al *Aligner) align(ctx context.Context, alignType AlignmentType, seq1, seq2 string,
	progress ProgressFunc) (*Alignment, error) {
	p, err := policyFor(alignType)
	if err != nil {
		return nil, err
	}

	if len(seq1) == 0 || len(seq2) == 0 {
		return Empty(alignType), nil
	}

	m, n := len(seq1), len(seq2)
	logutil.Log.Debugf("%s alignment: filling %dx%d matrix", alignType, m+1, n+1)

	mx, err := fill(ctx, p, seq1, seq2, &al.scoring, progress)
	if err != nil {
		return nil, errors.Wrapf(err, "%s alignment", alignType)
	}

	endI, endJ := p.endCell(mx)
	score := mx.score[endI][endJ]
	logutil.Log.Debugf("%s alignment: traceback from (%d, %d), score %d", alignType, endI, endJ, score)

	switch alignType {
	case Local:
		if score <= 0 {
			return Empty(Local), nil
		}
		aligned1, aligned2, startI, startJ := mx.traceback(seq1, seq2, endI, endJ)
		return NewAlignmentWithPositions(aligned1, aligned2, score,
			startI, endI-1, startJ, endJ-1, Local)

	case SemiGlobal:
		aligned1, aligned2, _, _ := mx.traceback(seq1, seq2, endI, endJ)

		// leading columns opposite gaps in the query are the free reference overhang
		overhang := 0
		for overhang < len(aligned1) && aligned1[overhang] == GapSymbol {
			overhang++
		}

		tail := n - endJ
		if tail > 0 {
			aligned1 += string(gapRun(tail))
			aligned2 += seq2[endJ:]
		}
		return NewAlignmentWithPositions(aligned1, aligned2, score,
			0, m-1, overhang, endJ-1, SemiGlobal)

	default:
		aligned1, aligned2, _, _ := mx.traceback(seq1, seq2, endI, endJ)
		return NewAlignmentWithPositions(aligned1, aligned2, score,
			0, m-1, 0, n-1, Global)
	}
}

func gapRun(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = GapSymbol
	}
	return b
}

// GlobalAlign aligns seq1 and seq2 end to end.
func GlobalAlign(seq1, seq2 string, scoring *ScoringMatrix) (*Alignment, error) {
	return alignOnce(Global, seq1, seq2, scoring)
}

// LocalAlign finds the best-scoring pair of substrings of seq1 and seq2.
func LocalAlign(seq1, seq2 string, scoring *ScoringMatrix) (*Alignment, error) {
	return alignOnce(Local, seq1, seq2, scoring)
}

// SemiGlobalAlign aligns the whole of seq1 (the query) inside seq2 (the
// reference) without charging reference overhangs at either end. Both
// returned rows span the full reference.
func SemiGlobalAlign(seq1, seq2 string, scoring *ScoringMatrix) (*Alignment, error) {
	return alignOnce(SemiGlobal, seq1, seq2, scoring)
}

// Align dispatches to the pairwise mode named by alignType.
func Align(alignType AlignmentType, seq1, seq2 string, scoring *ScoringMatrix) (*Alignment, error) {
	return alignOnce(alignType, seq1, seq2, scoring)
}

func alignOnce(alignType AlignmentType, seq1, seq2 string, scoring *ScoringMatrix) (*Alignment, error) {
	al, err := NewAligner(scoring)
	if err != nil {
		return nil, err
	}
	return al.Align(context.Background(), alignType, seq1, seq2)
}

// IndexedAlignment pairs an alignment with its index.
type IndexedAlignment struct {
	Index     int
	Alignment *Alignment
}

// AlignAgainstMultiple aligns a query against every target, returning the
// results in target order.
func (al *Aligner) AlignAgainstMultiple(ctx context.Context, alignType AlignmentType,
	query string, targets []string) ([]IndexedAlignment, error) {
	if len(targets) == 0 {
		return nil, errors.Wrap(ErrNoSequences, "targets")
	}

	alignments, err := al.fanOut(ctx, len(targets), func(ctx context.Context, k int) (*Alignment, error) {
		return al.align(ctx, alignType, query, targets[k], nil)
	})
	if err != nil {
		return nil, err
	}

	results := make([]IndexedAlignment, len(targets))
	for i, a := range alignments {
		results[i] = IndexedAlignment{Index: i, Alignment: a}
	}
	return results, nil
}

// FindBestAlignment returns the highest-scoring target; the earliest target
// wins ties.
func (al *Aligner) FindBestAlignment(ctx context.Context, alignType AlignmentType,
	query string, targets []string) (*IndexedAlignment, error) {
	alignments, err := al.AlignAgainstMultiple(ctx, alignType, query, targets)
	if err != nil {
		return nil, err
	}

	best := alignments[0]
	for _, a := range alignments[1:] {
		if a.Alignment.Score > best.Alignment.Score {
			best = a
		}
	}
	return &best, nil
}
