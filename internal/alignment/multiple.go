package alignment

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// consensusAlphabet is also the tie-break order of the consensus vote.
const consensusAlphabet = "ACGT"

// MultipleAlignment is a reference-star alignment: every row was aligned
// to the reference on its own and right-padded with gaps to a common width.
// Gap columns inserted for different rows are not reconciled, so this is
// an approximation rather than a jointly consistent alignment.
type MultipleAlignment struct {
	Rows      []string `json:"rows"`
	Consensus string   `json:"consensus"`
	Score     int      `json:"score"`
}

// MultipleAlign builds a reference-star alignment with seqs[0] as the
// reference. Row 0 is the reference itself; row k is the aligned copy of
// seqs[k] from a global alignment against the reference. Score is the sum
// of those pairwise scores.
func MultipleAlign(seqs []string, scoring *ScoringMatrix) (*MultipleAlignment, error) {
	al, err := NewAligner(scoring)
	if err != nil {
		return nil, err
	}
	return al.MultipleAlign(context.Background(), seqs)
}

// MultipleAlign is the context-aware form of the package-level MultipleAlign.
func (al *Aligner) MultipleAlign(ctx context.Context, seqs []string) (*MultipleAlignment, error) {
	if len(seqs) == 0 {
		return nil, ErrNoSequences
	}

	ref := seqs[0]
	if len(seqs) == 1 {
		return &MultipleAlignment{Rows: []string{ref}, Consensus: ref}, nil
	}

	others := seqs[1:]
	pairs, err := al.fanOut(ctx, len(others), func(ctx context.Context, k int) (*Alignment, error) {
		return al.align(ctx, Global, ref, others[k], nil)
	})
	if err != nil {
		return nil, errors.Wrap(err, "multiple alignment")
	}

	rows := make([]string, len(seqs))
	rows[0] = ref
	score := 0
	for k, a := range pairs {
		rows[k+1] = a.AlignedSeq2
		score += a.Score
	}
	padRows(rows)

	return &MultipleAlignment{
		Rows:      rows,
		Consensus: consensus(rows),
		Score:     score,
	}, nil
}

// fanOut runs fn for k in [0, count) with at most al.threads calls in
// flight and returns the results by index. The first error cancels the
// remaining work. The lowest-index error that is not a cancellation is
// reported, so a failing call is not masked by the calls it cancelled.
func (al *Aligner) fanOut(ctx context.Context, count int,
	fn func(ctx context.Context, k int) (*Alignment, error)) ([]*Alignment, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]*Alignment, count)
	errs := make([]error, count)

	var mu sync.Mutex
	done := 0

	var wg sync.WaitGroup
	tokens := make(chan int, min(al.threads, count))
	for k := 0; k < count; k++ {
		tokens <- 1
		wg.Add(1)

		go func(k int) {
			defer func() {
				wg.Done()
				<-tokens
			}()

			results[k], errs[k] = fn(ctx, k)
			if errs[k] != nil {
				cancel()
				return
			}

			if al.progress != nil {
				mu.Lock()
				done++
				al.progress(float64(done) / float64(count))
				mu.Unlock()
			}
		}(k)
	}
	wg.Wait()

	first := -1
	for k, err := range errs {
		if err == nil {
			continue
		}
		if !errors.Is(err, context.Canceled) {
			return nil, errors.Wrapf(err, "sequence %d", k+1)
		}
		if first < 0 {
			first = k
		}
	}
	if first >= 0 {
		return nil, errors.Wrapf(errs[first], "sequence %d", first+1)
	}
	return results, nil
}

// padRows right-pads every row with gaps to the longest row.
func padRows(rows []string) {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	for i, r := range rows {
		if len(r) < width {
			rows[i] = r + strings.Repeat(string(GapSymbol), width-len(r))
		}
	}
}

// consensus takes a majority vote over A, C, G and T in each column,
// ignoring gaps and any other symbol. Ties go to the earlier letter of
// consensusAlphabet; a column with no vote becomes a gap.
func consensus(rows []string) string {
	if len(rows) == 0 {
		return ""
	}

	out := make([]byte, len(rows[0]))
	var counts [len(consensusAlphabet)]int
	for col := range out {
		counts = [len(consensusAlphabet)]int{}
		for _, r := range rows {
			if idx := strings.IndexByte(consensusAlphabet, r[col]); idx >= 0 {
				counts[idx]++
			}
		}

		best := -1
		for idx, c := range counts {
			if c > 0 && (best < 0 || c > counts[best]) {
				best = idx
			}
		}
		if best < 0 {
			out[col] = GapSymbol
		} else {
			out[col] = consensusAlphabet[best]
		}
	}
	return string(out)
}

// Len returns the number of columns.
func (ma *MultipleAlignment) Len() int {
	if len(ma.Rows) == 0 {
		return 0
	}
	return len(ma.Rows[0])
}

// RowIdentities returns, for every row, the fraction of columns where the
// row carries the consensus symbol and neither side is a gap.
func (ma *MultipleAlignment) RowIdentities() []float64 {
	ids := make([]float64, len(ma.Rows))
	width := ma.Len()
	if width == 0 {
		return ids
	}

	for i, r := range ma.Rows {
		matches := 0
		for col := 0; col < width; col++ {
			if classify(r[col], ma.Consensus[col]) == columnMatch {
				matches++
			}
		}
		ids[i] = float64(matches) / float64(width)
	}
	return ids
}

// MeanIdentityToConsensus averages RowIdentities.
func (ma *MultipleAlignment) MeanIdentityToConsensus() float64 {
	if len(ma.Rows) == 0 {
		return 0
	}
	return stat.Mean(ma.RowIdentities(), nil)
}

func (ma *MultipleAlignment) String() string {
	var sb strings.Builder
	for i, r := range ma.Rows {
		fmt.Fprintf(&sb, "%4d  %s\n", i, r)
	}
	fmt.Fprintf(&sb, "cons  %s\n", ma.Consensus)
	fmt.Fprintf(&sb, "score %d", ma.Score)
	return sb.String()
}
