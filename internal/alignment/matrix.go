package alignment

import (
	"context"

	"github.com/pkg/errors"
)

// ProgressFunc receives the fraction of DP rows filled so far, in (0, 1].
type ProgressFunc func(done float64)

// policy captures what differs between the three modes: how the borders of
// the matrix are seeded, whether cells are floored at zero, and which cell
// traceback starts from. The recurrence itself is shared.
type policy struct {
	alignType  AlignmentType
	floorZero  bool
	initBorder func(mx *dpMatrix, scoring *ScoringMatrix)
	endCell    func(mx *dpMatrix) (i, j int)
}

var policies = map[AlignmentType]policy{
	Global: {
		alignType:  Global,
		initBorder: initGlobalBorder,
		endCell:    func(mx *dpMatrix) (int, int) { return mx.m, mx.n },
	},
	Local: {
		alignType:  Local,
		floorZero:  true,
		initBorder: func(*dpMatrix, *ScoringMatrix) {},
		endCell:    maxCellRowMajor,
	},
	SemiGlobal: {
		alignType:  SemiGlobal,
		initBorder: initSemiGlobalBorder,
		endCell:    maxCellLastRow,
	},
}

func policyFor(t AlignmentType) (policy, error) {
	p, ok := policies[t]
	if !ok {
		return policy{}, errors.Wrapf(ErrUnknownAlignmentType, "%d", int(t))
	}
	return p, nil
}

// dpMatrix is the (m+1)x(n+1) score grid plus the direction each cell's
// value came from. It lives for a single alignment call.
type dpMatrix struct {
	m, n  int
	score [][]int
	dir   [][]AlignDirection
}

func newMatrix(m, n int) *dpMatrix {
	mx := &dpMatrix{m: m, n: n}
	mx.score = make([][]int, m+1)
	mx.dir = make([][]AlignDirection, m+1)
	for i := range mx.score {
		mx.score[i] = make([]int, n+1)
		mx.dir[i] = make([]AlignDirection, n+1)
	}
	return mx
}

// initGlobalBorder charges gapOpen once on leaving the origin and gapExtend
// for every step along row 0 and column 0.
func initGlobalBorder(mx *dpMatrix, scoring *ScoringMatrix) {
	for i := 1; i <= mx.m; i++ {
		mx.score[i][0] = scoring.GapOpenPenalty + i*scoring.GapExtendPenalty
		mx.dir[i][0] = Up
	}
	for j := 1; j <= mx.n; j++ {
		mx.score[0][j] = scoring.GapOpenPenalty + j*scoring.GapExtendPenalty
		mx.dir[0][j] = Left
	}
}

// initSemiGlobalBorder leaves row 0 at zero (free leading reference) but
// still charges every leading query row.
func initSemiGlobalBorder(mx *dpMatrix, scoring *ScoringMatrix) {
	for i := 1; i <= mx.m; i++ {
		mx.score[i][0] = i * scoring.GapExtendPenalty
		mx.dir[i][0] = Up
	}
	for j := 1; j <= mx.n; j++ {
		mx.dir[0][j] = Left
	}
}

// maxCellRowMajor returns the first maximal cell of a row-major scan.
// (0, 0) is returned when no cell is positive.
func maxCellRowMajor(mx *dpMatrix) (int, int) {
	best, bi, bj := 0, 0, 0
	for i := 1; i <= mx.m; i++ {
		row := mx.score[i]
		for j := 1; j <= mx.n; j++ {
			if row[j] > best {
				best, bi, bj = row[j], i, j
			}
		}
	}
	return bi, bj
}

// maxCellLastRow returns the leftmost maximal cell of row m.
func maxCellLastRow(mx *dpMatrix) (int, int) {
	last := mx.score[mx.m]
	bj := 0
	for j := 1; j <= mx.n; j++ {
		if last[j] > last[bj] {
			bj = j
		}
	}
	return mx.m, bj
}

// fill seeds the borders and fills the interior with
//
//	score[i][j] = max(diag, up, left)      (and 0 for local)
//
// where both gap moves cost GapExtendPenalty. Ties prefer diagonal, then up,
// then left; in local mode a cell that cannot beat zero becomes Stop.
// Cancellation is checked once per row.
func fill(ctx context.Context, p policy, s1, s2 string, scoring *ScoringMatrix,
	progress ProgressFunc) (*dpMatrix, error) {
	m, n := len(s1), len(s2)
	mx := newMatrix(m, n)
	p.initBorder(mx, scoring)

	gap := scoring.GapExtendPenalty
	for i := 1; i <= m; i++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "filling row %d of %d", i, m)
		}

		prev, cur := mx.score[i-1], mx.score[i]
		dirs := mx.dir[i]
		b1 := s1[i-1]
		for j := 1; j <= n; j++ {
			diag := prev[j-1] + scoring.Score(b1, s2[j-1])
			up := prev[j] + gap
			left := cur[j-1] + gap

			best := diag
			direction := Diagonal
			if up > best {
				best = up
				direction = Up
			}
			if left > best {
				best = left
				direction = Left
			}
			if p.floorZero && best <= 0 {
				best = 0
				direction = Stop
			}

			cur[j] = best
			dirs[j] = direction
		}

		if progress != nil {
			progress(float64(i) / float64(m))
		}
	}

	return mx, nil
}

// traceback walks from (i, j) until it reaches a Stop cell, emitting columns
// in reverse order and reversing once at the end. It returns the aligned
// pair and the cell where it stopped.
func (mx *dpMatrix) traceback(s1, s2 string, i, j int) (string, string, int, int) {
	a1 := make([]byte, 0, i+j)
	a2 := make([]byte, 0, i+j)

	for mx.dir[i][j] != Stop {
		switch mx.dir[i][j] {
		case Diagonal:
			a1 = append(a1, s1[i-1])
			a2 = append(a2, s2[j-1])
			i--
			j--
		case Up:
			a1 = append(a1, s1[i-1])
			a2 = append(a2, GapSymbol)
			i--
		case Left:
			a1 = append(a1, GapSymbol)
			a2 = append(a2, s2[j-1])
			j--
		}
	}

	reverseBytes(a1)
	reverseBytes(a2)
	return string(a1), string(a2), i, j
}

func reverseBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
