package alignment

import "github.com/pkg/errors"

// ScoreOnly returns the score Align would report for the same inputs, using
// two rows of O(n) memory and no traceback.
func ScoreOnly(alignType AlignmentType, seq1, seq2 string, scoring *ScoringMatrix) (int, error) {
	if scoring == nil {
		return 0, ErrNilScoring
	}
	if _, err := policyFor(alignType); err != nil {
		return 0, err
	}
	if len(seq1) == 0 || len(seq2) == 0 {
		return 0, nil
	}

	m, n := len(seq1), len(seq2)
	gap := scoring.GapExtendPenalty

	prevRow := make([]int, n+1)
	currRow := make([]int, n+1)

	if alignType == Global {
		for j := 1; j <= n; j++ {
			prevRow[j] = scoring.GapOpenPenalty + j*gap
		}
	}

	maxScore := 0
	for i := 1; i <= m; i++ {
		switch alignType {
		case Global:
			currRow[0] = scoring.GapOpenPenalty + i*gap
		case SemiGlobal:
			currRow[0] = i * gap
		default:
			currRow[0] = 0
		}

		for j := 1; j <= n; j++ {
			diag := prevRow[j-1] + scoring.Score(seq1[i-1], seq2[j-1])
			up := prevRow[j] + gap
			left := currRow[j-1] + gap

			best := max(diag, up, left)
			if alignType == Local {
				best = max(0, best)
				if best > maxScore {
					maxScore = best
				}
			}
			currRow[j] = best
		}

		prevRow, currRow = currRow, prevRow
	}

	switch alignType {
	case Local:
		return maxScore, nil
	case SemiGlobal:
		best := prevRow[0]
		for _, v := range prevRow[1:] {
			if v > best {
				best = v
			}
		}
		return best, nil
	case Global:
		return prevRow[n], nil
	}
	return 0, errors.Wrapf(ErrUnknownAlignmentType, "%d", int(alignType))
}

