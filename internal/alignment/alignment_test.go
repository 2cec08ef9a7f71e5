package alignment

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unit scoring: match 1, mismatch -1, gap open -2, gap extend -1
func unit() *ScoringMatrix {
	return &ScoringMatrix{MatchScore: 1, MismatchPenalty: -1, GapOpenPenalty: -2, GapExtendPenalty: -1}
}

func ungap(s string) string {
	return strings.ReplaceAll(s, string(GapSymbol), "")
}

func randomDNA(r *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = "ACGT"[r.Intn(4)]
	}
	return string(b)
}

func TestScoringMatrix(t *testing.T) {
	t.Run("DefaultDNA", func(t *testing.T) {
		s := DefaultDNA()
		assert.Equal(t, 2, s.MatchScore)
		assert.Equal(t, -1, s.MismatchPenalty)
		assert.Equal(t, -2, s.GapOpenPenalty)
		assert.Equal(t, -1, s.GapExtendPenalty)
	})

	t.Run("BLASTLike", func(t *testing.T) {
		s := BLASTLike()
		assert.Equal(t, 1, s.MatchScore)
		assert.Equal(t, -3, s.MismatchPenalty)
	})

	t.Run("HighIdentity", func(t *testing.T) {
		s := HighIdentity()
		assert.Equal(t, 1, s.MatchScore)
		assert.Equal(t, -4, s.MismatchPenalty)
	})

	t.Run("Score match", func(t *testing.T) {
		assert.Equal(t, 2, DefaultDNA().Score('A', 'A'))
	})

	t.Run("Score mismatch", func(t *testing.T) {
		assert.Equal(t, -1, DefaultDNA().Score('A', 'T'))
	})

	t.Run("Invalid scoring matrix", func(t *testing.T) {
		_, err := NewScoringMatrix(-1, -1, -2, -1)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidScoring))

		_, err = NewScoringMatrix(2, 1, -2, -1)
		require.Error(t, err)

		_, err = Simple(1, -1, 2)
		require.Error(t, err)
	})

	t.Run("Zero match score", func(t *testing.T) {
		s, err := NewScoringMatrix(0, -1, -2, -1)
		require.NoError(t, err)
		assert.Equal(t, 0, s.Score('A', 'A'))
	})

	t.Run("Presets", func(t *testing.T) {
		assert.Equal(t, []string{"blast", "dna", "high-identity"}, PresetNames())

		s, err := Preset("BLAST")
		require.NoError(t, err)
		assert.Equal(t, *BLASTLike(), *s)

		_, err = Preset("blosum62")
		assert.True(t, errors.Is(err, ErrUnknownPreset))
	})
}

func TestParseAlignmentType(t *testing.T) {
	for _, at := range []AlignmentType{Local, Global, SemiGlobal} {
		got, err := ParseAlignmentType(at.String())
		require.NoError(t, err)
		assert.Equal(t, at, got)
	}

	got, err := ParseAlignmentType(" SemiGlobal ")
	require.NoError(t, err)
	assert.Equal(t, SemiGlobal, got)

	_, err = ParseAlignmentType("banded")
	assert.True(t, errors.Is(err, ErrUnknownAlignmentType))
}

func TestGlobalAlign(t *testing.T) {
	upOverLeft := &ScoringMatrix{MatchScore: 1, MismatchPenalty: -5, GapOpenPenalty: 0, GapExtendPenalty: -1}

	tests := []struct {
		name       string
		seq1, seq2 string
		scoring    *ScoringMatrix
		aligned1   string
		aligned2   string
		score      int
	}{
		{"identical", "ACGT", "ACGT", unit(), "ACGT", "ACGT", 4},
		{"one interior gap", "ACGT", "AGT", unit(), "ACGT", "A-GT", 2},
		// a leading gap leaves the origin and pays gap open once
		{"leading gap", "AC", "C", unit(), "AC", "-C", -2},
		// the same gap at the end only pays gap extend
		{"trailing gap", "CA", "C", unit(), "CA", "C-", 0},
		{"all mismatches", "AAAA", "TTTT", unit(), "AAAA", "TTTT", -4},
		// up and left both score -2 at (1,1); the vertical move wins
		{"vertical before horizontal", "A", "T", upOverLeft, "-A", "T-", -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := GlobalAlign(tt.seq1, tt.seq2, tt.scoring)
			require.NoError(t, err)

			assert.Equal(t, tt.aligned1, a.AlignedSeq1)
			assert.Equal(t, tt.aligned2, a.AlignedSeq2)
			assert.Equal(t, tt.score, a.Score)
			assert.Equal(t, Global, a.AlignmentType)
			assert.Equal(t, 0, a.Start1)
			assert.Equal(t, len(tt.seq1)-1, a.End1)
			assert.Equal(t, 0, a.Start2)
			assert.Equal(t, len(tt.seq2)-1, a.End2)
		})
	}
}

func TestGlobalAlignProperties(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for iter := 0; iter < 200; iter++ {
		s1 := randomDNA(r, 1+r.Intn(20))
		s2 := randomDNA(r, 1+r.Intn(20))

		a, err := GlobalAlign(s1, s2, DefaultDNA())
		require.NoError(t, err)

		require.Equal(t, len(a.AlignedSeq1), len(a.AlignedSeq2))
		require.Equal(t, s1, ungap(a.AlignedSeq1))
		require.Equal(t, s2, ungap(a.AlignedSeq2))
		for i := 0; i < a.Length(); i++ {
			require.False(t, a.AlignedSeq1[i] == GapSymbol && a.AlignedSeq2[i] == GapSymbol)
		}
	}
}

func TestSelfAlignment(t *testing.T) {
	for _, s := range []string{"A", "ACGT", "GATTACA", "NNNN"} {
		for _, scoring := range []*ScoringMatrix{DefaultDNA(), BLASTLike(), HighIdentity()} {
			a, err := GlobalAlign(s, s, scoring)
			require.NoError(t, err)
			assert.Equal(t, len(s)*scoring.MatchScore, a.Score)

			st, err := CalculateStatistics(a)
			require.NoError(t, err)
			assert.InDelta(t, 100.0, st.Identity, 1e-9)
		}
	}
}

func TestEmptyInputs(t *testing.T) {
	for _, at := range []AlignmentType{Local, Global, SemiGlobal} {
		for _, pair := range [][2]string{{"", "ACGT"}, {"ACGT", ""}, {"", ""}} {
			a, err := Align(at, pair[0], pair[1], unit())
			require.NoError(t, err)
			assert.Equal(t, Empty(at), a)
			assert.True(t, a.IsEmpty())
			assert.Equal(t, 0, a.Score)
		}
	}
}

func TestNilScoring(t *testing.T) {
	_, err := GlobalAlign("A", "A", nil)
	assert.True(t, errors.Is(err, ErrNilScoring))

	_, err = LocalAlign("A", "A", nil)
	assert.True(t, errors.Is(err, ErrNilScoring))

	_, err = SemiGlobalAlign("A", "A", nil)
	assert.True(t, errors.Is(err, ErrNilScoring))

	_, err = ScoreOnly(Global, "A", "A", nil)
	assert.True(t, errors.Is(err, ErrNilScoring))

	_, err = Align(AlignmentType(42), "A", "A", unit())
	assert.True(t, errors.Is(err, ErrUnknownAlignmentType))
}

func TestLocalAlign(t *testing.T) {
	t.Run("embedded match", func(t *testing.T) {
		a, err := LocalAlign("AAACGTAAA", "TTACGTTT", unit())
		require.NoError(t, err)

		assert.Equal(t, "ACGT", a.AlignedSeq1)
		assert.Equal(t, "ACGT", a.AlignedSeq2)
		assert.Equal(t, 4, a.Score)
		assert.Equal(t, Local, a.AlignmentType)
		assert.Equal(t, []int{2, 5, 2, 5}, []int{a.Start1, a.End1, a.Start2, a.End2})
	})

	t.Run("first maximal cell wins", func(t *testing.T) {
		a, err := LocalAlign("ACTTAC", "AC", unit())
		require.NoError(t, err)

		assert.Equal(t, 2, a.Score)
		assert.Equal(t, []int{0, 1, 0, 1}, []int{a.Start1, a.End1, a.Start2, a.End2})
	})

	t.Run("no positive score", func(t *testing.T) {
		a, err := LocalAlign("AAAA", "TTTT", unit())
		require.NoError(t, err)
		assert.Equal(t, Empty(Local), a)
	})
}

// bestLinear scores the best alignment of a and b where every gap column
// costs gap, by exhaustive recursion.
func bestLinear(a, b string, s *ScoringMatrix) int {
	memo := map[[2]int]int{}
	var rec func(i, j int) int
	rec = func(i, j int) int {
		if i == len(a) {
			return (len(b) - j) * s.GapExtendPenalty
		}
		if j == len(b) {
			return (len(a) - i) * s.GapExtendPenalty
		}
		key := [2]int{i, j}
		if v, ok := memo[key]; ok {
			return v
		}
		v := max(rec(i+1, j+1)+s.Score(a[i], b[j]),
			max(rec(i+1, j)+s.GapExtendPenalty, rec(i, j+1)+s.GapExtendPenalty))
		memo[key] = v
		return v
	}
	return rec(0, 0)
}

func TestLocalAlignBruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for iter := 0; iter < 150; iter++ {
		s1 := randomDNA(r, 1+r.Intn(6))
		s2 := randomDNA(r, 1+r.Intn(6))
		scoring := []*ScoringMatrix{unit(), DefaultDNA(), BLASTLike()}[iter%3]

		want := 0
		for i := 0; i < len(s1); i++ {
			for k := i + 1; k <= len(s1); k++ {
				for j := 0; j < len(s2); j++ {
					for l := j + 1; l <= len(s2); l++ {
						want = max(want, bestLinear(s1[i:k], s2[j:l], scoring))
					}
				}
			}
		}

		a, err := LocalAlign(s1, s2, scoring)
		require.NoError(t, err)
		require.GreaterOrEqual(t, a.Score, 0)
		require.Equal(t, want, a.Score, "%s vs %s", s1, s2)

		require.Equal(t, len(a.AlignedSeq1), len(a.AlignedSeq2))
		if !a.IsEmpty() {
			require.Equal(t, s1[a.Start1:a.End1+1], ungap(a.AlignedSeq1))
			require.Equal(t, s2[a.Start2:a.End2+1], ungap(a.AlignedSeq2))
		}
	}
}

func TestSemiGlobalAlign(t *testing.T) {
	t.Run("query inside reference", func(t *testing.T) {
		a, err := SemiGlobalAlign("ACGT", "TTACGTTT", unit())
		require.NoError(t, err)

		assert.Equal(t, "--ACGT--", a.AlignedSeq1)
		assert.Equal(t, "TTACGTTT", a.AlignedSeq2)
		assert.Equal(t, 4, a.Score)
		assert.Equal(t, SemiGlobal, a.AlignmentType)
		assert.Equal(t, []int{0, 3, 2, 5}, []int{a.Start1, a.End1, a.Start2, a.End2})
	})

	t.Run("query rows are still charged", func(t *testing.T) {
		a, err := SemiGlobalAlign("AC", "C", unit())
		require.NoError(t, err)

		assert.Equal(t, "AC", a.AlignedSeq1)
		assert.Equal(t, "-C", a.AlignedSeq2)
		assert.Equal(t, 0, a.Score)
	})

	t.Run("leftmost maximum of the last row", func(t *testing.T) {
		a, err := SemiGlobalAlign("A", "AA", unit())
		require.NoError(t, err)

		assert.Equal(t, "A-", a.AlignedSeq1)
		assert.Equal(t, "AA", a.AlignedSeq2)
		assert.Equal(t, 1, a.Score)
		assert.Equal(t, []int{0, 0, 0, 0}, []int{a.Start1, a.End1, a.Start2, a.End2})
	})

	t.Run("rows cover the whole reference", func(t *testing.T) {
		r := rand.New(rand.NewSource(3))
		for iter := 0; iter < 100; iter++ {
			q := randomDNA(r, 1+r.Intn(8))
			ref := randomDNA(r, 1+r.Intn(30))

			a, err := SemiGlobalAlign(q, ref, DefaultDNA())
			require.NoError(t, err)
			require.Equal(t, len(a.AlignedSeq1), len(a.AlignedSeq2))
			require.Equal(t, q, ungap(a.AlignedSeq1))
			require.Equal(t, ref, ungap(a.AlignedSeq2))
			require.LessOrEqual(t, a.Start2, a.End2+1)
		}
	})
}

func TestScoreOnlyMatchesFullAlignment(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	for iter := 0; iter < 100; iter++ {
		s1 := randomDNA(r, r.Intn(25))
		s2 := randomDNA(r, r.Intn(25))
		for _, at := range []AlignmentType{Local, Global, SemiGlobal} {
			a, err := Align(at, s1, s2, DefaultDNA())
			require.NoError(t, err)

			score, err := ScoreOnly(at, s1, s2, DefaultDNA())
			require.NoError(t, err)
			require.Equal(t, a.Score, score, "%s %s vs %s", at, s1, s2)
		}
	}
}

func TestAlignerProgress(t *testing.T) {
	var seen []float64
	al, err := NewAligner(unit(), WithProgress(func(done float64) {
		seen = append(seen, done)
	}))
	require.NoError(t, err)

	_, err = al.Align(context.Background(), Global, "ACGT", "AGT")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.5, 0.75, 1}, seen)
}

func TestAlignerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	al, err := NewAligner(unit())
	require.NoError(t, err)

	_, err = al.Align(ctx, Local, "ACGT", "ACGT")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))

	_, err = al.MultipleAlign(ctx, []string{"ACGT", "ACG"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestAlignmentIdentity(t *testing.T) {
	tests := []struct {
		name     string
		aligned1 string
		aligned2 string
		want     float64
	}{
		{"perfect match", "ATGC", "ATGC", 1.0},
		{"50% match", "ATGC", "ATTT", 0.5},
		{"no match", "AAAA", "TTTT", 0.0},
		{"with gaps", "AT-GC", "ATGGC", 0.8},
		{"empty", "", "", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAlignment(tt.aligned1, tt.aligned2, 0, Local)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, a.Identity(), 0.0001)
		})
	}
}

func TestNewAlignment(t *testing.T) {
	a, err := NewAlignment("AC-GT", "ACTGT", 3, Global)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3, 0, 4}, []int{a.Start1, a.End1, a.Start2, a.End2})

	_, err = NewAlignment("ACGT", "ACG", 0, Global)
	assert.True(t, errors.Is(err, ErrLengthMismatch))
}

func TestAlignmentCIGAR(t *testing.T) {
	tests := []struct {
		name     string
		aligned1 string
		aligned2 string
		want     string
	}{
		{"all match", "ATGC", "ATGC", "4M"},
		{"with mismatch", "ATGC", "ATGA", "3M1X"},
		{"with gap seq1", "AT-GC", "ATGGC", "2M1D2M"},
		{"with gap seq2", "ATGGC", "AT-GC", "2M1I2M"},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAlignment(tt.aligned1, tt.aligned2, 0, Local)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.ToCIGAR())
		})
	}
}

func TestGapOpenings(t *testing.T) {
	tests := []struct {
		name     string
		aligned1 string
		aligned2 string
		want     int
	}{
		{"no gaps", "ATGC", "ATGC", 0},
		{"one gap", "AT-GC", "ATGGC", 1},
		{"two gaps same seq", "AT--GC", "ATGGGC", 1},
		{"two gaps diff seq", "AT-GC-", "ATGG-C", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAlignment(tt.aligned1, tt.aligned2, 0, Local)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.GapOpenings())
		})
	}
}

func TestAlignAgainstMultiple(t *testing.T) {
	al, err := NewAligner(DefaultDNA(), WithThreads(2))
	require.NoError(t, err)

	targets := []string{"ATGCATGC", "GCTAGCTA", "ATGCGGGG"}
	alignments, err := al.AlignAgainstMultiple(context.Background(), Local, "ATGCATGC", targets)
	require.NoError(t, err)
	require.Len(t, alignments, 3)

	for i, ia := range alignments {
		assert.Equal(t, i, ia.Index)
	}
	assert.Greater(t, alignments[0].Alignment.Score, alignments[1].Alignment.Score)

	_, err = al.AlignAgainstMultiple(context.Background(), Local, "ACGT", nil)
	assert.True(t, errors.Is(err, ErrNoSequences))
}

func TestFindBestAlignment(t *testing.T) {
	al, err := NewAligner(DefaultDNA())
	require.NoError(t, err)

	targets := []string{"GCTAGCTA", "ATGCATGC", "AAAAAAAA"}
	best, err := al.FindBestAlignment(context.Background(), Global, "ATGCATGC", targets)
	require.NoError(t, err)
	assert.Equal(t, 1, best.Index)
	assert.Equal(t, 16, best.Alignment.Score)
}

func BenchmarkLocalAlign(b *testing.B) {
	s1 := strings.Repeat("ACGT", 250)
	s2 := strings.Repeat("AGCT", 250)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = LocalAlign(s1, s2, DefaultDNA())
	}
}

func BenchmarkGlobalAlign(b *testing.B) {
	s1 := strings.Repeat("ACGT", 250)
	s2 := strings.Repeat("AGCT", 250)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = GlobalAlign(s1, s2, DefaultDNA())
	}
}

func BenchmarkScoreOnly(b *testing.B) {
	s1 := strings.Repeat("ACGT", 250)
	s2 := strings.Repeat("AGCT", 250)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ScoreOnly(Local, s1, s2, DefaultDNA())
	}
}
