package alignment

import (
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSAMCigar(t *testing.T) {
	tests := []struct {
		name  string
		align func() (*Alignment, error)
		query string
		cigar string
		pos   int
	}{
		{
			name:  "local with soft clips",
			align: func() (*Alignment, error) { return LocalAlign("TTACGTAA", "GGACGTGG", unit()) },
			query: "TTACGTAA",
			cigar: "2S4=2S",
			pos:   2,
		},
		{
			name:  "semi-global drops reference overhang",
			align: func() (*Alignment, error) { return SemiGlobalAlign("ACGT", "TTACGTTT", unit()) },
			query: "ACGT",
			cigar: "4=",
			pos:   2,
		},
		{
			name:  "global insertion",
			align: func() (*Alignment, error) { return GlobalAlign("ACGT", "AGT", unit()) },
			query: "ACGT",
			cigar: "1=1I2=",
			pos:   0,
		},
		{
			name:  "global leading deletion",
			align: func() (*Alignment, error) { return GlobalAlign("C", "AC", unit()) },
			query: "C",
			cigar: "1=",
			pos:   1,
		},
		{
			name:  "mismatch",
			align: func() (*Alignment, error) { return GlobalAlign("ACGT", "ACCT", unit()) },
			query: "ACGT",
			cigar: "2=1X1=",
			pos:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := tt.align()
			require.NoError(t, err)

			cigar, pos, err := a.SAMCigar(len(tt.query))
			require.NoError(t, err)
			assert.Equal(t, tt.cigar, cigar.String())
			assert.Equal(t, tt.pos, pos)

			_, qlen := cigar.Lengths()
			assert.Equal(t, len(tt.query), qlen)
		})
	}

	t.Run("query shorter than span", func(t *testing.T) {
		a, err := GlobalAlign("ACGT", "ACGT", unit())
		require.NoError(t, err)

		_, _, err = a.SAMCigar(2)
		assert.Error(t, err)
	})
}

func TestSAMRecord(t *testing.T) {
	ref, err := sam.NewReference("chr1", "", "", 8, nil, nil)
	require.NoError(t, err)

	t.Run("mapped", func(t *testing.T) {
		a, err := LocalAlign("TTACGTAA", "GGACGTGG", unit())
		require.NoError(t, err)

		rec, err := a.SAMRecord("read1", ref, []byte("TTACGTAA"))
		require.NoError(t, err)
		assert.Equal(t, "read1", rec.Name)
		assert.Equal(t, ref, rec.Ref)
		assert.Equal(t, 2, rec.Pos)
		assert.Equal(t, "2S4=2S", rec.Cigar.String())
		assert.Equal(t, []byte("TTACGTAA"), rec.Seq.Expand())
		assert.Zero(t, rec.Flags&sam.Unmapped)
	})

	t.Run("unmapped", func(t *testing.T) {
		rec, err := Empty(Local).SAMRecord("read2", ref, []byte("AAAA"))
		require.NoError(t, err)
		assert.NotZero(t, rec.Flags&sam.Unmapped)
		assert.Equal(t, -1, rec.Pos)
		assert.Nil(t, rec.Cigar)
	})

	t.Run("nil alignment", func(t *testing.T) {
		var a *Alignment
		_, err := a.SAMRecord("read3", ref, nil)
		assert.ErrorIs(t, err, ErrNilAlignment)
	})
}
