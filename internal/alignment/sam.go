package alignment

import (
	"github.com/biogo/hts/sam"
	"github.com/pkg/errors"
)

// unknownMapQ is the SAM value for an unavailable mapping quality.
const unknownMapQ = 255

// refOrigin is the reference position of column 0. Global and semi-global
// rows always start at the first reference symbol.
func (a *Alignment) refOrigin() int {
	if a.AlignmentType == Local {
		return a.Start2
	}
	return 0
}

// SAMCigar converts the alignment to a SAM CIGAR with sequence 1 as the
// read and sequence 2 as the reference. Columns opposite read gaps at
// either end are dropped (the reference overhang of a semi-global result),
// unaligned read ends become soft clips, and matches and mismatches use
// '=' and 'X'. It also returns the 0-based reference position of the first
// aligned base.
func (a *Alignment) SAMCigar(queryLen int) (sam.Cigar, int, error) {
	if a.IsEmpty() {
		return nil, -1, nil
	}
	if a.End1 >= queryLen {
		return nil, -1, errors.Errorf("query of length %d is shorter than aligned span end %d", queryLen, a.End1)
	}

	lo, hi := 0, len(a.AlignedSeq1)
	for lo < hi && a.AlignedSeq1[lo] == GapSymbol {
		lo++
	}
	for hi > lo && a.AlignedSeq1[hi-1] == GapSymbol {
		hi--
	}

	var cigar sam.Cigar
	if a.Start1 > 0 {
		cigar = append(cigar, sam.NewCigarOp(sam.CigarSoftClipped, a.Start1))
	}

	var op sam.CigarOpType
	run := 0
	for col := lo; col < hi; col++ {
		var cur sam.CigarOpType
		switch classify(a.AlignedSeq1[col], a.AlignedSeq2[col]) {
		case columnMatch:
			cur = sam.CigarEqual
		case columnMismatch:
			cur = sam.CigarMismatch
		default:
			if a.AlignedSeq1[col] == GapSymbol {
				cur = sam.CigarDeletion
			} else {
				cur = sam.CigarInsertion
			}
		}

		if run > 0 && cur != op {
			cigar = append(cigar, sam.NewCigarOp(op, run))
			run = 0
		}
		op = cur
		run++
	}
	if run > 0 {
		cigar = append(cigar, sam.NewCigarOp(op, run))
	}

	if tail := queryLen - 1 - a.End1; tail > 0 {
		cigar = append(cigar, sam.NewCigarOp(sam.CigarSoftClipped, tail))
	}

	return cigar, a.refOrigin() + lo, nil
}

// SAMRecord exports a pairwise alignment as a SAM record named name, with
// query holding the full read (sequence 1). An empty alignment produces an
// unmapped record.
func (a *Alignment) SAMRecord(name string, ref *sam.Reference, query []byte) (*sam.Record, error) {
	if a == nil {
		return nil, ErrNilAlignment
	}

	rec := &sam.Record{
		Name:    name,
		Pos:     -1,
		MapQ:    unknownMapQ,
		MatePos: -1,
		Seq:     sam.NewSeq(query),
	}

	if a.IsEmpty() {
		rec.Flags = sam.Unmapped
		return rec, nil
	}

	cigar, pos, err := a.SAMCigar(len(query))
	if err != nil {
		return nil, errors.Wrapf(err, "record %s", name)
	}

	rec.Ref = ref
	rec.Pos = pos
	rec.Cigar = cigar
	return rec, nil
}
