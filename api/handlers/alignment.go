package handlers

import (
	"net/http"

	"github.com/aria-lang/bioalign-go/internal/config"
	"github.com/aria-lang/bioalign-go/pkg/bioflow"
	"github.com/pkg/errors"
)

// AlignmentRequest represents a pairwise alignment request. Scoring is
// optional; a missing object selects the "dna" preset.
type AlignmentRequest struct {
	Sequence1   string          `json:"sequence1"`
	Sequence2   string          `json:"sequence2"`
	Scoring     *config.Scoring `json:"scoring,omitempty"`
	BothStrands bool            `json:"both_strands,omitempty"`
	LineWidth   int             `json:"line_width,omitempty"`
}

// AlignmentResponse represents the response for alignment.
type AlignmentResponse struct {
	Type        string              `json:"type"`
	AlignedSeq1 string              `json:"aligned_seq1"`
	AlignedSeq2 string              `json:"aligned_seq2"`
	Score       int                 `json:"score"`
	Start1      int                 `json:"start1"`
	End1        int                 `json:"end1"`
	Start2      int                 `json:"start2"`
	End2        int                 `json:"end2"`
	Reverse     bool                `json:"reverse,omitempty"`
	CIGAR       string              `json:"cigar"`
	Statistics  *bioflow.Statistics `json:"statistics"`
	Display     string              `json:"display"`
}

func (req *AlignmentRequest) scoring() (*bioflow.ScoringMatrix, error) {
	if req.Scoring == nil {
		return bioflow.DefaultScoring(), nil
	}
	return req.Scoring.Matrix()
}

func (req *AlignmentRequest) sequences() (*bioflow.Sequence, *bioflow.Sequence, error) {
	seq1, err := bioflow.NewSequence(req.Sequence1)
	if err != nil {
		return nil, nil, errors.Wrap(err, "sequence1")
	}
	seq2, err := bioflow.NewSequence(req.Sequence2)
	if err != nil {
		return nil, nil, errors.Wrap(err, "sequence2")
	}
	return seq1, seq2, nil
}

// alignHandler builds the handler for one pairwise mode.
func alignHandler(alignType bioflow.AlignmentType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AlignmentRequest
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}

		seq1, seq2, err := req.sequences()
		if err != nil {
			writeError(w, err)
			return
		}
		scoring, err := req.scoring()
		if err != nil {
			writeError(w, err)
			return
		}

		var result *bioflow.StrandAlignment
		if req.BothStrands {
			result, err = bioflow.AlignBothStrandsContext(r.Context(), alignType, seq1, seq2, scoring)
		} else {
			var a *bioflow.Alignment
			a, err = bioflow.AlignContext(r.Context(), alignType, seq1, seq2, scoring)
			result = &bioflow.StrandAlignment{Alignment: a}
		}
		if err != nil {
			writeError(w, err)
			return
		}

		stats, err := bioflow.CalculateStatistics(result.Alignment)
		if err != nil {
			writeError(w, err)
			return
		}
		display, err := bioflow.Format(result.Alignment, req.LineWidth)
		if err != nil {
			writeError(w, err)
			return
		}

		a := result.Alignment
		writeJSON(w, http.StatusOK, AlignmentResponse{
			Type:        a.AlignmentType.String(),
			AlignedSeq1: a.AlignedSeq1,
			AlignedSeq2: a.AlignedSeq2,
			Score:       a.Score,
			Start1:      a.Start1,
			End1:        a.End1,
			Start2:      a.Start2,
			End2:        a.End2,
			Reverse:     result.Reverse,
			CIGAR:       a.ToCIGAR(),
			Statistics:  stats,
			Display:     display,
		})
	}
}

// LocalAlignHandler handles local alignment requests.
var LocalAlignHandler = alignHandler(bioflow.Local)

// GlobalAlignHandler handles global alignment requests.
var GlobalAlignHandler = alignHandler(bioflow.Global)

// SemiGlobalAlignHandler handles semi-global alignment requests, with
// sequence1 as the query and sequence2 as the reference.
var SemiGlobalAlignHandler = alignHandler(bioflow.SemiGlobal)

// ScoreRequest represents an alignment score request.
type ScoreRequest struct {
	AlignmentRequest
	Mode string `json:"mode"`
}

// ScoreResponse represents the response for alignment score.
type ScoreResponse struct {
	Type  string `json:"type"`
	Score int    `json:"score"`
}

// AlignmentScoreHandler returns only the score, computed in linear memory.
// Mode defaults to local.
func AlignmentScoreHandler(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	mode := req.Mode
	if mode == "" {
		mode = config.DefaultMode
	}
	alignType, err := bioflow.ParseAlignmentType(mode)
	if err != nil {
		writeError(w, err)
		return
	}

	seq1, seq2, err := req.sequences()
	if err != nil {
		writeError(w, err)
		return
	}
	scoring, err := req.scoring()
	if err != nil {
		writeError(w, err)
		return
	}

	score, err := bioflow.Score(alignType, seq1, seq2, scoring)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ScoreResponse{Type: alignType.String(), Score: score})
}

// AlignedPairRequest carries two already aligned rows.
type AlignedPairRequest struct {
	Aligned1  string `json:"aligned1"`
	Aligned2  string `json:"aligned2"`
	LineWidth int    `json:"line_width,omitempty"`
}

// StatisticsHandler computes statistics for an aligned pair.
func StatisticsHandler(w http.ResponseWriter, r *http.Request) {
	var req AlignedPairRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	stats, err := bioflow.StatisticsOf(req.Aligned1, req.Aligned2)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// FormatResponse represents the response for formatting.
type FormatResponse struct {
	Display string `json:"display"`
}

// FormatHandler renders an aligned pair as match-display blocks.
func FormatHandler(w http.ResponseWriter, r *http.Request) {
	var req AlignedPairRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	display, err := bioflow.FormatAligned(req.Aligned1, req.Aligned2, req.LineWidth)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FormatResponse{Display: display})
}

// MultipleAlignRequest represents a multiple alignment request. The first
// sequence is the reference.
type MultipleAlignRequest struct {
	Sequences []string        `json:"sequences"`
	Scoring   *config.Scoring `json:"scoring,omitempty"`
	Threads   int             `json:"threads,omitempty"`
}

// MultipleAlignResponse represents the response for multiple alignment.
type MultipleAlignResponse struct {
	Rows          []string  `json:"rows"`
	Consensus     string    `json:"consensus"`
	Score         int       `json:"score"`
	RowIdentities []float64 `json:"row_identities"`
	MeanIdentity  float64   `json:"mean_identity"`
}

// MultipleAlignHandler handles reference-star multiple alignment requests.
func MultipleAlignHandler(w http.ResponseWriter, r *http.Request) {
	var req MultipleAlignRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	seqs := make([]*bioflow.Sequence, len(req.Sequences))
	for i, s := range req.Sequences {
		seq, err := bioflow.NewSequence(s)
		if err != nil {
			writeError(w, errors.Wrapf(err, "sequence %d", i))
			return
		}
		seqs[i] = seq
	}

	scoring := bioflow.DefaultScoring()
	if req.Scoring != nil {
		var err error
		if scoring, err = req.Scoring.Matrix(); err != nil {
			writeError(w, err)
			return
		}
	}

	ma, err := bioflow.MultipleAlignContext(r.Context(), seqs, scoring, req.Threads)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MultipleAlignResponse{
		Rows:          ma.Rows,
		Consensus:     ma.Consensus,
		Score:         ma.Score,
		RowIdentities: ma.RowIdentities(),
		MeanIdentity:  ma.MeanIdentityToConsensus(),
	})
}
