// Package handlers provides HTTP handlers for the alignment API.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aria-lang/bioalign-go/internal/logutil"
	"github.com/aria-lang/bioalign-go/pkg/bioflow"
	"github.com/pkg/errors"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logutil.Log.Warningf("encoding response: %s", err)
	}
}

// writeError maps cancelled or timed-out requests to 503 and everything
// else, which is a caller error, to 400.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(err, "invalid request body")
	}
	return nil
}

// SequenceRequest represents a request with a sequence.
type SequenceRequest struct {
	Sequence string `json:"sequence"`
}

// ReverseComplementResponse represents the response for reverse complement.
type ReverseComplementResponse struct {
	Original          string `json:"original"`
	ReverseComplement string `json:"reverse_complement"`
}

// ReverseComplementHandler handles reverse complement requests.
func ReverseComplementHandler(w http.ResponseWriter, r *http.Request) {
	var req SequenceRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	seq, err := bioflow.NewSequence(req.Sequence)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ReverseComplementResponse{
		Original:          seq.Bases,
		ReverseComplement: seq.ReverseComplement().Bases,
	})
}

// ValidateResponse represents the response for validation.
type ValidateResponse struct {
	Valid  bool   `json:"valid"`
	Length int    `json:"length,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ValidateHandler reports whether a sequence is accepted by the aligners.
func ValidateHandler(w http.ResponseWriter, r *http.Request) {
	var req SequenceRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	seq, err := bioflow.NewSequence(req.Sequence)
	if err != nil {
		writeJSON(w, http.StatusOK, ValidateResponse{Valid: false, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ValidateResponse{Valid: true, Length: seq.Len()})
}
