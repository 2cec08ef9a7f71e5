package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	h := newRouter(5 * time.Second)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"version", http.MethodGet, "/version", "", http.StatusOK},
		{"local", http.MethodPost, "/api/alignment/local", `{"sequence1": "ACGT", "sequence2": "ACGT"}`, http.StatusOK},
		{"bad request", http.MethodPost, "/api/alignment/global", `{"sequence1": ""}`, http.StatusBadRequest},
		{"wrong method", http.MethodGet, "/api/alignment/local", "", http.StatusMethodNotAllowed},
		{"not found", http.MethodPost, "/api/kmer/count", "{}", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.name == "version" {
				assert.Contains(t, rec.Body.String(), "bioalign v")
			}
		})
	}
}
