// Package sequence provides the validated DNA sequence type handed to the
// aligners.
//
// Bases are upper-cased and checked against the DNA alphabet (plus N) once,
// at construction; the alignment engine trusts them afterwards.
package sequence

import (
	"fmt"
	"strings"
)

// ValidDNABases are the accepted nucleotide symbols.
var ValidDNABases = map[rune]bool{'A': true, 'C': true, 'G': true, 'T': true, 'N': true}

// Sequence represents a validated DNA sequence.
type Sequence struct {
	Bases       string
	ID          string
	Description string
}

// New creates a new DNA sequence with validation.
func New(bases string) (*Sequence, error) {
	return WithMetadata(bases, "", "")
}

// WithID creates a new sequence with an identifier.
func WithID(bases, id string) (*Sequence, error) {
	if len(id) == 0 {
		return nil, fmt.Errorf("ID cannot be empty")
	}
	return WithMetadata(bases, id, "")
}

// WithMetadata creates a new sequence with an identifier and description.
func WithMetadata(bases, id, description string) (*Sequence, error) {
	normalized := strings.ToUpper(bases)

	if len(normalized) == 0 {
		return nil, &EmptySequenceError{}
	}
	if err := ValidateDNA(normalized); err != nil {
		return nil, err
	}

	return &Sequence{
		Bases:       normalized,
		ID:          id,
		Description: description,
	}, nil
}

// Len returns the length of the sequence.
func (s *Sequence) Len() int {
	return len(s.Bases)
}

// complementBase returns the complement of a DNA base.
func complementBase(c byte) byte {
	switch c {
	case 'A':
		return 'T'
	case 'T':
		return 'A'
	case 'C':
		return 'G'
	case 'G':
		return 'C'
	default:
		return 'N'
	}
}

// ReverseComplement returns the reverse complement of the sequence.
func (s *Sequence) ReverseComplement() *Sequence {
	n := len(s.Bases)
	rc := make([]byte, n)
	for i := 0; i < n; i++ {
		rc[n-1-i] = complementBase(s.Bases[i])
	}

	return &Sequence{
		Bases:       string(rc),
		ID:          s.ID,
		Description: s.Description,
	}
}

// Name returns the ID, or fallback when the sequence has none.
func (s *Sequence) Name(fallback string) string {
	if s.ID != "" {
		return s.ID
	}
	return fallback
}

// String returns a string representation of the sequence.
func (s *Sequence) String() string {
	if s.ID != "" {
		return fmt.Sprintf(">%s\n%s", s.ID, s.Bases)
	}
	return s.Bases
}

// Equal checks equality with another sequence.
func (s *Sequence) Equal(other *Sequence) bool {
	if other == nil {
		return false
	}
	return s.Bases == other.Bases
}
