package alignment

import "github.com/pkg/errors"

// Contract violations. They are returned, never retried, and callers
// match them with errors.Is.
var (
	ErrNilScoring           = errors.New("scoring matrix is nil")
	ErrNilAlignment         = errors.New("alignment is nil")
	ErrLengthMismatch       = errors.New("aligned sequences must have equal length")
	ErrNoSequences          = errors.New("sequence list cannot be empty")
	ErrInvalidLineWidth     = errors.New("line width must not be negative")
	ErrInvalidScoring       = errors.New("invalid scoring matrix")
	ErrUnknownAlignmentType = errors.New("unknown alignment type")
	ErrUnknownPreset        = errors.New("unknown scoring preset")
)
