package alignment

import (
	"strings"

	"github.com/pkg/errors"
)

// DefaultLineWidth is used when FormatAlignment is given a width of 0.
const DefaultLineWidth = 60

// Marker symbols of the match display.
const (
	MatchMarker    = '|'
	MismatchMarker = '.'
	GapMarker      = ' '
)

// MarkerLine returns one marker per column: '|' for a match, '.' for a
// mismatch and a space wherever either side is a gap.
func MarkerLine(aligned1, aligned2 string) (string, error) {
	if len(aligned1) != len(aligned2) {
		return "", errors.Wrapf(ErrLengthMismatch, "%d vs %d", len(aligned1), len(aligned2))
	}

	markers := make([]byte, len(aligned1))
	for i := range markers {
		switch classify(aligned1[i], aligned2[i]) {
		case columnMatch:
			markers[i] = MatchMarker
		case columnMismatch:
			markers[i] = MismatchMarker
		default:
			markers[i] = GapMarker
		}
	}
	return string(markers), nil
}

// FormatAlignment renders the alignment as three-line blocks (sequence 1,
// markers, sequence 2) of at most lineWidth columns, separated by a blank
// line. A width of 0 selects DefaultLineWidth.
func FormatAlignment(a *Alignment, lineWidth int) (string, error) {
	if a == nil {
		return "", ErrNilAlignment
	}
	if lineWidth < 0 {
		return "", errors.Wrapf(ErrInvalidLineWidth, "%d", lineWidth)
	}
	if lineWidth == 0 {
		lineWidth = DefaultLineWidth
	}

	markers, err := MarkerLine(a.AlignedSeq1, a.AlignedSeq2)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for start := 0; start < len(markers); start += lineWidth {
		end := start + lineWidth
		if end > len(markers) {
			end = len(markers)
		}

		if start > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(a.AlignedSeq1[start:end])
		sb.WriteByte('\n')
		sb.WriteString(markers[start:end])
		sb.WriteByte('\n')
		sb.WriteString(a.AlignedSeq2[start:end])
		sb.WriteByte('\n')
	}

	return sb.String(), nil
}
