// Package position converts between byte offsets and the line/column
// coordinates diagnostics and editors speak.
package position

import (
	"strings"
)

// RawPosition represents a span of source text identified by byte offset.
type RawPosition struct {
	// Offset is the byte offset in the source text
	Offset int
	// Text is the actual text at this position
	Text string
}

func NewBasicPosition(text string, offset int) RawPosition {
	return RawPosition{Text: text, Offset: offset}
}

func (p RawPosition) Length() int {
	return len(p.Text)
}

func (p RawPosition) HasRangeOverlapWith(start RawPosition) bool {
	startOffset := start.Offset
	endOffset := startOffset + start.Length()

	posOffset := p.Offset
	posEndOffset := posOffset + p.Length()

	// Zero-length spans overlap when they fall inside the other range.
	if p.Length() == 0 {
		return posOffset >= startOffset && posOffset <= endOffset
	}
	if start.Length() == 0 {
		return startOffset >= posOffset && startOffset <= posEndOffset
	}

	return startOffset < posEndOffset && endOffset > posOffset
}

// GetLineAndColumn calculates the line and column number for a given position
// in the text. Returns zero-based line and column numbers.
func (p RawPosition) GetLineAndColumn(text string) (line, col int) {
	prefix := text[:ClampOffset(text, p.Offset)]

	line = strings.Count(prefix, "\n")
	col = len(prefix)
	if idx := strings.LastIndexByte(prefix, '\n'); idx >= 0 {
		col = len(prefix) - idx - 1
	}

	return line, col
}

// ClampOffset clamps offset into the valid cursor range [0, len(text)].
// Malformed cursor positions are clamped rather than rejected.
func ClampOffset(text string, offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(text) {
		return len(text)
	}
	return offset
}

// LineBounds returns the start offset of the line containing offset and the
// offset of its terminating newline (or len(text) for the last line). The
// newline itself is not part of the line.
func LineBounds(text string, offset int) (start, end int) {
	offset = ClampOffset(text, offset)

	start = 0
	if idx := strings.LastIndexByte(text[:offset], '\n'); idx >= 0 {
		start = idx + 1
	}

	end = len(text)
	if idx := strings.IndexByte(text[offset:], '\n'); idx >= 0 {
		end = offset + idx
	}

	return start, end
}

// LineAndColumn converts a byte offset to one-based line and column numbers,
// the convention diagnostics are reported in.
func LineAndColumn(text string, offset int) (line, col int) {
	offset = ClampOffset(text, offset)
	zeroLine, zeroCol := RawPosition{Offset: offset}.GetLineAndColumn(text)
	return zeroLine + 1, zeroCol + 1
}
