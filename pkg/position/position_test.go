package position_test

import (
	"testing"

	"github.com/intellexhq/intellex/pkg/position"
)

func TestLineAndColumn(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		offset   int
		wantLine int
		wantCol  int
	}{
		{
			name:     "empty text",
			text:     "",
			offset:   0,
			wantLine: 1,
			wantCol:  1,
		},
		{
			name:     "single line, first position",
			text:     "Hello, World! ",
			offset:   2,
			wantLine: 1,
			wantCol:  3,
		},
		{
			name:     "single line, middle position",
			text:     "Hello, World!",
			offset:   7,
			wantLine: 1,
			wantCol:  8,
		},
		{
			name:     "multiple lines, first line",
			text:     "Hello\nWorld\nTest",
			offset:   3,
			wantLine: 1,
			wantCol:  4,
		},
		{
			name:     "multiple lines, second line",
			text:     "Hello\nWorld\nTest zzz",
			offset:   8,
			wantLine: 2,
			wantCol:  3,
		},
		{
			name:     "multiple lines with varying lengths",
			text:     "Hello, World!\nThis is a test\nShort\nLonger line here zzz",
			offset:   16,
			wantLine: 2,
			wantCol:  3,
		},
		{
			name:     "offset past end clamps to final position",
			text:     "ab\ncd",
			offset:   99,
			wantLine: 2,
			wantCol:  3,
		},
		{
			name:     "negative offset clamps to start",
			text:     "ab",
			offset:   -5,
			wantLine: 1,
			wantCol:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotLine, gotCol := position.LineAndColumn(tt.text, tt.offset)
			if gotLine != tt.wantLine || gotCol != tt.wantCol {
				t.Errorf("LineAndColumn() = (%v, %v), want (%v, %v)", gotLine, gotCol, tt.wantLine, tt.wantCol)
			}
		})
	}
}

func TestLineBounds(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		offset    int
		wantStart int
		wantEnd   int
	}{
		{
			name:      "single line",
			text:      "hello world",
			offset:    4,
			wantStart: 0,
			wantEnd:   11,
		},
		{
			name:      "first of two lines",
			text:      "hello\nworld",
			offset:    2,
			wantStart: 0,
			wantEnd:   5,
		},
		{
			name:      "second of two lines",
			text:      "hello\nworld",
			offset:    8,
			wantStart: 6,
			wantEnd:   11,
		},
		{
			name:      "cursor exactly on newline belongs to first line",
			text:      "hello\nworld",
			offset:    5,
			wantStart: 0,
			wantEnd:   5,
		},
		{
			name:      "empty middle line",
			text:      "a\n\nb",
			offset:    2,
			wantStart: 2,
			wantEnd:   2,
		},
		{
			name:      "empty text",
			text:      "",
			offset:    0,
			wantStart: 0,
			wantEnd:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotStart, gotEnd := position.LineBounds(tt.text, tt.offset)
			if gotStart != tt.wantStart || gotEnd != tt.wantEnd {
				t.Errorf("LineBounds() = (%v, %v), want (%v, %v)", gotStart, gotEnd, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestClampOffset(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		offset int
		want   int
	}{
		{name: "in range", text: "abc", offset: 1, want: 1},
		{name: "negative", text: "abc", offset: -1, want: 0},
		{name: "past end", text: "abc", offset: 7, want: 3},
		{name: "end is valid", text: "abc", offset: 3, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := position.ClampOffset(tt.text, tt.offset); got != tt.want {
				t.Errorf("ClampOffset() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasRangeOverlapWith(t *testing.T) {
	tests := []struct {
		name string
		a    position.RawPosition
		b    position.RawPosition
		want bool
	}{
		{
			name: "identical spans",
			a:    position.NewBasicPosition("abc", 0),
			b:    position.NewBasicPosition("abc", 0),
			want: true,
		},
		{
			name: "adjacent spans do not overlap",
			a:    position.NewBasicPosition("ab", 0),
			b:    position.NewBasicPosition("cd", 2),
			want: false,
		},
		{
			name: "partial overlap",
			a:    position.NewBasicPosition("abcd", 0),
			b:    position.NewBasicPosition("cdef", 2),
			want: true,
		},
		{
			name: "zero-length cursor inside span",
			a:    position.NewBasicPosition("", 2),
			b:    position.NewBasicPosition("abcd", 0),
			want: true,
		},
		{
			name: "zero-length cursor outside span",
			a:    position.NewBasicPosition("", 9),
			b:    position.NewBasicPosition("abcd", 0),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.HasRangeOverlapWith(tt.b); got != tt.want {
				t.Errorf("HasRangeOverlapWith() = %v, want %v", got, tt.want)
			}
		})
	}
}
