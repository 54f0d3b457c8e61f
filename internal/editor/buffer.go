// Package editor holds the SQL text buffer for a tab: cursor-relative
// insertion, selection extraction, and the keyword formatter.
package editor

// Buffer is a plain-text editing surface with a caret and an optional
// selection. Offsets are rune positions, matching what a browser text widget
// reports for selectionStart/selectionEnd.
type Buffer struct {
	runes []rune
	start int // selection start (== end when collapsed)
	end   int // selection end, start <= end
}

// NewBuffer creates a buffer with the caret collapsed at the end of text.
func NewBuffer(text string) *Buffer {
	b := &Buffer{}
	b.SetText(text)
	return b
}

// SetText replaces the whole buffer and collapses the caret to the end.
func (b *Buffer) SetText(text string) {
	b.runes = []rune(text)
	b.start = len(b.runes)
	b.end = b.start
}

// Text returns the buffer contents.
func (b *Buffer) Text() string {
	return string(b.runes)
}

// Select sets the selection range, clamping out-of-range offsets and
// swapping a reversed range. Equal offsets collapse to a caret.
func (b *Buffer) Select(start, end int) {
	start = b.clamp(start)
	end = b.clamp(end)
	if start > end {
		start, end = end, start
	}
	b.start, b.end = start, end
}

// Caret returns the selection range. Collapsed selections have start == end.
func (b *Buffer) Caret() (start, end int) {
	return b.start, b.end
}

// Selection returns the highlighted substring, or "" when the caret is
// collapsed.
func (b *Buffer) Selection() string {
	return string(b.runes[b.start:b.end])
}

// InsertAtCursor inserts text at the caret, replacing any active selection,
// and leaves the caret collapsed immediately after the insertion.
func (b *Buffer) InsertAtCursor(text string) {
	ins := []rune(text)
	out := make([]rune, 0, len(b.runes)-(b.end-b.start)+len(ins))
	out = append(out, b.runes[:b.start]...)
	out = append(out, ins...)
	out = append(out, b.runes[b.end:]...)
	b.runes = out
	b.start += len(ins)
	b.end = b.start
}

func (b *Buffer) clamp(n int) int {
	if n < 0 {
		return 0
	}
	if n > len(b.runes) {
		return len(b.runes)
	}
	return n
}
