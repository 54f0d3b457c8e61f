package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsertAtCollapsedCaret(t *testing.T) {
	b := NewBuffer("SELECT  FROM users")
	b.Select(7, 7)

	b.InsertAtCursor("id")

	assert.Equal(t, "SELECT id FROM users", b.Text())
	start, end := b.Caret()
	assert.Equal(t, 9, start)
	assert.Equal(t, 9, end)
}

func TestInsertReplacesSelection(t *testing.T) {
	b := NewBuffer("SELECT foo FROM users")
	b.Select(7, 10)

	b.InsertAtCursor("public.orders")

	assert.Equal(t, "SELECT public.orders FROM users", b.Text())
	start, end := b.Caret()
	assert.Equal(t, 20, start, "caret sits after the inserted text")
	assert.Equal(t, start, end)
}

func TestSelectionExtraction(t *testing.T) {
	b := NewBuffer("SELECT 1; SELECT 2;")

	assert.Empty(t, b.Selection(), "collapsed caret has no selection")

	b.Select(10, 19)
	assert.Equal(t, "SELECT 2;", b.Selection())
}

func TestSelectClampsAndSwaps(t *testing.T) {
	b := NewBuffer("abc")

	b.Select(99, -5)
	assert.Equal(t, "abc", b.Selection())

	b.Select(2, 1)
	assert.Equal(t, "b", b.Selection())
}

func TestInsertHandlesMultibyteRunes(t *testing.T) {
	b := NewBuffer("sélect")
	b.Select(2, 2)

	b.InsertAtCursor("λ")

	assert.Equal(t, "séλlect", b.Text())
}
