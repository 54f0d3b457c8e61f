package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSQL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "uppercases keywords and breaks clauses",
			input:    "select id, name from users where id = 1 order by name limit 5",
			expected: "SELECT id, name \nFROM users \nWHERE id = 1 \nORDER BY name \nLIMIT 5;",
		},
		{
			name:     "select never gets a preceding newline",
			input:    "select 1",
			expected: "SELECT 1;",
		},
		{
			name:     "keeps existing semicolon",
			input:    "select * from t;",
			expected: "SELECT * \nFROM t;",
		},
		{
			name:     "collapses blank lines",
			input:    "select *\n\n\nfrom t",
			expected: "SELECT *\nFROM t;",
		},
		{
			name:     "multi word keywords tolerate internal whitespace",
			input:    "select * from t group   by a order\nby b",
			expected: "SELECT * \nFROM t \nGROUP BY a \nORDER BY b;",
		},
		{
			name:     "whole word matching leaves identifiers alone",
			input:    "select offset_from, settings from t",
			expected: "SELECT offset_from, settings \nFROM t;",
		},
		{
			name:     "update statement",
			input:    "update users set name = 'x' where id = 2",
			expected: "UPDATE users \nSET name = 'x' \nWHERE id = 2;",
		},
		{
			name:     "trims surrounding whitespace",
			input:    "   select 1   ",
			expected: "SELECT 1;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatSQL(tt.input))
		})
	}
}

func TestFormatSQLDeterministic(t *testing.T) {
	once := FormatSQL("select a from b where c = 1")
	twice := FormatSQL(once)
	assert.Equal(t, once, twice, "formatting is idempotent on its own output")
}

func TestBufferFormat(t *testing.T) {
	b := NewBuffer("select 1 from dual")
	b.Format()

	assert.Equal(t, "SELECT 1 \nFROM dual;", b.Text())
	start, end := b.Caret()
	assert.Equal(t, len([]rune(b.Text())), start)
	assert.Equal(t, start, end)
}
