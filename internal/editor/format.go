package editor

import (
	"regexp"
	"strings"
)

// formatKeywords are case-normalized to uppercase, whole words only.
// Multi-word keywords tolerate any run of whitespace between words.
var formatKeywords = []string{
	"select", "from", "where", "order by", "group by",
	"limit", "insert", "update", "delete", "values", "set",
}

// breakKeywords get a newline inserted before them. SELECT intentionally
// does not: it stays on the line it opened.
var breakKeywords = []string{
	"FROM", "WHERE", "ORDER BY", "GROUP BY",
	"LIMIT", "INSERT", "UPDATE", "DELETE", "VALUES", "SET",
}

var (
	upperRe    = make(map[string]*regexp.Regexp, len(formatKeywords))
	breakRe    = make(map[string]*regexp.Regexp, len(breakKeywords))
	newlineRun = regexp.MustCompile(`\n{2,}`)
)

func init() {
	for _, kw := range formatKeywords {
		pattern := `(?i)\b` + strings.ReplaceAll(kw, " ", `\s+`) + `\b`
		upperRe[kw] = regexp.MustCompile(pattern)
	}
	for _, kw := range breakKeywords {
		breakRe[kw] = regexp.MustCompile(`\b` + kw + `\b`)
	}
}

// FormatSQL applies the deterministic keyword formatter: uppercase the fixed
// keyword set, break the line before every clause keyword except SELECT,
// collapse blank lines, trim, and ensure a trailing semicolon.
//
// This is a textual rewrite, not a parser: quoted strings containing
// keywords are rewritten too, exactly like the in-browser formatter it
// mirrors.
func FormatSQL(sql string) string {
	out := sql
	for _, kw := range formatKeywords {
		upper := strings.ToUpper(kw)
		out = upperRe[kw].ReplaceAllString(out, upper)
	}
	for _, kw := range breakKeywords {
		out = breakRe[kw].ReplaceAllString(out, "\n"+kw)
	}
	out = newlineRun.ReplaceAllString(out, "\n")
	out = strings.TrimSpace(out)
	if !strings.HasSuffix(out, ";") {
		out += ";"
	}
	return out
}

// Format rewrites the buffer in place and collapses the caret to the end.
func (b *Buffer) Format() {
	b.SetText(FormatSQL(b.Text()))
}
