// Package core defines the shared value and result types used across SQLDeck.
//
// Cell values form a closed variant (null, bool, number, string). Comparison
// and stringification are defined here so the results grid, the executors,
// and the exporters all agree on them.
package core

import (
	"strconv"
	"strings"
)

// Kind identifies the concrete type held by a Value.
type Kind int

// Value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
)

// Value is a single result cell. The zero value is null.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
}

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Number returns a numeric value.
func Number(n float64) Value {
	return Value{kind: KindNumber, n: n}
}

// Int returns a numeric value from an integer.
func Int(n int) Value {
	return Value{kind: KindNumber, n: float64(n)}
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Text returns the display form of the value. Null renders as the empty
// string; numbers use the shortest representation that round-trips.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	default:
		return v.s
	}
}

// String implements fmt.Stringer.
func (v Value) String() string {
	return v.Text()
}

// Numeric returns the value as a float64 if numeric-typed or if its display
// form parses as a number.
func (v Value) Numeric() (float64, bool) {
	if v.kind == KindNumber {
		return v.n, true
	}
	f, err := strconv.ParseFloat(v.Text(), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Compare orders two values. Pairs that are both numeric-typed, or whose
// display forms both parse as numbers, compare numerically; everything else
// compares as case-sensitive strings.
func Compare(x, y Value) int {
	if x.kind == KindNumber && y.kind == KindNumber {
		return compareFloat(x.n, y.n)
	}
	if xf, ok := x.Numeric(); ok {
		if yf, ok := y.Numeric(); ok {
			return compareFloat(xf, yf)
		}
	}
	return strings.Compare(x.Text(), y.Text())
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
