package sources

import (
	"strings"

	"identigraph/internal/isbn"
)

// ISBNPair is one line of an ISBN equivalence list.
type ISBNPair struct {
	A, B string
}

// ParseISBNPair reads a `_'isbnA'_'isbnB'_` line. Both values must parse as
// ISBNs; they are returned in 13-digit form.
func ParseISBNPair(line string) (ISBNPair, bool) {
	parts := strings.Split(line, "'")
	if len(parts) != 5 {
		return ISBNPair{}, false
	}
	a, okA := isbn.Parse(parts[1])
	b, okB := isbn.Parse(parts[3])
	if !okA || !okB {
		return ISBNPair{}, false
	}
	return ISBNPair{A: a, B: b}, true
}

// Expand returns the directed equivalences recorded for the pair: both
// directions plus each ISBN's equivalence with itself.
func (p ISBNPair) Expand() [][2]string {
	return [][2]string{{p.A, p.B}, {p.B, p.A}, {p.A, p.A}, {p.B, p.B}}
}
