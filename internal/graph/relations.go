package graph

import "fmt"

// Relation is one two-column equivalence table.
type Relation struct {
	Name  string
	Left  string
	Right string
}

var (
	NACOAuthorised    = Relation{"NACO_authorised", "NACO", "string"}
	NACOVariants      = Relation{"NACO_variants", "NACO", "string"}
	VIAFEquivalences  = Relation{"VIAF_equivalences", "VIAF", "identifier"}
	OtherEquivalences = Relation{"other_equivalences", "other", "identifier"}
	VIAFISBN          = Relation{"VIAF_isbn", "VIAF", "isbn"}
	OtherISBN         = Relation{"other_isbn", "other", "isbn"}
	VIAFString        = Relation{"VIAF_string", "VIAF", "string"}
	StringISBN        = Relation{"string_isbn", "string", "isbn"}
	ISBNEquivalents   = Relation{"isbn_equivalents", "isbna", "isbnb"}
)

// Relations lists every relation in schema order.
var Relations = []Relation{
	NACOAuthorised,
	NACOVariants,
	VIAFEquivalences,
	OtherEquivalences,
	VIAFISBN,
	OtherISBN,
	VIAFString,
	StringISBN,
	ISBNEquivalents,
}

// RelationByName returns the relation stored in the named table.
func RelationByName(name string) (Relation, bool) {
	for _, rel := range Relations {
		if rel.Name == name {
			return rel, true
		}
	}
	return Relation{}, false
}

func (r Relation) String() string { return r.Name }

func (r Relation) insertSQL() string {
	return fmt.Sprintf("INSERT OR IGNORE INTO %s (%s, %s) VALUES (?, ?)", r.Name, r.Left, r.Right)
}

func (r Relation) indexName(column int) string {
	return fmt.Sprintf("IDX_%s_%d", r.Name, column)
}

// Edge is one stored pair.
type Edge struct {
	Left  string
	Right string
}

// Valid reports whether neither endpoint is empty.
func (e Edge) Valid() bool {
	return e.Left != "" && e.Right != ""
}
