package sources

import (
	"strings"

	"identigraph/internal/identifier"
)

// Link is one usable row of a VIAF cluster link table.
type Link struct {
	VIAF      string
	Authority identifier.Authority
	Value     string
}

// ParseLink reads a "hub<TAB>TYPE|value" line. Only ISNI and LC rows are
// used; rows mentioning an e-mail style "@" and rows whose values do not
// normalize are rejected.
func ParseLink(line string) (Link, bool) {
	if strings.Contains(line, "@") || !strings.Contains(line, "|") {
		return Link{}, false
	}
	if !strings.Contains(line, "\tISNI|") && !strings.Contains(line, "\tLC|") {
		return Link{}, false
	}
	parts := strings.Split(strings.TrimSpace(line), "\t")
	if len(parts) != 2 {
		return Link{}, false
	}
	hub, ok := identifier.Normalize(strings.ReplaceAll(parts[0], "http://viaf.org/viaf/", ""), identifier.VIAF)
	if !ok {
		return Link{}, false
	}
	kind, raw, found := strings.Cut(parts[1], "|")
	if !found || strings.Contains(raw, "|") {
		return Link{}, false
	}

	var a identifier.Authority
	switch kind {
	case "LC":
		a = identifier.NACO
	case "ISNI":
		a = identifier.ISNI
	default:
		return Link{}, false
	}
	value, ok := identifier.Normalize(raw, a)
	if !ok {
		return Link{}, false
	}
	return Link{VIAF: hub, Authority: a, Value: value}, true
}
