// Package identifier defines the authority systems tracked by the identity
// graph and the normalization rules applied to raw identifier strings.
package identifier

import (
	"regexp"
	"strings"
)

// Authority names an identifier system.
type Authority string

const (
	// NACO is the national name-authority identifier (LC name authority file).
	NACO Authority = "naco"
	// ISNI is the international standard name identifier.
	ISNI Authority = "isni"
	// VIAF is the union-catalog identifier used as the hub of the graph.
	VIAF Authority = "viaf"

	HarperCollins Authority = "harpercollins"
	Penguin       Authority = "penguin"
	RandomHouse   Authority = "randomhouse"
)

// Proprietary lists the publisher-assigned authorities in report order.
var Proprietary = []Authority{HarperCollins, Penguin, RandomHouse}

// Linked lists the authorities that are attached to a hub identifier, in the
// order edges are generated.
var Linked = []Authority{NACO, ISNI, HarperCollins, Penguin, RandomHouse}

// Pair couples two authorities whose identifiers are recorded as equivalent
// when no hub identifier is known.
type Pair struct {
	Left, Right Authority
}

// Pairs enumerates the non-hub equivalence pairs.
var Pairs = []Pair{
	{NACO, ISNI},
	{NACO, HarperCollins},
	{NACO, Penguin},
	{NACO, RandomHouse},
	{ISNI, HarperCollins},
	{ISNI, Penguin},
	{ISNI, RandomHouse},
}

// IsProprietary reports whether a is a publisher-assigned authority.
func (a Authority) IsProprietary() bool {
	switch a {
	case HarperCollins, Penguin, RandomHouse:
		return true
	}
	return false
}

// Valid reports whether a is one of the known authorities.
func (a Authority) Valid() bool {
	switch a {
	case NACO, ISNI, VIAF:
		return true
	}
	return a.IsProprietary()
}

// Key renders the graph node key for value, e.g. "viaf:102333412".
func Key(a Authority, value string) string {
	return string(a) + ":" + value
}

// SplitKey separates a node key into its authority and value.
func SplitKey(key string) (Authority, string, bool) {
	prefix, value, ok := strings.Cut(key, ":")
	if !ok {
		return "", "", false
	}
	a := Authority(prefix)
	if !a.Valid() || value == "" {
		return "", "", false
	}
	return a, value, true
}

var (
	uriPrefixPattern = regexp.MustCompile(`https?://(www\.)?(isni|viaf)\.org/(isni|viaf)/?`)
	whitespace       = regexp.MustCompile(`\s+`)
	personalSuffix   = regexp.MustCompile(`\s*\(Personal\)`)
)

// Normalize cleans value according to the rules of authority a. The boolean
// is false when the value does not satisfy the authority's pattern; callers
// treat that as an absent identifier. Normalize is idempotent.
func Normalize(value string, a Authority) (string, bool) {
	s := strings.TrimSpace(value)
	s = strings.TrimSpace(strings.TrimRight(s, "/"))
	s = strings.TrimSpace(uriPrefixPattern.ReplaceAllString(s, ""))
	if idx := strings.LastIndex(s, "/"); idx >= 0 {
		s = s[idx+1:]
	}

	switch a {
	case NACO:
		s = whitespace.ReplaceAllString(strings.ToLower(s), "")
		if !strings.HasPrefix(s, "n") || !onlyRunes(s, "0123456789nbors") {
			return "", false
		}
	case ISNI:
		s = strings.ToUpper(s)
		s = strings.NewReplacer(" ", "", "-", "").Replace(s)
		if !onlyRunes(s, "0123456789X") {
			return "", false
		}
	case VIAF:
		s = personalSuffix.ReplaceAllString(s, "")
		s = strings.TrimSpace(s)
		if !onlyRunes(s, "0123456789") {
			return "", false
		}
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

func onlyRunes(s, allowed string) bool {
	for _, r := range s {
		if !strings.ContainsRune(allowed, r) {
			return false
		}
	}
	return true
}
