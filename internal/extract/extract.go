// Package extract maps decoded authority and bibliographic records to the
// names, ISBNs and identifiers that feed the equivalence graph.
package extract

import (
	"fmt"
	"slices"
	"strings"

	"identigraph/internal/identifier"
	"identigraph/internal/isbn"
	"identigraph/internal/marc"
	"identigraph/internal/textutil"
)

// Profile selects the extraction rules for a source.
type Profile string

const (
	BNB  Profile = "bnb"
	NACO Profile = "naco"
	VIAF Profile = "viaf"
)

// Profiles lists the supported profiles.
var Profiles = []Profile{BNB, NACO, VIAF}

// ParseProfile resolves a profile name case-insensitively.
func ParseProfile(name string) (Profile, error) {
	p := Profile(strings.ToLower(strings.TrimSpace(name)))
	if !slices.Contains(Profiles, p) {
		return "", fmt.Errorf("unknown profile %q (want bnb, naco or viaf)", name)
	}
	return p, nil
}

// excludedTags mark records describing something other than a person.
var excludedTags = []string{"130", "147", "148", "150", "151", "155", "162", "180", "181", "182", "185", "240"}

// roleCodes mark name fields that carry a title, form or relationship
// qualifier rather than a plain name form.
const roleCodes = "fhklmnoprstv"

const nameCodes = "abcdg"

// Result is what a single record contributes. Slices are sorted and free of
// duplicates; Identifiers holds only authorities with at least one value.
type Result struct {
	Names       []string
	Authorised  string
	ISBNs       []string
	Identifiers map[identifier.Authority][]string
}

// Empty reports whether the record contributed nothing.
func (r Result) Empty() bool {
	return len(r.Names) == 0 && len(r.ISBNs) == 0 && len(r.Identifiers) == 0 && r.Authorised == ""
}

// Values returns the identifiers recorded for authority a.
func (r Result) Values(a identifier.Authority) []string {
	return r.Identifiers[a]
}

// Excluded reports whether rec describes a non-personal entity or a textual
// work and must not contribute to the graph.
func Excluded(rec *marc.Record) bool {
	if rec.HasAny(excludedTags...) {
		return true
	}
	for _, f := range rec.DataFields("336") {
		content, ok := f.First('a')
		if ok && (strings.Contains(content, "txt") || strings.Contains(content, "text")) {
			return true
		}
	}
	return false
}

// Extract applies profile p to rec. It never fails: values that do not
// normalize are dropped.
func Extract(rec *marc.Record, p Profile) Result {
	if rec == nil || Excluded(rec) {
		return Result{}
	}

	names := newSet()
	var authorised string
	for _, f := range rec.DataFields("100", "400", "700") {
		if f.HasAny(roleCodes) {
			continue
		}
		name := textutil.NFC(strings.TrimSpace(f.Text(nameCodes)))
		if name == "" {
			continue
		}
		names.add(name)
		if authorised == "" && f.Tag() == "100" {
			authorised = name
		}
	}
	for _, f := range rec.DataFields("378") {
		names.add(textutil.NFC(strings.TrimSpace(f.Text("q"))))
	}

	return Result{
		Names:       names.sorted(),
		Authorised:  authorised,
		ISBNs:       isbns(rec, p),
		Identifiers: identifiers(rec, p),
	}
}

func isbns(rec *marc.Record, p Profile) []string {
	tag := "020"
	if p == VIAF {
		tag = "901"
	}
	out := newSet()
	for _, f := range rec.DataFields(tag) {
		raw, ok := f.First('a')
		if !ok {
			continue
		}
		if value, ok := isbn.Parse(raw); ok {
			out.add(value)
		}
	}
	return out.sorted()
}

var linkPrefixes = []struct {
	prefix    string
	authority identifier.Authority
}{
	{"(ISNI)", identifier.ISNI},
	{"(VIAF)", identifier.VIAF},
	{"(LC)", identifier.NACO},
}

func identifiers(rec *marc.Record, p Profile) map[identifier.Authority][]string {
	found := make(map[identifier.Authority]set)
	add := func(a identifier.Authority, raw string) {
		value, ok := identifier.Normalize(raw, a)
		if !ok {
			return
		}
		if found[a] == nil {
			found[a] = newSet()
		}
		found[a].add(value)
	}

	if p == NACO {
		for _, f := range rec.ControlFields("001") {
			add(identifier.NACO, f.Data)
		}
	}

	for _, f := range rec.DataFields("024") {
		source, _ := f.First('2')
		for _, value := range f.Values('a') {
			switch {
			case strings.Contains(value, "viaf") || strings.Contains(source, "viaf"):
				add(identifier.VIAF, value)
			case strings.Contains(value, "isni") || strings.Contains(source, "isni"):
				add(identifier.ISNI, value)
			}
		}
	}

	for _, f := range rec.DataFields("100", "400", "600", "700") {
		if f.HasAny(roleCodes) {
			continue
		}
		for _, value := range f.Values('0') {
			value = strings.TrimSpace(value)
			for _, lp := range linkPrefixes {
				if strings.HasPrefix(value, lp.prefix) {
					add(lp.authority, strings.TrimPrefix(value, lp.prefix))
					break
				}
			}
		}
		if p != BNB {
			continue
		}
		for _, value := range f.Values('8') {
			if strings.Contains(value, "isni") {
				add(identifier.ISNI, value)
			}
		}
		for _, value := range f.Values('9') {
			if strings.Contains(value, "viaf") {
				add(identifier.VIAF, value)
			}
		}
	}

	out := make(map[identifier.Authority][]string, len(found))
	for a, values := range found {
		out[a] = values.sorted()
	}
	return out
}

type set map[string]struct{}

func newSet() set { return make(set) }

func (s set) add(value string) {
	if value != "" {
		s[value] = struct{}{}
	}
}

func (s set) sorted() []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}
