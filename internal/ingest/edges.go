package ingest

import (
	"identigraph/internal/extract"
	"identigraph/internal/graph"
	"identigraph/internal/identifier"
)

// Edges converts one extraction result into graph edges. With hub
// identifiers present every linked identifier and ISBN hangs off each hub;
// without them the identifiers are paired with one another and with the
// ISBNs. Names always link to the ISBNs and to any hub.
func Edges(r extract.Result) graph.EdgeSet {
	set := graph.EdgeSet{}
	hubs := r.Values(identifier.VIAF)

	if len(hubs) > 0 {
		for _, v := range hubs {
			hub := identifier.Key(identifier.VIAF, v)
			for _, a := range identifier.Linked {
				for _, value := range r.Values(a) {
					set.Add(graph.VIAFEquivalences, hub, identifier.Key(a, value))
				}
			}
			for _, isbn := range r.ISBNs {
				set.Add(graph.VIAFISBN, hub, isbn)
			}
		}
	} else {
		for _, pair := range identifier.Pairs {
			for _, left := range r.Values(pair.Left) {
				for _, right := range r.Values(pair.Right) {
					set.Add(graph.OtherEquivalences, identifier.Key(pair.Left, left), identifier.Key(pair.Right, right))
				}
			}
		}
		for _, a := range identifier.Linked {
			for _, value := range r.Values(a) {
				for _, isbn := range r.ISBNs {
					set.Add(graph.OtherISBN, identifier.Key(a, value), isbn)
				}
			}
		}
	}

	for _, name := range r.Names {
		for _, isbn := range r.ISBNs {
			set.Add(graph.StringISBN, name, isbn)
		}
		for _, v := range hubs {
			set.Add(graph.VIAFString, identifier.Key(identifier.VIAF, v), name)
		}
	}
	return set
}

// RecordEdges applies the profile rules on top of Edges. NACO records
// without an authorised form contribute nothing; the others also record
// their authorised and variant forms keyed by the bare NACO value.
func RecordEdges(r extract.Result, p extract.Profile) (graph.EdgeSet, bool) {
	if p != extract.NACO {
		set := Edges(r)
		return set, set.Len() > 0
	}
	if r.Authorised == "" {
		return nil, false
	}
	set := Edges(r)
	for _, naco := range r.Values(identifier.NACO) {
		set.Add(graph.NACOAuthorised, naco, r.Authorised)
		for _, name := range r.Names {
			if name != r.Authorised {
				set.Add(graph.NACOVariants, naco, name)
			}
		}
	}
	return set, set.Len() > 0
}
