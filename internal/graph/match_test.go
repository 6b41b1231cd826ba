package graph_test

import (
	"context"
	"reflect"
	"testing"

	"identigraph/internal/graph"
	"identigraph/internal/testsupport"
)

func TestResolveThroughEquivalentISBN(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	set := graph.EdgeSet{}
	set.Add(graph.VIAFISBN, "viaf:1", "9780306406157")
	set.Add(graph.VIAFEquivalences, "viaf:1", "naco:n79021164")
	set.Add(graph.VIAFEquivalences, "viaf:1", "isni:0000000121464389")
	set.Add(graph.VIAFString, "viaf:1", "Smith, John")
	set.Add(graph.VIAFString, "viaf:1", "Smith, J.")
	set.Add(graph.ISBNEquivalents, "9780000000002", "9780306406157")
	set.Add(graph.VIAFISBN, "viaf:2", "9781111111113")
	testsupport.MustUpsert(t, store, set)

	got, err := store.Resolve(ctx, []graph.Candidate{
		{Name: "Smith, J", ISBN: "9780000000002", Proprietary: "HC9"},
		{Name: "Nobody", ISBN: "9789999999991", Proprietary: "HC10"},
		{Name: "", ISBN: "9780000000002"},
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one resolution, got %+v", got)
	}
	want := graph.Resolution{
		Candidate:      graph.Candidate{Name: "Smith, J", ISBN: "9780000000002", Proprietary: "HC9"},
		EquivalentISBN: "9780306406157",
		VIAF:           "viaf:1",
		Identifiers:    []string{"isni:0000000121464389", "naco:n79021164"},
		Names:          []string{"Smith, J.", "Smith, John"},
	}
	if !reflect.DeepEqual(got[0], want) {
		t.Fatalf("Resolve() = %+v, want %+v", got[0], want)
	}
}

func TestResolveSelfEquivalentAndMultipleHubs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	set := graph.EdgeSet{}
	set.Add(graph.VIAFISBN, "viaf:1", "9780000000002")
	set.Add(graph.VIAFISBN, "viaf:2", "9780000000002")
	set.Add(graph.VIAFString, "viaf:2", "Jones, Ann")
	testsupport.MustUpsert(t, store, set)

	got, err := store.Resolve(ctx, []graph.Candidate{{Name: "Smith, J", ISBN: "9780000000002"}})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected a resolution per hub, got %+v", got)
	}
	if got[0].VIAF != "viaf:1" || got[0].EquivalentISBN != "9780000000002" || got[0].Names != nil {
		t.Fatalf("unexpected first resolution: %+v", got[0])
	}
	if got[1].VIAF != "viaf:2" || !reflect.DeepEqual(got[1].Names, []string{"Jones, Ann"}) {
		t.Fatalf("unexpected second resolution: %+v", got[1])
	}

	// the candidate table is per call
	again, err := store.Resolve(ctx, nil)
	if err != nil {
		t.Fatalf("second Resolve failed: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("expected no resolutions for no candidates, got %+v", again)
	}
}

func TestReportQueries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	set := graph.EdgeSet{}
	set.Add(graph.OtherEquivalences, "naco:n2", "isni:B")
	set.Add(graph.OtherEquivalences, "naco:n2", "isni:C")
	set.Add(graph.VIAFEquivalences, "viaf:1", "naco:n1")
	set.Add(graph.VIAFEquivalences, "viaf:1", "isni:A")
	set.Add(graph.VIAFEquivalences, "viaf:1", "harpercollins:HC9")
	set.Add(graph.NACOAuthorised, "n1", "Smith, John, 1950-")
	set.Add(graph.VIAFEquivalences, "viaf:3", "penguin:P1")
	testsupport.MustUpsert(t, store, set)

	groups, err := store.NACOISNIEquivalents(ctx)
	if err != nil {
		t.Fatalf("NACOISNIEquivalents failed: %v", err)
	}
	wantGroups := []graph.Group{
		{Key: "naco:n2", Values: []string{"isni:B", "isni:C"}},
		{Key: "naco:n1", Values: []string{"isni:A"}},
	}
	if !reflect.DeepEqual(groups, wantGroups) {
		t.Fatalf("NACOISNIEquivalents() = %+v, want %+v", groups, wantGroups)
	}

	links, err := store.ProprietaryLinks(ctx)
	if err != nil {
		t.Fatalf("ProprietaryLinks failed: %v", err)
	}
	// penguin:P1 shares its hub with nothing and is not reported
	if len(links) != 1 {
		t.Fatalf("expected one proprietary link, got %+v", links)
	}
	link := links[0]
	if link.Identifier != "harpercollins:HC9" || link.Authority != "harpercollins" {
		t.Fatalf("unexpected link identity: %+v", link)
	}
	if !reflect.DeepEqual(link.VIAF, []string{"viaf:1"}) ||
		!reflect.DeepEqual(link.Equivalents, []string{"isni:A", "naco:n1"}) ||
		!reflect.DeepEqual(link.Authorised, []string{"Smith, John, 1950-"}) {
		t.Fatalf("unexpected link: %+v", link)
	}
}
