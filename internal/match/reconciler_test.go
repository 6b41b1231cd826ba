package match_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"identigraph/internal/extract"
	"identigraph/internal/graph"
	"identigraph/internal/identifier"
	"identigraph/internal/ingest"
	"identigraph/internal/logging"
	"identigraph/internal/match"
	"identigraph/internal/testsupport"
)

const (
	sharedISBN = "9780000000002"
	otherISBN  = "9780306406157"
)

// seedScenario loads a tagged record and an untagged publisher record that
// share an ISBN, plus an unrelated hub, then closes the graph.
func seedScenario(t *testing.T, store *graph.Store) {
	t.Helper()

	set := ingest.Edges(extract.Result{
		Names:       []string{"Smith, John"},
		ISBNs:       []string{sharedISBN},
		Identifiers: map[identifier.Authority][]string{identifier.VIAF: {"V123"}},
	})
	set.Merge(ingest.Edges(extract.Result{
		ISBNs:       []string{sharedISBN},
		Identifiers: map[identifier.Authority][]string{identifier.HarperCollins: {"HC9"}},
	}))
	set.Merge(ingest.Edges(extract.Result{
		Names:       []string{"Austen, Jane"},
		ISBNs:       []string{otherISBN},
		Identifiers: map[identifier.Authority][]string{identifier.VIAF: {"V456"}},
	}))
	testsupport.MustUpsert(t, store, set)

	_, err := store.Clean(context.Background(), graph.ClosureOptions{AttachByISBN: true})
	require.NoError(t, err)
}

func TestReconcilerScenario(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	seedScenario(t, store)

	linked, err := store.HasEdge(context.Background(), graph.VIAFEquivalences, "viaf:V123", "harpercollins:HC9")
	require.NoError(t, err)
	require.True(t, linked, "closure should attach HC9 to the hub sharing its ISBN")

	list := filepath.Join(cfg.Paths.DataDir, "TSV", "Harper list.tsv")
	testsupport.WriteLines(t, list,
		"Author string\tISBN\tHarperCollins ID",
		"Smith, J\t"+sharedISBN+"\tHC9",
		"Dickens, Charles\t"+otherISBN+"\tHC10",
		"Unknown, Author\t9781111111113\tHC11",
		"No ISBN\t\tHC12",
	)

	results, err := match.NewReconciler(cfg, store, logging.NewNop()).Run(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, 4, res.Rows)
	assert.Equal(t, 3, res.Candidates)
	assert.Equal(t, 1, res.Accepted)
	assert.Equal(t, 1, res.Rejected)
	assert.Equal(t, filepath.Join(cfg.Paths.OutputDir, "Harper list_name_list_accepted.txt"), res.AcceptedPath)

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "scenario_accepted", []byte(testsupport.ReadFile(t, res.AcceptedPath)))
	g.Assert(t, "scenario_rejected", []byte(testsupport.ReadFile(t, res.RejectedPath)))
}

func TestReadCandidatesExpandsNamesAndISBNs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "list.tsv")
	testsupport.WriteLines(t, path,
		"Name string\tAlt string\tISBN\tISBN 2\tPenguin\tRandomHouse",
		"Smith, J\tSmith, John\t"+sharedISBN+"\t0306406152\t\tRH1",
	)

	candidates, rows, err := match.ReadCandidates(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)
	assert.ElementsMatch(t, []graph.Candidate{
		{Name: "Smith, J", ISBN: sharedISBN, Proprietary: "RH1"},
		{Name: "Smith, J", ISBN: otherISBN, Proprietary: "RH1"},
		{Name: "Smith, John", ISBN: sharedISBN, Proprietary: "RH1"},
		{Name: "Smith, John", ISBN: otherISBN, Proprietary: "RH1"},
	}, candidates)
}

func TestReconcilerWithoutLists(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	_, err := match.NewReconciler(cfg, store, logging.NewNop()).Run(context.Background(), nil)
	require.Error(t, err)
}
