package report_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"identigraph/internal/fileutil"
	"identigraph/internal/graph"
	"identigraph/internal/identifier"
	"identigraph/internal/logging"
	"identigraph/internal/report"
	"identigraph/internal/testsupport"
)

func seed(t *testing.T, store *graph.Store) {
	t.Helper()
	set := graph.EdgeSet{}
	set.Add(graph.VIAFEquivalences, "viaf:1", "naco:n79021164")
	set.Add(graph.VIAFEquivalences, "viaf:1", "isni:0000000121464389")
	set.Add(graph.VIAFEquivalences, "viaf:1", "harpercollins:HC9")
	set.Add(graph.VIAFEquivalences, "viaf:2", "penguin:P1")
	set.Add(graph.VIAFEquivalences, "viaf:2", "isni:000000012146438X")
	set.Add(graph.OtherEquivalences, "naco:n80000001", "isni:0000000000000001")
	set.Add(graph.NACOAuthorised, "n79021164", "Smith, John")
	testsupport.MustUpsert(t, store, set)
}

func TestExporterWritesReports(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	seed(t, store)

	summary, err := report.NewExporter(cfg, store, logging.NewNop()).Run(context.Background(), report.Options{
		Parquet:   true,
		Summary:   true,
		SessionID: "session-1",
	})
	require.NoError(t, err)
	out := cfg.Paths.OutputDir

	assert.Equal(t,
		"NACO ID\tISNI\n"+
			"naco:n80000001\tisni:0000000000000001\n"+
			"naco:n79021164\tisni:0000000121464389\n",
		testsupport.ReadFile(t, filepath.Join(out, report.NACOISNIFileName)))

	assert.Equal(t,
		"HarperCollins identifier\tVIAF\tISNI\tNACO\tOther identifiers\tNACO authorised name\n"+
			"harpercollins:HC9\tviaf:1\tisni:0000000121464389\tnaco:n79021164\t\tSmith, John\n",
		testsupport.ReadFile(t, filepath.Join(out, report.ProprietaryFileName(identifier.HarperCollins))))
	assert.Equal(t,
		"Penguin identifier\tVIAF\tISNI\tNACO\tOther identifiers\tNACO authorised name\n"+
			"penguin:P1\tviaf:2\tisni:000000012146438X\t\t\t\n",
		testsupport.ReadFile(t, filepath.Join(out, report.ProprietaryFileName(identifier.Penguin))))
	assert.Equal(t,
		"RandomHouse identifier\tVIAF\tISNI\tNACO\tOther identifiers\tNACO authorised name\n",
		testsupport.ReadFile(t, filepath.Join(out, report.ProprietaryFileName(identifier.RandomHouse))))

	dump := testsupport.ReadFile(t, filepath.Join(out, graph.DumpFileName(graph.VIAFEquivalences)))
	assert.Len(t, strings.Split(strings.TrimSpace(dump), "\n"), 5)

	require.NotNil(t, summary.Parquet)
	assert.Equal(t, int64(7), summary.Parquet.Rows)
	require.Len(t, summary.Reports, 4)
	assert.Equal(t, report.NACOISNIFileName, summary.Reports[0].Name)
	assert.Equal(t, int64(2), summary.Reports[0].Rows)
	assert.Equal(t, "HarperCollins_identifiers.txt", summary.Reports[1].Name)
	assert.Equal(t, int64(1), summary.Reports[1].Rows)
	assert.Equal(t, int64(0), summary.Reports[3].Rows)

	digest, err := fileutil.FileDigest(filepath.Join(out, report.NACOISNIFileName))
	require.NoError(t, err)
	assert.Equal(t, digest, summary.Reports[0].Digest)
}

func TestParquetDumpRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	seed(t, store)

	path := filepath.Join(t.TempDir(), report.ParquetFileName)
	artifact, err := report.WriteParquetDump(context.Background(), store, path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), artifact.Rows)
	onDisk, err := fileutil.FileDigest(path)
	require.NoError(t, err)
	assert.Equal(t, onDisk, artifact.Digest)

	rows, err := report.ReadParquetDump(path)
	require.NoError(t, err)
	assert.Len(t, rows, 7)
	assert.Contains(t, rows, report.EdgeRow{Relation: "VIAF_equivalences", Left: "viaf:1", Right: "harpercollins:HC9"})
	assert.Contains(t, rows, report.EdgeRow{Relation: "NACO_authorised", Left: "n79021164", Right: "Smith, John"})
}

func TestSummaryFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	seed(t, store)

	_, err := report.NewExporter(cfg, store, logging.NewNop()).Run(context.Background(), report.Options{Summary: true, SessionID: "abc"})
	require.NoError(t, err)

	got, err := report.ReadSummary(filepath.Join(cfg.Paths.OutputDir, report.SummaryFileName))
	require.NoError(t, err)
	assert.Equal(t, "abc", got.SessionID)
	assert.Equal(t, store.Path(), got.Database)
	assert.Len(t, got.Relations, len(graph.Relations))
	assert.Nil(t, got.Parquet)
	require.Len(t, got.Reports, 4)
	assert.Len(t, got.Reports[0].SHA256, 64)
	assert.False(t, got.GeneratedAt.IsZero())
}
