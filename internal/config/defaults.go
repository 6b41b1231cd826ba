package config

const (
	defaultDataDir      = "Data"
	defaultDatabase     = "~/.local/share/identigraph/identities_graph.db"
	defaultOutputDir    = "~/.local/share/identigraph/output"
	defaultLogDir       = "~/.local/share/identigraph/logs"
	defaultBNBPattern   = "BNB/*-bnb.mrc"
	defaultNACOPattern  = "NACO/naco*.lex"
	defaultVIAFPattern  = "VIAF/viaf*-marc21.lex"
	defaultLinksPattern = "VIAF/viaf*-links.txt"
	defaultTSVPattern   = "TSV/*.tsv"
	defaultISBNPattern  = "ISBN/*.txt"
	defaultWorkers      = 4
	defaultQueueDepth   = 64
	defaultBatchRows    = 5000
	defaultChunkRecords = 256
	defaultLogFormat    = "auto"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults. Database and
// output locations are left empty so normalization can consult the
// environment before falling back to the built-in paths.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Sources: Sources{
			BNB:       defaultBNBPattern,
			NACO:      defaultNACOPattern,
			VIAF:      defaultVIAFPattern,
			VIAFLinks: defaultLinksPattern,
			TSV:       defaultTSVPattern,
			ISBN:      defaultISBNPattern,
		},
		Ingest: Ingest{
			Workers:      defaultWorkers,
			QueueDepth:   defaultQueueDepth,
			BatchRows:    defaultBatchRows,
			ChunkRecords: defaultChunkRecords,
		},
		Closure: Closure{
			AttachByISBN: true,
		},
		Export: Export{
			Summary: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
