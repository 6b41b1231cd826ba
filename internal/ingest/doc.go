// Package ingest turns source files into graph edges.
//
// Each Driver reads one kind of source (binary authority or bibliographic
// records, TSV exports, VIAF link tables, ISBN equivalence lists) and emits
// chunks of edges. A Pipeline runs drivers over many files concurrently and
// serializes every chunk through one writer goroutine, which batches rows
// into the store. A bounded channel between the two sides applies
// backpressure when extraction outruns the database.
//
// Records that cannot be decoded are skipped with a warning. A file whose
// stream cannot be read further is abandoned and the run moves on. A failed
// store write ends the run.
package ingest
