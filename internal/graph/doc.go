// Package graph persists identity equivalence edges in SQLite and closes them
// onto hub identifiers.
//
// The Store owns nine two-column relations, each unique on its pair. Edges
// are only ever added with insert-if-absent semantics, so replaying an
// ingestion is harmless. CrossReference collapses indirect equivalences onto
// the hub relation and Clean follows it with a null purge and VACUUM.
//
// One Store is the single writer of a database file; a lock file beside the
// database rejects a second writer with ErrLocked. The connection pool holds
// a single connection, so callbacks passed to EachEdge must not call back
// into the Store.
package graph
