// Command identigraph builds and queries the identity graph.
//
// Sources are loaded with the ingest subcommands, indexed with index and
// exported with export, which also runs the cross-reference closure.
// match verifies publisher name lists against the graph and stats prints
// relation sizes.
package main
