// Package report writes the export artifacts of a cleaned graph: relation
// dumps, the NACO/ISNI equivalence list, one identifier report per
// publisher, an optional Parquet copy of every relation and a YAML run
// summary.
package report
