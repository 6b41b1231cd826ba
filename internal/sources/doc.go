// Package sources parses the line-oriented inputs: tab-separated identity
// lists, VIAF cluster link tables and ISBN equivalence lists.
//
// Each parser is forgiving in the same way the record codec is: a line that
// does not have the expected shape is skipped and counted, never fatal.
package sources
