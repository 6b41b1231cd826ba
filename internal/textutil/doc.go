// Package textutil provides the text processing shared by the extractor and
// the match reconciler.
//
// The primary use cases are:
//   - Folding personal names to a comparable form (accents removed, lower case)
//   - Scoring two names with an order-independent token-set ratio
//   - Sanitizing filenames derived from source files
//
// Scores are integers on a 0 to 100 scale. Ratio is computed from the longest
// common subsequence of the two strings, so it is symmetric and does not
// depend on where the strings first diverge.
package textutil
