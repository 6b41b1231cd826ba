// Package match verifies publisher name lists against the identity graph.
//
// Each (name, ISBN, proprietary identifier) row of a list is resolved to the
// hubs holding that ISBN or one of its equivalents, then scored against the
// names attached to each hub. Rows scoring at least Threshold go to the
// accepted report, the rest to the rejected report.
package match
