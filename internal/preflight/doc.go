// Package preflight provides readiness checks for the directories, source
// files and graph database that identigraph depends on.
//
// The CLI "identigraph status" command runs RunAll and prints one row per
// check. Checks never create or modify anything.
package preflight
