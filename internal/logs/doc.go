// Package logs reads the JSON log file the CLI mirrors every session into.
//
// Tail returns the last matching lines of the file together with the byte
// offset reached, and follow mode polls from that offset for new records.
// A Filter narrows records by session, component and minimum level.
package logs
