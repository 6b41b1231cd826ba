// Package marc decodes and encodes the length-prefixed tagged record format
// used by BNB, NACO and VIAF exports.
//
// A stream is a sequence of records. Each record starts with a five digit
// decimal length, followed by the rest of a 24 byte leader, a directory of
// 12 byte entries (tag, field length, field offset) and the field data.
// Control fields carry raw text; data fields carry two indicators and a list
// of subfields introduced by the 0x1F delimiter.
//
// Reader pulls one record per call to Next. Errors are split in two classes:
// stream-fatal errors (a malformed length prefix or truncated body) end the
// stream, and record-fatal errors (bad leader, base address, directory or a
// record without fields) skip only the offending record. IsRecordFatal tells
// them apart. Undecodable subfields are dropped silently.
package marc
