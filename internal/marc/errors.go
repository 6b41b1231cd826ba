package marc

import "errors"

var (
	// ErrRecordLength reports a malformed length prefix or a body shorter than
	// the prefix announced. It ends the stream.
	ErrRecordLength = errors.New("marc: invalid record length in first 5 bytes of record")
	// ErrLeader reports a leader that is not 24 ASCII bytes.
	ErrLeader = errors.New("marc: error reading record leader")
	// ErrBaseAddress reports a missing or non-positive base address.
	ErrBaseAddress = errors.New("marc: error locating base address of record")
	// ErrBaseAddressLength reports a base address beyond the record.
	ErrBaseAddressLength = errors.New("marc: base address exceeds size of record")
	// ErrDirectory reports a directory that is not a whole number of entries.
	ErrDirectory = errors.New("marc: record directory is invalid")
	// ErrFields reports a record that produced no fields.
	ErrFields = errors.New("marc: error locating fields in record")
	// ErrTooLong reports a record that cannot be encoded because a length
	// or offset does not fit its fixed-width slot.
	ErrTooLong = errors.New("marc: record too long to encode")
)

// IsRecordFatal reports whether err invalidates only the current record, so
// the caller can continue with the next one.
func IsRecordFatal(err error) bool {
	switch {
	case errors.Is(err, ErrLeader),
		errors.Is(err, ErrBaseAddress),
		errors.Is(err, ErrBaseAddressLength),
		errors.Is(err, ErrDirectory),
		errors.Is(err, ErrFields):
		return true
	}
	return false
}
