package marc

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Reader pulls records from a byte stream. It is not safe for concurrent use.
type Reader struct {
	r     *bufio.Reader
	count int
	err   error
}

// NewReader wraps r. The caller owns r and closes it.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, 64*1024)}
}

// Count returns the number of records pulled so far, including skipped ones.
func (r *Reader) Count() int { return r.count }

// Next returns the next record. It returns io.EOF at a clean end of stream.
// A record-fatal error (see IsRecordFatal) leaves the reader positioned at
// the following record; any other error is returned again on every later call.
func (r *Reader) Next() (*Record, error) {
	if r.err != nil {
		return nil, r.err
	}

	var prefix [5]byte
	n, err := io.ReadFull(r.r, prefix[:])
	switch {
	case n == 0 && (err == io.EOF || err == io.ErrUnexpectedEOF):
		r.err = io.EOF
		return nil, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return nil, r.fail(fmt.Errorf("%w: %d byte prefix at record %d", ErrRecordLength, n, r.count+1))
	case err != nil:
		return nil, r.fail(fmt.Errorf("read record prefix: %w", err))
	}

	length, err := strconv.Atoi(strings.TrimSpace(string(prefix[:])))
	if err != nil || length < len(prefix) {
		return nil, r.fail(fmt.Errorf("%w: %q at record %d", ErrRecordLength, prefix[:], r.count+1))
	}

	data := make([]byte, length)
	copy(data, prefix[:])
	if _, err := io.ReadFull(r.r, data[len(prefix):]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, r.fail(fmt.Errorf("%w: truncated body at record %d", ErrRecordLength, r.count+1))
		}
		return nil, r.fail(fmt.Errorf("read record body: %w", err))
	}

	r.count++
	rec, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("record %d: %w", r.count, err)
	}
	return rec, nil
}

func (r *Reader) fail(err error) error {
	r.err = err
	return err
}

// Decode parses one complete record, length prefix included.
func Decode(data []byte) (*Record, error) {
	if len(data) < leaderLength || !isASCII(data[:leaderLength]) {
		return nil, ErrLeader
	}
	rec := &Record{Leader: string(data[:leaderLength]), index: make(map[string][]int)}

	base, err := strconv.Atoi(strings.TrimSpace(string(data[12:17])))
	if err != nil || base <= 0 {
		return nil, ErrBaseAddress
	}
	if base >= len(data) {
		return nil, ErrBaseAddressLength
	}

	// The directory ends with a field terminator just before the base address.
	var directory []byte
	if base-1 > leaderLength {
		directory = data[leaderLength : base-1]
	}
	if len(directory)%directoryEntryLength != 0 {
		return nil, ErrDirectory
	}

	for start := 0; start < len(directory); start += directoryEntryLength {
		entry := directory[start : start+directoryEntryLength]
		tag := string(entry[0:3])
		fieldLength, errLen := strconv.Atoi(string(entry[3:7]))
		offset, errOff := strconv.Atoi(string(entry[7:12]))
		if errLen != nil || errOff != nil {
			return nil, fmt.Errorf("%w: entry %q", ErrDirectory, entry)
		}
		body := slice(data, base+offset, base+offset+fieldLength-1)

		if IsControlTag(tag) {
			rec.AddField(NewControlField(tag, strings.ToValidUTF8(string(body), "")))
			continue
		}
		rec.AddField(decodeDataField(tag, body))
	}

	if rec.Len() == 0 {
		return nil, ErrFields
	}
	return rec, nil
}

func decodeDataField(tag string, body []byte) *DataField {
	parts := bytes.Split(body, []byte{subfieldDelimiter})
	field := &DataField{tag: tag, Indicators: [2]byte{' ', ' '}}
	for i := 0; i < len(parts[0]) && i < 2; i++ {
		if c := parts[0][i]; c < utf8.RuneSelf {
			field.Indicators[i] = c
		}
	}
	for _, part := range parts[1:] {
		if len(part) == 0 || part[0] >= utf8.RuneSelf || !utf8.Valid(part[1:]) {
			continue
		}
		field.Subfields = append(field.Subfields, Subfield{Code: part[0], Value: string(part[1:])})
	}
	return field
}

// slice returns data[start:end] with both bounds clamped to the buffer.
func slice(data []byte, start, end int) []byte {
	start = min(max(start, 0), len(data))
	end = min(max(end, start), len(data))
	return data[start:end]
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
