package marc

import (
	"bytes"
	"fmt"
	"io"
)

// Encode serializes the record: fields in order, a rebuilt directory and a
// leader carrying the recomputed record length and base address. Leader
// bytes unrelated to length or base address are preserved.
func (r *Record) Encode() ([]byte, error) {
	var directory, body bytes.Buffer
	for _, f := range r.fields {
		data := f.encode()
		if len(data) > 9999 || body.Len() > 99999 {
			return nil, fmt.Errorf("%w: field %s", ErrTooLong, f.Tag())
		}
		// Directory entries are fixed-width bytes; tags are copied verbatim.
		tag := f.Tag()
		if len(tag) != 3 {
			return nil, fmt.Errorf("%w: tag %q is not 3 bytes", ErrDirectory, tag)
		}
		directory.WriteString(tag)
		fmt.Fprintf(&directory, "%04d%05d", len(data), body.Len())
		body.Write(data)
	}
	directory.WriteByte(fieldTerminator)
	body.WriteByte(recordTerminator)

	base := leaderLength + directory.Len()
	total := base + body.Len()
	if total > 99999 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLong, total)
	}

	leader := padLeader(r.Leader)
	out := make([]byte, 0, total)
	out = fmt.Appendf(out, "%05d%s%05d%s", total, leader[5:12], base, leader[17:])
	out = append(out, directory.Bytes()...)
	out = append(out, body.Bytes()...)
	return out, nil
}

// Writer appends encoded records to a stream.
type Writer struct {
	w io.Writer
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write encodes rec and writes it.
func (w *Writer) Write(rec *Record) error {
	data, err := rec.Encode()
	if err != nil {
		return err
	}
	if _, err := w.w.Write(data); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}
