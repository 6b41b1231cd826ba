package marc

import (
	"slices"
	"strings"
)

const (
	leaderLength         = 24
	directoryEntryLength = 12
)

// Record is a decoded record: a 24 character leader and its fields in
// stream order.
type Record struct {
	Leader string
	fields []Field
	index  map[string][]int
}

// NewRecord starts an empty record. The leader is padded to 24 characters
// and its indicator and subfield-code counts and entry map are reset to the
// standard "22" and "4500".
func NewRecord(leader string) *Record {
	leader = padLeader(leader)
	return &Record{
		Leader: leader[0:10] + "22" + leader[12:20] + "4500",
		index:  make(map[string][]int),
	}
}

func padLeader(leader string) string {
	if len(leader) >= leaderLength {
		return leader[:leaderLength]
	}
	return leader + strings.Repeat(" ", leaderLength-len(leader))
}

// AddField appends fields in order.
func (r *Record) AddField(fields ...Field) {
	if r.index == nil {
		r.index = make(map[string][]int)
	}
	for _, f := range fields {
		r.index[f.Tag()] = append(r.index[f.Tag()], len(r.fields))
		r.fields = append(r.fields, f)
	}
}

// Len returns the number of fields.
func (r *Record) Len() int { return len(r.fields) }

// Fields returns the fields whose tag is listed, in record order. With no
// tags every field is returned.
func (r *Record) Fields(tags ...string) []Field {
	if len(tags) == 0 {
		return slices.Clone(r.fields)
	}
	if len(tags) == 1 {
		positions := r.index[tags[0]]
		out := make([]Field, 0, len(positions))
		for _, pos := range positions {
			out = append(out, r.fields[pos])
		}
		return out
	}
	var out []Field
	for _, f := range r.fields {
		if slices.Contains(tags, f.Tag()) {
			out = append(out, f)
		}
	}
	return out
}

// DataFields returns the data fields whose tag is listed, in record order.
func (r *Record) DataFields(tags ...string) []*DataField {
	var out []*DataField
	for _, f := range r.Fields(tags...) {
		if df, ok := f.(*DataField); ok {
			out = append(out, df)
		}
	}
	return out
}

// ControlFields returns the control fields whose tag is listed.
func (r *Record) ControlFields(tags ...string) []*ControlField {
	var out []*ControlField
	for _, f := range r.Fields(tags...) {
		if cf, ok := f.(*ControlField); ok {
			out = append(out, cf)
		}
	}
	return out
}

// Field returns the first field with the tag, or nil.
func (r *Record) Field(tag string) Field {
	positions := r.index[tag]
	if len(positions) == 0 {
		return nil
	}
	return r.fields[positions[0]]
}

// HasAny reports whether the record carries a field with any of the tags.
func (r *Record) HasAny(tags ...string) bool {
	for _, tag := range tags {
		if len(r.index[tag]) > 0 {
			return true
		}
	}
	return false
}

// String renders the record in the line-oriented text form, one field per
// line, beginning with the leader.
func (r *Record) String() string {
	var b strings.Builder
	b.WriteString("=LDR  ")
	b.WriteString(r.Leader)
	b.WriteByte('\n')
	for _, f := range r.fields {
		b.WriteString(f.String())
		b.WriteByte('\n')
	}
	return b.String()
}
