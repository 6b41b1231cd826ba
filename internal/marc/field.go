package marc

import (
	"strings"
)

const (
	subfieldDelimiter = 0x1F
	fieldTerminator   = 0x1E
	recordTerminator  = 0x1D
)

// reservedControlTags are non-numeric tags that carry control data in
// ALEPH exports.
var reservedControlTags = map[string]struct{}{
	"DB ": {},
	"FMT": {},
	"SYS": {},
}

// IsControlTag reports whether tag identifies a control field: a numeric tag
// below 010 or one of the reserved ALEPH control tags.
func IsControlTag(tag string) bool {
	if _, ok := reservedControlTags[tag]; ok {
		return true
	}
	if len(tag) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if tag[i] < '0' || tag[i] > '9' {
			return false
		}
	}
	return tag < "010"
}

// Field is a single tagged entry of a record. ControlField and DataField are
// the only implementations; subfield access is available on DataField only.
type Field interface {
	Tag() string
	// Text renders the field for display. codes selects the subfields
	// joined for data fields and is ignored by control fields.
	Text(codes string) string
	String() string
	encode() []byte
}

// ControlField holds unstructured control data.
type ControlField struct {
	tag  string
	Data string
}

// NewControlField builds a control field, padding short tags to three characters.
func NewControlField(tag, data string) *ControlField {
	return &ControlField{tag: normalizeTag(tag), Data: data}
}

func (f *ControlField) Tag() string { return f.tag }

// Text returns the data with blanks shown as '#'.
func (f *ControlField) Text(string) string {
	return strings.ReplaceAll(f.Data, " ", "#")
}

func (f *ControlField) String() string {
	return "=" + f.tag + "  " + f.Text("")
}

func (f *ControlField) encode() []byte {
	out := make([]byte, 0, len(f.Data)+1)
	out = append(out, f.Data...)
	return append(out, fieldTerminator)
}

// Subfield is a (code, value) pair within a data field.
type Subfield struct {
	Code  byte
	Value string
}

// DataField holds two indicators and an ordered list of subfields.
type DataField struct {
	tag        string
	Indicators [2]byte
	Subfields  []Subfield
}

// NewDataField builds a data field. Indicators beyond the first two are
// ignored and missing ones default to blank.
func NewDataField(tag, indicators string, subfields ...Subfield) *DataField {
	f := &DataField{tag: normalizeTag(tag), Indicators: [2]byte{' ', ' '}, Subfields: subfields}
	for i := 0; i < len(indicators) && i < 2; i++ {
		f.Indicators[i] = indicators[i]
	}
	return f
}

func (f *DataField) Tag() string { return f.tag }

// Values returns the values of subfields whose code is in codes, in field
// order. With no codes every subfield value is returned.
func (f *DataField) Values(codes ...byte) []string {
	var values []string
	for _, sf := range f.Subfields {
		if len(codes) == 0 || containsByte(codes, sf.Code) {
			values = append(values, sf.Value)
		}
	}
	return values
}

// First returns the first value of the subfield with the given code.
func (f *DataField) First(code byte) (string, bool) {
	for _, sf := range f.Subfields {
		if sf.Code == code {
			return sf.Value, true
		}
	}
	return "", false
}

// Has reports whether the field carries at least one subfield with the code.
func (f *DataField) Has(code byte) bool {
	_, ok := f.First(code)
	return ok
}

// HasAny reports whether the field carries any of the listed subfield codes.
func (f *DataField) HasAny(codes string) bool {
	for _, sf := range f.Subfields {
		if strings.IndexByte(codes, sf.Code) >= 0 {
			return true
		}
	}
	return false
}

// Text joins the values of the subfields listed in codes with a single space.
func (f *DataField) Text(codes string) string {
	parts := make([]string, 0, len(f.Subfields))
	for _, sf := range f.Subfields {
		if strings.IndexByte(codes, sf.Code) >= 0 {
			parts = append(parts, sf.Value)
		}
	}
	return strings.Join(parts, " ")
}

func (f *DataField) String() string {
	var b strings.Builder
	b.WriteString("=")
	b.WriteString(f.tag)
	b.WriteString("  ")
	for _, ind := range f.Indicators {
		if ind == ' ' || ind == '#' {
			b.WriteByte('#')
		} else {
			b.WriteByte(ind)
		}
	}
	b.WriteByte(' ')
	for _, sf := range f.Subfields {
		b.WriteByte('$')
		b.WriteByte(sf.Code)
		b.WriteString(sf.Value)
	}
	return b.String()
}

func (f *DataField) encode() []byte {
	size := 3
	for _, sf := range f.Subfields {
		size += 2 + len(sf.Value)
	}
	out := make([]byte, 0, size)
	out = append(out, f.Indicators[0], f.Indicators[1])
	for _, sf := range f.Subfields {
		out = append(out, subfieldDelimiter, sf.Code)
		out = append(out, sf.Value...)
	}
	return append(out, fieldTerminator)
}

func normalizeTag(tag string) string {
	if len(tag) >= 3 {
		return tag[:3]
	}
	return strings.Repeat(" ", 3-len(tag)) + tag
}

func containsByte(set []byte, b byte) bool {
	for _, c := range set {
		if c == b {
			return true
		}
	}
	return false
}
