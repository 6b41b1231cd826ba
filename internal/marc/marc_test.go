package marc

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() *Record {
	rec := NewRecord("00000nz  a2200000n  4500")
	rec.AddField(
		NewControlField("001", "n  79021164"),
		NewControlField("008", "850926n| azannaabn |a aaa"),
		NewDataField("024", "7 ",
			Subfield{Code: 'a', Value: "http://viaf.org/viaf/102333412"},
			Subfield{Code: '2', Value: "viaf"},
		),
		NewDataField("100", "1 ",
			Subfield{Code: 'a', Value: "Smith, John,"},
			Subfield{Code: 'd', Value: "1950-"},
			Subfield{Code: '0', Value: "(ISNI)0000000121464389"},
		),
		NewDataField("400", "1 ", Subfield{Code: 'a', Value: "Smith, J."}),
		NewDataField("400", "1 ", Subfield{Code: 'a', Value: "Smythe, Jöhn"}),
	)
	return rec
}

func mustEncode(t *testing.T, rec *Record) []byte {
	t.Helper()
	data, err := rec.Encode()
	require.NoError(t, err)
	return data
}

func TestRoundTrip(t *testing.T) {
	rec := sampleRecord()
	decoded, err := Decode(mustEncode(t, rec))
	require.NoError(t, err)

	assert.Equal(t, rec.Fields(), decoded.Fields())
	assert.Equal(t, rec.Leader[5:12], decoded.Leader[5:12])
	assert.Equal(t, rec.Leader[17:], decoded.Leader[17:])

	again := mustEncode(t, decoded)
	assert.Equal(t, mustEncode(t, rec), again)
}

func TestRoundTripMultibyteTag(t *testing.T) {
	// three bytes but two runes
	tag := "0\u067f"
	require.Len(t, tag, 3)

	rec := NewRecord("")
	rec.AddField(NewDataField(tag, "  ", Subfield{Code: 'a', Value: "x"}))
	data := mustEncode(t, rec)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, rec.Fields(), decoded.Fields())
	assert.Equal(t, data, mustEncode(t, decoded))
}

func TestEncodeRejectsMalformedTag(t *testing.T) {
	for _, tag := range []string{"24", "2450"} {
		rec := NewRecord("")
		rec.AddField(&DataField{tag: tag, Indicators: [2]byte{' ', ' '}})
		_, err := rec.Encode()
		assert.ErrorIs(t, err, ErrDirectory, tag)
	}
}

func TestRecordText(t *testing.T) {
	decoded, err := Decode(mustEncode(t, sampleRecord()))
	require.NoError(t, err)

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "authority_record", []byte(decoded.String()))
}

func TestNewRecordLeader(t *testing.T) {
	rec := NewRecord("01234cam")
	assert.Len(t, rec.Leader, 24)
	assert.Equal(t, "01234cam  22        4500", rec.Leader)
}

func TestFieldLookup(t *testing.T) {
	rec := sampleRecord()

	require.True(t, rec.HasAny("130", "400"))
	require.False(t, rec.HasAny("130", "150"))
	assert.Len(t, rec.DataFields("400"), 2)
	assert.Len(t, rec.ControlFields("001", "008"), 2)

	tags := []string{}
	for _, f := range rec.Fields("400", "100") {
		tags = append(tags, f.Tag())
	}
	assert.Equal(t, []string{"100", "400", "400"}, tags)

	name := rec.Field("100").(*DataField)
	assert.Equal(t, "Smith, John, 1950-", name.Text("abcdg"))
	assert.Equal(t, []string{"(ISNI)0000000121464389"}, name.Values('0'))
	assert.True(t, name.HasAny("0t"))
	assert.False(t, name.Has('t'))
	assert.Nil(t, rec.Field("245"))
}

func TestReaderStream(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Write(sampleRecord()))
	require.NoError(t, w.Write(sampleRecord()))

	r := NewReader(&buf)
	for i := 0; i < 2; i++ {
		rec, err := r.Next()
		require.NoError(t, err)
		assert.Equal(t, 6, rec.Len())
	}
	_, err := r.Next()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 2, r.Count())
}

func TestReaderStreamFatal(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short prefix", []byte("002")},
		{"non numeric prefix", []byte("0a2b7rest of the record")},
		{"truncated body", []byte("00257nz  a22")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(bytes.NewReader(tt.data))
			_, err := r.Next()
			require.ErrorIs(t, err, ErrRecordLength)
			assert.False(t, IsRecordFatal(err))

			_, again := r.Next()
			assert.ErrorIs(t, again, ErrRecordLength)
		})
	}
}

func TestReaderSkipsRecordFatal(t *testing.T) {
	good := mustEncode(t, sampleRecord())

	tests := []struct {
		name   string
		mutate func([]byte)
		want   error
	}{
		{"non ascii leader", func(b []byte) { b[6] = 0xC3 }, ErrLeader},
		{"unparsable base address", func(b []byte) { copy(b[12:17], "abcde") }, ErrBaseAddress},
		{"zero base address", func(b []byte) { copy(b[12:17], "00000") }, ErrBaseAddress},
		{"base address past end", func(b []byte) { copy(b[12:17], "99999") }, ErrBaseAddressLength},
		{"ragged directory", func(b []byte) { copy(b[12:17], "00096") }, ErrDirectory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := bytes.Clone(good)
			tt.mutate(bad)

			stream := append(append(bytes.Clone(bad), good...), good...)
			r := NewReader(bytes.NewReader(stream))

			_, err := r.Next()
			require.ErrorIs(t, err, tt.want)
			assert.True(t, IsRecordFatal(err))

			for i := 0; i < 2; i++ {
				rec, err := r.Next()
				require.NoError(t, err)
				assert.Equal(t, 6, rec.Len())
			}
			_, err = r.Next()
			assert.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestDecodeWithoutFields(t *testing.T) {
	data := []byte("00026nz  a2200025n  4500\x1e\x1d")
	_, err := Decode(data)
	assert.ErrorIs(t, err, ErrFields)
	assert.True(t, IsRecordFatal(err))
}

func TestDecodeSkipsBadSubfields(t *testing.T) {
	rec := NewRecord("")
	rec.AddField(NewDataField("100", "1 ",
		Subfield{Code: 'a', Value: "Smith, John"},
		Subfield{Code: 'b', Value: "placeholder"},
		Subfield{Code: 'd', Value: "1950-"},
	))
	data := mustEncode(t, rec)

	idx := bytes.Index(data, []byte("placeholder"))
	require.Positive(t, idx)
	data[idx] = 0xFF
	data[idx-1] = 0xE9

	decoded, err := Decode(data)
	require.NoError(t, err)
	field := decoded.Field("100").(*DataField)
	assert.Equal(t, []string{"Smith, John", "1950-"}, field.Values())
}

func TestDecodeMissingIndicators(t *testing.T) {
	rec := NewRecord("")
	rec.AddField(&DataField{tag: "245", Indicators: [2]byte{' ', ' '}})
	data := mustEncode(t, rec)

	// drop both indicator bytes and shrink the directory length to match
	base := 24 + 12 + 1
	trimmed := append(bytes.Clone(data[:base]), data[base+2:]...)
	copy(trimmed[27:31], "0001")

	decoded, err := Decode(trimmed)
	require.NoError(t, err)
	field := decoded.Field("245").(*DataField)
	assert.Equal(t, [2]byte{' ', ' '}, field.Indicators)
	assert.Empty(t, field.Subfields)
}

func TestEncodeTooLong(t *testing.T) {
	rec := NewRecord("")
	rec.AddField(NewDataField("500", "  ", Subfield{Code: 'a', Value: strings.Repeat("x", 10000)}))
	_, err := rec.Encode()
	assert.True(t, errors.Is(err, ErrTooLong))
}

func TestIsControlTag(t *testing.T) {
	for tag, want := range map[string]bool{
		"001": true, "009": true, "010": false, "100": false,
		"SYS": true, "FMT": true, "DB ": true, "LDR": false, "00A": false,
	} {
		if got := IsControlTag(tag); got != want {
			t.Errorf("IsControlTag(%q) = %v, want %v", tag, got, want)
		}
	}
}
