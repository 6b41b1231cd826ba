package sources

import (
	"context"
	"errors"
	"io"
	"regexp"
	"slices"
	"strings"

	"identigraph/internal/extract"
	"identigraph/internal/identifier"
	"identigraph/internal/isbn"
	"identigraph/internal/textutil"
)

// Column is the meaning of a TSV column, derived from its header.
type Column string

const (
	ColumnIgnored Column = ""
	ColumnName    Column = "string"
	ColumnISBN    Column = "isbn"
)

// headerKinds is checked in order; the first kind contained in the
// lower-cased header wins.
var headerKinds = []Column{
	ColumnName,
	ColumnISBN,
	Column(identifier.ISNI),
	Column(identifier.VIAF),
	Column(identifier.NACO),
	Column(identifier.HarperCollins),
	Column(identifier.Penguin),
	Column(identifier.RandomHouse),
}

var valuePrefix = regexp.MustCompile(`^(isni|viaf|naco|harpercollins|penguin|randomhouse):`)

// ErrNoHeader reports an empty TSV input.
var ErrNoHeader = errors.New("tsv: missing header row")

// ClassifyHeader maps a header cell to a column kind.
func ClassifyHeader(header string) Column {
	h := strings.ToLower(header)
	for _, kind := range headerKinds {
		if strings.Contains(h, string(kind)) {
			return kind
		}
	}
	return ColumnIgnored
}

// TSVRow is one parsed data row. Extra cells beyond the header are counted in
// Overflow and otherwise ignored.
type TSVRow struct {
	Line     int
	Result   extract.Result
	Overflow int
}

// Proprietary returns the row's publisher identifier: the first non-empty
// value among the proprietary columns, or "".
func (r TSVRow) Proprietary() string {
	for _, a := range identifier.Proprietary {
		if values := r.Result.Values(a); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

// ParseTSVRow splits line on tabs and types each cell by columns.
func ParseTSVRow(line string, columns []Column) (extract.Result, int) {
	cells := strings.Split(line, "\t")
	names := map[string]struct{}{}
	isbns := map[string]struct{}{}
	ids := map[identifier.Authority]map[string]struct{}{}
	overflow := 0

	for i, cell := range cells {
		if i >= len(columns) {
			overflow++
			continue
		}
		kind := columns[i]
		if kind == ColumnIgnored {
			continue
		}
		value := strings.TrimSpace(strings.Trim(cell, `"`))
		value = strings.TrimSpace(valuePrefix.ReplaceAllString(value, ""))
		if value == "" {
			continue
		}

		switch kind {
		case ColumnName:
			names[textutil.NFC(value)] = struct{}{}
		case ColumnISBN:
			if parsed, ok := isbn.Parse(value); ok {
				isbns[parsed] = struct{}{}
			}
		default:
			a := identifier.Authority(kind)
			normalized, ok := identifier.Normalize(value, a)
			if !ok {
				continue
			}
			if ids[a] == nil {
				ids[a] = map[string]struct{}{}
			}
			ids[a][normalized] = struct{}{}
		}
	}

	result := extract.Result{Names: sortedKeys(names), ISBNs: sortedKeys(isbns)}
	if len(ids) > 0 {
		result.Identifiers = make(map[identifier.Authority][]string, len(ids))
		for a, values := range ids {
			result.Identifiers[a] = sortedKeys(values)
		}
	}
	return result, overflow
}

// ReadTSV parses a TSV stream whose first line is the header and calls fn
// for every data row, blank lines excluded.
func ReadTSV(ctx context.Context, r io.Reader, fn func(TSVRow) error) error {
	var columns []Column
	err := ScanLines(ctx, r, func(lineNo int, line string) error {
		if columns == nil {
			for _, header := range strings.Split(line, "\t") {
				columns = append(columns, ClassifyHeader(header))
			}
			return nil
		}
		if strings.TrimSpace(line) == "" {
			return nil
		}
		result, overflow := ParseTSVRow(line, columns)
		return fn(TSVRow{Line: lineNo, Result: result, Overflow: overflow})
	})
	if err != nil {
		return err
	}
	if columns == nil {
		return ErrNoHeader
	}
	return nil
}

func sortedKeys(m map[string]struct{}) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
