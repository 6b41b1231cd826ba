package match

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"identigraph/internal/fileutil"
	"identigraph/internal/identifier"
)

// Header is the first line of both reports.
var Header = []string{
	"Name",
	"Original ISBN",
	"Equivalent ISBN",
	"Proprietary identifier",
	"VIAF",
	"ISNI",
	"NACO",
	"Other identifiers",
	"Variant name forms",
}

// Report file suffixes appended to the list's stem.
const (
	AcceptedSuffix = "_name_list_accepted.txt"
	RejectedSuffix = "_name_list_rejected.txt"
)

const multiSeparator = "|"

// Row renders d as report cells. Hub identifiers are split into ISNI, NACO
// and everything else; multi-valued cells are sorted, distinct and joined
// with "|".
func Row(d Decision) []string {
	var isni, naco, other []string
	for _, id := range d.Identifiers {
		switch {
		case strings.HasPrefix(id, string(identifier.ISNI)+":"):
			isni = append(isni, id)
		case strings.HasPrefix(id, string(identifier.NACO)+":"):
			naco = append(naco, id)
		default:
			other = append(other, id)
		}
	}
	return []string{
		d.Name,
		d.ISBN,
		d.EquivalentISBN,
		d.Proprietary,
		d.VIAF,
		strings.Join(isni, multiSeparator),
		strings.Join(naco, multiSeparator),
		strings.Join(other, multiSeparator),
		strings.Join(d.Names, multiSeparator),
	}
}

// ReportWriter splits decisions between an accepted and a rejected stream.
type ReportWriter struct {
	accepted *bufio.Writer
	rejected *bufio.Writer
	files    []*fileutil.AtomicFile
}

// NewReportWriter writes both reports to the given writers.
func NewReportWriter(accepted, rejected io.Writer) (*ReportWriter, error) {
	w := &ReportWriter{accepted: bufio.NewWriter(accepted), rejected: bufio.NewWriter(rejected)}
	for _, out := range []*bufio.Writer{w.accepted, w.rejected} {
		if err := writeLine(out, Header); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// CreateReportFiles stages both report files. They replace any previous
// reports only when Close succeeds.
func CreateReportFiles(acceptedPath, rejectedPath string) (*ReportWriter, error) {
	accepted, err := fileutil.Create(acceptedPath)
	if err != nil {
		return nil, fmt.Errorf("create accepted report: %w", err)
	}
	rejected, err := fileutil.Create(rejectedPath)
	if err != nil {
		accepted.Abort()
		return nil, fmt.Errorf("create rejected report: %w", err)
	}
	w, err := NewReportWriter(accepted, rejected)
	if err != nil {
		accepted.Abort()
		rejected.Abort()
		return nil, err
	}
	w.files = []*fileutil.AtomicFile{accepted, rejected}
	return w, nil
}

// Write appends d to the report matching its outcome.
func (w *ReportWriter) Write(d Decision) error {
	out := w.rejected
	if d.Accepted {
		out = w.accepted
	}
	return writeLine(out, Row(d))
}

// Close flushes both reports and publishes any files staged for them.
func (w *ReportWriter) Close() error {
	for _, out := range []*bufio.Writer{w.accepted, w.rejected} {
		if err := out.Flush(); err != nil {
			w.Abort()
			return fmt.Errorf("flush report: %w", err)
		}
	}
	for _, f := range w.files {
		if _, err := f.Commit(); err != nil {
			w.Abort()
			return fmt.Errorf("close report: %w", err)
		}
	}
	w.files = nil
	return nil
}

// Abort discards staged report files, leaving earlier reports in place.
func (w *ReportWriter) Abort() {
	for _, f := range w.files {
		f.Abort()
	}
	w.files = nil
}

func writeLine(w *bufio.Writer, cells []string) error {
	if _, err := w.WriteString(strings.Join(cells, "\t") + "\n"); err != nil {
		return fmt.Errorf("write report line: %w", err)
	}
	return nil
}
