package report

import (
	"bufio"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"identigraph/internal/fileutil"
	"identigraph/internal/graph"
	"identigraph/internal/identifier"
)

// NACOISNIFileName is the NACO/ISNI equivalence report.
const NACOISNIFileName = "naco_isni_equivalents.txt"

const valueSeparator = ";"

// displayNames label the publisher reports.
var displayNames = map[identifier.Authority]string{
	identifier.HarperCollins: "HarperCollins",
	identifier.Penguin:       "Penguin",
	identifier.RandomHouse:   "RandomHouse",
}

// ProprietaryFileName returns the report name for a publisher authority,
// e.g. "HarperCollins_identifiers.txt".
func ProprietaryFileName(a identifier.Authority) string {
	return displayNames[a] + "_identifiers.txt"
}

// WriteNACOISNI writes every NACO identifier with its equivalent ISNIs.
func WriteNACOISNI(ctx context.Context, store *graph.Store, path string) (Artifact, error) {
	groups, err := store.NACOISNIEquivalents(ctx)
	if err != nil {
		return Artifact{}, err
	}
	lines := make([][]string, 0, len(groups))
	for _, g := range groups {
		lines = append(lines, []string{g.Key, strings.Join(g.Values, valueSeparator)})
	}
	return writeTable(path, []string{"NACO ID", "ISNI"}, lines)
}

// WriteProprietaryReports writes one report per publisher authority into
// dir, in HarperCollins, Penguin, RandomHouse order.
func WriteProprietaryReports(ctx context.Context, store *graph.Store, dir string) ([]Artifact, error) {
	links, err := store.ProprietaryLinks(ctx)
	if err != nil {
		return nil, err
	}

	byAuthority := make(map[identifier.Authority][][]string, len(identifier.Proprietary))
	for _, link := range links {
		if !link.Authority.IsProprietary() {
			continue
		}
		var isni, naco, other []string
		for _, id := range link.Equivalents {
			switch {
			case strings.HasPrefix(id, string(identifier.ISNI)+":"):
				isni = append(isni, id)
			case strings.HasPrefix(id, string(identifier.NACO)+":"):
				naco = append(naco, id)
			default:
				other = append(other, id)
			}
		}
		byAuthority[link.Authority] = append(byAuthority[link.Authority], []string{
			link.Identifier,
			strings.Join(link.VIAF, valueSeparator),
			strings.Join(isni, valueSeparator),
			strings.Join(naco, valueSeparator),
			strings.Join(other, valueSeparator),
			strings.Join(link.Authorised, valueSeparator),
		})
	}

	written := make([]Artifact, 0, len(identifier.Proprietary))
	for _, a := range identifier.Proprietary {
		header := []string{displayNames[a] + " identifier", "VIAF", "ISNI", "NACO", "Other identifiers", "NACO authorised name"}
		artifact, err := writeTable(filepath.Join(dir, ProprietaryFileName(a)), header, byAuthority[a])
		if err != nil {
			return written, err
		}
		written = append(written, artifact)
	}
	return written, nil
}

func writeTable(path string, header []string, rows [][]string) (Artifact, error) {
	name := filepath.Base(path)
	file, err := fileutil.Create(path)
	if err != nil {
		return Artifact{}, err
	}
	defer file.Abort()

	w := bufio.NewWriter(file)
	if _, err := w.WriteString(strings.Join(header, "\t") + "\n"); err != nil {
		return Artifact{}, fmt.Errorf("write %s: %w", name, err)
	}
	for _, row := range rows {
		if _, err := w.WriteString(strings.Join(row, "\t") + "\n"); err != nil {
			return Artifact{}, fmt.Errorf("write %s: %w", name, err)
		}
	}
	if err := w.Flush(); err != nil {
		return Artifact{}, fmt.Errorf("flush %s: %w", name, err)
	}
	digest, err := file.Commit()
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Name: name, Rows: int64(len(rows)), Digest: digest}, nil
}
