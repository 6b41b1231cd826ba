package graph

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
)

// Candidate is a (name, ISBN, proprietary identifier) triple to verify
// against the hub reached through the ISBN.
type Candidate struct {
	Name        string
	ISBN        string
	Proprietary string
}

// Resolution is one hub reached by a candidate through an equivalent ISBN.
type Resolution struct {
	Candidate
	EquivalentISBN string
	VIAF           string
	// Identifiers are the hub's equivalent identifiers, sorted and distinct.
	Identifiers []string
	// Names are the name strings attached to the hub, sorted and distinct.
	Names []string
}

// groupSeparator joins GROUP_CONCAT values; it cannot occur in decoded text.
const groupSeparator = "\x1f"

const resolveQuery = `SELECT t.string, t.isbn, MIN(e.isbnb), t.identifier, vi.VIAF,
	(SELECT GROUP_CONCAT(ve.identifier, char(31)) FROM VIAF_equivalences ve WHERE ve.VIAF = vi.VIAF),
	(SELECT GROUP_CONCAT(vs.string, char(31)) FROM VIAF_string vs WHERE vs.VIAF = vi.VIAF)
FROM temp.ttable t
JOIN (
	SELECT isbna, isbnb FROM isbn_equivalents
	UNION
	SELECT isbn, isbn FROM temp.ttable
) e ON e.isbna = t.isbn
JOIN VIAF_isbn vi ON vi.isbn = e.isbnb
GROUP BY t.rowid, vi.VIAF
ORDER BY t.string, t.isbn, vi.VIAF`

// Resolve joins candidates through isbn_equivalents (an ISBN is always
// equivalent to itself) to VIAF_isbn and gathers each hub's identifiers and
// names. A candidate reaching several hubs yields one resolution per hub;
// candidates reaching none yield nothing.
func (s *Store) Resolve(ctx context.Context, candidates []Candidate) ([]Resolution, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "DROP TABLE IF EXISTS temp.ttable"); err != nil {
		return nil, fmt.Errorf("reset candidate table: %w", err)
	}
	if _, err := conn.ExecContext(ctx, "CREATE TEMP TABLE ttable (string TEXT, isbn TEXT, identifier TEXT)"); err != nil {
		return nil, fmt.Errorf("create candidate table: %w", err)
	}
	defer func() { _, _ = conn.ExecContext(context.Background(), "DROP TABLE IF EXISTS temp.ttable") }()

	if err := loadCandidates(ctx, conn, candidates); err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, resolveQuery)
	if err != nil {
		return nil, fmt.Errorf("resolve candidates: %w", err)
	}
	defer rows.Close()

	var out []Resolution
	for rows.Next() {
		var (
			r                       Resolution
			proprietary, equivalent sql.NullString
			identifiers, names      sql.NullString
		)
		if err := rows.Scan(&r.Name, &r.ISBN, &equivalent, &proprietary, &r.VIAF, &identifiers, &names); err != nil {
			return nil, fmt.Errorf("scan resolution: %w", err)
		}
		r.EquivalentISBN = equivalent.String
		r.Proprietary = proprietary.String
		r.Identifiers = splitGroup(identifiers)
		r.Names = splitGroup(names)
		out = append(out, r)
	}
	return out, rows.Err()
}

func loadCandidates(ctx context.Context, conn *sql.Conn, candidates []Candidate) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin candidate load: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO temp.ttable (string, isbn, identifier) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare candidate insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range candidates {
		if c.Name == "" || c.ISBN == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, c.Name, c.ISBN, c.Proprietary); err != nil {
			return fmt.Errorf("insert candidate: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit candidates: %w", err)
	}
	return nil
}

// splitGroup turns a GROUP_CONCAT result into a sorted, distinct slice.
func splitGroup(value sql.NullString) []string {
	if !value.Valid || value.String == "" {
		return nil
	}
	parts := strings.Split(value.String, groupSeparator)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
