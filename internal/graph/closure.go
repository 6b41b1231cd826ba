package graph

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"identigraph/internal/identifier"
)

// maxClosurePasses bounds the fixpoint loop. One pass settles one-hop links
// and a second settles the two-hop patterns produced by the first.
const maxClosurePasses = 2

// ClosureOptions selects optional cross-reference steps.
type ClosureOptions struct {
	// AttachByISBN links a proprietary identifier to the only hub that
	// holds one of its ISBNs.
	AttachByISBN bool
}

// ClosureStats counts the rows touched by CrossReference.
type ClosureStats struct {
	Passes int `json:"passes" yaml:"passes"`
	// Linked counts identifiers newly attached to a hub through
	// other_equivalences.
	Linked int64 `json:"linked" yaml:"linked"`
	// Attached counts proprietary identifiers attached through a shared ISBN.
	Attached int64 `json:"attached" yaml:"attached"`
	// ISBNs counts hub ISBN edges propagated from other_isbn.
	ISBNs int64 `json:"isbns" yaml:"isbns"`
	// Subsumed counts other-relation rows deleted because a hub now covers them.
	Subsumed int64 `json:"subsumed" yaml:"subsumed"`
}

func (c ClosureStats) changed() int64 {
	return c.Linked + c.Attached + c.ISBNs + c.Subsumed
}

func (c *ClosureStats) add(o ClosureStats) {
	c.Linked += o.Linked
	c.Attached += o.Attached
	c.ISBNs += o.ISBNs
	c.Subsumed += o.Subsumed
}

// CrossReference merges indirect equivalences onto hub identifiers. Each pass
// runs in one transaction; a second pass runs only if the first changed rows.
// Hub-mediated transitivity is assumed: identifiers sharing a hub are treated
// as the same identity.
func (s *Store) CrossReference(ctx context.Context, opts ClosureOptions) (ClosureStats, error) {
	var total ClosureStats
	for total.Passes < maxClosurePasses {
		pass, err := s.closurePass(ctx, opts)
		if err != nil {
			return total, fmt.Errorf("closure pass %d: %w", total.Passes+1, err)
		}
		total.Passes++
		total.add(pass)
		if pass.changed() == 0 {
			break
		}
	}
	return total, nil
}

type closureStep struct {
	name    string
	query   string
	counter func(*ClosureStats) *int64
}

var (
	linkByOther = closureStep{"link by other", `INSERT OR IGNORE INTO VIAF_equivalences (VIAF, identifier)
			SELECT v.VIAF, o.identifier
			FROM VIAF_equivalences v
			JOIN other_equivalences o ON v.identifier = o.other`,
		func(c *ClosureStats) *int64 { return &c.Linked }}
	linkByIdentifier = closureStep{"link by identifier", `INSERT OR IGNORE INTO VIAF_equivalences (VIAF, identifier)
			SELECT v.VIAF, o.other
			FROM VIAF_equivalences v
			JOIN other_equivalences o ON v.identifier = o.identifier`,
		func(c *ClosureStats) *int64 { return &c.Linked }}
	propagateISBNs = closureStep{"propagate isbn", `INSERT OR IGNORE INTO VIAF_isbn (VIAF, isbn)
			SELECT v.VIAF, oi.isbn
			FROM VIAF_equivalences v
			JOIN other_isbn oi ON v.identifier = oi.other`,
		func(c *ClosureStats) *int64 { return &c.ISBNs }}
	attachByISBN = closureStep{"attach by isbn", attachByISBNQuery(),
		func(c *ClosureStats) *int64 { return &c.Attached }}
	// Runs only after linking has settled, so an edge with one hub-linked
	// endpoint already has its other endpoint on the same hub.
	purgeEquivalences = closureStep{"purge equivalences", `DELETE FROM other_equivalences
			WHERE identifier IN (SELECT identifier FROM VIAF_equivalences)
				OR other IN (SELECT identifier FROM VIAF_equivalences)`,
		func(c *ClosureStats) *int64 { return &c.Subsumed }}
	purgeISBNs = closureStep{"purge isbn", `DELETE FROM other_isbn
			WHERE other IN (SELECT identifier FROM VIAF_equivalences)`,
		func(c *ClosureStats) *int64 { return &c.Subsumed }}
)

// attachByISBNQuery links unlinked proprietary identifiers whose ISBNs all
// resolve to one hub, and only through ISBNs held by exactly one hub.
func attachByISBNQuery() string {
	prefixes := make([]string, 0, len(identifier.Proprietary))
	for _, a := range identifier.Proprietary {
		prefixes = append(prefixes, fmt.Sprintf("oi.other LIKE '%s:%%'", a))
	}
	return `INSERT OR IGNORE INTO VIAF_equivalences (VIAF, identifier)
		SELECT MIN(h.VIAF), oi.other
		FROM other_isbn oi
		JOIN (
			SELECT isbn, MIN(VIAF) AS VIAF
			FROM VIAF_isbn
			GROUP BY isbn
			HAVING COUNT(DISTINCT VIAF) = 1
		) h ON h.isbn = oi.isbn
		WHERE (` + strings.Join(prefixes, " OR ") + `)
			AND oi.other NOT IN (SELECT identifier FROM VIAF_equivalences)
		GROUP BY oi.other
		HAVING COUNT(DISTINCT h.VIAF) = 1`
}

func (s *Store) closurePass(ctx context.Context, opts ClosureOptions) (ClosureStats, error) {
	var stats ClosureStats
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("begin closure tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	run := func(step closureStep) (int64, error) {
		n, err := execCount(ctx, tx, step.query)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", step.name, err)
		}
		*step.counter(&stats) += n
		return n, nil
	}
	// settle repeats both link steps until neither inserts, then carries
	// ISBNs of newly linked identifiers onto their hub.
	settle := func() error {
		for {
			a, err := run(linkByOther)
			if err != nil {
				return err
			}
			b, err := run(linkByIdentifier)
			if err != nil {
				return err
			}
			if a+b == 0 {
				break
			}
		}
		_, err := run(propagateISBNs)
		return err
	}

	if err := settle(); err != nil {
		return stats, err
	}
	if opts.AttachByISBN {
		attached, err := run(attachByISBN)
		if err != nil {
			return stats, err
		}
		if attached > 0 {
			if err := settle(); err != nil {
				return stats, err
			}
		}
	}
	for _, step := range []closureStep{purgeEquivalences, purgeISBNs} {
		if _, err := run(step); err != nil {
			return stats, err
		}
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("commit closure: %w", err)
	}
	return stats, nil
}

func execCount(ctx context.Context, tx *sql.Tx, query string) (int64, error) {
	res, err := tx.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}
