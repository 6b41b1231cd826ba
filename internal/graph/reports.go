package graph

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"identigraph/internal/identifier"
)

// Group is a key with its distinct associated values.
type Group struct {
	Key    string
	Values []string
}

const nacoISNIDirectQuery = `SELECT other, GROUP_CONCAT(identifier, char(31))
FROM other_equivalences
WHERE other LIKE 'naco:%' AND identifier LIKE 'isni:%'
GROUP BY other
ORDER BY other`

const nacoISNIHubQuery = `SELECT t1.identifier, GROUP_CONCAT(t2.identifier, char(31))
FROM VIAF_equivalences t1
JOIN VIAF_equivalences t2 ON t1.VIAF = t2.VIAF
WHERE t1.identifier LIKE 'naco:%' AND t2.identifier LIKE 'isni:%'
GROUP BY t1.identifier
ORDER BY t1.identifier`

// NACOISNIEquivalents lists NACO identifiers with their equivalent ISNIs:
// first the pairs recorded without a hub, then the pairs sharing a hub.
func (s *Store) NACOISNIEquivalents(ctx context.Context) ([]Group, error) {
	var groups []Group
	for _, query := range []string{nacoISNIDirectQuery, nacoISNIHubQuery} {
		found, err := s.queryGroups(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("naco/isni equivalents: %w", err)
		}
		groups = append(groups, found...)
	}
	return groups, nil
}

func (s *Store) queryGroups(ctx context.Context, query string) ([]Group, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []Group
	for rows.Next() {
		var key string
		var values sql.NullString
		if err := rows.Scan(&key, &values); err != nil {
			return nil, err
		}
		groups = append(groups, Group{Key: key, Values: splitGroup(values)})
	}
	return groups, rows.Err()
}

// ProprietaryLink describes one hub-linked proprietary identifier.
type ProprietaryLink struct {
	Identifier string
	Authority  identifier.Authority
	VIAF       []string
	// Equivalents are the other identifiers sharing one of the hubs.
	Equivalents []string
	// Authorised are the NACO authorised forms of NACO equivalents.
	Authorised []string
}

// ProprietaryLinks lists every proprietary identifier attached to a hub
// together with the hub's other identifiers.
func (s *Store) ProprietaryLinks(ctx context.Context) ([]ProprietaryLink, error) {
	prefixes := make([]string, 0, len(identifier.Proprietary))
	for _, a := range identifier.Proprietary {
		prefixes = append(prefixes, fmt.Sprintf("t1.identifier LIKE '%s:%%'", a))
	}
	query := `SELECT t1.identifier,
	GROUP_CONCAT(t2.VIAF, char(31)),
	GROUP_CONCAT(t2.identifier, char(31)),
	GROUP_CONCAT(na.string, char(31))
FROM VIAF_equivalences t1
JOIN VIAF_equivalences t2 ON t1.VIAF = t2.VIAF
LEFT JOIN NACO_authorised na ON na.NACO = SUBSTR(t2.identifier, 6) AND t2.identifier LIKE 'naco:%'
WHERE (` + strings.Join(prefixes, " OR ") + `) AND t1.identifier <> t2.identifier
GROUP BY t1.identifier
ORDER BY t1.identifier`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("proprietary links: %w", err)
	}
	defer rows.Close()

	var links []ProprietaryLink
	for rows.Next() {
		var (
			link                     ProprietaryLink
			viaf, equivalents, names sql.NullString
		)
		if err := rows.Scan(&link.Identifier, &viaf, &equivalents, &names); err != nil {
			return nil, fmt.Errorf("scan proprietary link: %w", err)
		}
		link.Authority, _, _ = identifier.SplitKey(link.Identifier)
		link.VIAF = splitGroup(viaf)
		link.Equivalents = splitGroup(equivalents)
		link.Authorised = splitGroup(names)
		links = append(links, link)
	}
	return links, rows.Err()
}
