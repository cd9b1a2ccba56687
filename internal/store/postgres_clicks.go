package store

import (
	"context"
	"fmt"

	"github.com/Roisfaozi/gas.to/internal/clicks"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresClickStore is the PostgreSQL implementation of clicks.Store.
type PostgresClickStore struct {
	pool *pgxpool.Pool
}

// NewPostgresClickStore creates a Postgres-backed click store.
func NewPostgresClickStore(pool *pgxpool.Pool) *PostgresClickStore {
	return &PostgresClickStore{pool: pool}
}

func (p *PostgresClickStore) Insert(ctx context.Context, record *clicks.ClickRecord) error {
	query := `
		INSERT INTO clicks (
			id, type, link_id, bio_page_id, bio_link_id, created_at,
			ip, city, country, browser, os, device, user_agent, referer, language,
			utm_source, utm_medium, utm_campaign, utm_term, utm_content,
			session_id, visitor_id, fingerprint, is_unique
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
	`

	_, err := p.pool.Exec(ctx, query,
		record.ID,
		string(record.Type),
		nullable(record.Target.LinkID),
		nullable(record.Target.BioPageID),
		nullable(record.Target.BioLinkID),
		record.CreatedAt,
		nullable(record.IP),
		nullable(record.City),
		nullable(record.Country),
		record.Browser,
		record.OS,
		record.Device,
		nullable(record.UserAgent),
		nullable(record.Referer),
		nullable(record.Language),
		record.UTM.Source,
		record.UTM.Medium,
		record.UTM.Campaign,
		record.UTM.Term,
		record.UTM.Content,
		nullable(record.SessionID),
		nullable(record.VisitorID),
		nullable(record.Fingerprint),
		record.IsUnique,
	)

	return err
}

func (p *PostgresClickStore) ExistsRecent(
	ctx context.Context, target clicks.TargetRef, ip, userAgent string, since int64,
) (bool, error) {
	column, id, err := targetColumn(target)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM clicks
			WHERE %s = $1 AND ip = $2 AND user_agent = $3 AND created_at >= $4
		)
	`, column)

	var exists bool

	err = p.pool.QueryRow(ctx, query, id, ip, userAgent, since).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (p *PostgresClickStore) ListByTarget(
	ctx context.Context, target clicks.TargetRef, start, end *int64,
) ([]*clicks.ClickRecord, error) {
	column, id, err := targetColumn(target)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, type, link_id, bio_page_id, bio_link_id, created_at,
			ip, city, country, browser, os, device, user_agent, referer, language,
			utm_source, utm_medium, utm_campaign, utm_term, utm_content,
			session_id, visitor_id, fingerprint, is_unique
		FROM clicks
		WHERE %s = $1
			AND ($2::bigint IS NULL OR created_at >= $2)
			AND ($3::bigint IS NULL OR created_at <= $3)
	`, column)

	rows, err := p.pool.Query(ctx, query, id, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*clicks.ClickRecord

	for rows.Next() {
		var (
			record                                           clicks.ClickRecord
			recordType                                       string
			linkID, bioPageID, bioLinkID                     *string
			ip, city, country, userAgent, referer, language  *string
			sessionID, visitorID, fingerprint                *string
		)

		err := rows.Scan(
			&record.ID, &recordType, &linkID, &bioPageID, &bioLinkID, &record.CreatedAt,
			&ip, &city, &country, &record.Browser, &record.OS, &record.Device,
			&userAgent, &referer, &language,
			&record.UTM.Source, &record.UTM.Medium, &record.UTM.Campaign,
			&record.UTM.Term, &record.UTM.Content,
			&sessionID, &visitorID, &fingerprint, &record.IsUnique,
		)
		if err != nil {
			return nil, err
		}

		record.Type = clicks.Type(recordType)
		record.Target = clicks.TargetRef{
			LinkID:    deref(linkID),
			BioPageID: deref(bioPageID),
			BioLinkID: deref(bioLinkID),
		}
		record.IP = deref(ip)
		record.City = deref(city)
		record.Country = deref(country)
		record.UserAgent = deref(userAgent)
		record.Referer = deref(referer)
		record.Language = deref(language)
		record.SessionID = deref(sessionID)
		record.VisitorID = deref(visitorID)
		record.Fingerprint = deref(fingerprint)

		records = append(records, &record)
	}

	return records, rows.Err()
}

func targetColumn(target clicks.TargetRef) (string, string, error) {
	switch {
	case target.LinkID != "":
		return "link_id", target.LinkID, nil
	case target.BioPageID != "":
		return "bio_page_id", target.BioPageID, nil
	case target.BioLinkID != "":
		return "bio_link_id", target.BioLinkID, nil
	default:
		return "", "", clicks.ErrInvalidTarget
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
