package store

import (
	"context"
	"errors"

	"github.com/Roisfaozi/gas.to/internal/shortlink"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLinkStore is the PostgreSQL implementation of
// shortlink.Repository.
type PostgresLinkStore struct {
	pool *pgxpool.Pool
}

// NewPostgresLinkStore creates a Postgres-backed link store.
func NewPostgresLinkStore(pool *pgxpool.Pool) *PostgresLinkStore {
	return &PostgresLinkStore{pool: pool}
}

func (p *PostgresLinkStore) Save(ctx context.Context, link *shortlink.Link) error {
	query := `
		INSERT INTO links (id, short_code, original_url, owner_id, bio_page_id,
			is_active, expires_at, visibility, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			original_url = EXCLUDED.original_url,
			is_active = EXCLUDED.is_active,
			expires_at = EXCLUDED.expires_at,
			visibility = EXCLUDED.visibility
	`

	_, err := p.pool.Exec(ctx, query,
		link.ID,
		link.ShortCode,
		link.OriginalURL,
		nullable(link.OwnerID),
		nullable(link.BioPageID),
		link.IsActive,
		link.ExpiresAt,
		string(link.Visibility),
		link.CreatedAt,
	)

	return err
}

func (p *PostgresLinkStore) GetByCode(ctx context.Context, shortCode string) (*shortlink.Link, error) {
	query := `
		SELECT id, short_code, original_url, owner_id, bio_page_id,
			is_active, expires_at, visibility, created_at
		FROM links
		WHERE short_code = $1
	`

	row := p.pool.QueryRow(ctx, query, shortCode)

	link, err := scanLink(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortlink.ErrNotFound
		}

		return nil, err
	}

	return link, nil
}

func (p *PostgresLinkStore) GetByBioPage(ctx context.Context, bioPageID string) ([]*shortlink.Link, error) {
	query := `
		SELECT id, short_code, original_url, owner_id, bio_page_id,
			is_active, expires_at, visibility, created_at
		FROM links
		WHERE bio_page_id = $1
	`

	rows, err := p.pool.Query(ctx, query, bioPageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*shortlink.Link

	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}

		links = append(links, link)
	}

	return links, rows.Err()
}

func scanLink(row pgx.Row) (*shortlink.Link, error) {
	var (
		link               shortlink.Link
		ownerID, bioPageID *string
		visibility         string
	)

	err := row.Scan(
		&link.ID, &link.ShortCode, &link.OriginalURL, &ownerID, &bioPageID,
		&link.IsActive, &link.ExpiresAt, &visibility, &link.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	link.OwnerID = deref(ownerID)
	link.BioPageID = deref(bioPageID)
	link.Visibility = shortlink.Visibility(visibility)

	return &link, nil
}
