package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Roisfaozi/gas.to/internal/biopage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresBioPageStore is the PostgreSQL implementation of
// biopage.Repository. GetByUsername and GetByID load the page
// together with its bio links and social links.
type PostgresBioPageStore struct {
	pool *pgxpool.Pool
}

// NewPostgresBioPageStore creates a Postgres-backed bio page store.
func NewPostgresBioPageStore(pool *pgxpool.Pool) *PostgresBioPageStore {
	return &PostgresBioPageStore{pool: pool}
}

func (p *PostgresBioPageStore) Save(ctx context.Context, page *biopage.BioPage) error {
	theme, err := json.Marshal(page.Theme)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO bio_pages (id, username, owner_id, title, description,
			visibility, theme, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			visibility = EXCLUDED.visibility,
			theme = EXCLUDED.theme
	`

	_, err = p.pool.Exec(ctx, query,
		page.ID, page.Username, page.OwnerID, page.Title, page.Description,
		string(page.Visibility), theme, page.CreatedAt,
	)
	if err != nil {
		return err
	}

	for _, link := range page.BioLinks {
		_, err = p.pool.Exec(ctx, `
			INSERT INTO bio_links (id, bio_page_id, title, url, icon, sort_order, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET
				title = EXCLUDED.title,
				url = EXCLUDED.url,
				icon = EXCLUDED.icon,
				sort_order = EXCLUDED.sort_order,
				is_active = EXCLUDED.is_active
		`, link.ID, page.ID, link.Title, link.URL, nullable(link.Icon), link.SortOrder, link.IsActive)
		if err != nil {
			return err
		}
	}

	for _, social := range page.SocialLinks {
		_, err = p.pool.Exec(ctx, `
			INSERT INTO social_links (id, bio_page_id, platform, url)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET
				platform = EXCLUDED.platform,
				url = EXCLUDED.url
		`, social.ID, page.ID, social.Platform, social.URL)
		if err != nil {
			return err
		}
	}

	return nil
}

func (p *PostgresBioPageStore) GetByUsername(ctx context.Context, username string) (*biopage.BioPage, error) {
	return p.getPage(ctx, "username = $1", username)
}

func (p *PostgresBioPageStore) GetByID(ctx context.Context, id string) (*biopage.BioPage, error) {
	return p.getPage(ctx, "id = $1", id)
}

func (p *PostgresBioPageStore) getPage(ctx context.Context, where, arg string) (*biopage.BioPage, error) {
	query := `
		SELECT id, username, owner_id, title, description, visibility, theme, created_at
		FROM bio_pages
		WHERE ` + where

	var (
		page       biopage.BioPage
		visibility string
		theme      []byte
	)

	err := p.pool.QueryRow(ctx, query, arg).Scan(
		&page.ID, &page.Username, &page.OwnerID, &page.Title, &page.Description,
		&visibility, &theme, &page.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, biopage.ErrNotFound
		}

		return nil, err
	}

	page.Visibility = biopage.Visibility(visibility)

	if len(theme) > 0 {
		if err := json.Unmarshal(theme, &page.Theme); err != nil {
			return nil, err
		}
	}

	if err := p.loadBioLinks(ctx, &page); err != nil {
		return nil, err
	}

	if err := p.loadSocialLinks(ctx, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

func (p *PostgresBioPageStore) loadBioLinks(ctx context.Context, page *biopage.BioPage) error {
	rows, err := p.pool.Query(ctx, `
		SELECT id, title, url, icon, sort_order, is_active
		FROM bio_links
		WHERE bio_page_id = $1
		ORDER BY sort_order
	`, page.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			link biopage.BioLink
			icon *string
		)

		if err := rows.Scan(&link.ID, &link.Title, &link.URL, &icon, &link.SortOrder, &link.IsActive); err != nil {
			return err
		}

		link.Icon = deref(icon)
		page.BioLinks = append(page.BioLinks, link)
	}

	return rows.Err()
}

func (p *PostgresBioPageStore) loadSocialLinks(ctx context.Context, page *biopage.BioPage) error {
	rows, err := p.pool.Query(ctx, `
		SELECT id, platform, url
		FROM social_links
		WHERE bio_page_id = $1
	`, page.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var social biopage.SocialLink

		if err := rows.Scan(&social.ID, &social.Platform, &social.URL); err != nil {
			return err
		}

		page.SocialLinks = append(page.SocialLinks, social)
	}

	return rows.Err()
}
