package shortlink

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("link not found")

// CodeGenerator generates unique short codes.
type CodeGenerator func() string

// Repository defines storage operations for links.
type Repository interface {
	Save(ctx context.Context, link *Link) error
	GetByCode(ctx context.Context, shortCode string) (*Link, error)
	GetByBioPage(ctx context.Context, bioPageID string) ([]*Link, error)
}
