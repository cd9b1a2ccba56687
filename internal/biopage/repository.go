package biopage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("bio page not found")

// Repository defines storage operations for bio pages.
// GetByUsername loads the page with its bio links and social links.
type Repository interface {
	Save(ctx context.Context, page *BioPage) error
	GetByUsername(ctx context.Context, username string) (*BioPage, error)
	GetByID(ctx context.Context, id string) (*BioPage, error)
}
