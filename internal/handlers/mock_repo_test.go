package handlers_test

import (
	"context"
	"errors"

	"github.com/Roisfaozi/gas.to/internal/shortlink"
)

var errMock = errors.New("mock error")

// failingLinkRepo is a test double whose operations can be forced to fail.
type failingLinkRepo struct {
	saveErr error
	getErr  error
}

func (f *failingLinkRepo) Save(_ context.Context, _ *shortlink.Link) error {
	return f.saveErr
}

func (f *failingLinkRepo) GetByCode(_ context.Context, _ string) (*shortlink.Link, error) {
	return nil, f.getErr
}

func (f *failingLinkRepo) GetByBioPage(_ context.Context, _ string) ([]*shortlink.Link, error) {
	return nil, nil
}
