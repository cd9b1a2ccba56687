package clicks_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Roisfaozi/gas.to/internal/clicks"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// mockClickStore controls ExistsRecent and captures its arguments.
type mockClickStore struct {
	exists    bool
	existsErr error
	gotTarget clicks.TargetRef
	gotIP     string
	gotUA     string
	gotSince  int64
}

func (m *mockClickStore) Insert(_ context.Context, _ *clicks.ClickRecord) error {
	return nil
}

func (m *mockClickStore) ExistsRecent(
	_ context.Context, target clicks.TargetRef, ip, userAgent string, since int64,
) (bool, error) {
	m.gotTarget = target
	m.gotIP = ip
	m.gotUA = userAgent
	m.gotSince = since

	return m.exists, m.existsErr
}

func (m *mockClickStore) ListByTarget(
	_ context.Context, _ clicks.TargetRef, _, _ *int64,
) ([]*clicks.ClickRecord, error) {
	return nil, nil
}

func TestClassifier_IsUnique(t *testing.T) {
	now := time.Now()
	target := clicks.LinkTarget("link-1")

	t.Run("unique when no prior visit in window", func(t *testing.T) {
		store := &mockClickStore{exists: false}
		classifier := clicks.NewClassifier(store, time.Hour, zap.NewNop())

		unique := classifier.IsUnique(context.Background(), target, "1.2.3.4", "agent", now)

		assert.True(t, unique)
		assert.Equal(t, target, store.gotTarget)
		assert.Equal(t, "1.2.3.4", store.gotIP)
		assert.Equal(t, "agent", store.gotUA)
	})

	t.Run("not unique when a prior visit exists", func(t *testing.T) {
		store := &mockClickStore{exists: true}
		classifier := clicks.NewClassifier(store, time.Hour, zap.NewNop())

		assert.False(t, classifier.IsUnique(context.Background(), target, "1.2.3.4", "agent", now))
	})

	t.Run("window bounds the lookup", func(t *testing.T) {
		store := &mockClickStore{}
		classifier := clicks.NewClassifier(store, time.Hour, zap.NewNop())

		classifier.IsUnique(context.Background(), target, "1.2.3.4", "agent", now)

		assert.Equal(t, now.Add(-time.Hour).UnixMilli(), store.gotSince)
	})

	t.Run("non-positive window falls back to the default", func(t *testing.T) {
		store := &mockClickStore{}
		classifier := clicks.NewClassifier(store, 0, zap.NewNop())

		classifier.IsUnique(context.Background(), target, "1.2.3.4", "agent", now)

		assert.Equal(t, now.Add(-clicks.DefaultUniqueWindow).UnixMilli(), store.gotSince)
	})

	t.Run("store failure counts the visit unique", func(t *testing.T) {
		store := &mockClickStore{existsErr: errors.New("store down")}
		classifier := clicks.NewClassifier(store, time.Hour, zap.NewNop())

		assert.True(t, classifier.IsUnique(context.Background(), target, "1.2.3.4", "agent", now))
	})
}
