package store_test

import (
	"context"
	"testing"

	"github.com/Roisfaozi/gas.to/internal/biopage"
	"github.com/Roisfaozi/gas.to/internal/clicks"
	"github.com/Roisfaozi/gas.to/internal/shortlink"
	"github.com/Roisfaozi/gas.to/internal/store"
	"github.com/Roisfaozi/gas.to/internal/visitor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func TestMemoryLinkStore(t *testing.T) {
	t.Run("saves and retrieves by code", func(t *testing.T) {
		s := store.NewMemoryLinkStore()
		link := &shortlink.Link{ID: "l1", ShortCode: "abc", OriginalURL: "https://example.com"}

		require.NoError(t, s.Save(context.Background(), link))

		got, err := s.GetByCode(context.Background(), "abc")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", got.OriginalURL)
	})

	t.Run("unknown code reports not found", func(t *testing.T) {
		s := store.NewMemoryLinkStore()

		_, err := s.GetByCode(context.Background(), "missing")

		assert.ErrorIs(t, err, shortlink.ErrNotFound)
	})

	t.Run("returned values are copies", func(t *testing.T) {
		s := store.NewMemoryLinkStore()
		require.NoError(t, s.Save(context.Background(), &shortlink.Link{ShortCode: "abc", IsActive: true}))

		got, err := s.GetByCode(context.Background(), "abc")
		require.NoError(t, err)
		got.IsActive = false

		again, err := s.GetByCode(context.Background(), "abc")
		require.NoError(t, err)
		assert.True(t, again.IsActive)
	})

	t.Run("lists links belonging to a bio page", func(t *testing.T) {
		s := store.NewMemoryLinkStore()
		require.NoError(t, s.Save(context.Background(), &shortlink.Link{ShortCode: "a", BioPageID: "page-1"}))
		require.NoError(t, s.Save(context.Background(), &shortlink.Link{ShortCode: "b", BioPageID: "page-1"}))
		require.NoError(t, s.Save(context.Background(), &shortlink.Link{ShortCode: "c", BioPageID: "page-2"}))

		links, err := s.GetByBioPage(context.Background(), "page-1")
		require.NoError(t, err)
		assert.Len(t, links, 2)
	})
}

func TestMemoryBioPageStore(t *testing.T) {
	t.Run("retrieves by username and id", func(t *testing.T) {
		s := store.NewMemoryBioPageStore()
		require.NoError(t, s.Save(context.Background(), &biopage.BioPage{ID: "p1", Username: "rois"}))

		byName, err := s.GetByUsername(context.Background(), "rois")
		require.NoError(t, err)
		assert.Equal(t, "p1", byName.ID)

		byID, err := s.GetByID(context.Background(), "p1")
		require.NoError(t, err)
		assert.Equal(t, "rois", byID.Username)
	})

	t.Run("unknown page reports not found", func(t *testing.T) {
		s := store.NewMemoryBioPageStore()

		_, err := s.GetByUsername(context.Background(), "ghost")
		assert.ErrorIs(t, err, biopage.ErrNotFound)

		_, err = s.GetByID(context.Background(), "ghost")
		assert.ErrorIs(t, err, biopage.ErrNotFound)
	})
}

func TestMemoryClickStore(t *testing.T) {
	target := clicks.LinkTarget("link-1")

	insert := func(t *testing.T, s *store.MemoryClickStore, ip string, createdAt int64) {
		t.Helper()

		r, err := clicks.NewRecord(clicks.TypeShortlink, target, createdAt)
		require.NoError(t, err)

		r.IP = ip
		r.UserAgent = "agent"
		require.NoError(t, s.Insert(context.Background(), r))
	}

	t.Run("ExistsRecent matches target, address, and window", func(t *testing.T) {
		s := store.NewMemoryClickStore()
		insert(t, s, "1.2.3.4", 5000)

		exists, err := s.ExistsRecent(context.Background(), target, "1.2.3.4", "agent", 4000)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = s.ExistsRecent(context.Background(), target, "1.2.3.4", "agent", 6000)
		require.NoError(t, err)
		assert.False(t, exists, "older than the window")

		exists, err = s.ExistsRecent(context.Background(), target, "9.9.9.9", "agent", 4000)
		require.NoError(t, err)
		assert.False(t, exists, "different address")

		exists, err = s.ExistsRecent(context.Background(), clicks.LinkTarget("other"), "1.2.3.4", "agent", 4000)
		require.NoError(t, err)
		assert.False(t, exists, "different target")
	})

	t.Run("ListByTarget honors inclusive bounds", func(t *testing.T) {
		s := store.NewMemoryClickStore()
		insert(t, s, "1.2.3.4", 1000)
		insert(t, s, "1.2.3.4", 2000)
		insert(t, s, "1.2.3.4", 3000)

		records, err := s.ListByTarget(context.Background(), target, int64Ptr(1000), int64Ptr(2000))
		require.NoError(t, err)
		assert.Len(t, records, 2)

		records, err = s.ListByTarget(context.Background(), target, nil, nil)
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})
}

func TestMemorySessionStore(t *testing.T) {
	t.Run("latest by fingerprint picks the newest session", func(t *testing.T) {
		s := store.NewMemorySessionStore()
		require.NoError(t, s.Insert(context.Background(), &visitor.Session{
			ID: "s1", VisitorID: "v1", Fingerprint: "fp", StartedAt: 1000,
		}))
		require.NoError(t, s.Insert(context.Background(), &visitor.Session{
			ID: "s2", VisitorID: "v1", Fingerprint: "fp", StartedAt: 2000,
		}))

		latest, err := s.LatestByFingerprint(context.Background(), "fp")
		require.NoError(t, err)
		assert.Equal(t, "s2", latest.ID)
	})

	t.Run("unknown fingerprint reports not found", func(t *testing.T) {
		s := store.NewMemorySessionStore()

		_, err := s.LatestByFingerprint(context.Background(), "unknown")

		assert.ErrorIs(t, err, visitor.ErrNotFound)
	})

	t.Run("End is idempotent", func(t *testing.T) {
		s := store.NewMemorySessionStore()
		require.NoError(t, s.Insert(context.Background(), &visitor.Session{ID: "s1", Fingerprint: "fp"}))

		require.NoError(t, s.End(context.Background(), "s1", 1000))
		require.NoError(t, s.End(context.Background(), "s1", 2000))

		sessions := s.Sessions()
		require.Len(t, sessions, 1)
		require.NotNil(t, sessions[0].EndedAt)
		assert.Equal(t, int64(1000), *sessions[0].EndedAt)
	})
}
