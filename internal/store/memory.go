package store

import (
	"context"
	"sync"

	"github.com/Roisfaozi/gas.to/internal/biopage"
	"github.com/Roisfaozi/gas.to/internal/clicks"
	"github.com/Roisfaozi/gas.to/internal/shortlink"
	"github.com/Roisfaozi/gas.to/internal/visitor"
)

// In-memory store implementations, used by tests and for running the
// server without external dependencies.

// MemoryLinkStore is an in-memory shortlink.Repository.
type MemoryLinkStore struct {
	mu    sync.RWMutex
	links map[string]*shortlink.Link // short code -> link
}

// NewMemoryLinkStore creates an in-memory link store.
func NewMemoryLinkStore() *MemoryLinkStore {
	return &MemoryLinkStore{links: make(map[string]*shortlink.Link)}
}

func (m *MemoryLinkStore) Save(_ context.Context, link *shortlink.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *link
	m.links[link.ShortCode] = &copied

	return nil
}

func (m *MemoryLinkStore) GetByCode(_ context.Context, shortCode string) (*shortlink.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.links[shortCode]
	if !ok {
		return nil, shortlink.ErrNotFound
	}

	copied := *link

	return &copied, nil
}

func (m *MemoryLinkStore) GetByBioPage(_ context.Context, bioPageID string) ([]*shortlink.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var links []*shortlink.Link

	for _, link := range m.links {
		if link.BioPageID == bioPageID {
			copied := *link
			links = append(links, &copied)
		}
	}

	return links, nil
}

// MemoryBioPageStore is an in-memory biopage.Repository.
type MemoryBioPageStore struct {
	mu    sync.RWMutex
	pages map[string]*biopage.BioPage // id -> page
}

// NewMemoryBioPageStore creates an in-memory bio page store.
func NewMemoryBioPageStore() *MemoryBioPageStore {
	return &MemoryBioPageStore{pages: make(map[string]*biopage.BioPage)}
}

func (m *MemoryBioPageStore) Save(_ context.Context, page *biopage.BioPage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *page
	m.pages[page.ID] = &copied

	return nil
}

func (m *MemoryBioPageStore) GetByUsername(_ context.Context, username string) (*biopage.BioPage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, page := range m.pages {
		if page.Username == username {
			copied := *page

			return &copied, nil
		}
	}

	return nil, biopage.ErrNotFound
}

func (m *MemoryBioPageStore) GetByID(_ context.Context, id string) (*biopage.BioPage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	page, ok := m.pages[id]
	if !ok {
		return nil, biopage.ErrNotFound
	}

	copied := *page

	return &copied, nil
}

// MemoryClickStore is an in-memory clicks.Store.
type MemoryClickStore struct {
	mu      sync.RWMutex
	records []*clicks.ClickRecord
}

// NewMemoryClickStore creates an in-memory click store.
func NewMemoryClickStore() *MemoryClickStore {
	return &MemoryClickStore{}
}

func (m *MemoryClickStore) Insert(_ context.Context, record *clicks.ClickRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *record
	m.records = append(m.records, &copied)

	return nil
}

func (m *MemoryClickStore) ExistsRecent(
	_ context.Context, target clicks.TargetRef, ip, userAgent string, since int64,
) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, record := range m.records {
		if record.Target == target && record.IP == ip && record.UserAgent == userAgent && record.CreatedAt >= since {
			return true, nil
		}
	}

	return false, nil
}

func (m *MemoryClickStore) ListByTarget(
	_ context.Context, target clicks.TargetRef, start, end *int64,
) ([]*clicks.ClickRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*clicks.ClickRecord

	for _, record := range m.records {
		if record.Target != target {
			continue
		}

		if start != nil && record.CreatedAt < *start {
			continue
		}

		if end != nil && record.CreatedAt > *end {
			continue
		}

		copied := *record
		matched = append(matched, &copied)
	}

	return matched, nil
}

// All returns every stored record. Test helper.
func (m *MemoryClickStore) All() []*clicks.ClickRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*clicks.ClickRecord, 0, len(m.records))

	for _, record := range m.records {
		copied := *record
		out = append(out, &copied)
	}

	return out
}

// MemorySessionStore is an in-memory visitor.SessionStore.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions []*visitor.Session
}

// NewMemorySessionStore creates an in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (m *MemorySessionStore) Insert(_ context.Context, session *visitor.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *session
	m.sessions = append(m.sessions, &copied)

	return nil
}

func (m *MemorySessionStore) LatestByFingerprint(_ context.Context, fingerprint string) (*visitor.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *visitor.Session

	for _, session := range m.sessions {
		if session.Fingerprint != fingerprint {
			continue
		}

		if latest == nil || session.StartedAt > latest.StartedAt {
			latest = session
		}
	}

	if latest == nil {
		return nil, visitor.ErrNotFound
	}

	copied := *latest

	return &copied, nil
}

func (m *MemorySessionStore) End(_ context.Context, sessionID string, endedAt int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, session := range m.sessions {
		if session.ID == sessionID && session.EndedAt == nil {
			session.EndedAt = &endedAt
		}
	}

	return nil
}

// Sessions returns every stored session. Test helper.
func (m *MemorySessionStore) Sessions() []*visitor.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*visitor.Session, 0, len(m.sessions))

	for _, session := range m.sessions {
		copied := *session
		out = append(out, &copied)
	}

	return out
}
