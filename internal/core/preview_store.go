package core

import (
	"context"
	"sync"
	"time"
)

// PreviewStore keeps previews between the preview and commit requests.
// Get and Take return ErrPreviewNotFound for unknown or expired ids.
//
// Take removes and returns a preview in one step; of two concurrent calls
// for the same id only one gets the preview.
type PreviewStore interface {
	Save(ctx context.Context, p *ImportPreview, ttl time.Duration) error
	Get(ctx context.Context, id string) (*ImportPreview, error)
	Take(ctx context.Context, id string) (*ImportPreview, error)
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	preview   ImportPreview
	expiresAt time.Time
}

// MemoryPreviewStore is a process-local PreviewStore. Expired entries are
// hidden on read and removed by Sweep.
type MemoryPreviewStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryPreviewStore returns an empty store.
func NewMemoryPreviewStore() *MemoryPreviewStore {
	return &MemoryPreviewStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryPreviewStore) Save(_ context.Context, p *ImportPreview, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[p.ID] = memoryEntry{preview: *p, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *MemoryPreviewStore) Get(_ context.Context, id string) (*ImportPreview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok || !m.now().Before(e.expiresAt) {
		return nil, ErrPreviewNotFound
	}
	p := e.preview
	return &p, nil
}

func (m *MemoryPreviewStore) Take(_ context.Context, id string) (*ImportPreview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok || !m.now().Before(e.expiresAt) {
		return nil, ErrPreviewNotFound
	}
	delete(m.entries, id)
	p := e.preview
	return &p, nil
}

func (m *MemoryPreviewStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, id)
	return nil
}

// Sweep drops expired previews and returns how many were removed.
func (m *MemoryPreviewStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored previews, expired or not.
func (m *MemoryPreviewStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// StartSweeper runs Sweep every interval until ctx is cancelled.
func (m *MemoryPreviewStore) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
