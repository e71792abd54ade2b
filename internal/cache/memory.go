package cache

import (
	"context"
	"sync"
	"time"

	"github.com/translation-progress-api/internal/models"
)

type memoryKey struct {
	projectID string
	editionID string
}

type memoryEntry struct {
	snap    models.ProgressSnapshot
	expires time.Time
}

// Memory is an in-process ProgressCache with a fixed TTL
type Memory struct {
	ttl time.Duration
	now func() time.Time

	mu        sync.Mutex
	entries   map[memoryKey]memoryEntry
	lastSweep time.Time
}

// NewMemory creates an in-process cache. A ttl of zero disables caching.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[memoryKey]memoryEntry),
	}
}

func (m *Memory) Get(ctx context.Context, projectID, editionID string) (models.ProgressSnapshot, bool, error) {
	if err := ctx.Err(); err != nil {
		return models.ProgressSnapshot{}, false, err
	}
	key := memoryKey{projectID, editionID}

	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return models.ProgressSnapshot{}, false, nil
	}
	if !m.now().Before(e.expires) {
		delete(m.entries, key)
		return models.ProgressSnapshot{}, false, nil
	}
	return e.snap, true, nil
}

func (m *Memory) Set(ctx context.Context, projectID, editionID string, snap models.ProgressSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.ttl <= 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if now.Sub(m.lastSweep) >= m.ttl {
		m.sweepLocked(now)
	}
	m.entries[memoryKey{projectID, editionID}] = memoryEntry{snap: snap, expires: now.Add(m.ttl)}
	return nil
}

// sweepLocked drops expired entries. Set runs it at most once per ttl so
// keys that are never read again do not accumulate.
func (m *Memory) sweepLocked(now time.Time) {
	for k, e := range m.entries {
		if !now.Before(e.expires) {
			delete(m.entries, k)
		}
	}
	m.lastSweep = now
}

// Len returns the number of stored entries, expired or not
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) Delete(ctx context.Context, projectID, editionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, memoryKey{projectID, editionID})
	return nil
}
