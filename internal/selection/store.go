// Package selection persists the project and edition a dashboard session has
// selected, so a session resumes where it left off.
package selection

import (
	"context"
	"sync"

	"github.com/translation-progress-api/internal/models"
)

// Store loads and saves the selection of a session. Loading a session that
// never saved returns the zero Selection and no error.
type Store interface {
	Load(ctx context.Context, sessionID string) (models.Selection, error)
	Save(ctx context.Context, sessionID string, sel models.Selection) error
}

// Memory keeps selections in process memory
type Memory struct {
	mu   sync.RWMutex
	sels map[string]models.Selection
}

// NewMemory creates an empty in-memory selection store
func NewMemory() *Memory {
	return &Memory{sels: make(map[string]models.Selection)}
}

func (m *Memory) Load(ctx context.Context, sessionID string) (models.Selection, error) {
	if err := ctx.Err(); err != nil {
		return models.Selection{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sels[sessionID], nil
}

func (m *Memory) Save(ctx context.Context, sessionID string, sel models.Selection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sels[sessionID] = sel
	return nil
}
