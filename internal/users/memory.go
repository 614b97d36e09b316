package users

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/taggate/taggate/internal/models"
)

// MemoryRepo is an in-memory UserRepository used for unit tests and local
// development without a MongoDB instance.
type MemoryRepo struct {
	mu    sync.RWMutex
	byTag map[string]models.User
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byTag: make(map[string]models.User)}
}

func (m *MemoryRepo) Insert(ctx context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byTag[u.Tag]; exists {
		return nil, ErrDuplicateTag
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	m.byTag[u.Tag] = *u
	return u, nil
}

func (m *MemoryRepo) FindByTag(ctx context.Context, tag string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.byTag[tag]; ok {
		cp := u
		return &cp, nil
	}
	return nil, nil
}
