package access

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/taggate/taggate/internal/models"
)

// MemoryLogRepo is an in-memory LogRepository for unit tests. It preserves
// insertion order, which keeps range queries stable.
type MemoryLogRepo struct {
	mu   sync.RWMutex
	logs []models.AccessLog

	// InsertErr, when set, is returned by Insert to simulate a storage outage.
	InsertErr error
}

func NewMemoryLogRepo() *MemoryLogRepo {
	return &MemoryLogRepo{}
}

func (m *MemoryLogRepo) Insert(ctx context.Context, log *models.AccessLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return m.InsertErr
	}
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	m.logs = append(m.logs, *log)
	return nil
}

func (m *MemoryLogRepo) FindInRange(ctx context.Context, start, end time.Time) ([]models.AccessLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.AccessLog{}
	for _, l := range m.logs {
		if !l.Timestamp.Before(start) && l.Timestamp.Before(end) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *MemoryLogRepo) FindAll(ctx context.Context) ([]models.AccessLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.AccessLog, len(m.logs))
	copy(out, m.logs)
	return out, nil
}
