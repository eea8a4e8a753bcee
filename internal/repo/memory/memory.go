package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hamed0406/healthlogger/internal/domain"
	"github.com/hamed0406/healthlogger/internal/repo"
)

var _ repo.LogStore = (*Store)(nil)

type Store struct {
	mu     sync.RWMutex
	nextID int64
	logs   []domain.ConnectionLog
}

func New() *Store {
	return &Store{logs: make([]domain.ConnectionLog, 0, 128)}
}

func (m *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (m *Store) Append(ctx context.Context, l *domain.ConnectionLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	l.ID = m.nextID
	if l.CheckedAt.IsZero() {
		l.CheckedAt = time.Now().UTC()
	}
	m.logs = append(m.logs, *l)
	return nil
}

func (m *Store) Recent(ctx context.Context, limit int) ([]domain.ConnectionLog, error) {
	if limit <= 0 {
		limit = repo.DefaultRecentLimit
	}
	m.mu.RLock()
	out := make([]domain.ConnectionLog, len(m.logs))
	copy(out, m.logs)
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CheckedAt.Equal(out[j].CheckedAt) {
			return out[i].CheckedAt.After(out[j].CheckedAt)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
