package repo

import (
	"context"

	"github.com/hamed0406/healthlogger/internal/domain"
)

// DefaultRecentLimit matches how many logs the status endpoint returns.
const DefaultRecentLimit = 10

// LogStore persists reported probe outcomes.
type LogStore interface {
	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
	// Append stores the row and sets its ID.
	Append(ctx context.Context, l *domain.ConnectionLog) error
	// Recent returns up to limit rows, newest checked_at first, ties by id desc.
	Recent(ctx context.Context, limit int) ([]domain.ConnectionLog, error)
}
