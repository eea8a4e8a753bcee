package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/hamed0406/healthlogger/internal/domain"
	"github.com/hamed0406/healthlogger/internal/repo"
)

var _ repo.LogStore = (*Store)(nil)

type Store struct {
	pool         *pgxpool.Pool
	log          *zap.Logger
	queryTimeout time.Duration
}

// New connects, pings and applies migrations.
func New(ctx context.Context, dsn string, log *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("postgres_ready")
	return &Store{pool: pool, log: log, queryTimeout: 2 * time.Second}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if _, err := s.pool.Exec(ctx, `SELECT 1`); err != nil {
		return fmt.Errorf("select 1: %w", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, l *domain.ConnectionLog) error {
	if l.CheckedAt.IsZero() {
		l.CheckedAt = time.Now().UTC()
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	err := s.pool.QueryRow(ctx,
		`INSERT INTO connection_logs (status, response_time_ms, checked_at)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		string(l.Status), l.ResponseTimeMS, l.CheckedAt,
	).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("insert log: %w", err)
	}
	return nil
}

func (s *Store) Recent(ctx context.Context, limit int) ([]domain.ConnectionLog, error) {
	if limit <= 0 {
		limit = repo.DefaultRecentLimit
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	rows, err := s.pool.Query(ctx,
		`SELECT id, status, response_time_ms, checked_at
		   FROM connection_logs
		  ORDER BY checked_at DESC, id DESC
		  LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent logs: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ConnectionLog, 0, limit)
	for rows.Next() {
		var (
			l      domain.ConnectionLog
			status string
		)
		if err := rows.Scan(&l.ID, &status, &l.ResponseTimeMS, &l.CheckedAt); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		l.Status = domain.Status(status)
		out = append(out, l)
	}
	return out, rows.Err()
}
