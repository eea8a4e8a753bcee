package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hamed0406/healthlogger/internal/domain"
)

func TestPostgresStore_Append_Recent(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping Postgres integration test")
	}

	ctx := context.Background()
	store, err := New(ctx, dsn, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Ping(ctx))

	// far-future timestamps keep these rows on top regardless of existing data
	base := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Microsecond)
	older := &domain.ConnectionLog{Status: domain.StatusDown, ResponseTimeMS: 1.5, CheckedAt: base}
	newer := &domain.ConnectionLog{Status: domain.StatusUp, ResponseTimeMS: 42.25, CheckedAt: base.Add(time.Second)}
	require.NoError(t, store.Append(ctx, older))
	require.NoError(t, store.Append(ctx, newer))
	require.NotZero(t, older.ID)
	require.Greater(t, newer.ID, older.ID)

	got, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newer.ID, got[0].ID)
	assert.Equal(t, domain.StatusUp, got[0].Status)
	assert.InDelta(t, 42.25, got[0].ResponseTimeMS, 1e-9)
	assert.True(t, got[0].CheckedAt.Equal(newer.CheckedAt))
	assert.Equal(t, older.ID, got[1].ID)
}
