package probe_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hamed0406/healthlogger/internal/domain"
	"github.com/hamed0406/healthlogger/internal/httpapi"
	"github.com/hamed0406/healthlogger/internal/probe"
	"github.com/hamed0406/healthlogger/internal/repo/memory"
)

func TestController_AgainstBackend(t *testing.T) {
	store := memory.New()
	srv := httpapi.NewServer(zap.NewNop(), store, time.UTC, 10)
	ts := httptest.NewServer(srv.Router(httpapi.RouterConfig{Keys: []string{"k_probe"}}))
	defer ts.Close()

	b := probe.NewHTTPBackend(ts.URL, 2*time.Second)
	b.APIKey = "k_probe"
	c := probe.NewController(b, zap.NewNop())

	require.NoError(t, c.RunProbe(context.Background()))
	st := c.State()
	require.NotNil(t, st.Health)
	assert.Equal(t, "UP", st.Health.Status)
	assert.Equal(t, "UTC (UTC)", st.Health.Timezone)
	require.Len(t, st.Logs, 1)
	assert.Equal(t, domain.StatusUp, st.Logs[0].Status)

	require.NoError(t, c.RunProbe(context.Background()))
	st = c.State()
	require.Len(t, st.Logs, 2)
	assert.Equal(t, domain.EntryID("2"), st.Logs[0].ID, "newest first")

	// Backend gone: the cycle is DOWN and the cached logs survive.
	ts.Close()
	require.NoError(t, c.RunProbe(context.Background()))
	st = c.State()
	assert.Nil(t, st.Health)
	assert.Equal(t, probe.UnreachableMessage, st.Error)
	assert.Len(t, st.Logs, 2)
	assert.False(t, st.InFlight)
}

func TestController_ReportsDownWhenHealthRejected(t *testing.T) {
	store := memory.New()
	srv := httpapi.NewServer(zap.NewNop(), downPing{store}, time.UTC, 10)
	ts := httptest.NewServer(srv.Router(httpapi.RouterConfig{}))
	defer ts.Close()

	c := probe.NewController(probe.NewHTTPBackend(ts.URL, 2*time.Second), zap.NewNop())
	require.NoError(t, c.RunProbe(context.Background()))

	st := c.State()
	assert.Equal(t, probe.UnreachableMessage, st.Error)
	require.Len(t, st.Logs, 1, "DOWN outcome still recorded")
	assert.Equal(t, domain.StatusDown, st.Logs[0].Status)
	assert.GreaterOrEqual(t, st.Logs[0].ResponseTimeMS, 0.0)
}

// downPing fails /health while /status keeps working.
type downPing struct{ *memory.Store }

func (downPing) Ping(context.Context) error { return context.DeadlineExceeded }
