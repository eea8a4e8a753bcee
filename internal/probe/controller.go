package probe

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/healthlogger/internal/domain"
)

// ErrProbeInFlight is returned when RunProbe is called while a cycle runs.
var ErrProbeInFlight = errors.New("probe already in flight")

// Controller runs probe cycles and owns the resulting State. It is the only
// writer of that state; readers use State or Subscribe.
type Controller struct {
	backend Backend
	log     *zap.Logger
	now     func() time.Time
	diag    Diagnoser

	running atomic.Bool

	mu     sync.RWMutex
	state  State
	subs   map[int]chan State
	nextID int
}

type Option func(*Controller)

// WithClock overrides the time source used for latency measurement.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithDiagnoser enables operator diagnostics after unreachable cycles.
func WithDiagnoser(d Diagnoser) Option {
	return func(c *Controller) { c.diag = d }
}

func NewController(backend Backend, log *zap.Logger, opts ...Option) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Controller{
		backend: backend,
		log:     log,
		now:     time.Now,
		subs:    make(map[int]chan State),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.clone()
}

// Subscribe returns a channel that receives a snapshot after every state
// change. Only the latest snapshot is buffered. Call the returned func to
// unsubscribe; the channel is closed then.
func (c *Controller) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = ch
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			close(ch)
			c.mu.Unlock()
		})
	}
}

// RunProbe executes one probe cycle: health call, timing, outcome report and
// log replacement. Network failures never escape; the only error is
// ErrProbeInFlight when another cycle is still running.
func (c *Controller) RunProbe(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrProbeInFlight
	}
	defer c.running.Store(false)

	c.update(func(s *State) {
		s.InFlight = true
		s.Error = ""
	})
	defer c.update(func(s *State) { s.InFlight = false })

	t0 := c.now()
	health, err := guard(func() (domain.HealthReport, error) { return c.backend.Health(ctx) })
	elapsed := c.now().Sub(t0).Seconds() * 1000
	if elapsed < 0 {
		elapsed = 0
	}

	if err == nil {
		c.update(func(s *State) {
			h := health
			s.Health = &h
			s.Error = ""
		})
		c.log.Info("health_ok", zap.Float64("latency_ms", math.Round(elapsed)))

		out := domain.ProbeOutcome{Status: domain.StatusUp, ResponseTimeMS: elapsed}
		if err := c.report(ctx, out); err != nil {
			c.log.Warn("report_failed", zap.String("status", string(out.Status)), zap.Error(err))
		}
		return nil
	}

	c.update(func(s *State) {
		s.Error = UnreachableMessage
		s.Health = nil
	})
	c.log.Warn("health_failed", zap.Float64("latency_ms", math.Round(elapsed)), zap.Error(err))

	out := domain.ProbeOutcome{Status: domain.StatusDown, ResponseTimeMS: elapsed}
	if err := c.report(ctx, out); err != nil {
		c.log.Warn("report_unreachable", zap.Error(err))
	}
	c.diagnose(ctx)
	return nil
}

func (c *Controller) report(ctx context.Context, out domain.ProbeOutcome) error {
	logs, err := guard(func() ([]domain.LogEntry, error) { return c.backend.Report(ctx, out) })
	if err != nil {
		return err
	}
	if logs == nil {
		logs = []domain.LogEntry{}
	}
	c.update(func(s *State) { s.Logs = logs })
	return nil
}

func (c *Controller) diagnose(ctx context.Context) {
	if c.diag == nil {
		return
	}
	d := c.diag.Diagnose(ctx)
	c.log.Info("dns_check",
		zap.String("domain", d.Domain),
		zap.String("class", d.Class),
		zap.Int("ips", len(d.IPs)),
		zap.String("cname", d.CNAME),
		zap.Strings("nameservers", d.Nameservers),
		zap.String("resolver_error", d.ResolverError),
	)
}

func (c *Controller) update(fn func(*State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.state)
	snap := c.state.clone()
	for _, ch := range c.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

// guard turns a panic inside a backend call into an error.
func guard[T any](fn func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("backend panic: %v", r)
		}
	}()
	return fn()
}
