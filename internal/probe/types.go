package probe

import (
	"context"

	"github.com/hamed0406/healthlogger/internal/domain"
)

// UnreachableMessage is the only error text ever shown to the end user.
const UnreachableMessage = "Backend is not reachable"

// Backend is the remote service a probe cycle talks to.
type Backend interface {
	Health(ctx context.Context) (domain.HealthReport, error)
	Report(ctx context.Context, out domain.ProbeOutcome) ([]domain.LogEntry, error)
}

// State is a snapshot of the controller's view of the backend.
//
// After a completed cycle exactly one of Health and Error is set. Before the
// first cycle both are empty.
type State struct {
	Health   *domain.HealthReport
	Error    string
	InFlight bool
	Logs     []domain.LogEntry
}

func (s State) clone() State {
	out := s
	if s.Health != nil {
		h := *s.Health
		out.Health = &h
	}
	if s.Logs != nil {
		out.Logs = make([]domain.LogEntry, len(s.Logs))
		copy(out.Logs, s.Logs)
	}
	return out
}
