package health

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	corehealth "3tcapital/sriats/internal/core/health"
)

// checkTimeout bounds each dependency check.
const checkTimeout = 2 * time.Second

// Metadata contains immutable metadata about the running service.
type Metadata struct {
	Service     string
	Version     string
	Environment string
}

// Checker pings one backing service.
type Checker interface {
	Name() string
	Ping(ctx context.Context) error
}

// Service exposes health-check use cases to adapters.
type Service struct {
	meta      Metadata
	clock     clockwork.Clock
	checkers  []Checker
	startedAt time.Time
}

// NewService creates a health service. checkers are pinged on every status call.
func NewService(meta Metadata, clock clockwork.Clock, checkers ...Checker) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		meta:      meta,
		clock:     clock,
		checkers:  checkers,
		startedAt: clock.Now().UTC(),
	}
}

// Status returns the current availability snapshot.
func (s *Service) Status(ctx context.Context) corehealth.Status {
	uptime := s.clock.Since(s.startedAt)
	status := corehealth.Status{
		Service:     s.meta.Service,
		Version:     s.meta.Version,
		Environment: s.meta.Environment,
		Status:      corehealth.StatusUp,
		StartedAt:   s.startedAt,
		Uptime:      uptime.String(),
		UptimeSecs:  int64(uptime.Seconds()),
	}

	for _, c := range s.checkers {
		dep := corehealth.Dependency{Name: c.Name(), Status: corehealth.StatusUp}

		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		if err := c.Ping(checkCtx); err != nil {
			dep.Status = corehealth.StatusDegraded
			dep.Error = err.Error()
			status.Status = corehealth.StatusDegraded
		}
		cancel()

		status.Dependencies = append(status.Dependencies, dep)
	}

	return status
}
