package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"clinichat/pkg/logger"
	"clinichat/pkg/store"
)

// DefaultCron runs the sweep every ten minutes.
const DefaultCron = "*/10 * * * *"

// Sweeper periodically archives idle threads. It never evicts; that is
// reserved for the admin cleanup trigger.
type Sweeper struct {
	store *store.Store
	cron  string

	// sweep is swapped out in tests to exercise the panic guard.
	sweep func(now time.Time)
}

// NewSweeper validates the cron expression and returns a sweeper.
// An empty expression falls back to DefaultCron.
func NewSweeper(st *store.Store, cronExpr string) (*Sweeper, error) {
	if cronExpr == "" {
		cronExpr = DefaultCron
	}
	if !gronx.IsValid(cronExpr) {
		return nil, fmt.Errorf("invalid retention cron expression: %s", cronExpr)
	}
	s := &Sweeper{store: st, cron: cronExpr}
	s.sweep = s.runAt
	return s, nil
}

// Start launches the scheduler goroutine. The returned cancel func
// stops it.
func (s *Sweeper) Start(ctx context.Context) context.CancelFunc {
	ctx2, cancel := context.WithCancel(ctx)
	logger.Info("retention_scheduler_started", "cron", s.cron)
	go s.runScheduler(ctx2)
	return cancel
}

// RunOnce performs a single archival pass at the current time.
func (s *Sweeper) RunOnce() {
	s.RunAt(time.Now())
}

// RunAt performs a single pass evaluated at the given instant. A panic
// inside the sweep is logged and swallowed so the scheduler survives.
// The pass only archives; hard eviction happens exclusively through the
// admin cleanup endpoint, never on the timer.
func (s *Sweeper) RunAt(now time.Time) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("retention_run_panic", "panic", rec)
		}
	}()
	s.sweep(now)
}

func (s *Sweeper) runAt(now time.Time) {
	archived := s.store.SweepInactive(now)
	if archived > 0 {
		logger.Info("retention_run", "archived", archived)
	}
}

// runScheduler sleeps until the next cron tick, runs a pass, repeats.
func (s *Sweeper) runScheduler(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("retention_scheduler_stopping")
			return
		default:
		}

		now := time.Now().UTC()
		next, err := gronx.NextTickAfter(s.cron, now, false)
		if err != nil {
			logger.Error("retention_nexttick_failed", "cron", s.cron, "error", err)
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		select {
		case <-time.After(time.Until(next)):
			s.RunOnce()
		case <-ctx.Done():
			logger.Info("retention_scheduler_stopping")
			return
		}
	}
}
