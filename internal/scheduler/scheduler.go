// Package scheduler drives the periodic retry, prune, and health-check
// sweeps: a cron (github.com/robfig/cron/v3) entry enqueues jobs onto the
// worker pool defined in internal/queue, which a registered handler then
// executes against the store and solver backend.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/aristath/qumo-reducer/internal/queue"
	"github.com/aristath/qumo-reducer/internal/solver"
	"github.com/aristath/qumo-reducer/internal/store"
	"github.com/aristath/qumo-reducer/settlement/assembler"
	"github.com/aristath/qumo-reducer/settlement/formulation"
	"github.com/aristath/qumo-reducer/settlement/parse"
)

// Scheduler wires a cron schedule to the job queue: it periodically
// enqueues a retry sweep for failed settlement runs, a prune sweep for
// records past their retention window, and a health-check sweep.
type Scheduler struct {
	cron      *cron.Cron
	manager   *queue.Manager
	retention time.Duration
	log       zerolog.Logger
}

// New creates a Scheduler. The interval argument is not used; the sweep
// period is the one passed to Start. retention governs how old a run record must be before it is pruned.
func New(manager *queue.Manager, interval, retention time.Duration, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		manager:   manager,
		retention: retention,
		log:       log.With().Str("component", "scheduler").Logger(),
	}
}

// Start registers the sweep entry and starts the cron runner. interval is
// expressed as a "@every" spec, matching how irregular sweep periods
// (rather than wall-clock times) are scheduled with robfig/cron.
func (s *Scheduler) Start(interval time.Duration) error {
	spec := fmt.Sprintf("@every %s", interval)
	_, err := s.cron.AddFunc(spec, func() {
		enqueued := s.manager.EnqueueIfShouldRun(queue.JobTypeRetrySolve, queue.PriorityHigh, interval, nil)
		s.log.Debug().Bool("enqueued", enqueued).Msg("retry sweep tick")

		prunEnqueued := s.manager.EnqueueIfShouldRun(queue.JobTypePruneStore, queue.PriorityLow, interval, nil)
		s.log.Debug().Bool("enqueued", prunEnqueued).Msg("prune sweep tick")

		healthEnqueued := s.manager.EnqueueIfShouldRun(queue.JobTypeHealthCheck, queue.PriorityMedium, interval, nil)
		s.log.Debug().Bool("enqueued", healthEnqueued).Msg("health check tick")
	})
	if err != nil {
		return fmt.Errorf("scheduler: failed to register sweep: %w", err)
	}
	s.cron.Start()
	s.log.Info().Dur("interval", interval).Msg("scheduler started")
	return nil
}

// Stop halts the cron runner, waiting for any in-flight job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("scheduler stopped")
}

// RegisterHandlers wires the retry-solve, prune-store, and health-check job
// types into registry, closing over db and backend.
func RegisterHandlers(registry *queue.Registry, db *store.DB, backend solver.Backend, retention time.Duration, log zerolog.Logger) {
	registry.Register(queue.JobTypeRetrySolve, func(job *queue.Job) error {
		return retrySweep(db, backend, log)
	})
	registry.Register(queue.JobTypePruneStore, func(job *queue.Job) error {
		n, err := db.PruneOlderThan(time.Now().Add(-retention))
		if err != nil {
			return err
		}
		log.Info().Int64("rows_pruned", n).Msg("pruned old run records")
		return nil
	})
	registry.Register(queue.JobTypeHealthCheck, func(job *queue.Job) error {
		return healthSweep(db, backend, log)
	})
}

// healthSweep pings the store and confirms a backend is wired, the same two
// checks /healthz answers synchronously for a caller; this is the
// background counterpart that keeps a standing record in job_history even
// when nothing is polling the endpoint.
func healthSweep(db *store.DB, backend solver.Backend, log zerolog.Logger) error {
	if backend == nil {
		return fmt.Errorf("scheduler: no solver backend configured")
	}
	if err := db.Conn().Ping(); err != nil {
		return fmt.Errorf("scheduler: store unreachable: %w", err)
	}
	log.Debug().Msg("health check sweep ok")
	return nil
}

// retrySweep re-solves every settlement run recorded as failed: it reloads
// the scenario text saved alongside the run, re-parses and re-assembles it,
// and re-runs the formulation against backend. A run that now solves is
// updated to success; one that still fails keeps its failed status (with
// the latest error) so the next sweep tries again.
func retrySweep(db *store.DB, backend solver.Backend, log zerolog.Logger) error {
	ids, err := db.FailedSettlementRuns()
	if err != nil {
		return fmt.Errorf("scheduler: listing failed settlement runs: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	log.Info().Int("count", len(ids)).Msg("retrying failed settlement runs")

	for _, id := range ids {
		if err := retrySettlementRun(db, backend, id); err != nil {
			log.Warn().Err(err).Str("run_id", id.String()).Msg("settlement run retry failed")
		}
	}
	return nil
}

// retrySettlementRun reloads a single failed run and attempts to re-solve
// it. A run saved before scenario text was persisted has nothing to
// re-parse and is skipped rather than retried forever.
func retrySettlementRun(db *store.DB, backend solver.Backend, id uuid.UUID) error {
	run, err := db.GetSettlementRun(id)
	if err != nil {
		return fmt.Errorf("loading run: %w", err)
	}
	if run.ScenarioText == "" {
		return fmt.Errorf("run has no stored scenario text, cannot retry")
	}

	scenario, err := parse.Scenario(strings.NewReader(run.ScenarioText))
	if err != nil {
		return fmt.Errorf("re-parsing scenario: %w", err)
	}
	mkt, err := assembler.Assemble(scenario)
	if err != nil {
		return fmt.Errorf("re-assembling market: %w", err)
	}

	selected, err := formulation.Solve(context.Background(), backend, mkt)
	if err != nil {
		run.Status = store.StatusFailed
		run.Error = err.Error()
		if saveErr := db.SaveSettlementRun(*run); saveErr != nil {
			return fmt.Errorf("re-solving: %w (and failed to save: %v)", err, saveErr)
		}
		return fmt.Errorf("re-solving: %w", err)
	}

	run.Status = store.StatusSuccess
	run.SelectedCount = len(selected)
	run.Error = ""
	return db.SaveSettlementRun(*run)
}
