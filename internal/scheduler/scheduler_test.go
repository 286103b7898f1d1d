package scheduler

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/qumo-reducer/internal/queue"
	"github.com/aristath/qumo-reducer/internal/solver/reference"
	"github.com/aristath/qumo-reducer/internal/store"
)

func TestRegisterHandlersPrunesOldRows(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "sched.db"))
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	defer db.Close()

	old := uuid.New()
	if err := db.SaveReduceRun(store.ReduceRun{ID: old, CreatedAt: time.Now().Add(-48 * time.Hour), Status: store.StatusSuccess}); err != nil {
		t.Fatalf("SaveReduceRun() error = %v", err)
	}

	registry := queue.NewRegistry()
	RegisterHandlers(registry, db, reference.New(), 24*time.Hour, zerolog.Nop())

	handler, ok := registry.Get(queue.JobTypePruneStore)
	if !ok {
		t.Fatal("expected a JobTypePruneStore handler to be registered")
	}
	if err := handler(&queue.Job{ID: "test-prune"}); err != nil {
		t.Fatalf("prune handler error = %v", err)
	}

	var count int
	if err := db.Conn().QueryRow(`SELECT COUNT(*) FROM reduce_runs WHERE id = ?`, old.String()).Scan(&count); err != nil {
		t.Fatalf("querying pruned row: %v", err)
	}
	if count != 0 {
		t.Fatal("expected the old row to be pruned by the registered handler")
	}
}

func TestRegisterHandlersRetrySweepHandlesNoFailures(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "sched.db"))
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	defer db.Close()

	registry := queue.NewRegistry()
	RegisterHandlers(registry, db, reference.New(), time.Hour, zerolog.Nop())

	handler, ok := registry.Get(queue.JobTypeRetrySolve)
	if !ok {
		t.Fatal("expected a JobTypeRetrySolve handler to be registered")
	}
	if err := handler(&queue.Job{ID: "test-retry"}); err != nil {
		t.Fatalf("retry handler error = %v", err)
	}
}

const retryScenario = `Party Id,Security Balance,Currency Balance,CCF Exchange Factor
P1,10,0
P2,0,100

Transaction Id,From,To,Security Amount,From,To,Cash Amount
T1,P1,P2,10,P2,P1,50
`

func TestRetrySweepResolvesAFailedRunFromStoredScenarioText(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "sched.db"))
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	defer db.Close()

	failed := uuid.New()
	if err := db.SaveSettlementRun(store.SettlementRun{
		ID:           failed,
		CreatedAt:    time.Now(),
		Status:       store.StatusFailed,
		ScenarioText: retryScenario,
		Error:        "solver: non-optimal termination status ERROR",
	}); err != nil {
		t.Fatalf("SaveSettlementRun() error = %v", err)
	}

	if err := retrySweep(db, reference.New(), zerolog.Nop()); err != nil {
		t.Fatalf("retrySweep() error = %v", err)
	}

	run, err := db.GetSettlementRun(failed)
	if err != nil {
		t.Fatalf("GetSettlementRun() error = %v", err)
	}
	if run.Status != store.StatusSuccess {
		t.Fatalf("Status = %q, want %q (error: %s)", run.Status, store.StatusSuccess, run.Error)
	}
	if run.SelectedCount != 1 {
		t.Fatalf("SelectedCount = %d, want 1", run.SelectedCount)
	}
	if run.Error != "" {
		t.Fatalf("Error = %q, want empty after a successful retry", run.Error)
	}
}

func TestRetrySweepLeavesARunWithNoScenarioTextFailed(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "sched.db"))
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	defer db.Close()

	failed := uuid.New()
	if err := db.SaveSettlementRun(store.SettlementRun{ID: failed, CreatedAt: time.Now(), Status: store.StatusFailed}); err != nil {
		t.Fatalf("SaveSettlementRun() error = %v", err)
	}

	if err := retrySweep(db, reference.New(), zerolog.Nop()); err != nil {
		t.Fatalf("retrySweep() error = %v", err)
	}

	run, err := db.GetSettlementRun(failed)
	if err != nil {
		t.Fatalf("GetSettlementRun() error = %v", err)
	}
	if run.Status != store.StatusFailed {
		t.Fatalf("Status = %q, want still %q (no scenario text to retry from)", run.Status, store.StatusFailed)
	}
}

func TestRegisterHandlersRegistersHealthCheck(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "sched.db"))
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	defer db.Close()

	registry := queue.NewRegistry()
	RegisterHandlers(registry, db, reference.New(), time.Hour, zerolog.Nop())

	handler, ok := registry.Get(queue.JobTypeHealthCheck)
	if !ok {
		t.Fatal("expected a JobTypeHealthCheck handler to be registered")
	}
	if err := handler(&queue.Job{ID: "test-health"}); err != nil {
		t.Fatalf("health check handler error = %v", err)
	}
}

func TestHealthSweepFailsWithNoBackend(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "sched.db"))
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	defer db.Close()

	if err := healthSweep(db, nil, zerolog.Nop()); err == nil {
		t.Fatal("expected an error with no backend configured")
	}
}
