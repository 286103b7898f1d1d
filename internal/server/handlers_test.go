package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/qumo-reducer/internal/config"
	"github.com/aristath/qumo-reducer/internal/events"
	"github.com/aristath/qumo-reducer/internal/solver/reference"
	"github.com/aristath/qumo-reducer/internal/store"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "srv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{DefaultPenaltyWeight: 10}
	bus := events.NewBus(zerolog.Nop())
	mgr := events.NewManager(bus, zerolog.Nop())
	return NewHandler(reference.New(), db, cfg, mgr, zerolog.Nop())
}

func TestHandleReduceProducesInstance(t *testing.T) {
	h := newTestHandler(t)

	body := `{
		"sense": "minimize",
		"variables": [{"name": "x", "lower": 0, "upper": 5}],
		"objective": {"linear": [{"var": "x", "coef": 1}]},
		"constraints": [{"name": "c1", "linear": [{"var": "x", "coef": 1}], "kind": "ge", "lo": 2}],
		"penalty": {"weight": 5}
	}`
	req := httptest.NewRequest(http.MethodPost, "/qumo/reduce", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.HandleReduce(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp InstanceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Names)
}

func TestHandleReduceRejectsUnknownVariable(t *testing.T) {
	h := newTestHandler(t)

	body := `{
		"sense": "minimize",
		"variables": [{"name": "x", "lower": 0, "upper": 5}],
		"objective": {"linear": [{"var": "y", "coef": 1}]}
	}`
	req := httptest.NewRequest(http.MethodPost, "/qumo/reduce", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.HandleReduce(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestHandleSettlementSolveDvP(t *testing.T) {
	h := newTestHandler(t)

	scenario := `Party Id,Security Balance,Currency Balance,CCF Exchange Factor
P1,1,0
P2,0,1

Transaction Id,From,To,Security Amount,From,To,Cash Amount
T1,P1,P2,1,P2,P1,1
`
	req := httptest.NewRequest(http.MethodPost, "/settlement/solve", strings.NewReader(scenario))
	w := httptest.NewRecorder()

	h.HandleSettlementSolve(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp SettlementResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Feasible, "violations = %v", resp.Violations)
	require.Len(t, resp.SelectedTransactions, 1)
	assert.Equal(t, "T1", resp.SelectedTransactions[0])
}

func TestHandleHealthzReportsOK(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	h.HandleHealthz(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.SolverReady)
	assert.True(t, resp.StoreReachable)
}
