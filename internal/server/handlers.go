// Package server exposes the reducer and settlement cores over HTTP, using
// the same chi.Router + zerolog-scoped Handler shape the rest of this
// module's ambient stack follows.
package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/qumo-reducer/internal/config"
	"github.com/aristath/qumo-reducer/internal/events"
	"github.com/aristath/qumo-reducer/internal/solver"
	"github.com/aristath/qumo-reducer/internal/store"
	"github.com/aristath/qumo-reducer/qumo/reduce"
	"github.com/aristath/qumo-reducer/settlement/assembler"
	"github.com/aristath/qumo-reducer/settlement/formulation"
	"github.com/aristath/qumo-reducer/settlement/parse"
	"github.com/aristath/qumo-reducer/settlement/validate"
)

// Handler provides the HTTP handlers for the reducer and settlement
// endpoints.
type Handler struct {
	backend solver.Backend
	db      *store.DB
	cfg     *config.Config
	events  *events.Manager
	log     zerolog.Logger
}

// NewHandler creates a Handler wired to a solver backend, store, and event
// manager.
func NewHandler(backend solver.Backend, db *store.DB, cfg *config.Config, eventMgr *events.Manager, log zerolog.Logger) *Handler {
	return &Handler{
		backend: backend,
		db:      db,
		cfg:     cfg,
		events:  eventMgr,
		log:     log.With().Str("handler", "server").Logger(),
	}
}

// HandleReduce handles POST /qumo/reduce: build a model from the request
// body, run the reduction pipeline, and return the resulting QUMO instance.
func (h *Handler) HandleReduce(w http.ResponseWriter, r *http.Request) {
	var req ModelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	m, weight, err := req.Build()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if weight == 0 {
		weight = h.cfg.DefaultPenaltyWeight
	}
	h.events.EmitReduceStarted("server", m.NumVars())

	outcome, err := reduce.ReduceClone(m, reduce.Options{PenaltyWeight: weight})
	run := store.ReduceRun{
		ID:            uuid.New(),
		CreatedAt:     time.Now(),
		NumVars:       m.NumVars(),
		PenaltyWeight: weight,
	}
	if err != nil {
		run.Status = store.StatusFailed
		run.Error = err.Error()
		h.saveReduceRun(run)
		h.events.EmitError("server", err, map[string]interface{}{"run_id": run.ID.String()})
		writeError(w, http.StatusUnprocessableEntity, "reduce: "+err.Error())
		return
	}

	run.Status = store.StatusSuccess
	run.NumBinaries = len(outcome.Instance.Binaries)
	h.saveReduceRun(run)
	h.events.EmitReduceCompleted("server", run.ID.String(), run.NumBinaries)

	resp := InstanceResponse{
		C:                 outcome.Instance.C,
		K:                 outcome.Instance.K,
		Binaries:          outcome.Instance.Binaries,
		Names:             outcome.Instance.Names,
		ZeroWeightWarning: outcome.ZeroWeightWarning,
	}
	for _, t := range outcome.Instance.Q {
		resp.Q = append(resp.Q, TripleResponse{I: t.I, J: t.J, V: t.V})
	}
	writeJSON(w, http.StatusOK, resp)
}

// SettlementResponse is returned by POST /settlement/solve.
type SettlementResponse struct {
	SelectedTransactions []string `json:"selected_transactions"`
	Feasible             bool     `json:"feasible"`
	Violations           []string `json:"violations,omitempty"`
	HasSlack             bool     `json:"has_slack"`
}

// HandleSettlementSolve handles POST /settlement/solve: the request body is
// the plain-text scenario format, not JSON.
func (h *Handler) HandleSettlementSolve(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r.Body); err != nil {
		writeError(w, http.StatusBadRequest, "reading request body: "+err.Error())
		return
	}

	scenarioText := buf.String()
	scenario, err := parse.Scenario(&buf)
	if err != nil {
		writeError(w, http.StatusBadRequest, "parse: "+err.Error())
		return
	}

	mkt, err := assembler.Assemble(scenario)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "assemble: "+err.Error())
		return
	}
	h.events.EmitScenarioParsed("server", mkt.Transactions.NumParties, mkt.Transactions.NumTransactions)

	h.events.EmitSolveStarted("server")
	selected, err := formulation.Solve(r.Context(), h.backend, mkt)
	run := store.SettlementRun{
		ID:              uuid.New(),
		CreatedAt:       time.Now(),
		NumParties:      mkt.Transactions.NumParties,
		NumTransactions: mkt.Transactions.NumTransactions,
		ScenarioText:    scenarioText,
	}
	if err != nil {
		run.Status = store.StatusFailed
		run.Error = err.Error()
		h.saveSettlementRun(run)
		h.events.EmitError("server", err, map[string]interface{}{"run_id": run.ID.String()})
		writeError(w, http.StatusUnprocessableEntity, "solve: "+err.Error())
		return
	}
	run.Status = store.StatusSuccess
	run.SelectedCount = len(selected)
	h.saveSettlementRun(run)
	h.events.EmitSolveCompleted("server", run.ID.String(), run.SelectedCount)

	result, err := validate.Validate(mkt, selected)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "validate: "+err.Error())
		return
	}

	resp := SettlementResponse{
		Feasible: result.Feasible(),
		HasSlack: len(validate.AdmissibleSet(mkt, result.State, selected)) > 0,
	}
	for _, t := range selected {
		resp.SelectedTransactions = append(resp.SelectedTransactions, scenario.Transactions[t].ID.String())
	}
	for _, v := range result.Violations {
		resp.Violations = append(resp.Violations, v.String())
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) saveReduceRun(run store.ReduceRun) {
	if err := h.db.SaveReduceRun(run); err != nil {
		h.log.Warn().Err(err).Msg("failed to persist reduce run")
	}
}

func (h *Handler) saveSettlementRun(run store.SettlementRun) {
	if err := h.db.SaveSettlementRun(run); err != nil {
		h.log.Warn().Err(err).Msg("failed to persist settlement run")
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
