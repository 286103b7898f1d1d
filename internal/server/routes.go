package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// RegisterRoutes registers the reducer, settlement, and health routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/qumo", func(r chi.Router) {
		r.Post("/reduce", h.HandleReduce)
	})
	r.Route("/settlement", func(r chi.Router) {
		r.Post("/solve", h.HandleSettlementSolve)
	})
	r.Get("/healthz", h.HandleHealthz)
}

// HealthResponse reports the process's resource snapshot.
type HealthResponse struct {
	Status         string  `json:"status"`
	MemUsedPct     float64 `json:"mem_used_pct"`
	CPUUsedPct     float64 `json:"cpu_used_pct"`
	SolverReady    bool    `json:"solver_ready"`
	StoreReachable bool    `json:"store_reachable"`
}

// HandleHealthz handles GET /healthz: a liveness probe that also samples
// host memory and CPU load via gopsutil and pings the run store, since a
// starved host or an unreachable store are the most common causes of a
// stuck solve.
func (h *Handler) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", SolverReady: h.backend != nil}

	if vm, err := mem.VirtualMemoryWithContext(r.Context()); err == nil {
		resp.MemUsedPct = vm.UsedPercent
	} else {
		h.log.Warn().Err(err).Msg("failed to sample memory")
	}

	if pct, err := cpu.PercentWithContext(r.Context(), 100*time.Millisecond, false); err == nil && len(pct) > 0 {
		resp.CPUUsedPct = pct[0]
	} else if err != nil {
		h.log.Warn().Err(err).Msg("failed to sample cpu")
	}

	if h.db != nil {
		if err := h.db.Conn().PingContext(r.Context()); err == nil {
			resp.StoreReachable = true
		} else {
			h.log.Warn().Err(err).Msg("store unreachable")
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
