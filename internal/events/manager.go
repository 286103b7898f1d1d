// Package events carries reduce/solve lifecycle notifications out of the
// HTTP handlers and into anything that wants to observe them (today, just
// the log; the bus leaves room for a future subscriber without touching
// call sites).
package events

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

// Event is one reduce/solve lifecycle notification, as logged and
// published to the bus.
type Event struct {
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
	Module    string                 `json:"module"`
}

// Manager is the handler layer's event sink: it publishes to the bus and
// logs, and exposes one typed method per lifecycle event so callers don't
// hand-build the data map at every call site.
type Manager struct {
	bus *Bus
	log zerolog.Logger
}

// NewManager creates a new event manager
func NewManager(bus *Bus, log zerolog.Logger) *Manager {
	return &Manager{
		bus: bus,
		log: log.With().Str("service", "events").Logger(),
	}
}

// Emit emits an event to the bus and logs it
func (m *Manager) Emit(eventType EventType, module string, data map[string]interface{}) {
	event := Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
		Module:    module,
	}

	// Publish to bus
	m.bus.Emit(eventType, module, data)

	// Log event
	eventJSON, _ := json.Marshal(event)
	m.log.Info().
		Str("event_type", string(eventType)).
		Str("module", module).
		RawJSON("event", eventJSON).
		Msg("event emitted")
}

// EmitError emits an error event
func (m *Manager) EmitError(module string, err error, context map[string]interface{}) {
	data := map[string]interface{}{
		"error":   err.Error(),
		"context": context,
	}
	m.Emit(ErrorOccurred, module, data)
}

// EmitReduceStarted fires when a QUMO reduction begins, before the
// pipeline runs.
func (m *Manager) EmitReduceStarted(module string, numVars int) {
	m.Emit(ReduceStarted, module, map[string]interface{}{"num_vars": numVars})
}

// EmitReduceCompleted fires once a reduction has produced an instance.
func (m *Manager) EmitReduceCompleted(module, runID string, numBinaries int) {
	m.Emit(ReduceCompleted, module, map[string]interface{}{"run_id": runID, "num_binaries": numBinaries})
}

// EmitScenarioParsed fires once a settlement scenario has been parsed and
// assembled into a Market.
func (m *Manager) EmitScenarioParsed(module string, numParties, numTransactions int) {
	m.Emit(ScenarioParsed, module, map[string]interface{}{
		"num_parties": numParties, "num_transactions": numTransactions,
	})
}

// EmitSolveStarted fires when a settlement solve is dispatched to a
// backend.
func (m *Manager) EmitSolveStarted(module string) {
	m.Emit(SolveStarted, module, nil)
}

// EmitSolveCompleted fires once a backend returns an OPTIMAL settlement
// result.
func (m *Manager) EmitSolveCompleted(module, runID string, selectedCount int) {
	m.Emit(SolveCompleted, module, map[string]interface{}{"run_id": runID, "selected_count": selectedCount})
}
