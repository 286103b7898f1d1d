// Package highs is the wiring seam for a production HiGHS backend. Linking the actual
// HiGHS C API/CLI is out of scope for this module; Backend satisfies
// solver.Backend but always fails, so callers can wire it in now and swap
// in a real implementation later without touching call sites.
package highs

import (
	"context"
	"fmt"

	"github.com/aristath/qumo-reducer/internal/solver"
	"github.com/aristath/qumo-reducer/qumo/model"
)

// Backend is an unimplemented stand-in for a real HiGHS-backed solver.
type Backend struct {
	optimizer string
	silent    bool
}

// New returns a stub HiGHS backend.
func New() *Backend { return &Backend{} }

func (b *Backend) SetOptimizer(name string) error {
	b.optimizer = name
	return nil
}

func (b *Backend) SetSilent(silent bool) { b.silent = silent }

// Optimize always fails: this module does not link the HiGHS C API or
// shell out to its CLI. Use internal/solver/reference for in-process
// solving, or provide a HiGHS-backed Backend of your own.
func (b *Backend) Optimize(ctx context.Context, m *model.Model) error {
	return fmt.Errorf("highs backend: not linked in this build, use internal/solver/reference or supply a real implementation")
}

func (b *Backend) TerminationStatus() solver.Status { return solver.StatusError }

func (b *Backend) Value(v model.VarID) float64 { return 0 }
