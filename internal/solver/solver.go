// Package solver defines the common contract every aerodynamic backend
// satisfies, and the failure taxonomy callers branch on.
package solver

import (
	"context"
	"errors"

	"github.com/CS101-o/CFD-leetcode/internal/domain"
	"github.com/CS101-o/CFD-leetcode/internal/geometry"
)

var (
	// ErrBackendUnavailable means the backend cannot run at all, e.g.
	// the external executable is not installed.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrTimeout means the backend's own wall-clock bound expired and
	// the underlying process was terminated.
	ErrTimeout = errors.New("solver timeout")

	// ErrConvergenceFailure means the solver iteration did not satisfy
	// its residual criterion. The result returned alongside it carries
	// whatever partial coefficients were printed, with Converged=false.
	ErrConvergenceFailure = errors.New("convergence failure")

	// ErrOutOfDomain means the inputs fall outside the approximate
	// model's envelope; it refuses rather than extrapolating.
	ErrOutOfDomain = errors.New("inputs out of model domain")

	// ErrMalformedOutput means the mandatory result block could not be
	// located in the solver's output.
	ErrMalformedOutput = errors.New("malformed solver output")
)

// Backend solves one airfoil at one flow condition. Implementations
// must be safe for concurrent use; each call owns its own resources.
type Backend interface {
	Name() string
	Solve(ctx context.Context, foil geometry.Airfoil, flow domain.FlowConditions) (domain.SimulationResult, error)
}

// External marks backends that run an external process per call; the
// orchestrator bounds how many of these run concurrently.
type External interface {
	External() bool
}

// IsExternal reports whether a backend is subject to the global
// process bound.
func IsExternal(b Backend) bool {
	ext, ok := b.(External)
	return ok && ext.External()
}
