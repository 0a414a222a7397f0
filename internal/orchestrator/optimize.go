package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/CS101-o/CFD-leetcode/internal/domain"
	"github.com/CS101-o/CFD-leetcode/internal/geometry"
	"github.com/CS101-o/CFD-leetcode/internal/solver"
)

// Thickness search bounds. Candidates scale the base section's
// y-coordinates between the two factors.
const (
	defaultOptimizeSteps = 10
	maxOptimizeSteps     = 100
	minThicknessScale    = 0.8
	maxThicknessScale    = 1.2
)

// Optimize searches thickness-scaled variants of the requested section
// for the best lift-to-drag ratio at the given flow conditions. The
// base run must succeed; candidates that fail to converge or leave the
// solver's domain are skipped. Each candidate goes through Run, so
// repeated searches reuse cached results.
func (o *Orchestrator) Optimize(ctx context.Context, req domain.SimulationRequest, steps int) (domain.OptimizationResult, error) {
	if steps == 0 {
		steps = defaultOptimizeSteps
	}
	if steps < 2 || steps > maxOptimizeSteps {
		return domain.OptimizationResult{}, fmt.Errorf("invalid request: optimization steps must be in [2, %d]: %d", maxOptimizeSteps, steps)
	}

	req = withDefaults(req, o.cfg.DefaultBackend)
	if err := req.Validate(); err != nil {
		return domain.OptimizationResult{}, fmt.Errorf("invalid request: %w", err)
	}
	base, err := buildGeometry(req)
	if err != nil {
		return domain.OptimizationResult{}, err
	}

	baseResult, err := o.Run(ctx, req)
	if err != nil {
		return domain.OptimizationResult{}, fmt.Errorf("base section: %w", err)
	}

	best := baseResult
	bestCoords := scaleThickness(base.Points, 1)
	bestScale := 1.0

	for i := 0; i < steps; i++ {
		scale := minThicknessScale + (maxThicknessScale-minThicknessScale)*float64(i)/float64(steps-1)

		candidate := req
		candidate.Family = string(geometry.FamilyCustom)
		candidate.Designation = ""
		candidate.NumPoints = 0
		candidate.Spacing = ""
		candidate.Coordinates = scaleThickness(base.Points, scale)

		result, err := o.Run(ctx, candidate)
		if err != nil {
			if errors.Is(err, solver.ErrConvergenceFailure) ||
				errors.Is(err, solver.ErrOutOfDomain) ||
				errors.Is(err, geometry.ErrDegenerateGeometry) {
				o.logger.Warn("skipping optimization candidate", "scale", scale, "err", err)
				continue
			}
			return domain.OptimizationResult{}, fmt.Errorf("candidate at scale %g: %w", scale, err)
		}
		if result.LOverD > best.LOverD {
			best = result
			bestCoords = candidate.Coordinates
			bestScale = scale
		}
	}

	var improvement float64
	if baseResult.LOverD != 0 {
		improvement = math.Round((best.LOverD/baseResult.LOverD-1)*100*10) / 10
	}
	return domain.OptimizationResult{
		Before:             baseResult,
		After:              best,
		ImprovementPercent: improvement,
		ThicknessScale:     bestScale,
		Coordinates:        bestCoords,
	}, nil
}

func scaleThickness(points []geometry.Point, scale float64) []domain.Coordinate {
	out := make([]domain.Coordinate, len(points))
	for i, p := range points {
		out[i] = domain.Coordinate{X: p.X, Y: p.Y * scale}
	}
	return out
}
