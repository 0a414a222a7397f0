// Package surrogate is the instant-feedback backend: an analytic
// thin-airfoil model with an empirical viscous drag estimate. It never
// runs a subprocess and has no convergence concept, but it refuses
// inputs outside its envelope instead of extrapolating.
package surrogate

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/CS101-o/CFD-leetcode/internal/domain"
	"github.com/CS101-o/CFD-leetcode/internal/geometry"
	"github.com/CS101-o/CFD-leetcode/internal/solver"
)

// Envelope bounds outside which the model refuses to predict.
const (
	maxAlphaDeg  = 20.0
	minReynolds  = 1e4
	maxReynolds  = 1e8
	maxMach      = 0.8
	maxThickness = 0.4
)

const cpStations = 60

type Backend struct{}

func New() *Backend { return &Backend{} }

func (b *Backend) Name() string { return "surrogate" }

func (b *Backend) Solve(ctx context.Context, foil geometry.Airfoil, flow domain.FlowConditions) (domain.SimulationResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.SimulationResult{}, err
	}
	if err := flow.Validate(); err != nil {
		return domain.SimulationResult{}, err
	}

	start := time.Now()
	shape := foil.Describe()
	if err := checkDomain(shape, flow); err != nil {
		return domain.SimulationResult{}, err
	}

	thickness := shape.MaxThickness
	camber := shape.MaxCamber
	alphaRad := flow.AlphaDeg * math.Pi / 180

	// Thin-airfoil lift slope with a Prandtl-Glauert compressibility
	// correction; camber shifts the zero-lift angle.
	liftSlope := 2 * math.Pi / math.Sqrt(1-flow.Mach*flow.Mach)
	alphaZeroDeg := -105 * camber
	cl := liftSlope * (flow.AlphaDeg - alphaZeroDeg) * math.Pi / 180

	cd := dragCoefficient(cl, thickness, flow)
	cm := -0.012 - 2.2*camber - 0.002*alphaRad*alphaRad

	result := domain.SimulationResult{
		CL:        cl,
		CD:        cd,
		CM:        cm,
		LOverD:    domain.LiftToDrag(cl, cd),
		Cp:        pressureDistribution(cl, thickness),
		Converged: true,
		Backend:   b.Name(),
	}
	result.DurationMs = time.Since(start).Milliseconds()
	return result, nil
}

func checkDomain(shape geometry.Properties, flow domain.FlowConditions) error {
	if math.Abs(flow.AlphaDeg) > maxAlphaDeg {
		return fmt.Errorf("%w: |alpha| %g exceeds %g deg", solver.ErrOutOfDomain, math.Abs(flow.AlphaDeg), maxAlphaDeg)
	}
	if flow.Viscous && (flow.Reynolds < minReynolds || flow.Reynolds > maxReynolds) {
		return fmt.Errorf("%w: reynolds %g outside [%g, %g]", solver.ErrOutOfDomain, flow.Reynolds, minReynolds, maxReynolds)
	}
	if flow.Mach > maxMach {
		return fmt.Errorf("%w: mach %g exceeds %g", solver.ErrOutOfDomain, flow.Mach, maxMach)
	}
	if shape.MaxThickness <= 0 || shape.MaxThickness > maxThickness {
		return fmt.Errorf("%w: thickness %g outside (0, %g]", solver.ErrOutOfDomain, shape.MaxThickness, maxThickness)
	}
	return nil
}

// dragCoefficient estimates profile drag from turbulent flat-plate
// skin friction with a thickness form factor, plus a lift-dependent
// pressure drag term. Inviscid runs keep only the induced-style term.
func dragCoefficient(cl, thickness float64, flow domain.FlowConditions) float64 {
	liftTerm := 0.008 * cl * cl
	if !flow.Viscous {
		return liftTerm
	}
	friction := 0.074 / math.Pow(flow.Reynolds, 0.2)
	formFactor := 1 + 2.7*thickness + 100*math.Pow(thickness, 4)
	return 2*friction*formFactor*0.55 + liftTerm
}

// pressureDistribution synthesizes a plausible Cp curve: a thickness
// speed-up plus a flat-plate circulation term that peaks at the
// leading edge, mirrored between the surfaces.
func pressureDistribution(cl, thickness float64) []domain.CpPoint {
	points := make([]domain.CpPoint, 0, 2*cpStations)

	// Upper surface TE -> LE, then lower surface LE -> TE, matching
	// the boundary ordering.
	for i := cpStations - 1; i >= 0; i-- {
		x := station(i)
		points = append(points, domain.CpPoint{X: x, Cp: surfaceCp(x, cl, thickness, +1)})
	}
	for i := 0; i < cpStations; i++ {
		x := station(i)
		points = append(points, domain.CpPoint{X: x, Cp: surfaceCp(x, cl, thickness, -1)})
	}
	return points
}

func station(i int) float64 {
	frac := float64(i) / float64(cpStations-1)
	return 0.5 * (1 - math.Cos(math.Pi*frac))
}

func surfaceCp(x, cl, thickness float64, side float64) float64 {
	speedup := 1 + 1.9*thickness*math.Sin(math.Pi*x)
	circulation := cl / 4 * math.Sqrt((1-x)/(x+2e-3))
	v := speedup + side*circulation
	return 1 - v*v
}
