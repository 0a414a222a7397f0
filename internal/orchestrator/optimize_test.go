package orchestrator

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/CS101-o/CFD-leetcode/internal/domain"
	"github.com/CS101-o/CFD-leetcode/internal/geometry"
	"github.com/CS101-o/CFD-leetcode/internal/solver"
)

// sectionThickness approximates max thickness as twice the largest
// surface offset, which is exact for a symmetric section.
func sectionThickness(foil geometry.Airfoil) float64 {
	var maxY float64
	for _, p := range foil.Points {
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return 2 * maxY
}

func TestOptimizePrefersThinnerSection(t *testing.T) {
	// L/D = 50/thickness, so the thinnest candidate (scale 0.8) wins.
	backend := &fakeBackend{
		name: "fast",
		solveFoil: func(foil geometry.Airfoil, _ domain.FlowConditions) (domain.SimulationResult, error) {
			cl, cd := 0.5, sectionThickness(foil)/100
			return domain.SimulationResult{
				CL: cl, CD: cd,
				LOverD:    domain.LiftToDrag(cl, cd),
				Converged: true,
				Backend:   "fast",
			}, nil
		},
	}
	o, err := New(testConfig("fast"), testLogger(), backend)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result, err := o.Optimize(context.Background(), testRequest(5), 10)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if result.ThicknessScale != 0.8 {
		t.Fatalf("ThicknessScale = %g, want 0.8", result.ThicknessScale)
	}
	if result.After.LOverD <= result.Before.LOverD {
		t.Fatalf("After.LOverD = %g not better than Before.LOverD = %g", result.After.LOverD, result.Before.LOverD)
	}
	if result.ImprovementPercent != 25 {
		t.Fatalf("ImprovementPercent = %g, want 25", result.ImprovementPercent)
	}
	if len(result.Coordinates) != geometry.DefaultPoints {
		t.Fatalf("coordinates = %d, want %d", len(result.Coordinates), geometry.DefaultPoints)
	}
	// Base evaluation plus one run per candidate.
	if got := backend.calls.Load(); got != 11 {
		t.Fatalf("backend invoked %d times, want 11", got)
	}
}

func TestOptimizeKeepsBaseWhenNoCandidateImproves(t *testing.T) {
	// Every thickness-scaled candidate arrives as a custom section and
	// scores worse than the parametric base.
	backend := &fakeBackend{
		name: "fast",
		solveFoil: func(foil geometry.Airfoil, _ domain.FlowConditions) (domain.SimulationResult, error) {
			ld := 50.0
			if foil.Family == geometry.FamilyCustom {
				ld = 10
			}
			return domain.SimulationResult{CL: 0.5, CD: 0.5 / ld, LOverD: ld, Converged: true, Backend: "fast"}, nil
		},
	}
	o, err := New(testConfig("fast"), testLogger(), backend)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result, err := o.Optimize(context.Background(), testRequest(5), 10)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if result.ThicknessScale != 1 {
		t.Fatalf("ThicknessScale = %g, want 1", result.ThicknessScale)
	}
	if result.ImprovementPercent != 0 {
		t.Fatalf("ImprovementPercent = %g, want 0", result.ImprovementPercent)
	}
	if !reflect.DeepEqual(result.After, result.Before) {
		t.Fatalf("After = %+v, want the base result %+v", result.After, result.Before)
	}
}

func TestOptimizeSkipsUnconvergedCandidates(t *testing.T) {
	backend := &fakeBackend{
		name: "fast",
		solveFoil: func(foil geometry.Airfoil, _ domain.FlowConditions) (domain.SimulationResult, error) {
			if foil.Family == geometry.FamilyCustom {
				return domain.SimulationResult{Converged: false, Backend: "fast"}, solver.ErrConvergenceFailure
			}
			return domain.SimulationResult{CL: 0.5, CD: 0.01, LOverD: 50, Converged: true, Backend: "fast"}, nil
		},
	}
	o, err := New(testConfig("fast"), testLogger(), backend)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result, err := o.Optimize(context.Background(), testRequest(5), 4)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if result.ThicknessScale != 1 {
		t.Fatalf("ThicknessScale = %g, want the base section", result.ThicknessScale)
	}
	if result.After.LOverD != 50 {
		t.Fatalf("After.LOverD = %g, want 50", result.After.LOverD)
	}
}

func TestOptimizeBaseFailureAborts(t *testing.T) {
	backend := &fakeBackend{
		name: "fast",
		solve: func(domain.FlowConditions) (domain.SimulationResult, error) {
			return domain.SimulationResult{}, solver.ErrTimeout
		},
	}
	o, err := New(testConfig("fast"), testLogger(), backend)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := o.Optimize(context.Background(), testRequest(5), 10); !errors.Is(err, solver.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

func TestOptimizeValidatesSteps(t *testing.T) {
	backend := &fakeBackend{name: "fast"}
	o, err := New(testConfig("fast"), testLogger(), backend)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, steps := range []int{1, -3, 101} {
		_, err := o.Optimize(context.Background(), testRequest(5), steps)
		if err == nil || !strings.Contains(err.Error(), "invalid request") {
			t.Fatalf("steps=%d: err = %v, want invalid request", steps, err)
		}
	}
}
