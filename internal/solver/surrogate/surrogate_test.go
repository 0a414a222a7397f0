package surrogate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CS101-o/CFD-leetcode/internal/domain"
	"github.com/CS101-o/CFD-leetcode/internal/geometry"
	"github.com/CS101-o/CFD-leetcode/internal/solver"
)

func foil(t *testing.T, designation string) geometry.Airfoil {
	t.Helper()
	f, err := geometry.Generate(geometry.FamilyNACA4, designation, 121, geometry.SpacingCosine)
	require.NoError(t, err)
	return f
}

func TestSolve_Symmetric(t *testing.T) {
	backend := New()
	flow := domain.FlowConditions{AlphaDeg: 0, Reynolds: 1e6, Viscous: true}

	result, err := backend.Solve(context.Background(), foil(t, "0012"), flow)
	require.NoError(t, err)

	assert.True(t, result.Converged, "surrogate always reports converged")
	assert.InDelta(t, 0, result.CL, 1e-6, "symmetric airfoil at zero alpha lifts nothing")
	assert.Greater(t, result.CD, 0.0, "viscous drag must be positive")
	assert.Equal(t, "surrogate", result.Backend)
	assert.NotEmpty(t, result.Cp)
}

func TestSolve_LiftGrowsWithAlpha(t *testing.T) {
	backend := New()
	f := foil(t, "2412")

	var prev float64
	for i, alpha := range []float64{0, 4, 8, 12} {
		flow := domain.FlowConditions{AlphaDeg: alpha, Reynolds: 1e6, Viscous: true}
		result, err := backend.Solve(context.Background(), f, flow)
		require.NoError(t, err)
		if i > 0 {
			assert.Greater(t, result.CL, prev, "CL must grow with alpha")
		}
		prev = result.CL
	}
}

func TestSolve_CamberAddsLift(t *testing.T) {
	backend := New()
	flow := domain.FlowConditions{AlphaDeg: 2, Reynolds: 1e6, Viscous: true}

	symmetric, err := backend.Solve(context.Background(), foil(t, "0012"), flow)
	require.NoError(t, err)
	cambered, err := backend.Solve(context.Background(), foil(t, "4412"), flow)
	require.NoError(t, err)

	assert.Greater(t, cambered.CL, symmetric.CL)
	assert.Less(t, cambered.CM, symmetric.CM, "camber drives nose-down pitching moment")
}

func TestSolve_PlausibleMagnitudes(t *testing.T) {
	backend := New()
	flow := domain.FlowConditions{AlphaDeg: 5, Reynolds: 1e6, Viscous: true}

	result, err := backend.Solve(context.Background(), foil(t, "0012"), flow)
	require.NoError(t, err)

	assert.InDelta(t, 0.55, result.CL, 0.15, "0012 at 5 deg sits near CL 0.55")
	assert.Greater(t, result.CD, 0.004)
	assert.Less(t, result.CD, 0.03)
	assert.Greater(t, result.LOverD, 10.0)
}

func TestSolve_CpSuctionPeakNearLeadingEdge(t *testing.T) {
	backend := New()
	flow := domain.FlowConditions{AlphaDeg: 8, Reynolds: 1e6, Viscous: true}

	result, err := backend.Solve(context.Background(), foil(t, "0012"), flow)
	require.NoError(t, err)

	minCp, minX := 0.0, 1.0
	for _, p := range result.Cp {
		if p.Cp < minCp {
			minCp, minX = p.Cp, p.X
		}
	}
	assert.Less(t, minCp, -1.0, "suction peak must be pronounced at 8 deg")
	assert.Less(t, minX, 0.15, "suction peak sits near the leading edge")
}

func TestSolve_OutOfDomain(t *testing.T) {
	backend := New()
	f := foil(t, "0012")

	cases := []domain.FlowConditions{
		{AlphaDeg: 25, Reynolds: 1e6, Viscous: true},
		{AlphaDeg: -22, Reynolds: 1e6, Viscous: true},
		{AlphaDeg: 5, Reynolds: 5e3, Viscous: true},
		{AlphaDeg: 5, Reynolds: 1e6, Mach: 0.9, Viscous: true},
	}
	for _, flow := range cases {
		_, err := backend.Solve(context.Background(), f, flow)
		assert.ErrorIs(t, err, solver.ErrOutOfDomain, "flow %+v", flow)
	}
}

func TestSolve_NotExternal(t *testing.T) {
	assert.False(t, solver.IsExternal(New()))
}
