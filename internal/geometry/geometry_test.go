package geometry

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_NACA4_ClosedAndCounted(t *testing.T) {
	for _, designation := range []string{"0006", "0009", "0012", "0015", "2412", "4412", "6412"} {
		for _, numPoints := range []int{20, 99, 200} {
			foil, err := Generate(FamilyNACA4, designation, numPoints, SpacingCosine)
			require.NoError(t, err, "designation %s n=%d", designation, numPoints)
			require.Len(t, foil.Points, numPoints)

			first := foil.Points[0]
			last := foil.Points[len(foil.Points)-1]
			assert.InDelta(t, first.X, last.X, 1e-9, "%s: boundary open in x", designation)
			assert.InDelta(t, first.Y, last.Y, 1e-9, "%s: boundary open in y", designation)
		}
	}
}

func TestGenerate_NACA4_Symmetric(t *testing.T) {
	// An odd total count puts upper and lower surfaces on the same
	// chordwise grid, so mirror points can be compared directly.
	foil, err := Generate(FamilyNACA4, "0012", 201, SpacingCosine)
	require.NoError(t, err)

	n := len(foil.Points)
	for i := 0; i < n/2; i++ {
		upper := foil.Points[i]
		lower := foil.Points[n-1-i]
		assert.InDelta(t, upper.X, lower.X, 1e-9)
		assert.InDelta(t, upper.Y, -lower.Y, 1e-9)
	}
}

func TestGenerate_NACA4_ResolutionIndependent(t *testing.T) {
	coarse, err := Generate(FamilyNACA4, "0012", 20, SpacingCosine)
	require.NoError(t, err)
	fine, err := Generate(FamilyNACA4, "0012", 200, SpacingCosine)
	require.NoError(t, err)

	// Every generated point must lie on the analytic thickness curve:
	// refining the count changes resolution, never the shape.
	for _, foil := range []Airfoil{coarse, fine} {
		for _, p := range foil.Points {
			assert.InDelta(t, halfThickness(p.X, 0.12), math.Abs(p.Y), 1e-9)
		}
	}

	// Thickness sampled at the coarse run's own stations agrees with
	// the fine run interpolated there to well under 0.1%.
	leIndex := 0
	for i, p := range coarse.Points {
		if p.X < coarse.Points[leIndex].X {
			leIndex = i
		}
	}
	fineProps := fine.Describe()
	for _, p := range coarse.Points[:leIndex+1] {
		analytic := halfThickness(p.X, 0.12)
		if analytic < 0.01 {
			continue
		}
		assert.InEpsilon(t, analytic, math.Abs(p.Y), 1e-3)
	}
	assert.InEpsilon(t, 0.12, fineProps.MaxThickness, 5e-3)
}

func TestGenerate_NACA4_CosineSpacingConcentratesAtEdges(t *testing.T) {
	foil, err := Generate(FamilyNACA4, "0012", 200, SpacingCosine)
	require.NoError(t, err)

	nearLeading := 0
	for _, p := range foil.Points {
		if p.X < 0.1 {
			nearLeading++
		}
	}
	// A uniform grid would put ~10% of points forward of x=0.1.
	assert.Greater(t, nearLeading, len(foil.Points)/6)
}

func TestGenerate_NACA5(t *testing.T) {
	foil, err := Generate(FamilyNACA5, "23012", 160, SpacingCosine)
	require.NoError(t, err)
	require.Len(t, foil.Points, 160)

	props := foil.Describe()
	assert.InEpsilon(t, 0.12, props.MaxThickness, 0.02)
	assert.Greater(t, props.MaxCamber, 0.005, "23012 must be cambered")
	// Maximum camber of the 230 camber line sits near 15% chord.
	assert.Less(t, props.MaxCamberX, 0.35)
}

func TestGenerate_InvalidDesignations(t *testing.T) {
	cases := []struct {
		family      Family
		designation string
	}{
		{FamilyNACA4, ""},
		{FamilyNACA4, "001"},
		{FamilyNACA4, "00x2"},
		{FamilyNACA4, "1012"}, // camber with zero camber position
		{FamilyNACA5, "9912"},
		{FamilyNACA5, "99012"}, // no camber constants for 990
		{FamilyNACA5, "23212"}, // reflex digit out of range
		{"naca6", "0012"},
	}
	for _, tc := range cases {
		_, err := Generate(tc.family, tc.designation, 100, SpacingCosine)
		require.Error(t, err, "family=%s designation=%q", tc.family, tc.designation)
		assert.ErrorIs(t, err, ErrInvalidDesignation, "designation %q", tc.designation)
	}
}

func TestGenerate_DegenerateThickness(t *testing.T) {
	_, err := Generate(FamilyNACA4, "2400", 100, SpacingCosine)
	assert.ErrorIs(t, err, ErrDegenerateGeometry)
}

func TestGenerate_TooFewPoints(t *testing.T) {
	_, err := Generate(FamilyNACA4, "0012", 10, SpacingCosine)
	assert.ErrorIs(t, err, ErrInvalidDesignation)
}

func TestGenerate_LinearSpacing(t *testing.T) {
	foil, err := Generate(FamilyNACA4, "0012", 21, SpacingLinear)
	require.NoError(t, err)

	// Upper surface stations are uniform under linear spacing.
	step := foil.Points[0].X - foil.Points[1].X
	assert.InDelta(t, 0.1, step, 1e-9)
}

func TestFromCoordinates(t *testing.T) {
	foil, err := Generate(FamilyNACA4, "2412", 80, SpacingCosine)
	require.NoError(t, err)

	custom, err := FromCoordinates(foil.Points)
	require.NoError(t, err)
	assert.Equal(t, FamilyCustom, custom.Family)
	assert.Len(t, custom.Points, 80)
}

func TestFromCoordinates_Rejects(t *testing.T) {
	valid, err := Generate(FamilyNACA4, "0012", 40, SpacingCosine)
	require.NoError(t, err)

	t.Run("too few points", func(t *testing.T) {
		_, err := FromCoordinates(valid.Points[:10])
		assert.ErrorIs(t, err, ErrDegenerateGeometry)
	})

	t.Run("open boundary", func(t *testing.T) {
		open := make([]Point, len(valid.Points))
		copy(open, valid.Points)
		open[len(open)-1].Y += 0.05
		_, err := FromCoordinates(open)
		assert.ErrorIs(t, err, ErrDegenerateGeometry)
	})

	t.Run("self intersection", func(t *testing.T) {
		crossed := make([]Point, len(valid.Points))
		copy(crossed, valid.Points)
		// Flip one mid-chord upper point far below the lower surface.
		crossed[10].Y = -0.5
		_, err := FromCoordinates(crossed)
		assert.ErrorIs(t, err, ErrDegenerateGeometry)
	})
}

func TestNormalize(t *testing.T) {
	points := []Point{{X: 2, Y: 0.2}, {X: 4, Y: -0.2}, {X: 3, Y: 0.4}}
	out := Normalize(points)
	assert.InDelta(t, 0, out[0].X, 1e-12)
	assert.InDelta(t, 1, out[1].X, 1e-12)
	assert.InDelta(t, 0.1, out[0].Y, 1e-12)
}

func TestWriteDat(t *testing.T) {
	foil, err := Generate(FamilyNACA4, "0012", 40, SpacingCosine)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteDat(&buf, "NACA 0012", foil.Points))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 41)
	assert.Equal(t, "NACA 0012", lines[0])
	fields := strings.Fields(lines[1])
	require.Len(t, fields, 2)
}
