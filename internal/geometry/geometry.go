// Package geometry generates chord-normalized airfoil boundary points
// from parametric NACA designations or user-supplied coordinates.
package geometry

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

type Point struct {
	X float64
	Y float64
}

type Spacing string

const (
	SpacingCosine Spacing = "cosine"
	SpacingLinear Spacing = "linear"
)

type Family string

const (
	FamilyNACA4  Family = "naca4"
	FamilyNACA5  Family = "naca5"
	FamilyCustom Family = "custom"
)

var (
	ErrInvalidDesignation = errors.New("invalid designation")
	ErrDegenerateGeometry = errors.New("degenerate geometry")
)

// Points generated near the leading edge of a cambered section may fold
// slightly past x=0; anything beyond this slack is treated as degenerate.
const chordwiseSlack = 0.02

const (
	MinPoints     = 20
	DefaultPoints = 199
)

// Airfoil is an ordered closed boundary: trailing edge, around the
// leading edge, back to the trailing edge. Immutable once generated.
type Airfoil struct {
	Family      Family
	Designation string
	Points      []Point
}

// Generate builds an airfoil boundary with numPoints total points.
// The designation is family-specific; spacing defaults to cosine.
func Generate(family Family, designation string, numPoints int, spacing Spacing) (Airfoil, error) {
	if numPoints == 0 {
		numPoints = DefaultPoints
	}
	if numPoints < MinPoints {
		return Airfoil{}, fmt.Errorf("%w: num_points must be >= %d", ErrInvalidDesignation, MinPoints)
	}
	if spacing == "" {
		spacing = SpacingCosine
	}
	if spacing != SpacingCosine && spacing != SpacingLinear {
		return Airfoil{}, fmt.Errorf("%w: unknown spacing %q", ErrInvalidDesignation, spacing)
	}

	designation = strings.TrimSpace(designation)
	var (
		points []Point
		err    error
	)
	switch family {
	case FamilyNACA4:
		points, err = naca4(designation, numPoints, spacing)
	case FamilyNACA5:
		points, err = naca5(designation, numPoints, spacing)
	default:
		return Airfoil{}, fmt.Errorf("%w: unknown family %q", ErrInvalidDesignation, family)
	}
	if err != nil {
		return Airfoil{}, err
	}

	foil := Airfoil{Family: family, Designation: designation, Points: points}
	if err := checkBoundary(foil.Points); err != nil {
		return Airfoil{}, err
	}
	return foil, nil
}

// surfaceGrid samples chordwise stations over [0,1] for one surface.
// Cosine spacing concentrates points near both edges, which the panel
// discretization downstream depends on.
func surfaceGrid(count int, spacing Spacing) []float64 {
	xs := make([]float64, count)
	for i := 0; i < count; i++ {
		frac := float64(i) / float64(count-1)
		if spacing == SpacingCosine {
			xs[i] = 0.5 * (1 - math.Cos(math.Pi*frac))
		} else {
			xs[i] = frac
		}
	}
	return xs
}

// assemble joins upper and lower surfaces into the closed boundary:
// upper surface reversed (TE to LE), then lower surface skipping the
// shared leading-edge point.
func assemble(upper, lower []Point) []Point {
	points := make([]Point, 0, len(upper)+len(lower)-1)
	for i := len(upper) - 1; i >= 0; i-- {
		points = append(points, upper[i])
	}
	points = append(points, lower[1:]...)
	return points
}

func checkBoundary(points []Point) error {
	if len(points) < MinPoints {
		return fmt.Errorf("%w: only %d points", ErrDegenerateGeometry, len(points))
	}
	first, last := points[0], points[len(points)-1]
	if math.Abs(first.X-last.X) > 1e-9 || math.Abs(first.Y-last.Y) > 1e-9 {
		return fmt.Errorf("%w: boundary not closed", ErrDegenerateGeometry)
	}

	// The boundary must run monotonically TE->LE then LE->TE, within
	// the leading-edge slack, with no duplicate consecutive points.
	leIndex := 0
	for i, p := range points {
		if p.X < points[leIndex].X {
			leIndex = i
		}
	}
	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		if prev.X == cur.X && prev.Y == cur.Y {
			return fmt.Errorf("%w: duplicate consecutive point at %d", ErrDegenerateGeometry, i)
		}
		if i <= leIndex && cur.X > prev.X+chordwiseSlack {
			return fmt.Errorf("%w: upper surface not monotonic at %d", ErrDegenerateGeometry, i)
		}
		if i > leIndex && cur.X < prev.X-chordwiseSlack {
			return fmt.Errorf("%w: lower surface not monotonic at %d", ErrDegenerateGeometry, i)
		}
	}
	return nil
}
