package geometry

import (
	"fmt"
	"math"
)

// FromCoordinates validates user-supplied coordinates as an airfoil
// boundary. The points are checked, not resampled: closure, minimum
// count, chordwise ordering, and absence of self-intersection.
func FromCoordinates(points []Point) (Airfoil, error) {
	if len(points) < MinPoints {
		return Airfoil{}, fmt.Errorf("%w: need at least %d points, got %d", ErrDegenerateGeometry, MinPoints, len(points))
	}
	copied := make([]Point, len(points))
	copy(copied, points)

	if err := checkBoundary(copied); err != nil {
		return Airfoil{}, err
	}
	if err := checkSelfIntersection(copied); err != nil {
		return Airfoil{}, err
	}
	return Airfoil{Family: FamilyCustom, Points: copied}, nil
}

// Normalize rescales coordinates to a unit chord starting at x=0.
func Normalize(points []Point) []Point {
	if len(points) == 0 {
		return nil
	}
	minX, maxX := points[0].X, points[0].X
	for _, p := range points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
	}
	chord := maxX - minX
	if chord <= 0 {
		return points
	}
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{X: (p.X - minX) / chord, Y: p.Y / chord}
	}
	return out
}

func checkSelfIntersection(points []Point) error {
	n := len(points)
	for i := 0; i < n-1; i++ {
		for j := i + 2; j < n-1; j++ {
			// Adjacent segments share an endpoint; so do the first and
			// last segments of the closed loop.
			if i == 0 && j == n-2 {
				continue
			}
			if segmentsCross(points[i], points[i+1], points[j], points[j+1]) {
				return fmt.Errorf("%w: boundary self-intersects near segment %d", ErrDegenerateGeometry, i)
			}
		}
	}
	return nil
}

func segmentsCross(a, b, c, d Point) bool {
	d1 := cross(c, d, a)
	d2 := cross(c, d, b)
	d3 := cross(a, b, c)
	d4 := cross(a, b, d)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func cross(a, b, p Point) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}
