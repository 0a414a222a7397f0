package geometry

import (
	"fmt"
	"math"
	"strconv"
)

// halfThickness evaluates the NACA thickness polynomial at x for a
// section of maximum thickness t. The closed-trailing-edge coefficient
// (0.1036) is used so the boundary closes exactly.
func halfThickness(x, t float64) float64 {
	return 5 * t * (0.2969*math.Sqrt(x) -
		0.1260*x -
		0.3516*x*x +
		0.2843*x*x*x -
		0.1036*x*x*x*x)
}

func naca4(designation string, numPoints int, spacing Spacing) ([]Point, error) {
	if len(designation) != 4 {
		return nil, fmt.Errorf("%w: NACA 4-digit code must be 4 digits, got %q", ErrInvalidDesignation, designation)
	}
	digits, err := parseDigits(designation)
	if err != nil {
		return nil, err
	}

	m := float64(digits[0]) / 100  // maximum camber
	p := float64(digits[1]) / 10   // chordwise position of maximum camber
	t := float64(digits[2]*10+digits[3]) / 100

	if t <= 0 {
		return nil, fmt.Errorf("%w: thickness must be positive in %q", ErrDegenerateGeometry, designation)
	}
	if m > 0 && p == 0 {
		return nil, fmt.Errorf("%w: camber without camber position in %q", ErrInvalidDesignation, designation)
	}

	camber := func(x float64) (yc, slope float64) {
		if m == 0 {
			return 0, 0
		}
		if x < p {
			return m / (p * p) * (2*p*x - x*x), 2 * m / (p * p) * (p - x)
		}
		q := 1 - p
		return m / (q * q) * ((1 - 2*p) + 2*p*x - x*x), 2 * m / (q * q) * (p - x)
	}

	return surfaces(numPoints, spacing, t, camber), nil
}

// Standard NACA 5-digit camber-line constants, keyed by the leading
// three digits of the designation. m locates the forward cubic region,
// k1 scales the camber for a design lift coefficient of 0.3.
var naca5Camber = map[string]struct{ m, k1 float64 }{
	"210": {0.0580, 361.40},
	"220": {0.1260, 51.640},
	"230": {0.2025, 15.957},
	"240": {0.2900, 6.643},
	"250": {0.3910, 3.230},
}

func naca5(designation string, numPoints int, spacing Spacing) ([]Point, error) {
	if len(designation) != 5 {
		return nil, fmt.Errorf("%w: NACA 5-digit code must be 5 digits, got %q", ErrInvalidDesignation, designation)
	}
	digits, err := parseDigits(designation)
	if err != nil {
		return nil, err
	}

	clIdeal := float64(digits[0]) * 3 / 20
	reflex := digits[2] == 1
	t := float64(digits[3]*10+digits[4]) / 100

	if t <= 0 {
		return nil, fmt.Errorf("%w: thickness must be positive in %q", ErrDegenerateGeometry, designation)
	}
	if digits[2] > 1 {
		return nil, fmt.Errorf("%w: reflex digit must be 0 or 1 in %q", ErrInvalidDesignation, designation)
	}

	var camber func(x float64) (float64, float64)
	if reflex {
		// Reflexed camber lines are flattened to the symmetric case.
		camber = func(float64) (float64, float64) { return 0, 0 }
	} else {
		constants, ok := naca5Camber[designation[:3]]
		if !ok {
			return nil, fmt.Errorf("%w: no camber constants for %q", ErrInvalidDesignation, designation[:3])
		}
		scale := clIdeal / 0.3
		m, k1 := constants.m, constants.k1
		camber = func(x float64) (yc, slope float64) {
			if x < m {
				yc = k1 / 6 * (x*x*x - 3*m*x*x + m*m*(3-m)*x)
				slope = k1 / 6 * (3*x*x - 6*m*x + m*m*(3-m))
			} else {
				yc = k1 / 6 * m * m * m * (1 - x)
				slope = -k1 / 6 * m * m * m
			}
			return yc * scale, slope * scale
		}
	}

	return surfaces(numPoints, spacing, t, camber), nil
}

// surfaces projects the half-thickness normal to the camber line and
// assembles the closed boundary with numPoints total points.
func surfaces(numPoints int, spacing Spacing, t float64, camber func(float64) (float64, float64)) []Point {
	upperCount := numPoints/2 + 1
	lowerCount := numPoints - upperCount + 1

	upper := make([]Point, upperCount)
	for i, x := range surfaceGrid(upperCount, spacing) {
		yt := halfThickness(x, t)
		yc, slope := camber(x)
		theta := math.Atan(slope)
		upper[i] = Point{X: x - yt*math.Sin(theta), Y: yc + yt*math.Cos(theta)}
	}

	lower := make([]Point, lowerCount)
	for i, x := range surfaceGrid(lowerCount, spacing) {
		yt := halfThickness(x, t)
		yc, slope := camber(x)
		theta := math.Atan(slope)
		lower[i] = Point{X: x + yt*math.Sin(theta), Y: yc - yt*math.Cos(theta)}
	}

	return assemble(upper, lower)
}

func parseDigits(designation string) ([]int, error) {
	digits := make([]int, len(designation))
	for i, r := range designation {
		d, err := strconv.Atoi(string(r))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not numeric", ErrInvalidDesignation, designation)
		}
		digits[i] = d
	}
	return digits, nil
}
