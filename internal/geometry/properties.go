package geometry

import "math"

// Properties summarizes the shape of a boundary: used by the surrogate
// backend as its geometry descriptor and exposed through the API.
type Properties struct {
	Chord           float64 `json:"chord"`
	MaxThickness    float64 `json:"max_thickness"`
	MaxThicknessX   float64 `json:"max_thickness_x"`
	MaxCamber       float64 `json:"max_camber"`
	MaxCamberX      float64 `json:"max_camber_x"`
	TrailingEdgeGap float64 `json:"trailing_edge_gap"`
}

const propertyStations = 100

// Describe computes geometric properties by splitting the boundary at
// the leading edge and interpolating both surfaces on common stations.
func (a Airfoil) Describe() Properties {
	points := a.Points
	if len(points) < 3 {
		return Properties{}
	}

	leIndex := 0
	minX, maxX := points[0].X, points[0].X
	for i, p := range points {
		if p.X < minX {
			minX = p.X
			leIndex = i
		}
		if p.X > maxX {
			maxX = p.X
		}
	}

	// Upper surface runs TE->LE; reverse it so both surfaces ascend in x.
	upper := make([]Point, leIndex+1)
	for i := 0; i <= leIndex; i++ {
		upper[i] = points[leIndex-i]
	}
	lower := points[leIndex:]

	props := Properties{
		Chord:           maxX - minX,
		TrailingEdgeGap: math.Abs(points[0].Y - points[len(points)-1].Y),
	}
	for i := 0; i <= propertyStations; i++ {
		x := minX + (maxX-minX)*float64(i)/propertyStations
		yu := interpY(upper, x)
		yl := interpY(lower, x)
		if thickness := yu - yl; thickness > props.MaxThickness {
			props.MaxThickness = thickness
			props.MaxThicknessX = x
		}
		if camber := math.Abs(yu+yl) / 2; camber > props.MaxCamber {
			props.MaxCamber = camber
			props.MaxCamberX = x
		}
	}
	return props
}

// interpY linearly interpolates y at x over points ascending in x.
func interpY(points []Point, x float64) float64 {
	if len(points) == 0 {
		return 0
	}
	if x <= points[0].X {
		return points[0].Y
	}
	for i := 1; i < len(points); i++ {
		if x <= points[i].X {
			span := points[i].X - points[i-1].X
			if span == 0 {
				return points[i].Y
			}
			frac := (x - points[i-1].X) / span
			return points[i-1].Y + frac*(points[i].Y-points[i-1].Y)
		}
	}
	return points[len(points)-1].Y
}
