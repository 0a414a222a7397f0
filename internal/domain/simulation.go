package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Coordinate is one chord-normalized boundary point.
type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CpPoint is one row of the surface pressure distribution.
type CpPoint struct {
	X  float64 `json:"x"`
	Cp float64 `json:"cp"`
}

// SimulationRequest is the single-use input to the orchestrator. The
// geometry source is either a parametric family designation or explicit
// coordinates, never both.
type SimulationRequest struct {
	Family      string         `json:"family"`
	Designation string         `json:"designation,omitempty"`
	Coordinates []Coordinate   `json:"coordinates,omitempty"`
	NumPoints   int            `json:"num_points,omitempty"`
	Spacing     string         `json:"spacing,omitempty"`
	Flow        FlowConditions `json:"flow"`
	Backend     string         `json:"backend,omitempty"`
}

func (r SimulationRequest) Validate() error {
	family := strings.TrimSpace(r.Family)
	if family == "" {
		return errors.New("family is required")
	}
	switch family {
	case "naca4", "naca5":
		if strings.TrimSpace(r.Designation) == "" {
			return fmt.Errorf("designation is required for family %q", family)
		}
		if len(r.Coordinates) > 0 {
			return errors.New("coordinates must be empty for a parametric family")
		}
	case "custom":
		if len(r.Coordinates) == 0 {
			return errors.New("coordinates are required for family custom")
		}
	default:
		return fmt.Errorf("unknown family: %q", family)
	}
	if r.NumPoints < 0 {
		return fmt.Errorf("num_points must be >= 0: %d", r.NumPoints)
	}
	switch strings.TrimSpace(r.Spacing) {
	case "", "cosine", "linear":
	default:
		return fmt.Errorf("unknown spacing: %q", r.Spacing)
	}
	return r.Flow.Validate()
}

// SimulationResult is immutable once produced. LOverD is zero when the
// drag coefficient is numerically zero.
type SimulationResult struct {
	CL          float64   `json:"cl"`
	CD          float64   `json:"cd"`
	CM          float64   `json:"cm"`
	LOverD      float64   `json:"l_over_d"`
	Cp          []CpPoint `json:"cp_distribution,omitempty"`
	Converged   bool      `json:"converged"`
	Backend     string    `json:"backend"`
	DurationMs  int64     `json:"duration_ms"`
	ArtifactKey string    `json:"artifact_key,omitempty"`
}

// PolarPoint is one converged entry of an angle-of-attack sweep.
type PolarPoint struct {
	AlphaDeg float64 `json:"alpha_deg"`
	CL       float64 `json:"cl"`
	CD       float64 `json:"cd"`
	CM       float64 `json:"cm"`
	LOverD   float64 `json:"l_over_d"`
}

// OptimizationResult compares the base section against the best
// thickness-scaled variant found during an L/D search.
type OptimizationResult struct {
	Before             SimulationResult `json:"before"`
	After              SimulationResult `json:"after"`
	ImprovementPercent float64          `json:"improvement_percent"`
	ThicknessScale     float64          `json:"thickness_scale"`
	Coordinates        []Coordinate     `json:"optimized_coordinates"`
}

// LiftToDrag derives CL/CD, returning zero for vanishing drag.
func LiftToDrag(cl, cd float64) float64 {
	if cd > -1e-12 && cd < 1e-12 {
		return 0
	}
	return cl / cd
}

// Simulation is the persisted record of one completed request.
type Simulation struct {
	ID        string
	UserID    string
	Request   SimulationRequest
	Result    SimulationResult
	CreatedAt time.Time
}

func (s Simulation) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("simulation id is required")
	}
	return s.Request.Validate()
}
