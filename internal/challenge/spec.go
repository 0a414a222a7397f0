// Package challenge defines graded airfoil design exercises: a
// challenge fixes the flow conditions and grades a submitted design
// against metric targets.
package challenge

import (
	"errors"
	"fmt"
	"strings"
)

const specSchemaV1 = "airfoil.challenge.v1"

const (
	metricCL        = "cl"
	metricCD        = "cd"
	metricCM        = "cm"
	metricLOverD    = "l_over_d"
	metricConverged = "converged"
)

// MetricSpec grades one aerodynamic coefficient, either against a
// target value with a tolerance band or against a closed range.
type MetricSpec struct {
	Name      string   `json:"name" yaml:"name"`
	Target    *float64 `json:"target,omitempty" yaml:"target,omitempty"`
	Min       *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Tolerance float64  `json:"tolerance,omitempty" yaml:"tolerance,omitempty"`
	Weight    float64  `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// Constraints pin the parts of the request the submitter may not
// choose. Nil fields are unconstrained.
type Constraints struct {
	AlphaDeg     *float64 `json:"alpha_deg,omitempty" yaml:"alpha_deg,omitempty"`
	Reynolds     *float64 `json:"reynolds,omitempty" yaml:"reynolds,omitempty"`
	Mach         *float64 `json:"mach,omitempty" yaml:"mach,omitempty"`
	Viscous      *bool    `json:"viscous,omitempty" yaml:"viscous,omitempty"`
	Backend      string   `json:"backend,omitempty" yaml:"backend,omitempty"`
	Designations []string `json:"designations,omitempty" yaml:"designations,omitempty"`
	Tolerance    float64  `json:"tolerance,omitempty" yaml:"tolerance,omitempty"`
}

type Spec struct {
	Schema      string       `json:"schema" yaml:"schema"`
	Constraints Constraints  `json:"constraints" yaml:"constraints"`
	Metrics     []MetricSpec `json:"metrics" yaml:"metrics"`
}

func (s Spec) Validate() error {
	if strings.TrimSpace(s.Schema) != specSchemaV1 {
		return fmt.Errorf("spec.schema must be %q", specSchemaV1)
	}
	if len(s.Metrics) == 0 {
		return errors.New("spec.metrics must be non-empty")
	}

	seen := make(map[string]struct{}, len(s.Metrics))
	for i, m := range s.Metrics {
		name := strings.ToLower(strings.TrimSpace(m.Name))
		if name == "" {
			return fmt.Errorf("spec.metrics[%d].name is required", i)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("spec.metrics[%d].name must be unique (duplicate %q)", i, name)
		}
		seen[name] = struct{}{}

		switch name {
		case metricConverged:
			if m.Target != nil || m.Min != nil || m.Max != nil {
				return fmt.Errorf("spec.metrics[%d] converged takes no target or range", i)
			}
		case metricCL, metricCD, metricCM, metricLOverD:
			hasTarget := m.Target != nil
			hasRange := m.Min != nil || m.Max != nil
			if hasTarget == hasRange {
				return fmt.Errorf("spec.metrics[%d] %s requires exactly one of target or min/max", i, name)
			}
			if hasTarget && m.Tolerance <= 0 {
				return fmt.Errorf("spec.metrics[%d].tolerance must be positive with a target", i)
			}
			if m.Min != nil && m.Max != nil && *m.Min > *m.Max {
				return fmt.Errorf("spec.metrics[%d].min must be <= max", i)
			}
		default:
			return fmt.Errorf("spec.metrics[%d].name unsupported: %q", i, name)
		}
		if m.Tolerance < 0 {
			return fmt.Errorf("spec.metrics[%d].tolerance must be >= 0", i)
		}
		if m.Weight < 0 {
			return fmt.Errorf("spec.metrics[%d].weight must be >= 0", i)
		}
	}

	c := s.Constraints
	if c.Tolerance < 0 {
		return errors.New("spec.constraints.tolerance must be >= 0")
	}
	if c.Reynolds != nil && *c.Reynolds <= 0 {
		return errors.New("spec.constraints.reynolds must be positive")
	}
	if c.Mach != nil && (*c.Mach < 0 || *c.Mach >= 1) {
		return errors.New("spec.constraints.mach must be in [0, 1)")
	}
	for i, d := range c.Designations {
		if strings.TrimSpace(d) == "" {
			return fmt.Errorf("spec.constraints.designations[%d] is empty", i)
		}
	}
	return nil
}

// weight returns the metric's scoring weight, defaulting to one.
func (m MetricSpec) weight() float64 {
	if m.Weight == 0 {
		return 1
	}
	return m.Weight
}
