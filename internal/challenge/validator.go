package challenge

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/CS101-o/CFD-leetcode/internal/domain"
)

// ErrConstraintMismatch means the submitted request violates the
// challenge's fixed conditions. It is the submitter's error, not a
// grading outcome.
var ErrConstraintMismatch = errors.New("request violates challenge constraints")

const defaultConstraintTolerance = 1e-6

// MetricResult records how one metric graded.
type MetricResult struct {
	Name      string   `json:"name"`
	Status    string   `json:"status"`
	Actual    float64  `json:"actual"`
	Target    *float64 `json:"target,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	Deviation float64  `json:"deviation"`
	Credit    float64  `json:"credit"`
	Weight    float64  `json:"weight"`
	Message   string   `json:"message,omitempty"`
}

type Summary struct {
	MetricsTotal int      `json:"metrics_total"`
	MetricsPass  int      `json:"metrics_pass"`
	MetricsFail  int      `json:"metrics_fail"`
	Failing      []string `json:"failing_metrics,omitempty"`
}

// Outcome is the graded verdict for one submission. Score is the
// weighted credit across metrics on a 0 to 100 scale; Passed requires
// every metric within tolerance and a converged result.
type Outcome struct {
	Passed  bool           `json:"passed"`
	Score   float64        `json:"score"`
	Status  string         `json:"status"`
	Summary Summary        `json:"summary"`
	Metrics []MetricResult `json:"metrics"`
}

// CheckRequest verifies a submission request against the challenge
// constraints without running anything.
func CheckRequest(req domain.SimulationRequest, spec Spec) error {
	return checkConstraints(req, spec.Constraints)
}

// Evaluate grades a simulation result against the challenge spec. The
// request is checked against the constraints first; a mismatch aborts
// grading with ErrConstraintMismatch.
func Evaluate(req domain.SimulationRequest, result domain.SimulationResult, spec Spec) (Outcome, error) {
	if err := checkConstraints(req, spec.Constraints); err != nil {
		return Outcome{}, err
	}

	metrics := make([]MetricResult, 0, len(spec.Metrics))
	var (
		passCount   int
		failCount   int
		failing     []string
		totalWeight float64
		totalCredit float64
	)
	for _, m := range spec.Metrics {
		r := gradeMetric(m, result)
		metrics = append(metrics, r)
		totalWeight += r.Weight
		totalCredit += r.Weight * r.Credit
		if r.Status == "pass" {
			passCount++
		} else {
			failCount++
			failing = append(failing, r.Name)
		}
	}

	out := Outcome{
		Metrics: metrics,
		Summary: Summary{
			MetricsTotal: len(metrics),
			MetricsPass:  passCount,
			MetricsFail:  failCount,
			Failing:      failing,
		},
	}
	if totalWeight > 0 {
		out.Score = math.Round(100*totalCredit/totalWeight*100) / 100
	}
	out.Passed = failCount == 0 && result.Converged
	if out.Passed {
		out.Status = "pass"
	} else {
		out.Status = "fail"
	}
	if !result.Converged {
		out.Score = 0
	}
	return out, nil
}

func gradeMetric(m MetricSpec, result domain.SimulationResult) MetricResult {
	name := strings.ToLower(strings.TrimSpace(m.Name))
	r := MetricResult{
		Name:   name,
		Target: m.Target,
		Min:    m.Min,
		Max:    m.Max,
		Weight: m.weight(),
	}

	if name == metricConverged {
		if result.Converged {
			r.Actual = 1
			r.Credit = 1
			r.Status = "pass"
		} else {
			r.Status = "fail"
			r.Message = "solver did not converge"
		}
		return r
	}

	actual, ok := metricValue(result, name)
	if !ok {
		r.Status = "fail"
		r.Message = "unknown metric"
		return r
	}
	r.Actual = actual

	switch {
	case m.Target != nil:
		r.Deviation = math.Abs(actual - *m.Target)
		r.Credit = credit(r.Deviation, m.Tolerance)
		if r.Deviation <= m.Tolerance {
			r.Status = "pass"
		} else {
			r.Status = "fail"
			r.Message = "outside tolerance of target"
		}
	default:
		r.Deviation = rangeDistance(actual, m.Min, m.Max)
		if r.Deviation == 0 {
			r.Credit = 1
			r.Status = "pass"
		} else {
			r.Credit = credit(r.Deviation, m.Tolerance)
			r.Status = "fail"
			r.Message = "outside allowed range"
		}
	}
	return r
}

// credit is full within the tolerance band and decays linearly to zero
// at twice the tolerance. A plain 1-deviation/tolerance ramp would
// score a metric zero right at the pass boundary, so the ramp is
// shifted out by one tolerance width instead.
func credit(deviation, tolerance float64) float64 {
	if tolerance <= 0 {
		if deviation == 0 {
			return 1
		}
		return 0
	}
	if deviation <= tolerance {
		return 1
	}
	return math.Max(0, 1-(deviation-tolerance)/tolerance)
}

func rangeDistance(v float64, min, max *float64) float64 {
	if min != nil && v < *min {
		return *min - v
	}
	if max != nil && v > *max {
		return v - *max
	}
	return 0
}

func metricValue(result domain.SimulationResult, name string) (float64, bool) {
	switch name {
	case metricCL:
		return result.CL, true
	case metricCD:
		return result.CD, true
	case metricCM:
		return result.CM, true
	case metricLOverD:
		return result.LOverD, true
	default:
		return 0, false
	}
}

func checkConstraints(req domain.SimulationRequest, c Constraints) error {
	tol := c.Tolerance
	if tol == 0 {
		tol = defaultConstraintTolerance
	}

	if c.AlphaDeg != nil && math.Abs(req.Flow.AlphaDeg-*c.AlphaDeg) > tol {
		return fmt.Errorf("%w: alpha_deg must be %g, got %g", ErrConstraintMismatch, *c.AlphaDeg, req.Flow.AlphaDeg)
	}
	if c.Reynolds != nil {
		scale := math.Max(1, math.Abs(*c.Reynolds))
		if math.Abs(req.Flow.Reynolds-*c.Reynolds)/scale > tol {
			return fmt.Errorf("%w: reynolds must be %g, got %g", ErrConstraintMismatch, *c.Reynolds, req.Flow.Reynolds)
		}
	}
	if c.Mach != nil && math.Abs(req.Flow.Mach-*c.Mach) > tol {
		return fmt.Errorf("%w: mach must be %g, got %g", ErrConstraintMismatch, *c.Mach, req.Flow.Mach)
	}
	if c.Viscous != nil && req.Flow.Viscous != *c.Viscous {
		return fmt.Errorf("%w: viscous must be %t", ErrConstraintMismatch, *c.Viscous)
	}
	if backend := strings.TrimSpace(c.Backend); backend != "" && !strings.EqualFold(req.Backend, backend) {
		return fmt.Errorf("%w: backend must be %q", ErrConstraintMismatch, backend)
	}
	if len(c.Designations) > 0 {
		allowed := false
		for _, d := range c.Designations {
			if strings.EqualFold(strings.TrimSpace(d), strings.TrimSpace(req.Designation)) {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("%w: designation %q not allowed", ErrConstraintMismatch, req.Designation)
		}
	}
	return nil
}
