// Package orchestrator routes simulation requests to solver backends,
// deduplicates identical in-flight work, caches converged results and
// bounds how many external solver processes run at once.
package orchestrator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/CS101-o/CFD-leetcode/internal/domain"
	"github.com/CS101-o/CFD-leetcode/internal/geometry"
	"github.com/CS101-o/CFD-leetcode/internal/platform/env"
	"github.com/CS101-o/CFD-leetcode/internal/solver"
)

// ErrUnknownBackend means the request named a backend that is not
// registered. There is no fallback between backends: a failing backend
// reports its own error.
var ErrUnknownBackend = errors.New("unknown backend")

const maxSweepPoints = 200

type Config struct {
	CacheTTL       time.Duration
	MaxSolverProcs int64
	DefaultBackend string
}

func ConfigFromEnv() (Config, error) {
	ttl, err := env.Duration("SIM_CACHE_TTL", 10*time.Minute)
	if err != nil {
		return Config{}, err
	}
	procs, err := env.Int("SOLVER_MAX_PROCS", 4)
	if err != nil {
		return Config{}, err
	}
	return Config{
		CacheTTL:       ttl,
		MaxSolverProcs: int64(procs),
		DefaultBackend: env.String("SIM_DEFAULT_BACKEND", "surrogate"),
	}, nil
}

func (c Config) Validate() error {
	if c.CacheTTL <= 0 {
		return errors.New("cache ttl must be positive")
	}
	if c.MaxSolverProcs < 1 {
		return fmt.Errorf("max solver procs must be >= 1: %d", c.MaxSolverProcs)
	}
	if strings.TrimSpace(c.DefaultBackend) == "" {
		return errors.New("default backend is required")
	}
	return nil
}

type Orchestrator struct {
	cfg      Config
	logger   *slog.Logger
	backends map[string]solver.Backend

	group singleflight.Group
	procs *semaphore.Weighted
	cache *resultCache
}

func New(cfg Config, logger *slog.Logger, backends ...solver.Backend) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("orchestrator config: %w", err)
	}
	if len(backends) == 0 {
		return nil, errors.New("at least one backend is required")
	}
	byName := make(map[string]solver.Backend, len(backends))
	for _, b := range backends {
		if _, dup := byName[b.Name()]; dup {
			return nil, fmt.Errorf("duplicate backend: %q", b.Name())
		}
		byName[b.Name()] = b
	}
	if _, ok := byName[cfg.DefaultBackend]; !ok {
		return nil, fmt.Errorf("%w: default %q not registered", ErrUnknownBackend, cfg.DefaultBackend)
	}
	return &Orchestrator{
		cfg:      cfg,
		logger:   logger,
		backends: byName,
		procs:    semaphore.NewWeighted(cfg.MaxSolverProcs),
		cache:    newResultCache(cfg.CacheTTL),
	}, nil
}

// Backends lists the registered backend names.
func (o *Orchestrator) Backends() []string {
	names := make([]string, 0, len(o.backends))
	for name := range o.backends {
		names = append(names, name)
	}
	return names
}

// Normalize resolves the request's optional fields the same way Run
// does, so callers can inspect what would actually execute.
func (o *Orchestrator) Normalize(req domain.SimulationRequest) domain.SimulationRequest {
	return withDefaults(req, o.cfg.DefaultBackend)
}

// runOutcome is the shared value every coalesced caller receives. The
// solver error travels inside it so partial results survive the trip.
type runOutcome struct {
	result domain.SimulationResult
	err    error
}

// Run executes one simulation request. Identical requests already in
// flight share a single solver invocation, and converged results are
// served from cache until they expire.
func (o *Orchestrator) Run(ctx context.Context, req domain.SimulationRequest) (domain.SimulationResult, error) {
	req = withDefaults(req, o.cfg.DefaultBackend)
	if err := req.Validate(); err != nil {
		return domain.SimulationResult{}, fmt.Errorf("invalid request: %w", err)
	}
	backend, ok := o.backends[req.Backend]
	if !ok {
		return domain.SimulationResult{}, fmt.Errorf("%w: %q", ErrUnknownBackend, req.Backend)
	}

	key := fingerprint(req)
	if result, hit := o.cache.Get(key); hit {
		o.logger.Debug("cache hit", "fingerprint", key[:12], "backend", req.Backend)
		return result, nil
	}

	v, err, shared := o.group.Do(key, func() (any, error) {
		result, solveErr := o.solve(ctx, req, backend)
		if solveErr == nil && result.Converged {
			o.cache.Set(key, result)
		}
		return runOutcome{result: result, err: solveErr}, nil
	})
	if err != nil {
		return domain.SimulationResult{}, err
	}
	out := v.(runOutcome)
	if shared {
		o.logger.Debug("coalesced with in-flight request", "fingerprint", key[:12])
	}
	return out.result, out.err
}

func (o *Orchestrator) solve(ctx context.Context, req domain.SimulationRequest, backend solver.Backend) (domain.SimulationResult, error) {
	foil, err := buildGeometry(req)
	if err != nil {
		return domain.SimulationResult{}, err
	}

	if solver.IsExternal(backend) {
		if err := o.procs.Acquire(ctx, 1); err != nil {
			return domain.SimulationResult{}, fmt.Errorf("acquire solver slot: %w", err)
		}
		defer o.procs.Release(1)
	}

	start := time.Now()
	result, err := backend.Solve(ctx, foil, req.Flow)
	if err != nil {
		o.logger.Warn("solve failed",
			"backend", backend.Name(),
			"designation", req.Designation,
			"alpha_deg", req.Flow.AlphaDeg,
			"elapsed", time.Since(start),
			"err", err)
		return result, err
	}
	o.logger.Info("solve completed",
		"backend", backend.Name(),
		"designation", req.Designation,
		"alpha_deg", req.Flow.AlphaDeg,
		"cl", result.CL,
		"cd", result.CD,
		"elapsed", time.Since(start))
	return result, nil
}

func buildGeometry(req domain.SimulationRequest) (geometry.Airfoil, error) {
	if req.Family == string(geometry.FamilyCustom) {
		points := make([]geometry.Point, len(req.Coordinates))
		for i, c := range req.Coordinates {
			points[i] = geometry.Point{X: c.X, Y: c.Y}
		}
		return geometry.FromCoordinates(points)
	}
	return geometry.Generate(geometry.Family(req.Family), req.Designation, req.NumPoints, geometry.Spacing(req.Spacing))
}

// Sweep is a closed angle-of-attack range stepped from Start to End.
type Sweep struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Step  float64 `json:"step"`
}

func (s Sweep) Validate() error {
	if s.Step <= 0 {
		return fmt.Errorf("sweep step must be positive: %g", s.Step)
	}
	if s.End < s.Start {
		return fmt.Errorf("sweep end %g is before start %g", s.End, s.Start)
	}
	if n := int((s.End-s.Start)/s.Step) + 1; n > maxSweepPoints {
		return fmt.Errorf("sweep has %d points, limit is %d", n, maxSweepPoints)
	}
	return nil
}

// Polar runs the request across the sweep, one angle at a time.
// Unconverged angles are skipped; any other failure aborts the sweep.
func (o *Orchestrator) Polar(ctx context.Context, req domain.SimulationRequest, sweep Sweep) ([]domain.PolarPoint, error) {
	if err := sweep.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sweep: %w", err)
	}

	var points []domain.PolarPoint
	for alpha := sweep.Start; alpha <= sweep.End+1e-9; alpha += sweep.Step {
		pointReq := req
		pointReq.Flow.AlphaDeg = alpha
		result, err := o.Run(ctx, pointReq)
		if err != nil {
			if errors.Is(err, solver.ErrConvergenceFailure) {
				o.logger.Warn("skipping unconverged sweep point", "alpha_deg", alpha)
				continue
			}
			return nil, fmt.Errorf("sweep at alpha %g: %w", alpha, err)
		}
		points = append(points, domain.PolarPoint{
			AlphaDeg: alpha,
			CL:       result.CL,
			CD:       result.CD,
			CM:       result.CM,
			LOverD:   result.LOverD,
		})
	}
	return points, nil
}

// withDefaults resolves the optional request fields before
// fingerprinting, so equivalent spellings share a cache entry.
func withDefaults(req domain.SimulationRequest, defaultBackend string) domain.SimulationRequest {
	if strings.TrimSpace(req.Backend) == "" {
		req.Backend = defaultBackend
	}
	if req.Family != string(geometry.FamilyCustom) {
		if req.NumPoints == 0 {
			req.NumPoints = geometry.DefaultPoints
		}
		if strings.TrimSpace(req.Spacing) == "" {
			req.Spacing = string(geometry.SpacingCosine)
		}
	}
	return req
}

// fingerprint hashes every semantically significant request field.
// Fields are NUL-separated to keep the encoding unambiguous.
func fingerprint(req domain.SimulationRequest) string {
	h := sha256.New()
	write := func(parts ...string) {
		for _, p := range parts {
			io.WriteString(h, p)
			h.Write([]byte{0})
		}
	}
	write(req.Family, req.Designation, strconv.Itoa(req.NumPoints), req.Spacing, req.Backend)
	write(strconv.Itoa(len(req.Coordinates)))
	for _, c := range req.Coordinates {
		write(formatFloat(c.X), formatFloat(c.Y))
	}
	write(
		formatFloat(req.Flow.AlphaDeg),
		formatFloat(req.Flow.Reynolds),
		formatFloat(req.Flow.Mach),
		strconv.FormatBool(req.Flow.Viscous),
	)
	return hex.EncodeToString(h.Sum(nil))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
