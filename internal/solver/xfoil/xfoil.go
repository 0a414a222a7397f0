// Package xfoil drives an external XFOIL-style panel code through its
// line-oriented command protocol: one subprocess per call, scripted
// stdin, captured stdout, hard wall-clock bound.
package xfoil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/CS101-o/CFD-leetcode/internal/domain"
	"github.com/CS101-o/CFD-leetcode/internal/geometry"
	"github.com/CS101-o/CFD-leetcode/internal/platform/env"
	"github.com/CS101-o/CFD-leetcode/internal/solver"
)

const (
	coordsFile = "airfoil.dat"
	polarFile  = "polar.txt"
	cpFile     = "cp.txt"

	// Marker the solver prints when its viscous iteration gives up.
	convergenceFailedMarker = "Convergence failed"
)

type Config struct {
	Path    string
	Timeout time.Duration
	MaxIter int
	NCrit   float64
}

func ConfigFromEnv() (Config, error) {
	timeout, err := env.Duration("XFOIL_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, err
	}
	maxIter, err := env.Int("XFOIL_MAX_ITER", 100)
	if err != nil {
		return Config{}, err
	}
	nCrit, err := env.Float("XFOIL_NCRIT", 9.0)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Path:    env.String("XFOIL_PATH", "xfoil"),
		Timeout: timeout,
		MaxIter: maxIter,
		NCrit:   nCrit,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Path) == "" {
		return errors.New("XFOIL_PATH is required")
	}
	if c.Timeout <= 0 {
		return errors.New("XFOIL_TIMEOUT must be positive")
	}
	if c.MaxIter < 1 {
		return errors.New("XFOIL_MAX_ITER must be >= 1")
	}
	if c.NCrit <= 0 {
		return errors.New("XFOIL_NCRIT must be positive")
	}
	return nil
}

// TranscriptSink persists the raw session output of a solve; the key
// it returns is attached to the result.
type TranscriptSink interface {
	PutTranscript(ctx context.Context, data []byte) (string, error)
}

type Backend struct {
	cfg        Config
	logger     *slog.Logger
	transcript TranscriptSink
}

// New verifies the executable exists before accepting work.
func New(logger *slog.Logger, cfg Config) (*Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := exec.LookPath(cfg.Path); err != nil {
		return nil, fmt.Errorf("%w: %s not found: %v", solver.ErrBackendUnavailable, cfg.Path, err)
	}
	return &Backend{cfg: cfg, logger: logger}, nil
}

// WithTranscriptSink stores raw session output per solve.
func (b *Backend) WithTranscriptSink(sink TranscriptSink) *Backend {
	b.transcript = sink
	return b
}

func (b *Backend) Name() string { return "xfoil" }

func (b *Backend) External() bool { return true }

// Solve runs one subprocess session: write the geometry file, feed the
// fixed command script, wait, parse. The per-call timeout is enforced
// here regardless of the caller's own deadline; every exit path
// terminates the process and removes the scratch directory.
func (b *Backend) Solve(ctx context.Context, foil geometry.Airfoil, flow domain.FlowConditions) (domain.SimulationResult, error) {
	if err := flow.Validate(); err != nil {
		return domain.SimulationResult{}, err
	}

	start := time.Now()
	dir, err := os.MkdirTemp("", "xfoil-")
	if err != nil {
		return domain.SimulationResult{}, fmt.Errorf("scratch dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	coords, err := os.Create(filepath.Join(dir, coordsFile))
	if err != nil {
		return domain.SimulationResult{}, fmt.Errorf("write coords: %w", err)
	}
	if err := geometry.WriteDat(coords, datName(foil), foil.Points); err != nil {
		_ = coords.Close()
		return domain.SimulationResult{}, fmt.Errorf("write coords: %w", err)
	}
	if err := coords.Close(); err != nil {
		return domain.SimulationResult{}, fmt.Errorf("write coords: %w", err)
	}

	stdout, runErr := b.runSession(ctx, dir, commandScript(b.cfg, flow))
	if runErr != nil {
		return domain.SimulationResult{}, runErr
	}

	result, err := b.buildResult(dir, stdout, flow)
	result.Backend = b.Name()
	result.DurationMs = time.Since(start).Milliseconds()
	if b.transcript != nil {
		key, putErr := b.transcript.PutTranscript(ctx, stdout)
		if putErr != nil {
			b.logger.Warn("transcript upload failed", "error", putErr)
		} else {
			result.ArtifactKey = key
		}
	}
	return result, err
}

// runSession executes the subprocess and classifies how it ended. A
// caller cancellation and the driver timeout both kill the process;
// they are reported differently.
func (b *Backend) runSession(ctx context.Context, dir, script string) ([]byte, error) {
	runCtx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	var output bytes.Buffer
	cmd := exec.CommandContext(runCtx, b.cfg.Path)
	cmd.Dir = dir
	cmd.Stdin = strings.NewReader(script)
	cmd.Stdout = &output
	cmd.Stderr = &output
	cmd.WaitDelay = 2 * time.Second

	err := cmd.Run()
	switch {
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		return nil, fmt.Errorf("%w: session exceeded %s", solver.ErrTimeout, b.cfg.Timeout)
	case err != nil:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// A nonzero exit still often leaves usable output behind;
			// parsing decides whether the call failed.
			b.logger.Warn("solver exited nonzero", "code", exitErr.ExitCode())
			return output.Bytes(), nil
		}
		return nil, fmt.Errorf("%w: %v", solver.ErrBackendUnavailable, err)
	}
	return output.Bytes(), nil
}

// buildResult assembles the typed record from the session's files and
// captured stdout. A missing coefficient block is fatal; a missing
// pressure block alone still yields a converged result.
func (b *Backend) buildResult(dir string, stdout []byte, flow domain.FlowConditions) (domain.SimulationResult, error) {
	failed := bytes.Contains(stdout, []byte(convergenceFailedMarker))

	coeffs, ok := parsePolarFile(filepath.Join(dir, polarFile))
	if !ok {
		if failed {
			return domain.SimulationResult{}, fmt.Errorf(
				"%w: no coefficients at alpha=%g re=%g", solver.ErrConvergenceFailure, flow.AlphaDeg, flow.Reynolds)
		}
		return domain.SimulationResult{}, fmt.Errorf("%w: coefficient block missing", solver.ErrMalformedOutput)
	}

	result := domain.SimulationResult{
		CL:     coeffs.CL,
		CD:     coeffs.CD,
		CM:     coeffs.CM,
		LOverD: domain.LiftToDrag(coeffs.CL, coeffs.CD),
	}
	result.Cp = parseCpFile(filepath.Join(dir, cpFile))

	if failed {
		return result, fmt.Errorf(
			"%w: alpha=%g re=%g (partial coefficients attached)", solver.ErrConvergenceFailure, flow.AlphaDeg, flow.Reynolds)
	}
	if len(result.Cp) == 0 {
		b.logger.Warn("pressure block missing, returning coefficients only",
			"alpha_deg", flow.AlphaDeg, "re", flow.Reynolds)
	}
	result.Converged = true
	return result, nil
}

func datName(foil geometry.Airfoil) string {
	if foil.Designation != "" {
		return "NACA " + foil.Designation
	}
	return "custom airfoil"
}
