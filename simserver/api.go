package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CS101-o/CFD-leetcode/internal/artifacts"
	"github.com/CS101-o/CFD-leetcode/internal/challenge"
	"github.com/CS101-o/CFD-leetcode/internal/domain"
	"github.com/CS101-o/CFD-leetcode/internal/geometry"
	"github.com/CS101-o/CFD-leetcode/internal/orchestrator"
	"github.com/CS101-o/CFD-leetcode/internal/repo"
	"github.com/CS101-o/CFD-leetcode/internal/solver"
)

type simAPI struct {
	logger      *slog.Logger
	orc         *orchestrator.Orchestrator
	sims        repo.SimulationRepository
	challenges  repo.ChallengeRepository
	submissions repo.SubmissionRepository
	transcripts *artifacts.Store
}

func newSimAPI(
	logger *slog.Logger,
	orc *orchestrator.Orchestrator,
	sims repo.SimulationRepository,
	challenges repo.ChallengeRepository,
	submissions repo.SubmissionRepository,
	transcripts *artifacts.Store,
) *simAPI {
	return &simAPI{
		logger:      logger,
		orc:         orc,
		sims:        sims,
		challenges:  challenges,
		submissions: submissions,
		transcripts: transcripts,
	}
}

func (api *simAPI) register(mux *http.ServeMux) {
	mux.HandleFunc("POST /simulations", api.handleCreateSimulation)
	mux.HandleFunc("POST /simulations/polar", api.handleCreatePolar)
	mux.HandleFunc("POST /simulations/optimize", api.handleOptimize)
	mux.HandleFunc("GET /simulations", api.handleListSimulations)
	mux.HandleFunc("GET /simulations/{simulation_id}", api.handleGetSimulation)
	mux.HandleFunc("GET /simulations/{simulation_id}/transcript", api.handleGetTranscript)

	mux.HandleFunc("GET /backends", api.handleListBackends)
	mux.HandleFunc("GET /presets", api.handleListPresets)
	mux.HandleFunc("GET /geometry", api.handleGenerateGeometry)

	mux.HandleFunc("GET /challenges", api.handleListChallenges)
	mux.HandleFunc("GET /challenges/{slug}", api.handleGetChallenge)
	mux.HandleFunc("POST /challenges/{slug}/submissions", api.handleCreateSubmission)
	mux.HandleFunc("GET /challenges/{slug}/submissions", api.handleListSubmissions)
}

func (api *simAPI) handleCreateSimulation(w http.ResponseWriter, r *http.Request) {
	var req domain.SimulationRequest
	if err := decodeJSON(r, &req); err != nil {
		api.writeError(w, r, http.StatusBadRequest, "invalid_json", err)
		return
	}

	result, err := api.orc.Run(r.Context(), req)
	if err != nil && !errors.Is(err, solver.ErrConvergenceFailure) {
		api.writeSolverError(w, r, err)
		return
	}

	sim := domain.Simulation{
		ID:        uuid.NewString(),
		UserID:    strings.TrimSpace(r.Header.Get("X-User-Id")),
		Request:   req,
		Result:    result,
		CreatedAt: time.Now().UTC(),
	}
	if storeErr := api.sims.Create(r.Context(), sim); storeErr != nil {
		api.logger.Error("persist simulation failed", "error", storeErr)
		api.writeError(w, r, http.StatusInternalServerError, "internal_error", nil)
		return
	}

	if err != nil {
		api.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":      "convergence_failure",
			"request_id": r.Header.Get("X-Request-Id"),
			"simulation": sim,
		})
		return
	}
	api.writeJSON(w, http.StatusCreated, sim)
}

type polarRequest struct {
	Request domain.SimulationRequest `json:"request"`
	Sweep   orchestrator.Sweep       `json:"sweep"`
}

func (api *simAPI) handleCreatePolar(w http.ResponseWriter, r *http.Request) {
	var req polarRequest
	if err := decodeJSON(r, &req); err != nil {
		api.writeError(w, r, http.StatusBadRequest, "invalid_json", err)
		return
	}
	if err := req.Sweep.Validate(); err != nil {
		api.writeError(w, r, http.StatusBadRequest, "invalid_sweep", err)
		return
	}

	points, err := api.orc.Polar(r.Context(), req.Request, req.Sweep)
	if err != nil {
		api.writeSolverError(w, r, err)
		return
	}
	api.writeJSON(w, http.StatusOK, map[string]any{
		"sweep":  req.Sweep,
		"points": points,
	})
}

type optimizeRequest struct {
	Request domain.SimulationRequest `json:"request"`
	Steps   int                      `json:"steps,omitempty"`
}

func (api *simAPI) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := decodeJSON(r, &req); err != nil {
		api.writeError(w, r, http.StatusBadRequest, "invalid_json", err)
		return
	}

	result, err := api.orc.Optimize(r.Context(), req.Request, req.Steps)
	if err != nil {
		api.writeSolverError(w, r, err)
		return
	}
	api.writeJSON(w, http.StatusOK, result)
}

func (api *simAPI) handleGetSimulation(w http.ResponseWriter, r *http.Request) {
	sim, err := api.sims.Get(r.Context(), r.PathValue("simulation_id"))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			api.writeError(w, r, http.StatusNotFound, "not_found", nil)
			return
		}
		api.logger.Error("get simulation failed", "error", err)
		api.writeError(w, r, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	api.writeJSON(w, http.StatusOK, sim)
}

func (api *simAPI) handleListSimulations(w http.ResponseWriter, r *http.Request) {
	filter := repo.SimulationFilter{
		UserID:  strings.TrimSpace(r.URL.Query().Get("user_id")),
		Backend: strings.TrimSpace(r.URL.Query().Get("backend")),
		Limit:   queryLimit(r, 50),
	}
	sims, err := api.sims.List(r.Context(), filter)
	if err != nil {
		api.logger.Error("list simulations failed", "error", err)
		api.writeError(w, r, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	api.writeJSON(w, http.StatusOK, map[string]any{"simulations": sims})
}

func (api *simAPI) handleGetTranscript(w http.ResponseWriter, r *http.Request) {
	sim, err := api.sims.Get(r.Context(), r.PathValue("simulation_id"))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			api.writeError(w, r, http.StatusNotFound, "not_found", nil)
			return
		}
		api.logger.Error("get simulation failed", "error", err)
		api.writeError(w, r, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	if api.transcripts == nil || sim.Result.ArtifactKey == "" {
		api.writeError(w, r, http.StatusNotFound, "not_found", nil)
		return
	}

	body, err := api.transcripts.OpenTranscript(r.Context(), sim.Result.ArtifactKey)
	if err != nil {
		api.logger.Error("open transcript failed", "error", err, "key", sim.Result.ArtifactKey)
		api.writeError(w, r, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, body)
}

func (api *simAPI) handleListBackends(w http.ResponseWriter, r *http.Request) {
	api.writeJSON(w, http.StatusOK, map[string]any{"backends": api.orc.Backends()})
}

func (api *simAPI) handleListPresets(w http.ResponseWriter, r *http.Request) {
	api.writeJSON(w, http.StatusOK, map[string]any{"presets": geometry.Presets()})
}

func (api *simAPI) handleGenerateGeometry(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	numPoints := 0
	if raw := strings.TrimSpace(q.Get("num_points")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			api.writeError(w, r, http.StatusBadRequest, "invalid_request", err)
			return
		}
		numPoints = n
	}

	foil, err := geometry.Generate(
		geometry.Family(strings.TrimSpace(q.Get("family"))),
		q.Get("designation"),
		numPoints,
		geometry.Spacing(strings.TrimSpace(q.Get("spacing"))),
	)
	if err != nil {
		api.writeSolverError(w, r, err)
		return
	}

	coords := make([]domain.Coordinate, len(foil.Points))
	for i, p := range foil.Points {
		coords[i] = domain.Coordinate{X: p.X, Y: p.Y}
	}
	api.writeJSON(w, http.StatusOK, map[string]any{
		"family":      foil.Family,
		"designation": foil.Designation,
		"num_points":  len(coords),
		"coordinates": coords,
	})
}

func (api *simAPI) handleListChallenges(w http.ResponseWriter, r *http.Request) {
	challenges, err := api.challenges.List(r.Context())
	if err != nil {
		api.logger.Error("list challenges failed", "error", err)
		api.writeError(w, r, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	api.writeJSON(w, http.StatusOK, map[string]any{"challenges": challenges})
}

func (api *simAPI) handleGetChallenge(w http.ResponseWriter, r *http.Request) {
	c, err := api.challenges.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			api.writeError(w, r, http.StatusNotFound, "not_found", nil)
			return
		}
		api.logger.Error("get challenge failed", "error", err)
		api.writeError(w, r, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	api.writeJSON(w, http.StatusOK, c)
}

func (api *simAPI) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	c, err := api.challenges.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			api.writeError(w, r, http.StatusNotFound, "not_found", nil)
			return
		}
		api.logger.Error("get challenge failed", "error", err)
		api.writeError(w, r, http.StatusInternalServerError, "internal_error", nil)
		return
	}

	var req domain.SimulationRequest
	if err := decodeJSON(r, &req); err != nil {
		api.writeError(w, r, http.StatusBadRequest, "invalid_json", err)
		return
	}

	// Constraints compare against what will actually run, so the
	// default backend has to be resolved first.
	req = api.orc.Normalize(req)
	if err := challenge.CheckRequest(req, c.Spec); err != nil {
		api.writeError(w, r, http.StatusBadRequest, "constraint_mismatch", err)
		return
	}

	// A failed convergence is a gradeable outcome; every other solver
	// failure is the submitter's to fix or ours to report.
	result, err := api.orc.Run(r.Context(), req)
	if err != nil && !errors.Is(err, solver.ErrConvergenceFailure) {
		api.writeSolverError(w, r, err)
		return
	}

	outcome, err := challenge.Evaluate(req, result, c.Spec)
	if err != nil {
		if errors.Is(err, challenge.ErrConstraintMismatch) {
			api.writeError(w, r, http.StatusBadRequest, "constraint_mismatch", err)
			return
		}
		api.logger.Error("grade submission failed", "error", err)
		api.writeError(w, r, http.StatusInternalServerError, "internal_error", nil)
		return
	}

	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	now := time.Now().UTC()

	sim := domain.Simulation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Request:   req,
		Result:    result,
		CreatedAt: now,
	}
	if err := api.sims.Create(r.Context(), sim); err != nil {
		api.logger.Error("persist simulation failed", "error", err)
		api.writeError(w, r, http.StatusInternalServerError, "internal_error", nil)
		return
	}

	sub := challenge.Submission{
		ID:           uuid.NewString(),
		ChallengeID:  c.ID,
		UserID:       userID,
		SimulationID: sim.ID,
		Request:      req,
		Outcome:      outcome,
		CreatedAt:    now,
	}
	if err := api.submissions.Create(r.Context(), sub); err != nil {
		api.logger.Error("persist submission failed", "error", err)
		api.writeError(w, r, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	api.writeJSON(w, http.StatusCreated, sub)
}

func (api *simAPI) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	c, err := api.challenges.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			api.writeError(w, r, http.StatusNotFound, "not_found", nil)
			return
		}
		api.logger.Error("get challenge failed", "error", err)
		api.writeError(w, r, http.StatusInternalServerError, "internal_error", nil)
		return
	}

	filter := repo.SubmissionFilter{
		ChallengeID: c.ID,
		UserID:      strings.TrimSpace(r.URL.Query().Get("user_id")),
		Limit:       queryLimit(r, 50),
	}
	subs, err := api.submissions.List(r.Context(), filter)
	if err != nil {
		api.logger.Error("list submissions failed", "error", err)
		api.writeError(w, r, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	api.writeJSON(w, http.StatusOK, map[string]any{"submissions": subs})
}

// writeSolverError maps the solver and geometry failure taxonomy onto
// stable HTTP error codes.
func (api *simAPI) writeSolverError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, geometry.ErrInvalidDesignation):
		api.writeError(w, r, http.StatusBadRequest, "invalid_designation", err)
	case errors.Is(err, geometry.ErrDegenerateGeometry):
		api.writeError(w, r, http.StatusBadRequest, "degenerate_geometry", err)
	case errors.Is(err, orchestrator.ErrUnknownBackend):
		api.writeError(w, r, http.StatusBadRequest, "unknown_backend", err)
	case errors.Is(err, solver.ErrOutOfDomain):
		api.writeError(w, r, http.StatusUnprocessableEntity, "out_of_domain", err)
	case errors.Is(err, solver.ErrConvergenceFailure):
		api.writeError(w, r, http.StatusUnprocessableEntity, "convergence_failure", err)
	case errors.Is(err, solver.ErrTimeout):
		api.writeError(w, r, http.StatusGatewayTimeout, "timeout", err)
	case errors.Is(err, solver.ErrBackendUnavailable):
		api.writeError(w, r, http.StatusServiceUnavailable, "backend_unavailable", err)
	case errors.Is(err, solver.ErrMalformedOutput):
		api.writeError(w, r, http.StatusBadGateway, "malformed_output", err)
	case strings.Contains(err.Error(), "invalid request"), strings.Contains(err.Error(), "invalid sweep"):
		api.writeError(w, r, http.StatusBadRequest, "invalid_request", err)
	default:
		api.logger.Error("simulation failed", "error", err)
		api.writeError(w, r, http.StatusInternalServerError, "internal_error", nil)
	}
}

func queryLimit(r *http.Request, def int) int {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 4<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("multiple JSON values")
	}
	return nil
}

func (api *simAPI) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(body)
}

func (api *simAPI) writeError(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	body := map[string]any{
		"error":      code,
		"request_id": r.Header.Get("X-Request-Id"),
	}
	if err != nil {
		body["detail"] = err.Error()
	}
	api.writeJSON(w, status, body)
}
