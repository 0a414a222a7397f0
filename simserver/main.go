package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/CS101-o/CFD-leetcode/internal/artifacts"
	"github.com/CS101-o/CFD-leetcode/internal/challenge"
	"github.com/CS101-o/CFD-leetcode/internal/orchestrator"
	"github.com/CS101-o/CFD-leetcode/internal/platform/env"
	"github.com/CS101-o/CFD-leetcode/internal/platform/httpserver"
	"github.com/CS101-o/CFD-leetcode/internal/platform/objectstore"
	"github.com/CS101-o/CFD-leetcode/internal/platform/postgres"
	repopg "github.com/CS101-o/CFD-leetcode/internal/repo/postgres"
	"github.com/CS101-o/CFD-leetcode/internal/solver"
	"github.com/CS101-o/CFD-leetcode/internal/solver/surrogate"
	"github.com/CS101-o/CFD-leetcode/internal/solver/xfoil"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := env.String("SIM_HTTP_ADDR", ":8080")
	shutdownTimeout, err := env.Duration("SIM_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		logger.Error("invalid env", "error", err)
		os.Exit(2)
	}

	dbCfg, err := postgres.ConfigFromEnv()
	if err != nil {
		logger.Error("invalid database config", "error", err)
		os.Exit(2)
	}
	db, err := postgres.Open(ctx, dbCfg)
	if err != nil {
		logger.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	storeCfg, err := objectstore.ConfigFromEnv()
	if err != nil {
		logger.Error("invalid object store config", "error", err)
		os.Exit(2)
	}
	storeClient, err := objectstore.NewMinIOClient(storeCfg)
	if err != nil {
		logger.Error("object store client init failed", "error", err)
		os.Exit(2)
	}
	startupCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := objectstore.EnsureBuckets(startupCtx, storeClient, storeCfg); err != nil {
		cancel()
		logger.Error("object store unavailable", "error", err)
		os.Exit(1)
	}
	cancel()

	transcripts, err := artifacts.NewStoreWithClient(storeClient, storeCfg.BucketArtifacts)
	if err != nil {
		logger.Error("artifact store init failed", "error", err)
		os.Exit(2)
	}

	backends := []solver.Backend{surrogate.New()}
	xfoilCfg, err := xfoil.ConfigFromEnv()
	if err != nil {
		logger.Error("invalid xfoil config", "error", err)
		os.Exit(2)
	}
	xf, err := xfoil.New(logger, xfoilCfg)
	switch {
	case err == nil:
		backends = append(backends, xf.WithTranscriptSink(transcripts))
	case errors.Is(err, solver.ErrBackendUnavailable):
		logger.Warn("xfoil not installed, running with surrogate only", "path", xfoilCfg.Path)
	default:
		logger.Error("xfoil init failed", "error", err)
		os.Exit(2)
	}

	orcCfg, err := orchestrator.ConfigFromEnv()
	if err != nil {
		logger.Error("invalid orchestrator config", "error", err)
		os.Exit(2)
	}
	orc, err := orchestrator.New(orcCfg, logger, backends...)
	if err != nil {
		logger.Error("orchestrator init failed", "error", err)
		os.Exit(2)
	}

	simStore := repopg.NewSimulationStore(db)
	challengeStore := repopg.NewChallengeStore(db)
	submissionStore := repopg.NewSubmissionStore(db)

	if seedDir := env.String("CHALLENGE_SEED_DIR", ""); seedDir != "" {
		if err := seedChallenges(ctx, logger, challengeStore, seedDir); err != nil {
			logger.Error("seed challenges failed", "error", err)
			os.Exit(1)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", httpserver.Healthz("simserver"))
	mux.HandleFunc(
		"/readyz",
		httpserver.ReadyzWithChecks(
			"simserver",
			httpserver.ReadinessCheck{
				Name: "postgres",
				Check: func(ctx context.Context) error {
					checkCtx, cancel := context.WithTimeout(ctx, 750*time.Millisecond)
					defer cancel()
					return db.PingContext(checkCtx)
				},
			},
			httpserver.ReadinessCheck{
				Name: "minio",
				Check: func(ctx context.Context) error {
					checkCtx, cancel := context.WithTimeout(ctx, 750*time.Millisecond)
					defer cancel()
					return objectstore.CheckBuckets(checkCtx, storeClient, storeCfg)
				},
			},
		),
	)

	api := newSimAPI(logger, orc, simStore, challengeStore, submissionStore, transcripts)
	api.register(mux)

	cfg := httpserver.Config{
		Service:         "simserver",
		Addr:            addr,
		ShutdownTimeout: shutdownTimeout,
	}

	if err := httpserver.Run(ctx, logger, cfg, httpserver.Wrap(logger, "simserver", mux)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func seedChallenges(ctx context.Context, logger *slog.Logger, store *repopg.ChallengeStore, dir string) error {
	seeds, err := challenge.LoadDir(dir)
	if err != nil {
		return err
	}
	for _, c := range seeds {
		existing, err := store.GetBySlug(ctx, c.Slug)
		if err == nil {
			c.ID = existing.ID
			c.CreatedAt = existing.CreatedAt
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if err := store.Upsert(ctx, c); err != nil {
			return err
		}
	}
	logger.Info("challenges seeded", "count", len(seeds), "dir", dir)
	return nil
}
