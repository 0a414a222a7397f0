// Package repo defines the persistence contracts for simulations,
// challenges and submissions.
package repo

import (
	"context"
	"errors"

	"github.com/CS101-o/CFD-leetcode/internal/challenge"
	"github.com/CS101-o/CFD-leetcode/internal/domain"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("not found")

type SimulationFilter struct {
	UserID  string
	Backend string
	Limit   int
}

type SubmissionFilter struct {
	ChallengeID string
	UserID      string
	Limit       int
}

// SimulationRepository stores completed simulation records.
type SimulationRepository interface {
	Create(ctx context.Context, sim domain.Simulation) error
	Get(ctx context.Context, id string) (domain.Simulation, error)
	List(ctx context.Context, filter SimulationFilter) ([]domain.Simulation, error)
}

// ChallengeRepository stores published challenges keyed by slug.
type ChallengeRepository interface {
	Upsert(ctx context.Context, c challenge.Challenge) error
	GetBySlug(ctx context.Context, slug string) (challenge.Challenge, error)
	List(ctx context.Context) ([]challenge.Challenge, error)
}

// SubmissionRepository stores graded challenge attempts.
type SubmissionRepository interface {
	Create(ctx context.Context, sub challenge.Submission) error
	Get(ctx context.Context, id string) (challenge.Submission, error)
	List(ctx context.Context, filter SubmissionFilter) ([]challenge.Submission, error)
}
