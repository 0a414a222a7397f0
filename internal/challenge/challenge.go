package challenge

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/CS101-o/CFD-leetcode/internal/domain"
)

// Challenge is a published exercise. The slug is the stable public
// identifier; the embedded Spec defines grading.
type Challenge struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Difficulty  string    `json:"difficulty"`
	Points      int       `json:"points"`
	Hints       []string  `json:"hints,omitempty"`
	Spec        Spec      `json:"spec"`
	CreatedAt   time.Time `json:"created_at"`
}

var validDifficulties = map[string]struct{}{
	"easy":   {},
	"medium": {},
	"hard":   {},
}

func (c Challenge) Validate() error {
	if strings.TrimSpace(c.Slug) == "" {
		return errors.New("challenge slug is required")
	}
	if strings.TrimSpace(c.Title) == "" {
		return errors.New("challenge title is required")
	}
	if _, ok := validDifficulties[strings.ToLower(strings.TrimSpace(c.Difficulty))]; !ok {
		return fmt.Errorf("unknown difficulty: %q", c.Difficulty)
	}
	if c.Points < 0 {
		return fmt.Errorf("points must be >= 0: %d", c.Points)
	}
	return c.Spec.Validate()
}

// Submission is one graded attempt at a challenge.
type Submission struct {
	ID           string                   `json:"id"`
	ChallengeID  string                   `json:"challenge_id"`
	UserID       string                   `json:"user_id"`
	SimulationID string                   `json:"simulation_id,omitempty"`
	Request      domain.SimulationRequest `json:"request"`
	Outcome      Outcome                  `json:"outcome"`
	CreatedAt    time.Time                `json:"created_at"`
}

func (s Submission) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("submission id is required")
	}
	if strings.TrimSpace(s.ChallengeID) == "" {
		return errors.New("submission challenge id is required")
	}
	return s.Request.Validate()
}
