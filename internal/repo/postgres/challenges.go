package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/CS101-o/CFD-leetcode/internal/challenge"
)

const upsertChallengeQuery = `INSERT INTO challenges (
	challenge_id,
	slug,
	title,
	description,
	difficulty,
	points,
	hints,
	spec,
	created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (slug) DO UPDATE SET
	title = EXCLUDED.title,
	description = EXCLUDED.description,
	difficulty = EXCLUDED.difficulty,
	points = EXCLUDED.points,
	hints = EXCLUDED.hints,
	spec = EXCLUDED.spec`

const selectChallengeQuery = `SELECT challenge_id, slug, title, description, difficulty, points, hints, spec, created_at
FROM challenges
WHERE slug = $1`

const listChallengesQuery = `SELECT challenge_id, slug, title, description, difficulty, points, hints, spec, created_at
FROM challenges
ORDER BY slug`

type ChallengeStore struct {
	db DB
}

func NewChallengeStore(db DB) *ChallengeStore {
	if db == nil {
		return nil
	}
	return &ChallengeStore{db: db}
}

func (s *ChallengeStore) Upsert(ctx context.Context, c challenge.Challenge) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("challenge store not initialized")
	}
	if err := c.Validate(); err != nil {
		return err
	}
	hintsJSON, err := encodeJSON(c.Hints)
	if err != nil {
		return fmt.Errorf("encode hints: %w", err)
	}
	specJSON, err := encodeJSON(c.Spec)
	if err != nil {
		return fmt.Errorf("encode spec: %w", err)
	}
	_, err = s.db.ExecContext(
		ctx,
		upsertChallengeQuery,
		strings.TrimSpace(c.ID),
		strings.TrimSpace(c.Slug),
		strings.TrimSpace(c.Title),
		c.Description,
		strings.ToLower(strings.TrimSpace(c.Difficulty)),
		c.Points,
		hintsJSON,
		specJSON,
		normalizeTime(c.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert challenge: %w", err)
	}
	return nil
}

func (s *ChallengeStore) GetBySlug(ctx context.Context, slug string) (challenge.Challenge, error) {
	if s == nil || s.db == nil {
		return challenge.Challenge{}, fmt.Errorf("challenge store not initialized")
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return challenge.Challenge{}, fmt.Errorf("challenge slug is required")
	}

	row := s.db.QueryRowContext(ctx, selectChallengeQuery, slug)
	c, err := scanChallenge(row.Scan)
	if err != nil {
		return challenge.Challenge{}, handleNotFound(err)
	}
	return c, nil
}

func (s *ChallengeStore) List(ctx context.Context) ([]challenge.Challenge, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("challenge store not initialized")
	}

	rows, err := s.db.QueryContext(ctx, listChallengesQuery)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	defer rows.Close()

	challenges := make([]challenge.Challenge, 0)
	for rows.Next() {
		c, err := scanChallenge(rows.Scan)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	return challenges, nil
}

func scanChallenge(scan func(dest ...any) error) (challenge.Challenge, error) {
	var (
		c         challenge.Challenge
		hintsJSON []byte
		specJSON  []byte
	)
	if err := scan(&c.ID, &c.Slug, &c.Title, &c.Description, &c.Difficulty, &c.Points, &hintsJSON, &specJSON, &c.CreatedAt); err != nil {
		return challenge.Challenge{}, err
	}
	if err := decodeJSON(hintsJSON, &c.Hints); err != nil {
		return challenge.Challenge{}, fmt.Errorf("decode hints: %w", err)
	}
	if err := decodeJSON(specJSON, &c.Spec); err != nil {
		return challenge.Challenge{}, fmt.Errorf("decode spec: %w", err)
	}
	return c, nil
}
