package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/CS101-o/CFD-leetcode/internal/challenge"
	"github.com/CS101-o/CFD-leetcode/internal/repo"
)

const insertSubmissionQuery = `INSERT INTO submissions (
	submission_id,
	challenge_id,
	user_id,
	simulation_id,
	request,
	outcome,
	created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7)`

const selectSubmissionQuery = `SELECT submission_id, challenge_id, user_id, simulation_id, request, outcome, created_at
FROM submissions
WHERE submission_id = $1`

type SubmissionStore struct {
	db DB
}

func NewSubmissionStore(db DB) *SubmissionStore {
	if db == nil {
		return nil
	}
	return &SubmissionStore{db: db}
}

func (s *SubmissionStore) Create(ctx context.Context, sub challenge.Submission) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("submission store not initialized")
	}
	if err := sub.Validate(); err != nil {
		return err
	}
	requestJSON, err := encodeJSON(sub.Request)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	outcomeJSON, err := encodeJSON(sub.Outcome)
	if err != nil {
		return fmt.Errorf("encode outcome: %w", err)
	}
	_, err = s.db.ExecContext(
		ctx,
		insertSubmissionQuery,
		strings.TrimSpace(sub.ID),
		strings.TrimSpace(sub.ChallengeID),
		nullIfEmpty(strings.TrimSpace(sub.UserID)),
		nullIfEmpty(strings.TrimSpace(sub.SimulationID)),
		requestJSON,
		outcomeJSON,
		normalizeTime(sub.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *SubmissionStore) Get(ctx context.Context, id string) (challenge.Submission, error) {
	if s == nil || s.db == nil {
		return challenge.Submission{}, fmt.Errorf("submission store not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return challenge.Submission{}, fmt.Errorf("submission id is required")
	}

	row := s.db.QueryRowContext(ctx, selectSubmissionQuery, id)
	sub, err := scanSubmission(row.Scan)
	if err != nil {
		return challenge.Submission{}, handleNotFound(err)
	}
	return sub, nil
}

func (s *SubmissionStore) List(ctx context.Context, filter repo.SubmissionFilter) ([]challenge.Submission, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("submission store not initialized")
	}
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 3)

	if strings.TrimSpace(filter.ChallengeID) != "" {
		args = append(args, strings.TrimSpace(filter.ChallengeID))
		clauses = append(clauses, fmt.Sprintf("challenge_id = $%d", len(args)))
	}
	if strings.TrimSpace(filter.UserID) != "" {
		args = append(args, strings.TrimSpace(filter.UserID))
		clauses = append(clauses, fmt.Sprintf("user_id = $%d", len(args)))
	}

	query := `SELECT submission_id, challenge_id, user_id, simulation_id, request, outcome, created_at FROM submissions`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	subs := make([]challenge.Submission, 0)
	for rows.Next() {
		sub, err := scanSubmission(rows.Scan)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}

func scanSubmission(scan func(dest ...any) error) (challenge.Submission, error) {
	var (
		sub          challenge.Submission
		userID       sql.NullString
		simulationID sql.NullString
		requestJSON  []byte
		outcomeJSON  []byte
	)
	if err := scan(&sub.ID, &sub.ChallengeID, &userID, &simulationID, &requestJSON, &outcomeJSON, &sub.CreatedAt); err != nil {
		return challenge.Submission{}, err
	}
	if userID.Valid {
		sub.UserID = userID.String
	}
	if simulationID.Valid {
		sub.SimulationID = simulationID.String
	}
	if err := decodeJSON(requestJSON, &sub.Request); err != nil {
		return challenge.Submission{}, fmt.Errorf("decode request: %w", err)
	}
	if err := decodeJSON(outcomeJSON, &sub.Outcome); err != nil {
		return challenge.Submission{}, fmt.Errorf("decode outcome: %w", err)
	}
	return sub, nil
}
