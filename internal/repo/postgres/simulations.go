package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/CS101-o/CFD-leetcode/internal/domain"
	"github.com/CS101-o/CFD-leetcode/internal/repo"
)

const insertSimulationQuery = `INSERT INTO simulations (
	simulation_id,
	user_id,
	backend,
	request,
	result,
	created_at
) VALUES ($1,$2,$3,$4,$5,$6)`

const selectSimulationQuery = `SELECT simulation_id, user_id, backend, request, result, created_at
FROM simulations
WHERE simulation_id = $1`

type SimulationStore struct {
	db DB
}

func NewSimulationStore(db DB) *SimulationStore {
	if db == nil {
		return nil
	}
	return &SimulationStore{db: db}
}

func (s *SimulationStore) Create(ctx context.Context, sim domain.Simulation) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("simulation store not initialized")
	}
	if err := sim.Validate(); err != nil {
		return err
	}
	requestJSON, err := encodeJSON(sim.Request)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	resultJSON, err := encodeJSON(sim.Result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = s.db.ExecContext(
		ctx,
		insertSimulationQuery,
		strings.TrimSpace(sim.ID),
		nullIfEmpty(strings.TrimSpace(sim.UserID)),
		sim.Result.Backend,
		requestJSON,
		resultJSON,
		normalizeTime(sim.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert simulation: %w", err)
	}
	return nil
}

func (s *SimulationStore) Get(ctx context.Context, id string) (domain.Simulation, error) {
	if s == nil || s.db == nil {
		return domain.Simulation{}, fmt.Errorf("simulation store not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Simulation{}, fmt.Errorf("simulation id is required")
	}

	row := s.db.QueryRowContext(ctx, selectSimulationQuery, id)
	sim, err := scanSimulation(row.Scan)
	if err != nil {
		return domain.Simulation{}, handleNotFound(err)
	}
	return sim, nil
}

func (s *SimulationStore) List(ctx context.Context, filter repo.SimulationFilter) ([]domain.Simulation, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("simulation store not initialized")
	}
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 3)

	if strings.TrimSpace(filter.UserID) != "" {
		args = append(args, strings.TrimSpace(filter.UserID))
		clauses = append(clauses, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if strings.TrimSpace(filter.Backend) != "" {
		args = append(args, strings.TrimSpace(filter.Backend))
		clauses = append(clauses, fmt.Sprintf("backend = $%d", len(args)))
	}

	query := `SELECT simulation_id, user_id, backend, request, result, created_at FROM simulations`
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
		return nil, fmt.Errorf("list simulations: %w", err)
	}
	defer rows.Close()

	sims := make([]domain.Simulation, 0)
	for rows.Next() {
		sim, err := scanSimulation(rows.Scan)
		if err != nil {
			return nil, err
		}
		sims = append(sims, sim)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list simulations: %w", err)
	}
	return sims, nil
}

func scanSimulation(scan func(dest ...any) error) (domain.Simulation, error) {
	var (
		sim         domain.Simulation
		userID      sql.NullString
		backend     string
		requestJSON []byte
		resultJSON  []byte
	)
	if err := scan(&sim.ID, &userID, &backend, &requestJSON, &resultJSON, &sim.CreatedAt); err != nil {
		return domain.Simulation{}, err
	}
	if userID.Valid {
		sim.UserID = userID.String
	}
	if err := decodeJSON(requestJSON, &sim.Request); err != nil {
		return domain.Simulation{}, fmt.Errorf("decode request: %w", err)
	}
	if err := decodeJSON(resultJSON, &sim.Result); err != nil {
		return domain.Simulation{}, fmt.Errorf("decode result: %w", err)
	}
	return sim, nil
}
