package contest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgRepo struct {
	pool *pgxpool.Pool
}

func NewPgRepo(pool *pgxpool.Pool) Repo {
	return &pgRepo{pool: pool}
}

func (r *pgRepo) GetCompetition(ctx context.Context, id uuid.UUID) (Competition, error) {
	query := `
		SELECT id, title, state, started_at, submission_penalty_s
		FROM competitions WHERE id = $1
	`
	var c Competition
	var startedAt *time.Time
	var penaltySeconds int64
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Title, &c.State, &startedAt, &penaltySeconds)
	if errors.Is(err, pgx.ErrNoRows) {
		return Competition{}, ErrCompetitionNotFound
	}
	if err != nil {
		return Competition{}, fmt.Errorf("failed to query competition: %w", err)
	}
	if startedAt != nil {
		c.StartedAt = *startedAt
	}
	c.SubmissionPenalty = time.Duration(penaltySeconds) * time.Second
	return c, nil
}

func (r *pgRepo) GetExercise(ctx context.Context, id uuid.UUID) (Exercise, error) {
	query := `
		SELECT id, competition_id, title, problem_ref, weight
		FROM exercises WHERE id = $1
	`
	var e Exercise
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.CompetitionID, &e.Title, &e.ProblemRef, &e.Weight)
	if errors.Is(err, pgx.ErrNoRows) {
		return Exercise{}, ErrExerciseNotFound
	}
	if err != nil {
		return Exercise{}, fmt.Errorf("failed to query exercise: %w", err)
	}
	return e, nil
}

func (r *pgRepo) GetRegisteredGroup(ctx context.Context, competitionID, groupID uuid.UUID) (Group, error) {
	query := `
		SELECT g.id, g.name, g.blocked
		FROM groups g
		JOIN competition_groups cg ON cg.group_id = g.id
		WHERE cg.competition_id = $1 AND g.id = $2
	`
	var g Group
	err := r.pool.QueryRow(ctx, query, competitionID, groupID).Scan(
		&g.ID, &g.Name, &g.Blocked)
	if errors.Is(err, pgx.ErrNoRows) {
		return Group{}, ErrGroupNotRegistered
	}
	if err != nil {
		return Group{}, fmt.Errorf("failed to query registered group: %w", err)
	}
	return g, nil
}

func (r *pgRepo) ListRegisteredGroups(ctx context.Context, competitionID uuid.UUID) ([]Group, error) {
	query := `
		SELECT g.id, g.name, g.blocked
		FROM groups g
		JOIN competition_groups cg ON cg.group_id = g.id
		WHERE cg.competition_id = $1
		ORDER BY g.id
	`
	rows, err := r.pool.Query(ctx, query, competitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registered groups: %w", err)
	}
	defer rows.Close()

	var groups []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Blocked); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *pgRepo) ListExercises(ctx context.Context, competitionID uuid.UUID) ([]Exercise, error) {
	query := `
		SELECT id, competition_id, title, problem_ref, weight
		FROM exercises WHERE competition_id = $1
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query, competitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	defer rows.Close()

	var exercises []Exercise
	for rows.Next() {
		var e Exercise
		if err := rows.Scan(&e.ID, &e.CompetitionID, &e.Title, &e.ProblemRef, &e.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan exercise: %w", err)
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}
