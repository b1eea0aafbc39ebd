package pgrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/codearena/backend/contest"
	"github.com/codearena/backend/logger"
	"github.com/codearena/backend/subm"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgAttemptRepo struct {
	pool *pgxpool.Pool
}

func NewPgAttemptRepo(pool *pgxpool.Pool) subm.AttemptRepo {
	return &pgAttemptRepo{pool: pool}
}

// StoreAttemptWithStandings inserts the attempt and replaces the
// competition's ranking rows in one transaction. If any statement fails the
// whole unit of work rolls back, so an attempt can never be observed without
// its ranking recomputation.
func (r *pgAttemptRepo) StoreAttemptWithStandings(ctx context.Context, attempt subm.Attempt, standings []contest.Standing) error {
	log := logger.FromContext(ctx)
	log.Debug("storing attempt with standings",
		"attempt_id", attempt.ID, "competition_id", attempt.CompetitionID)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	attemptInsertQuery := `
		INSERT INTO attempts (
			id, competition_id, group_id, exercise_id,
			code, language, submitted_at, execution_time_ms,
			accepted, verdict
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = tx.Exec(ctx, attemptInsertQuery,
		attempt.ID,
		attempt.CompetitionID,
		attempt.GroupID,
		attempt.ExerciseID,
		attempt.Code,
		attempt.Language,
		attempt.SubmittedAt,
		attempt.ExecutionTime.Milliseconds(),
		attempt.Accepted,
		attempt.Verdict,
	)
	if err != nil {
		return fmt.Errorf("failed to insert attempt: %w", err)
	}

	// Replace the competition's ranking snapshot wholesale. Rank order is a
	// property of the full standings, not of single rows, so partial updates
	// are never correct.
	_, err = tx.Exec(ctx,
		`DELETE FROM competition_rankings WHERE competition_id = $1`,
		attempt.CompetitionID)
	if err != nil {
		return fmt.Errorf("failed to delete old ranking rows: %w", err)
	}

	standingInsertQuery := `
		INSERT INTO competition_rankings (
			competition_id, group_id, rank_order, points,
			penalty_s, solved_exercises, last_accepted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, s := range standings {
		var lastAcceptedAt *time.Time
		if !s.LastAcceptedAt.IsZero() {
			t := s.LastAcceptedAt
			lastAcceptedAt = &t
		}
		_, err = tx.Exec(ctx, standingInsertQuery,
			s.CompetitionID,
			s.GroupID,
			s.RankOrder,
			s.Points,
			s.Penalty.Seconds(),
			s.SolvedExercises,
			lastAcceptedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert ranking row: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *pgAttemptRepo) ListAttempts(ctx context.Context, competitionID uuid.UUID) ([]subm.Attempt, error) {
	query := `
		SELECT id, competition_id, group_id, exercise_id,
			code, language, submitted_at, execution_time_ms,
			accepted, verdict
		FROM attempts
		WHERE competition_id = $1
		ORDER BY submitted_at, id
	`
	rows, err := r.pool.Query(ctx, query, competitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []subm.Attempt
	for rows.Next() {
		var a subm.Attempt
		var execMs int64
		err := rows.Scan(
			&a.ID, &a.CompetitionID, &a.GroupID, &a.ExerciseID,
			&a.Code, &a.Language, &a.SubmittedAt, &execMs,
			&a.Accepted, &a.Verdict,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		a.ExecutionTime = time.Duration(execMs) * time.Millisecond
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

func (r *pgAttemptRepo) ListStandings(ctx context.Context, competitionID uuid.UUID) ([]contest.Standing, error) {
	query := `
		SELECT competition_id, group_id, rank_order, points,
			penalty_s, solved_exercises, last_accepted_at
		FROM competition_rankings
		WHERE competition_id = $1
		ORDER BY rank_order
	`
	rows, err := r.pool.Query(ctx, query, competitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list standings: %w", err)
	}
	defer rows.Close()

	var standings []contest.Standing
	for rows.Next() {
		s, err := scanStanding(rows)
		if err != nil {
			return nil, err
		}
		standings = append(standings, s)
	}
	return standings, rows.Err()
}

func (r *pgAttemptRepo) GetStanding(ctx context.Context, competitionID, groupID uuid.UUID) (contest.Standing, error) {
	query := `
		SELECT competition_id, group_id, rank_order, points,
			penalty_s, solved_exercises, last_accepted_at
		FROM competition_rankings
		WHERE competition_id = $1 AND group_id = $2
	`
	row := r.pool.QueryRow(ctx, query, competitionID, groupID)
	s, err := scanStanding(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return contest.Standing{}, subm.ErrStandingNotFound
	}
	if err != nil {
		return contest.Standing{}, err
	}
	return s, nil
}

func scanStanding(row pgx.Row) (contest.Standing, error) {
	var s contest.Standing
	var penaltySeconds float64
	var lastAcceptedAt *time.Time
	err := row.Scan(
		&s.CompetitionID, &s.GroupID, &s.RankOrder, &s.Points,
		&penaltySeconds, &s.SolvedExercises, &lastAcceptedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return contest.Standing{}, pgx.ErrNoRows
	}
	if err != nil {
		return contest.Standing{}, fmt.Errorf("failed to scan standing: %w", err)
	}
	s.Penalty = time.Duration(penaltySeconds * float64(time.Second))
	if lastAcceptedAt != nil {
		s.LastAcceptedAt = *lastAcceptedAt
	}
	return s, nil
}
