package subm

import (
	"context"
	"errors"

	"github.com/codearena/backend/contest"
	"github.com/google/uuid"
)

// AttemptRepo is the single source of truth for attempts and ranking
// snapshots. StoreAttemptWithStandings is the only write path of the
// pipeline: an attempt row must never exist without the competition's
// ranking rows having been replaced in the same transaction.
type AttemptRepo interface {
	StoreAttemptWithStandings(ctx context.Context, attempt Attempt, standings []contest.Standing) error

	ListAttempts(ctx context.Context, competitionID uuid.UUID) ([]Attempt, error)
	ListStandings(ctx context.Context, competitionID uuid.UUID) ([]contest.Standing, error)
	GetStanding(ctx context.Context, competitionID, groupID uuid.UUID) (contest.Standing, error)
}

var ErrStandingNotFound = errors.New("standing not found")
