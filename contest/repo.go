package contest

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Repo reads the competition setup the submission pipeline validates against.
// Competitions, groups and exercises are administered elsewhere; the pipeline
// only ever reads them.
type Repo interface {
	GetCompetition(ctx context.Context, id uuid.UUID) (Competition, error)
	GetExercise(ctx context.Context, id uuid.UUID) (Exercise, error)

	// GetRegisteredGroup returns the group only if it is registered in the
	// given competition. ErrGroupNotRegistered otherwise.
	GetRegisteredGroup(ctx context.Context, competitionID, groupID uuid.UUID) (Group, error)

	// ListRegisteredGroups returns all groups registered in the competition,
	// blocked ones included.
	ListRegisteredGroups(ctx context.Context, competitionID uuid.UUID) ([]Group, error)

	ListExercises(ctx context.Context, competitionID uuid.UUID) ([]Exercise, error)
}

var (
	ErrCompetitionNotFound = errors.New("competition not found")
	ErrExerciseNotFound    = errors.New("exercise not found")
	ErrGroupNotRegistered  = errors.New("group not registered in competition")
)
