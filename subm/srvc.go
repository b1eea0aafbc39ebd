package subm

import (
	"context"
	"errors"
	"time"

	"github.com/codearena/backend/contest"
	"github.com/codearena/backend/langlist"
	"github.com/codearena/backend/logger"
	"github.com/codearena/backend/submqueue"
	"github.com/google/uuid"
)

const maxSubmLengthKB = 64

// CommandEnqueuer publishes submission commands to the worker's queue.
type CommandEnqueuer interface {
	EnqueueCommand(ctx context.Context, cmd submqueue.SubmissionCommand) error
}

// SubmissionSrvc is the API-side half of the submission pipeline. Submit
// validates a request against the current competition setup and enqueues a
// command for the worker; the judged attempt and the updated ranking come
// back asynchronously through the result relay.
type SubmissionSrvc struct {
	contests contest.Repo
	attempts AttemptRepo
	enqueuer CommandEnqueuer
}

func NewSubmissionSrvc(contests contest.Repo, attempts AttemptRepo, enqueuer CommandEnqueuer) *SubmissionSrvc {
	return &SubmissionSrvc{
		contests: contests,
		attempts: attempts,
		enqueuer: enqueuer,
	}
}

type SubmitRequest struct {
	CompetitionID uuid.UUID
	GroupID       uuid.UUID
	ExerciseID    uuid.UUID
	Language      string
	Code          string

	// ConnectionID is the submitter's push-channel connection; the result
	// relay addresses the outcome to it.
	ConnectionID string
}

// Submit validates the request, assigns a correlation id and enqueues the
// submission command. The returned id correlates the eventual push-channel
// result with this call.
func (s *SubmissionSrvc) Submit(ctx context.Context, req SubmitRequest) (uuid.UUID, error) {
	log := logger.FromContext(ctx)

	if req.Code == "" {
		return uuid.Nil, ErrEmptySubmission()
	}
	if len(req.Code) > maxSubmLengthKB*1024 {
		return uuid.Nil, ErrSubmissionTooLong(maxSubmLengthKB)
	}

	lang, err := langlist.ByID(req.Language)
	if err != nil || !lang.Enabled {
		return uuid.Nil, ErrInvalidLanguage()
	}

	comp, err := s.contests.GetCompetition(ctx, req.CompetitionID)
	if errors.Is(err, contest.ErrCompetitionNotFound) {
		return uuid.Nil, ErrCompetitionNotFound()
	}
	if err != nil {
		return uuid.Nil, ErrInternalSE().SetDebug(err)
	}
	if comp.State != contest.StateOngoing {
		return uuid.Nil, ErrCompetitionNotOngoing(comp.State)
	}

	group, err := s.contests.GetRegisteredGroup(ctx, req.CompetitionID, req.GroupID)
	if errors.Is(err, contest.ErrGroupNotRegistered) {
		return uuid.Nil, ErrGroupNotRegistered()
	}
	if err != nil {
		return uuid.Nil, ErrInternalSE().SetDebug(err)
	}
	if group.Blocked {
		return uuid.Nil, ErrGroupBlocked()
	}

	exercise, err := s.contests.GetExercise(ctx, req.ExerciseID)
	if errors.Is(err, contest.ErrExerciseNotFound) {
		return uuid.Nil, ErrExerciseNotInCompetition()
	}
	if err != nil {
		return uuid.Nil, ErrInternalSE().SetDebug(err)
	}
	if exercise.CompetitionID != req.CompetitionID {
		return uuid.Nil, ErrExerciseNotInCompetition()
	}

	correlationID, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, ErrInternalSE().SetDebug(err)
	}

	cmd := submqueue.SubmissionCommand{
		CorrelationID: correlationID,
		ConnectionID:  req.ConnectionID,
		GroupID:       req.GroupID,
		ExerciseID:    req.ExerciseID,
		CompetitionID: req.CompetitionID,
		Code:          req.Code,
		Language:      req.Language,
		SubmittedAt:   time.Now().UTC(),
	}
	if err := s.enqueuer.EnqueueCommand(ctx, cmd); err != nil {
		log.Error("failed to enqueue submission command",
			"error", err, "correlation_id", correlationID)
		return uuid.Nil, ErrInternalSE().SetDebug(err)
	}

	log.Info("submission command enqueued",
		"correlation_id", correlationID,
		"competition_id", req.CompetitionID,
		"group_id", req.GroupID,
		"exercise_id", req.ExerciseID)
	return correlationID, nil
}

// Standings returns the competition's persisted ranking snapshot. Queries
// read the snapshot the worker maintains; nothing is recomputed here.
func (s *SubmissionSrvc) Standings(ctx context.Context, competitionID uuid.UUID) ([]contest.Standing, error) {
	standings, err := s.attempts.ListStandings(ctx, competitionID)
	if err != nil {
		return nil, ErrInternalSE().SetDebug(err)
	}
	return standings, nil
}

// Attempts returns the competition's judged attempt history.
func (s *SubmissionSrvc) Attempts(ctx context.Context, competitionID uuid.UUID) ([]Attempt, error) {
	attempts, err := s.attempts.ListAttempts(ctx, competitionID)
	if err != nil {
		return nil, ErrInternalSE().SetDebug(err)
	}
	return attempts, nil
}
