// Package worker consumes submission commands, drives them through judging,
// persistence and ranking recomputation, and produces submission results.
package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/codearena/backend/contest"
	"github.com/codearena/backend/judge"
	"github.com/codearena/backend/logger"
	"github.com/codearena/backend/ranking"
	"github.com/codearena/backend/subm"
	"github.com/codearena/backend/submqueue"
	"github.com/google/uuid"
)

// values for the "state" log attribute marking processing progress
const (
	stateReceived = "received"
	stateJudging  = "judging"
	stateRanked   = "ranked"
	stateFailed   = "failed"
)

type Consumer struct {
	contests contest.Repo
	attempts subm.AttemptRepo
	judge    judge.Client
	locks    CompetitionLocker
}

func NewConsumer(contests contest.Repo, attempts subm.AttemptRepo, judgeClient judge.Client, locks CompetitionLocker) *Consumer {
	return &Consumer{
		contests: contests,
		attempts: attempts,
		judge:    judgeClient,
		locks:    locks,
	}
}

// Handle processes one submission command to a terminal outcome.
//
// A non-nil result with a nil error is terminal: the caller publishes it and
// acknowledges the message. Validation failures are terminal too — they come
// back as a result with Success=false and are never retried. A nil result
// with a non-nil error is transient (judge outage, database outage, shutdown
// cancellation): the caller leaves the message unacknowledged so the
// transport redelivers it.
func (c *Consumer) Handle(ctx context.Context, cmd submqueue.SubmissionCommand) (*submqueue.SubmissionResult, error) {
	log := logger.FromContext(ctx)
	log.Info("processing submission command", "state", stateReceived,
		"competition_id", cmd.CompetitionID, "group_id", cmd.GroupID)

	comp, exercise, failMsg, err := c.validate(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if failMsg != "" {
		log.Info("submission rejected", "state", stateFailed, "reason", failMsg)
		return failureResult(cmd, failMsg), nil
	}

	log.Info("submitting to judge", "state", stateJudging,
		"problem_ref", exercise.ProblemRef, "language", cmd.Language)
	verdict, execTime, err := c.judge.Submit(ctx, exercise.ProblemRef, cmd.Code, cmd.Language)
	if err != nil {
		if ctx.Err() != nil {
			// Shutting down: the command must be requeued, not dropped.
			return nil, ctx.Err()
		}
		if errors.Is(err, judge.ErrJudgeTimeout) || errors.Is(err, judge.ErrJudgeUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("judge call failed: %w", err)
	}

	attemptID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate attempt id: %w", err)
	}
	attempt := subm.Attempt{
		ID:            attemptID,
		CompetitionID: cmd.CompetitionID,
		GroupID:       cmd.GroupID,
		ExerciseID:    cmd.ExerciseID,
		Code:          cmd.Code,
		Language:      cmd.Language,
		SubmittedAt:   cmd.SubmittedAt,
		ExecutionTime: execTime,
		Accepted:      verdict == submqueue.VerdictAccepted,
		Verdict:       verdict,
	}

	// Ranking recomputation for one competition is single-writer: without
	// the lock two workers could interleave their read-compute-write cycles
	// and persist stale rank orders.
	release, err := c.locks.Lock(ctx, cmd.CompetitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock competition: %w", err)
	}
	defer release()

	standings, err := c.persistAndRank(ctx, comp, attempt)
	if err != nil {
		return nil, err
	}
	log.Info("attempt persisted and ranking updated", "state", stateRanked,
		"attempt_id", attempt.ID, "verdict", verdict)

	res := &submqueue.SubmissionResult{
		CorrelationID:   cmd.CorrelationID,
		ConnectionID:    cmd.ConnectionID,
		CompetitionID:   cmd.CompetitionID,
		GroupID:         cmd.GroupID,
		Success:         true,
		AttemptID:       &attempt.ID,
		Accepted:        attempt.Accepted,
		Verdict:         verdict,
		ExecutionTimeMs: execTime.Milliseconds(),
	}
	for _, s := range standings {
		if s.GroupID == cmd.GroupID {
			res.RankOrder = s.RankOrder
			res.Points = s.Points
			res.PenaltySeconds = s.Penalty.Seconds()
			res.SolvedExercises = s.SolvedExercises
			break
		}
	}
	return res, nil
}

// validate re-checks the command against current competition state; the state
// may have changed since the API accepted it. A non-empty failMsg is a
// terminal rejection; err is a transient store error.
func (c *Consumer) validate(ctx context.Context, cmd submqueue.SubmissionCommand) (comp contest.Competition, exercise contest.Exercise, failMsg string, err error) {
	comp, err = c.contests.GetCompetition(ctx, cmd.CompetitionID)
	if errors.Is(err, contest.ErrCompetitionNotFound) {
		return comp, exercise, "competition not found", nil
	}
	if err != nil {
		return comp, exercise, "", fmt.Errorf("failed to load competition: %w", err)
	}
	if comp.State != contest.StateOngoing {
		return comp, exercise,
			fmt.Sprintf("competition is not accepting submissions (state: %s)", comp.State), nil
	}

	group, err := c.contests.GetRegisteredGroup(ctx, cmd.CompetitionID, cmd.GroupID)
	if errors.Is(err, contest.ErrGroupNotRegistered) {
		return comp, exercise, "group is not registered in the competition", nil
	}
	if err != nil {
		return comp, exercise, "", fmt.Errorf("failed to load group: %w", err)
	}
	if group.Blocked {
		return comp, exercise, "group is blocked", nil
	}

	exercise, err = c.contests.GetExercise(ctx, cmd.ExerciseID)
	if errors.Is(err, contest.ErrExerciseNotFound) {
		return comp, exercise, "exercise not found", nil
	}
	if err != nil {
		return comp, exercise, "", fmt.Errorf("failed to load exercise: %w", err)
	}
	if exercise.CompetitionID != cmd.CompetitionID {
		return comp, exercise, "exercise does not belong to the competition", nil
	}
	return comp, exercise, "", nil
}

// persistAndRank recomputes the standings including the new attempt and
// stores both in one transaction. Must be called under the competition lock.
func (c *Consumer) persistAndRank(ctx context.Context, comp contest.Competition, attempt subm.Attempt) ([]contest.Standing, error) {
	groups, err := c.contests.ListRegisteredGroups(ctx, comp.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	exercises, err := c.contests.ListExercises(ctx, comp.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	history, err := c.attempts.ListAttempts(ctx, comp.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	history = append(history, attempt)

	standings := ranking.Compute(comp, groups, exercises, history)

	if err := c.attempts.StoreAttemptWithStandings(ctx, attempt, standings); err != nil {
		return nil, fmt.Errorf("failed to store attempt with standings: %w", err)
	}
	return standings, nil
}

func failureResult(cmd submqueue.SubmissionCommand, msg string) *submqueue.SubmissionResult {
	return &submqueue.SubmissionResult{
		CorrelationID: cmd.CorrelationID,
		ConnectionID:  cmd.ConnectionID,
		CompetitionID: cmd.CompetitionID,
		GroupID:       cmd.GroupID,
		Success:       false,
		ErrorMessage:  msg,
		Verdict:       submqueue.VerdictPending,
	}
}
