package submqueue

import (
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is bumped whenever a field of the two pipeline messages
// changes meaning. Both processes refuse messages from a different version.
const SchemaVersion = 1

// Verdict is the judge's classification of an attempt.
type Verdict string

const (
	VerdictPending             Verdict = "pending"
	VerdictAccepted            Verdict = "accepted"
	VerdictWrongAnswer         Verdict = "wrong_answer"
	VerdictTimeLimitExceeded   Verdict = "time_limit_exceeded"
	VerdictMemoryLimitExceeded Verdict = "memory_limit_exceeded"
	VerdictRuntimeError        Verdict = "runtime_error"
	VerdictCompilationError    Verdict = "compilation_error"
	VerdictInternalError       Verdict = "internal_error"
)

func (v Verdict) IsValid() bool {
	switch v {
	case VerdictPending, VerdictAccepted, VerdictWrongAnswer,
		VerdictTimeLimitExceeded, VerdictMemoryLimitExceeded,
		VerdictRuntimeError, VerdictCompilationError, VerdictInternalError:
		return true
	}
	return false
}

// SubmissionCommand is published by the API process and consumed once by the
// worker. Field names are the wire contract between the two processes.
type SubmissionCommand struct {
	Version       int       `json:"version"`
	CorrelationID uuid.UUID `json:"correlationId"`
	ConnectionID  string    `json:"connectionId"`
	GroupID       uuid.UUID `json:"groupId"`
	ExerciseID    uuid.UUID `json:"exerciseId"`
	CompetitionID uuid.UUID `json:"competitionId"`
	Code          string    `json:"code"`
	Language      string    `json:"language"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

// SubmissionResult is published by the worker and consumed once by the API
// process's result relay. CorrelationID and ConnectionID are echoed from the
// command unchanged.
type SubmissionResult struct {
	Version       int       `json:"version"`
	CorrelationID uuid.UUID `json:"correlationId"`
	ConnectionID  string    `json:"connectionId"`
	CompetitionID uuid.UUID `json:"competitionId"`
	GroupID       uuid.UUID `json:"groupId"`

	// Success reports whether submission processing completed, not whether
	// the code passed judging.
	Success      bool   `json:"success"`
	ErrorMessage string `json:"errorMessage,omitempty"`

	// AttemptID is set only when Success is true; omitempty does not fire
	// for array types, so the field is a pointer.
	AttemptID *uuid.UUID `json:"attemptId,omitempty"`
	Accepted  bool       `json:"accepted"`
	Verdict   Verdict    `json:"judgeResponse"`

	// ExecutionTimeMs is the judge-measured execution time in milliseconds.
	ExecutionTimeMs int64 `json:"executionTime"`

	// Post-recomputation ranking snapshot for the submitting group.
	// Penalty is in seconds on the wire.
	RankOrder       int     `json:"rankOrder"`
	Points          float64 `json:"points"`
	PenaltySeconds  float64 `json:"penalty"`
	SolvedExercises int     `json:"solvedExercises"`
}

// ExecutionTime returns the judge-measured execution time as a duration.
func (r *SubmissionResult) ExecutionTime() time.Duration {
	return time.Duration(r.ExecutionTimeMs) * time.Millisecond
}

// Penalty returns the ranking penalty as a duration.
func (r *SubmissionResult) Penalty() time.Duration {
	return time.Duration(r.PenaltySeconds * float64(time.Second))
}
