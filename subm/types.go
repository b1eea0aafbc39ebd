package subm

import (
	"time"

	"github.com/codearena/backend/submqueue"
	"github.com/google/uuid"
)

// Attempt is one judged submission of code against one exercise by one
// group. Attempts are append-only: created once by the worker when the judge
// verdict arrives, never mutated, never deleted.
type Attempt struct {
	ID            uuid.UUID
	CompetitionID uuid.UUID
	GroupID       uuid.UUID
	ExerciseID    uuid.UUID

	Code     string
	Language string

	SubmittedAt   time.Time
	ExecutionTime time.Duration

	Accepted bool
	Verdict  submqueue.Verdict
}
