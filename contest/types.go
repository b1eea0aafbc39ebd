package contest

import (
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle state of a competition. Only Ongoing competitions
// accept submissions.
type State string

const (
	StatePending            State = "pending"
	StateOpenInscriptions   State = "open_inscriptions"
	StateClosedInscriptions State = "closed_inscriptions"
	StateOngoing            State = "ongoing"
	StateFinished           State = "finished"
)

func (s State) IsValid() bool {
	switch s {
	case StatePending, StateOpenInscriptions, StateClosedInscriptions,
		StateOngoing, StateFinished:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
// The lifecycle is strictly forward: Pending -> OpenInscriptions ->
// ClosedInscriptions -> Ongoing -> Finished.
func (s State) CanTransitionTo(next State) bool {
	order := map[State]int{
		StatePending:            0,
		StateOpenInscriptions:   1,
		StateClosedInscriptions: 2,
		StateOngoing:            3,
		StateFinished:           4,
	}
	a, ok1 := order[s]
	b, ok2 := order[next]
	return ok1 && ok2 && b == a+1
}

type Competition struct {
	ID    uuid.UUID
	Title string
	State State

	// StartedAt is when the competition entered the Ongoing state. Elapsed
	// time penalties are measured from this instant.
	StartedAt time.Time

	// SubmissionPenalty is the time cost added per rejected attempt that
	// precedes the first accepted one on an exercise.
	SubmissionPenalty time.Duration
}

type Group struct {
	ID      uuid.UUID
	Name    string
	Blocked bool
}

type Exercise struct {
	ID            uuid.UUID
	CompetitionID uuid.UUID
	Title         string

	// ProblemRef identifies the exercise's test data on the external judge.
	ProblemRef string

	// Weight is the points awarded for solving this exercise.
	Weight float64
}

// Standing is one row of a competition's ranking: the snapshot persisted for
// one (competition, group) pair and recomputed after every judged attempt.
type Standing struct {
	CompetitionID   uuid.UUID
	GroupID         uuid.UUID
	RankOrder       int
	Points          float64
	Penalty         time.Duration
	SolvedExercises int

	// LastAcceptedAt is the submission time of the group's latest accepted
	// attempt, zero if the group has not solved anything yet.
	LastAcceptedAt time.Time
}
