package subm

import (
	"context"
	"sort"
	"sync"

	"github.com/codearena/backend/contest"
	"github.com/google/uuid"
)

// InMemAttemptRepo is an in-memory AttemptRepo used by tests.
type InMemAttemptRepo struct {
	mu        sync.RWMutex
	attempts  map[uuid.UUID][]Attempt          // competition id -> attempts
	standings map[uuid.UUID][]contest.Standing // competition id -> ranking rows
}

func NewInMemAttemptRepo() *InMemAttemptRepo {
	return &InMemAttemptRepo{
		attempts:  make(map[uuid.UUID][]Attempt),
		standings: make(map[uuid.UUID][]contest.Standing),
	}
}

func (r *InMemAttemptRepo) StoreAttemptWithStandings(ctx context.Context, attempt Attempt, standings []contest.Standing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts[attempt.CompetitionID] = append(r.attempts[attempt.CompetitionID], attempt)
	rows := make([]contest.Standing, len(standings))
	copy(rows, standings)
	r.standings[attempt.CompetitionID] = rows
	return nil
}

func (r *InMemAttemptRepo) ListAttempts(ctx context.Context, competitionID uuid.UUID) ([]Attempt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	attempts := make([]Attempt, len(r.attempts[competitionID]))
	copy(attempts, r.attempts[competitionID])
	sort.Slice(attempts, func(i, j int) bool {
		return attempts[i].SubmittedAt.Before(attempts[j].SubmittedAt)
	})
	return attempts, nil
}

func (r *InMemAttemptRepo) ListStandings(ctx context.Context, competitionID uuid.UUID) ([]contest.Standing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	standings := make([]contest.Standing, len(r.standings[competitionID]))
	copy(standings, r.standings[competitionID])
	sort.Slice(standings, func(i, j int) bool {
		return standings[i].RankOrder < standings[j].RankOrder
	})
	return standings, nil
}

func (r *InMemAttemptRepo) GetStanding(ctx context.Context, competitionID, groupID uuid.UUID) (contest.Standing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.standings[competitionID] {
		if s.GroupID == groupID {
			return s, nil
		}
	}
	return contest.Standing{}, ErrStandingNotFound
}
