package contest

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemRepo is an in-memory Repo used by tests and local development.
type InMemRepo struct {
	mu            sync.RWMutex
	competitions  map[uuid.UUID]Competition
	exercises     map[uuid.UUID]Exercise
	registrations map[uuid.UUID]map[uuid.UUID]Group // competition id -> group id -> group
}

func NewInMemRepo() *InMemRepo {
	return &InMemRepo{
		competitions:  make(map[uuid.UUID]Competition),
		exercises:     make(map[uuid.UUID]Exercise),
		registrations: make(map[uuid.UUID]map[uuid.UUID]Group),
	}
}

func (r *InMemRepo) PutCompetition(c Competition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.competitions[c.ID] = c
}

func (r *InMemRepo) PutExercise(e Exercise) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exercises[e.ID] = e
}

func (r *InMemRepo) Register(competitionID uuid.UUID, g Group) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.registrations[competitionID] == nil {
		r.registrations[competitionID] = make(map[uuid.UUID]Group)
	}
	r.registrations[competitionID][g.ID] = g
}

func (r *InMemRepo) GetCompetition(ctx context.Context, id uuid.UUID) (Competition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.competitions[id]
	if !ok {
		return Competition{}, ErrCompetitionNotFound
	}
	return c, nil
}

func (r *InMemRepo) GetExercise(ctx context.Context, id uuid.UUID) (Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.exercises[id]
	if !ok {
		return Exercise{}, ErrExerciseNotFound
	}
	return e, nil
}

func (r *InMemRepo) GetRegisteredGroup(ctx context.Context, competitionID, groupID uuid.UUID) (Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.registrations[competitionID][groupID]
	if !ok {
		return Group{}, ErrGroupNotRegistered
	}
	return g, nil
}

func (r *InMemRepo) ListRegisteredGroups(ctx context.Context, competitionID uuid.UUID) ([]Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	groups := make([]Group, 0, len(r.registrations[competitionID]))
	for _, g := range r.registrations[competitionID] {
		groups = append(groups, g)
	}
	return groups, nil
}

func (r *InMemRepo) ListExercises(ctx context.Context, competitionID uuid.UUID) ([]Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var exercises []Exercise
	for _, e := range r.exercises {
		if e.CompetitionID == competitionID {
			exercises = append(exercises, e)
		}
	}
	return exercises, nil
}
