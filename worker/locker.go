package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CompetitionLocker serializes ranking writes per competition. Multiple
// workers may judge submissions of the same competition concurrently; only
// the persist-and-rank critical section is mutually exclusive.
type CompetitionLocker interface {
	// Lock blocks until the competition's lock is held or ctx is done.
	// The returned release function is safe to call once.
	Lock(ctx context.Context, competitionID uuid.UUID) (release func(), err error)
}

const (
	lockKeyPrefix    = "ranklock:"
	lockTTL          = 30 * time.Second
	lockPollInterval = 100 * time.Millisecond
)

// releaseScript deletes the lock key only if this holder still owns it, so
// an expired lock taken over by another worker is never released by us.
var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

type redisLocker struct {
	rdb *redis.Client
}

func NewRedisLocker(rdb *redis.Client) CompetitionLocker {
	return &redisLocker{rdb: rdb}
}

func (l *redisLocker) Lock(ctx context.Context, competitionID uuid.UUID) (func(), error) {
	key := lockKeyPrefix + competitionID.String()
	holder := uuid.NewString()

	for {
		ok, err := l.rdb.SetNX(ctx, key, holder, lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire competition lock: %w", err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockPollInterval):
		}
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		releaseScript.Run(ctx, l.rdb, []string{key}, holder)
	}
	return release, nil
}

// InMemLocker is a process-local CompetitionLocker used by tests.
type InMemLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewInMemLocker() *InMemLocker {
	return &InMemLocker{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *InMemLocker) Lock(ctx context.Context, competitionID uuid.UUID) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[competitionID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[competitionID] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock, nil
}
