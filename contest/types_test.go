package contest_test

import (
	"testing"

	"github.com/codearena/backend/contest"
	"github.com/stretchr/testify/require"
)

func TestStateLifecycleIsStrictlyForward(t *testing.T) {
	order := []contest.State{
		contest.StatePending,
		contest.StateOpenInscriptions,
		contest.StateClosedInscriptions,
		contest.StateOngoing,
		contest.StateFinished,
	}

	for i, from := range order {
		for j, to := range order {
			got := from.CanTransitionTo(to)
			want := j == i+1
			require.Equal(t, want, got, "transition %s -> %s", from, to)
		}
	}
}

func TestStateIsValid(t *testing.T) {
	require.True(t, contest.StateOngoing.IsValid())
	require.False(t, contest.State("paused").IsValid())
	require.False(t, contest.State("").IsValid())
}
