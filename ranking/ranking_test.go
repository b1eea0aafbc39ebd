package ranking_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/codearena/backend/contest"
	"github.com/codearena/backend/ranking"
	"github.com/codearena/backend/subm"
	"github.com/codearena/backend/submqueue"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var compStart = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func newCompetition() contest.Competition {
	return contest.Competition{
		ID:                uuid.New(),
		Title:             "Spring Qualifier",
		State:             contest.StateOngoing,
		StartedAt:         compStart,
		SubmissionPenalty: 20 * time.Minute,
	}
}

func attempt(comp contest.Competition, group contest.Group, ex contest.Exercise, minutes int, accepted bool) subm.Attempt {
	verdict := submqueue.VerdictWrongAnswer
	if accepted {
		verdict = submqueue.VerdictAccepted
	}
	return subm.Attempt{
		ID:            uuid.New(),
		CompetitionID: comp.ID,
		GroupID:       group.ID,
		ExerciseID:    ex.ID,
		Code:          "int main() {}",
		Language:      "cpp17",
		SubmittedAt:   compStart.Add(time.Duration(minutes) * time.Minute),
		Accepted:      accepted,
		Verdict:       verdict,
	}
}

// One group, two exercises. On the first exercise the group is rejected twice
// before being accepted at minute 5, on the second it is accepted at minute 15
// on the first try. Expected penalty: 2*20min + 5min + 15min = 60min.
func TestComputePenaltyFormula(t *testing.T) {
	comp := newCompetition()
	group := contest.Group{ID: uuid.New(), Name: "the-owls"}
	exA := contest.Exercise{ID: uuid.New(), CompetitionID: comp.ID, Title: "A", Weight: 1}
	exB := contest.Exercise{ID: uuid.New(), CompetitionID: comp.ID, Title: "B", Weight: 1}

	attempts := []subm.Attempt{
		attempt(comp, group, exA, 1, false),
		attempt(comp, group, exA, 3, false),
		attempt(comp, group, exA, 5, true),
		attempt(comp, group, exB, 15, true),
	}

	standings := ranking.Compute(comp,
		[]contest.Group{group},
		[]contest.Exercise{exA, exB},
		attempts)

	require.Len(t, standings, 1)
	s := standings[0]
	require.Equal(t, 1, s.RankOrder)
	require.Equal(t, 2, s.SolvedExercises)
	require.Equal(t, 2.0, s.Points)
	require.Equal(t, 60*time.Minute, s.Penalty)
	require.Equal(t, compStart.Add(15*time.Minute), s.LastAcceptedAt)
}

// Rejected attempts submitted after the first accepted one must not add
// penalty, and resubmitting an already solved exercise must not change points.
func TestComputeIgnoresAttemptsAfterAccept(t *testing.T) {
	comp := newCompetition()
	group := contest.Group{ID: uuid.New(), Name: "solo"}
	ex := contest.Exercise{ID: uuid.New(), CompetitionID: comp.ID, Title: "A", Weight: 1}

	attempts := []subm.Attempt{
		attempt(comp, group, ex, 10, true),
		attempt(comp, group, ex, 20, false),
		attempt(comp, group, ex, 30, true),
	}

	standings := ranking.Compute(comp,
		[]contest.Group{group}, []contest.Exercise{ex}, attempts)

	require.Len(t, standings, 1)
	require.Equal(t, 1, standings[0].SolvedExercises)
	require.Equal(t, 1.0, standings[0].Points)
	require.Equal(t, 10*time.Minute, standings[0].Penalty)
}

func TestComputeOrdering(t *testing.T) {
	// test plan:
	// - alfa solves both exercises -> most points, rank 1
	// - bravo and charlie each solve one; bravo has a rejected attempt,
	//   so the penalty tie-break puts charlie ahead
	// - delta solves nothing but is still listed, last
	comp := newCompetition()
	alfa := contest.Group{ID: uuid.New(), Name: "alfa"}
	bravo := contest.Group{ID: uuid.New(), Name: "bravo"}
	charlie := contest.Group{ID: uuid.New(), Name: "charlie"}
	delta := contest.Group{ID: uuid.New(), Name: "delta"}
	exA := contest.Exercise{ID: uuid.New(), CompetitionID: comp.ID, Title: "A", Weight: 1}
	exB := contest.Exercise{ID: uuid.New(), CompetitionID: comp.ID, Title: "B", Weight: 1}

	attempts := []subm.Attempt{
		attempt(comp, alfa, exA, 5, true),
		attempt(comp, alfa, exB, 40, true),
		attempt(comp, bravo, exA, 10, false),
		attempt(comp, bravo, exA, 30, true),
		attempt(comp, charlie, exA, 30, true),
		attempt(comp, delta, exA, 50, false),
	}

	standings := ranking.Compute(comp,
		[]contest.Group{alfa, bravo, charlie, delta},
		[]contest.Exercise{exA, exB},
		attempts)

	require.Len(t, standings, 4)
	require.Equal(t, alfa.ID, standings[0].GroupID)
	require.Equal(t, charlie.ID, standings[1].GroupID)
	require.Equal(t, bravo.ID, standings[2].GroupID)
	require.Equal(t, delta.ID, standings[3].GroupID)
	for i, s := range standings {
		require.Equal(t, i+1, s.RankOrder)
	}
}

func TestComputeEarlierLastAcceptBreaksTies(t *testing.T) {
	comp := newCompetition()
	early := contest.Group{ID: uuid.New(), Name: "early"}
	late := contest.Group{ID: uuid.New(), Name: "late"}
	exA := contest.Exercise{ID: uuid.New(), CompetitionID: comp.ID, Title: "A", Weight: 1}
	exB := contest.Exercise{ID: uuid.New(), CompetitionID: comp.ID, Title: "B", Weight: 1}

	// same points, same total penalty, but early finished its last
	// exercise sooner
	attempts := []subm.Attempt{
		attempt(comp, early, exA, 10, true),
		attempt(comp, early, exB, 20, true),
		attempt(comp, late, exA, 5, true),
		attempt(comp, late, exB, 25, true),
	}

	standings := ranking.Compute(comp,
		[]contest.Group{late, early},
		[]contest.Exercise{exA, exB},
		attempts)

	require.Len(t, standings, 2)
	require.Equal(t, standings[0].Penalty, standings[1].Penalty)
	require.Equal(t, early.ID, standings[0].GroupID)
	require.Equal(t, late.ID, standings[1].GroupID)
}

func TestComputeExcludesBlockedAndForeign(t *testing.T) {
	comp := newCompetition()
	other := newCompetition()
	group := contest.Group{ID: uuid.New(), Name: "fair-play"}
	blocked := contest.Group{ID: uuid.New(), Name: "banned", Blocked: true}
	ex := contest.Exercise{ID: uuid.New(), CompetitionID: comp.ID, Title: "A", Weight: 1}
	foreignEx := contest.Exercise{ID: uuid.New(), CompetitionID: other.ID, Title: "X", Weight: 1}

	attempts := []subm.Attempt{
		attempt(comp, group, ex, 10, true),
		attempt(comp, blocked, ex, 1, true),
		attempt(comp, group, foreignEx, 2, true),
	}

	standings := ranking.Compute(comp,
		[]contest.Group{group, blocked},
		[]contest.Exercise{ex, foreignEx},
		attempts)

	require.Len(t, standings, 1)
	require.Equal(t, group.ID, standings[0].GroupID)
	require.Equal(t, 1, standings[0].SolvedExercises)
}

func TestComputeEmptyCompetition(t *testing.T) {
	comp := newCompetition()
	standings := ranking.Compute(comp, nil, nil, nil)
	require.Empty(t, standings)
}

func TestComputeWeightedPoints(t *testing.T) {
	comp := newCompetition()
	group := contest.Group{ID: uuid.New(), Name: "weights"}
	light := contest.Exercise{ID: uuid.New(), CompetitionID: comp.ID, Title: "A", Weight: 1}
	heavy := contest.Exercise{ID: uuid.New(), CompetitionID: comp.ID, Title: "B", Weight: 2.5}

	attempts := []subm.Attempt{
		attempt(comp, group, light, 10, true),
		attempt(comp, group, heavy, 20, true),
	}

	standings := ranking.Compute(comp,
		[]contest.Group{group},
		[]contest.Exercise{light, heavy},
		attempts)

	require.Len(t, standings, 1)
	require.Equal(t, 3.5, standings[0].Points)
}

// test that the ranking does not depend on the order attempts arrive in
func TestComputeOrderIndependent(t *testing.T) {
	comp := newCompetition()
	groups := []contest.Group{
		{ID: uuid.New(), Name: "g1"},
		{ID: uuid.New(), Name: "g2"},
		{ID: uuid.New(), Name: "g3"},
	}
	exercises := []contest.Exercise{
		{ID: uuid.New(), CompetitionID: comp.ID, Title: "A", Weight: 1},
		{ID: uuid.New(), CompetitionID: comp.ID, Title: "B", Weight: 1},
	}

	attempts := []subm.Attempt{
		attempt(comp, groups[0], exercises[0], 3, false),
		attempt(comp, groups[0], exercises[0], 7, true),
		attempt(comp, groups[0], exercises[1], 50, true),
		attempt(comp, groups[1], exercises[0], 12, true),
		attempt(comp, groups[1], exercises[1], 60, false),
		attempt(comp, groups[2], exercises[1], 90, true),
	}

	want := ranking.Compute(comp, groups, exercises, attempts)

	for i := 0; i < 100; i++ {
		rand.Shuffle(len(attempts), func(a, b int) {
			attempts[a], attempts[b] = attempts[b], attempts[a]
		})
		got := ranking.Compute(comp, groups, exercises, attempts)
		require.Equal(t, want, got)
	}
}
