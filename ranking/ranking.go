// Package ranking computes a competition's standings from its full attempt
// history. The computation is a pure function over its inputs: running it
// twice on the same attempt set yields identical output, so it is safe to
// recompute after every judged attempt.
package ranking

import (
	"sort"
	"strings"
	"time"

	"github.com/codearena/backend/contest"
	"github.com/codearena/backend/subm"
	"github.com/google/uuid"
)

// Compute returns one standing per eligible (non-blocked) registered group,
// ranked ICPC-style:
//
//  1. solved = count of distinct exercises with at least one accepted attempt
//  2. points = sum of exercise weights over solved exercises
//  3. penalty = per solved exercise, rejected attempts before the first
//     accepted one times the competition's submission penalty, plus the
//     elapsed time from competition start to the first accepted attempt
//  4. order by points desc, penalty asc, earliest last-accepted time asc,
//     group id asc
//
// Attempts by unregistered or blocked groups and attempts against exercises
// outside the competition are ignored. An empty competition yields an empty
// ranking.
func Compute(
	comp contest.Competition,
	groups []contest.Group,
	exercises []contest.Exercise,
	attempts []subm.Attempt,
) []contest.Standing {
	weights := make(map[uuid.UUID]float64, len(exercises))
	for _, e := range exercises {
		if e.CompetitionID == comp.ID {
			weights[e.ID] = e.Weight
		}
	}

	eligible := make(map[uuid.UUID]bool, len(groups))
	for _, g := range groups {
		if !g.Blocked {
			eligible[g.ID] = true
		}
	}

	// Sort a copy of the attempt history so "before the first accepted
	// attempt" is well defined regardless of input order.
	hist := make([]subm.Attempt, 0, len(attempts))
	for _, a := range attempts {
		if a.CompetitionID != comp.ID || !eligible[a.GroupID] {
			continue
		}
		if _, ok := weights[a.ExerciseID]; !ok {
			continue
		}
		hist = append(hist, a)
	}
	sort.Slice(hist, func(i, j int) bool {
		if !hist[i].SubmittedAt.Equal(hist[j].SubmittedAt) {
			return hist[i].SubmittedAt.Before(hist[j].SubmittedAt)
		}
		return hist[i].ID.String() < hist[j].ID.String()
	})

	type cell struct {
		rejectsBeforeAccept int
		firstAcceptAt       time.Time
		solved              bool
	}
	cells := make(map[uuid.UUID]map[uuid.UUID]*cell) // group -> exercise

	for _, a := range hist {
		byEx := cells[a.GroupID]
		if byEx == nil {
			byEx = make(map[uuid.UUID]*cell)
			cells[a.GroupID] = byEx
		}
		c := byEx[a.ExerciseID]
		if c == nil {
			c = &cell{}
			byEx[a.ExerciseID] = c
		}
		if c.solved {
			continue // attempts after the first accepted one carry no cost
		}
		if a.Accepted {
			c.solved = true
			c.firstAcceptAt = a.SubmittedAt
		} else {
			c.rejectsBeforeAccept++
		}
	}

	standings := make([]contest.Standing, 0, len(groups))
	for _, g := range groups {
		if g.Blocked {
			continue
		}
		s := contest.Standing{
			CompetitionID: comp.ID,
			GroupID:       g.ID,
		}
		for exID, c := range cells[g.ID] {
			if !c.solved {
				continue
			}
			s.SolvedExercises++
			s.Points += weights[exID]
			s.Penalty += time.Duration(c.rejectsBeforeAccept) * comp.SubmissionPenalty
			s.Penalty += c.firstAcceptAt.Sub(comp.StartedAt)
			if c.firstAcceptAt.After(s.LastAcceptedAt) {
				s.LastAcceptedAt = c.firstAcceptAt
			}
		}
		standings = append(standings, s)
	}

	sort.Slice(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Penalty != b.Penalty {
			return a.Penalty < b.Penalty
		}
		if !a.LastAcceptedAt.Equal(b.LastAcceptedAt) {
			return a.LastAcceptedAt.Before(b.LastAcceptedAt)
		}
		return strings.Compare(a.GroupID.String(), b.GroupID.String()) < 0
	})

	for i := range standings {
		standings[i].RankOrder = i + 1
	}
	return standings
}
