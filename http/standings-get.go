package http

import (
	"net/http"
	"time"

	"github.com/codearena/backend/contest"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/google/uuid"
)

// Standing is one row of a competition's standings as served to clients.
type Standing struct {
	GroupID         string  `json:"groupId"`
	RankOrder       int     `json:"rankOrder"`
	Points          float64 `json:"points"`
	PenaltySeconds  float64 `json:"penalty"`
	SolvedExercises int     `json:"solvedExercises"`
	LastAcceptedAt  *string `json:"lastAcceptedAt,omitempty"`
}

func (s *HttpServer) getStandings(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	competitionID, err := uuid.Parse(chi.URLParam(r, "competitionId"))
	if err != nil {
		writeJsonErrorResponse(w, "invalid competition id",
			http.StatusBadRequest, "invalid_competition_id")
		return
	}

	standings, err := s.submSrvc.Standings(r.Context(), competitionID)
	if err != nil {
		handleJsonSrvcError(logger, w, err)
		return
	}

	mapStanding := func(s contest.Standing) Standing {
		row := Standing{
			GroupID:         s.GroupID.String(),
			RankOrder:       s.RankOrder,
			Points:          s.Points,
			PenaltySeconds:  s.Penalty.Seconds(),
			SolvedExercises: s.SolvedExercises,
		}
		if !s.LastAcceptedAt.IsZero() {
			t := s.LastAcceptedAt.Format(time.RFC3339)
			row.LastAcceptedAt = &t
		}
		return row
	}

	response := make([]Standing, len(standings))
	for i, row := range standings {
		response[i] = mapStanding(row)
	}
	writeJsonSuccessResponse(w, response)
}
