package http

import (
	"net/http"
	"time"

	"github.com/codearena/backend/subm"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/google/uuid"
)

// Attempt is one judged attempt as served to clients. The submitted code is
// deliberately not exposed on the listing endpoint.
type Attempt struct {
	ID              string `json:"id"`
	GroupID         string `json:"groupId"`
	ExerciseID      string `json:"exerciseId"`
	Language        string `json:"language"`
	SubmittedAt     string `json:"submittedAt"`
	ExecutionTimeMs int64  `json:"executionTime"`
	Accepted        bool   `json:"accepted"`
	Verdict         string `json:"judgeResponse"`
}

func (s *HttpServer) listAttempts(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	competitionID, err := uuid.Parse(chi.URLParam(r, "competitionId"))
	if err != nil {
		writeJsonErrorResponse(w, "invalid competition id",
			http.StatusBadRequest, "invalid_competition_id")
		return
	}

	attempts, err := s.submSrvc.Attempts(r.Context(), competitionID)
	if err != nil {
		handleJsonSrvcError(logger, w, err)
		return
	}

	mapAttempt := func(a subm.Attempt) Attempt {
		return Attempt{
			ID:              a.ID.String(),
			GroupID:         a.GroupID.String(),
			ExerciseID:      a.ExerciseID.String(),
			Language:        a.Language,
			SubmittedAt:     a.SubmittedAt.Format(time.RFC3339),
			ExecutionTimeMs: a.ExecutionTime.Milliseconds(),
			Accepted:        a.Accepted,
			Verdict:         string(a.Verdict),
		}
	}

	response := make([]Attempt, len(attempts))
	for i, a := range attempts {
		response[i] = mapAttempt(a)
	}
	writeJsonSuccessResponse(w, response)
}
