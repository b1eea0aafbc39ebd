package http

import (
	"encoding/json"
	"net/http"

	"github.com/codearena/backend/subm"
	"github.com/go-chi/httplog/v2"
	"github.com/google/uuid"
)

type createSubmissionRequest struct {
	CompetitionID string `json:"competitionId"`
	GroupID       string `json:"groupId"`
	ExerciseID    string `json:"exerciseId"`
	Language      string `json:"language"`
	Code          string `json:"code"`
	ConnectionID  string `json:"connectionId"`
}

type createSubmissionResponse struct {
	CorrelationID string `json:"correlationId"`
}

func (s *HttpServer) createSubmission(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeJsonErrorResponse(w, "authentication required",
			http.StatusUnauthorized, "unauthorized_access")
		return
	}

	var req createSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonErrorResponse(w, "invalid request body",
			http.StatusBadRequest, "invalid_request_body")
		return
	}

	competitionID, err1 := uuid.Parse(req.CompetitionID)
	groupID, err2 := uuid.Parse(req.GroupID)
	exerciseID, err3 := uuid.Parse(req.ExerciseID)
	if err1 != nil || err2 != nil || err3 != nil {
		writeJsonErrorResponse(w, "invalid identifier in request body",
			http.StatusBadRequest, "invalid_request_body")
		return
	}

	correlationID, err := s.submSrvc.Submit(r.Context(), subm.SubmitRequest{
		CompetitionID: competitionID,
		GroupID:       groupID,
		ExerciseID:    exerciseID,
		Language:      req.Language,
		Code:          req.Code,
		ConnectionID:  req.ConnectionID,
	})
	if err != nil {
		handleJsonSrvcError(logger, w, err)
		return
	}

	writeJsonSuccessResponse(w, createSubmissionResponse{
		CorrelationID: correlationID.String(),
	})
}
