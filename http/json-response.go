package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/codearena/backend/srvcerror"
)

// JsonResponse is the envelope every endpoint answers with. Data is set on
// success; code and message are set on error.
type JsonResponse struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	ErrCode string `json:"code,omitempty"`
	ErrMsg  string `json:"message,omitempty"`
}

func writeJson(w http.ResponseWriter, statusCode int, resp JsonResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode json response", "error", err)
	}
}

func writeJsonSuccessResponse(w http.ResponseWriter, data any) {
	writeJson(w, http.StatusOK, JsonResponse{Status: "success", Data: data})
}

func writeJsonErrorResponse(w http.ResponseWriter, errMsg string, statusCode int, errCode string) {
	writeJson(w, statusCode, JsonResponse{Status: "error", ErrCode: errCode, ErrMsg: errMsg})
}

func writeJsonInternalServerError(w http.ResponseWriter) {
	writeJsonErrorResponse(w,
		http.StatusText(http.StatusInternalServerError),
		http.StatusInternalServerError,
		"internal_server_error")
}

// handleJsonSrvcError maps a service error onto the envelope. Anything that
// is not a *srvcerror.Error is an internal error and its detail stays out of
// the response.
func handleJsonSrvcError(logger *slog.Logger, w http.ResponseWriter, err error) {
	var srvcErr *srvcerror.Error
	if !errors.As(err, &srvcErr) {
		logger.Error("internal server error", "error", err)
		writeJsonInternalServerError(w)
		return
	}

	if srvcErr.HttpStatusCode() >= http.StatusInternalServerError {
		logger.Error("internal server error", "error", err, "debug", srvcErr.DebugInfo())
	} else {
		logger.Warn("request rejected", "code", srvcErr.ErrorCode(), "error", err)
	}
	writeJsonErrorResponse(w, srvcErr.Error(), srvcErr.HttpStatusCode(), srvcErr.ErrorCode())
}
