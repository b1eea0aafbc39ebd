package http

import (
	"net/http"

	"github.com/codearena/backend/langlist"
	"github.com/go-chi/httplog/v2"
)

// Language is a judge-supported programming language as served to clients.
type Language struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	MonacoID string `json:"monacoId"`
}

func (s *HttpServer) listLanguages(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	langs, err := langlist.ListEnabled()
	if err != nil {
		logger.Error("failed to load language catalog", "error", err)
		writeJsonInternalServerError(w)
		return
	}

	response := make([]Language, len(langs))
	for i, l := range langs {
		response[i] = Language{
			ID:       l.ID,
			FullName: l.FullName,
			MonacoID: l.MonacoID,
		}
	}
	writeJsonSuccessResponse(w, response)
}
