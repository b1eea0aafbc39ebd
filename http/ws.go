package http

import (
	"net/http"

	"github.com/go-chi/httplog/v2"
)

// attachWebsocket upgrades the request and hands the connection to the hub.
// The client receives its connection id as the first frame and puts it into
// subsequent submission requests.
func (s *HttpServer) attachWebsocket(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())
	if err := s.hub.Attach(w, r); err != nil {
		logger.Error("failed to attach websocket", "error", err)
	}
}
