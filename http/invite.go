package http

import (
	"errors"
	"net/http"

	"github.com/codearena/backend/auth"
	"github.com/codearena/backend/invitetoken"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
)

type createInviteResponse struct {
	Token string `json:"token"`
}

type lookupInviteResponse struct {
	IssuedBy string `json:"issuedBy"`
}

func (s *HttpServer) createInvite(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	claims := claimsFromContext(r.Context())
	if claims == nil || !claims.HasRole(auth.RoleTeacher) {
		writeJsonErrorResponse(w, "only teachers can create invites",
			http.StatusForbidden, "forbidden")
		return
	}

	token, err := s.invites.Create(r.Context(), claims.Username)
	if err != nil {
		logger.Error("failed to create invite token", "error", err)
		writeJsonInternalServerError(w)
		return
	}
	writeJsonSuccessResponse(w, createInviteResponse{Token: token})
}

func (s *HttpServer) lookupInvite(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	token := chi.URLParam(r, "token")
	issuedBy, err := s.invites.Lookup(r.Context(), token)
	if errors.Is(err, invitetoken.ErrTokenNotFound) {
		writeJsonErrorResponse(w, "invite token not found or expired",
			http.StatusNotFound, "invite_not_found")
		return
	}
	if err != nil {
		logger.Error("failed to look up invite token", "error", err)
		writeJsonInternalServerError(w)
		return
	}
	writeJsonSuccessResponse(w, lookupInviteResponse{IssuedBy: issuedBy})
}
