package http

import (
	"log/slog"
	"net/http"

	"github.com/codearena/backend/invitetoken"
	"github.com/codearena/backend/subm"
	"github.com/codearena/backend/wshub"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
)

type HttpServer struct {
	submSrvc *subm.SubmissionSrvc
	invites  *invitetoken.Store
	hub      *wshub.Hub
	router   *chi.Mux
}

func NewHttpServer(
	submSrvc *subm.SubmissionSrvc,
	invites *invitetoken.Store,
	hub *wshub.Hub,
	jwtKey []byte,
) *HttpServer {
	router := chi.NewRouter()

	logger := httplog.NewLogger("codearena", httplog.Options{
		LogLevel:         slog.LevelDebug,
		Concise:          true,
		RequestHeaders:   true,
		MessageFieldName: "message",
	})

	router.Use(httplog.RequestLogger(logger))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           3000,
	}))

	router.Use(getJwtAuthMiddleware(jwtKey))

	server := &HttpServer{
		submSrvc: submSrvc,
		invites:  invites,
		hub:      hub,
		router:   router,
	}

	server.routes()

	return server
}

func (s *HttpServer) Start(address string) error {
	return http.ListenAndServe(address, s.router)
}

func (s *HttpServer) Router() http.Handler {
	return s.router
}

func (s *HttpServer) routes() {
	r := s.router
	r.Post("/submissions", s.createSubmission)
	r.Get("/competitions/{competitionId}/standings", s.getStandings)
	r.Get("/competitions/{competitionId}/attempts", s.listAttempts)
	r.Get("/languages", s.listLanguages)
	r.Post("/invites", s.createInvite)
	r.Get("/invites/{token}", s.lookupInvite)
	r.Get("/ws", s.attachWebsocket)
}
