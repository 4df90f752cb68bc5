package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/users", s.handleListUsers)
		r.Post("/users", s.handleCreateUser)
		r.Get("/users/{id}", s.handleUserDetail)
		r.Get("/users/{id}/stats", s.handleUserStats)
		r.Get("/users/{id}/achievements", s.handleUserAchievements)

		r.Get("/games", s.handleListGames)
		r.Post("/games", s.handleStartGame)
		r.Get("/games/{id}", s.handleGameDetail)
		r.Get("/games/token/{token}", s.handleGameByToken)
		r.Post("/games/{id}/draw", s.handleDrawCard)
		r.Post("/games/{id}/chug", s.handleRecordChug)
		r.Post("/games/{id}/finish", s.handleFinishGame)
		r.Post("/games/{id}/players/{userID}/dnf", s.handlePlayerDNF)

		r.Get("/rankings", s.handleListRankings)
		r.Get("/rankings/{key}", s.handleRankingListing)

		r.Get("/stats/distribution", s.handleDistribution)

		r.Post("/admin/users/{id}/recalculate", s.handleRecalculateUser)
		r.Post("/admin/recalculate", s.handleRecalculateAll)
		r.Post("/admin/dnf-sweep", s.handleDNFSweep)
	})

	return r
}
