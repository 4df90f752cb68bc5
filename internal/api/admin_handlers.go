package api

import (
	"net/http"

	"github.com/mkrogh/academy/internal/logger"
)

// handleRecalculateUser queues a full history replay for one player.
func (s *Server) handleRecalculateUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if _, err := s.Users.Get(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.Queue.EnqueueRecalculation(id); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusAccepted, map[string]any{"queued": true, "user_id": id})
}

// handleRecalculateAll queues a replay for every known player.
func (s *Server) handleRecalculateAll(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	users, err := s.Users.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	queued := 0
	for _, u := range users {
		if err := s.Queue.EnqueueRecalculation(u.ID); err != nil {
			log.Warn("could not queue recalculation for user %d: %v", u.ID, err)
			continue
		}
		queued++
	}

	log.Info("queued recalculation for %d of %d players", queued, len(users))
	writeJSON(w, r, http.StatusAccepted, map[string]any{"queued": queued, "total": len(users)})
}

func (s *Server) handleDNFSweep(w http.ResponseWriter, r *http.Request) {
	if err := s.Queue.EnqueueDNFSweep(); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusAccepted, map[string]any{"queued": true})
}
