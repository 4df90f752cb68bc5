package api

import (
	"net/http"
)

type createUserRequest struct {
	Username string `json:"username"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	user, err := s.Users.Create(r.Context(), req.Username)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, user)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.Users.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, users)
}

func (s *Server) handleUserDetail(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	user, err := s.Users.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

// handleUserStats returns the season aggregate plus the player's position
// on every ranking for that season.
func (s *Server) handleUserStats(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	target, err := seasonParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if _, err := s.Users.Get(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}

	stat, err := s.Stats.PlayerStat(r.Context(), id, target)
	if err != nil {
		handleError(w, r, err)
		return
	}
	ranks, err := s.Rankings.PlayerRanks(r.Context(), id, target)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"season":              target.Number,
		"stats":               stat,
		"ranks":               ranks,
		"total_beers":         stat.TotalBeers(),
		"average_game_sips":   stat.AverageGameSips(),
		"average_chug_time_s": stat.AverageChugTimeSeconds(),
		"approx_ects":         stat.ApproxECTS(),
		"approx_money_dkk":    stat.ApproxMoneySpentDKK(),
	})
}

func (s *Server) handleUserAchievements(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if _, err := s.Users.Get(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}

	statuses, err := s.Rankings.Achievements(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, statuses)
}
