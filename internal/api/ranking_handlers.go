package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mkrogh/academy/internal/ranking"
)

type rankingInfo struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	LessIsBetter bool   `json:"less_is_better"`
}

func (s *Server) handleListRankings(w http.ResponseWriter, r *http.Request) {
	infos := make([]rankingInfo, 0, len(ranking.Rankings))
	for _, rk := range ranking.Rankings {
		infos = append(infos, rankingInfo{
			Key:          rk.Key,
			Name:         rk.Name,
			Description:  rk.Description,
			LessIsBetter: rk.LessIsBetter,
		})
	}
	writeJSON(w, r, http.StatusOK, infos)
}

func (s *Server) handleRankingListing(w http.ResponseWriter, r *http.Request) {
	target, err := seasonParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit := intQuery(r, "limit", "50")

	listing, err := s.Rankings.Listing(r.Context(), chi.URLParam(r, "key"), target, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, listing)
}
