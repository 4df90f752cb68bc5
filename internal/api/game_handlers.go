package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mkrogh/academy/internal/logger"
)

type startGameRequest struct {
	PlayerIDs   []int64 `json:"player_ids"`
	Official    bool    `json:"official"`
	Description string  `json:"description"`
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	var req startGameRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	game, err := s.Games.StartGame(r.Context(), req.PlayerIDs, req.Official, req.Description)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, game)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	target, err := seasonParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	includeLive := r.URL.Query().Get("live") != "false"
	limit := intQuery(r, "limit", "50")
	offset := intQuery(r, "offset", "0")

	games, err := s.Games.Games(r.Context(), target, includeLive, limit, offset)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"season": target.Number,
		"games":  games,
	})
}

func (s *Server) handleGameDetail(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	detail, err := s.Games.GameDetail(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, detail)
}

func (s *Server) handleGameByToken(w http.ResponseWriter, r *http.Request) {
	detail, err := s.Games.GameDetailByToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, detail)
}

func (s *Server) handleDrawCard(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.Games.DrawCard(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, card)
}

type chugRequest struct {
	CardIndex  int   `json:"card_index"`
	DurationMS int64 `json:"duration_ms"`
}

func (s *Server) handleRecordChug(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req chugRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.Games.RecordChug(r.Context(), id, req.CardIndex, req.DurationMS); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type finishGameRequest struct {
	Description string `json:"description"`
}

func (s *Server) handleFinishGame(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req finishGameRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, r, err)
			return
		}
	}

	game, err := s.Games.FinishGame(r.Context(), id, req.Description)
	if err != nil {
		handleError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("game %d finished via api", id)
	writeJSON(w, r, http.StatusOK, game)
}

func (s *Server) handlePlayerDNF(w http.ResponseWriter, r *http.Request) {
	gameID, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	userID, err := idParam(r, "userID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.Games.MarkPlayerDNF(r.Context(), gameID, userID); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
