package api

import (
	"net/http"
)

// handleDistribution compares a season's observed sip and chug outcomes
// with the theoretical model. ?players=0 (or absent) mixes all table sizes.
func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	target, err := seasonParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	players := intQuery(r, "players", "0")

	report, err := s.Distributions.Report(r.Context(), target, players)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}
