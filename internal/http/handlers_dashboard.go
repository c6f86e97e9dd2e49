package http

import (
	"log/slog"
	"net/http"

	"fintrack/internal/core"
)

// handleDashboard serves the per-user summary. The cache entry is keyed by
// user id and dropped whenever one of the user's mutations could change the
// numbers, so an explicit from/to window bypasses the cache.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	from, err := parseDateQuery(r, "from")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	to, err := parseDateQuery(r, "to")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	window := core.DateRange{From: from, To: to}

	cacheable := from.IsZero() && to.IsZero()
	if cacheable {
		if summary, ok := s.summaryCache.Get(summaryKey(claims.UserID)); ok {
			slog.DebugContext(r.Context(), "Dashboard cache hit", "user_id", claims.UserID)
			respondData(w, http.StatusOK, summary)
			return
		}
	}

	summary, err := s.dashboard.Summarize(r.Context(), claims.UserID, window)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if cacheable {
		s.summaryCache.Set(summaryKey(claims.UserID), summary)
	}

	respondData(w, http.StatusOK, summary)
}
