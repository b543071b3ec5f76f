package transactions

import (
	"net/http"

	"finance-dashboard-go/internal/transport/httpserver/middleware"
)

func (h *Handlers) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	query, err := parseAnalyticsQuery(r.URL.Query())
	if err != nil {
		h.logFor(r).BusinessError("transactions.analytics: invalid query", err, "user_id", user.ID)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.Analytics.Analytics(r.Context(), user.ID, query)
	if err != nil {
		h.logFor(r).InternalError("transactions.analytics: build analytics failed", err, "user_id", user.ID, "time_range", string(query.TimeRange))
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
