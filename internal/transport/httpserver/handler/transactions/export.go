package transactions

import (
	"fmt"
	"io"
	"net/http"

	"finance-dashboard-go/internal/report"
	"finance-dashboard-go/internal/transport/httpserver/middleware"
)

func (h *Handlers) ExportAnalytics(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	query, err := parseAnalyticsQuery(r.URL.Query())
	if err != nil {
		h.logFor(r).BusinessError("transactions.export_analytics: invalid query", err, "user_id", user.ID)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.Analytics.Analytics(r.Context(), user.ID, query)
	if err != nil {
		h.logFor(r).InternalError("transactions.export_analytics: build analytics failed", err, "user_id", user.ID)
		internalError(w)
		return
	}

	h.serveCSV(w, r, report.AnalyticsFilename(user.ID, h.now()), user.ID, func(out io.Writer) error {
		return report.WriteAnalyticsCSV(out, result)
	})
}

func (h *Handlers) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	items, err := h.Transactions.Export(r.Context(), user.ID, filter)
	if err != nil {
		if writeDomainError(w, err) {
			h.logFor(r).BusinessError("transactions.export: nothing to export", err, "user_id", user.ID)
			return
		}
		h.logFor(r).InternalError("transactions.export: find failed", err, "user_id", user.ID)
		internalError(w)
		return
	}

	loc := h.Analytics.Location()
	h.serveCSV(w, r, report.TransactionsFilename(user.ID, h.now()), user.ID, func(out io.Writer) error {
		return report.WriteTransactionsCSV(out, items, loc)
	})
}

// serveCSV renders into a temp file, streams it as an attachment and removes
// it once the response is written.
func (h *Handlers) serveCSV(w http.ResponseWriter, r *http.Request, filename, userID string, render func(io.Writer) error) {
	tmp, err := report.WriteTempFile(h.exportDir, render)
	if err != nil {
		h.logFor(r).InternalError("transactions.export: render csv failed", err, "user_id", userID)
		internalError(w)
		return
	}
	defer func() {
		if err := tmp.Close(); err != nil {
			h.logFor(r).InternalError("transactions.export: remove temp file failed", err, "path", tmp.Path())
		}
	}()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	http.ServeContent(w, r, filename, h.now(), tmp)
}
