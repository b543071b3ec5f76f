package transactions

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	analyticsdomain "finance-dashboard-go/internal/domain/analytics"
	txdomain "finance-dashboard-go/internal/domain/transactions"
	commonhandler "finance-dashboard-go/internal/transport/httpserver/handler/common"
)

func writeError(w http.ResponseWriter, status int, code, message string) {
	commonhandler.WriteError(w, status, code, message)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return commonhandler.DecodeJSON(r, dst)
}

func internalError(w http.ResponseWriter) {
	commonhandler.InternalError(w)
}

func parseDateParam(value string) (*time.Time, error) {
	return commonhandler.ParseDateParam(value)
}

func parseIntParam(value string, fallback int) (int, error) {
	return commonhandler.ParseIntParam(value, fallback)
}

func parseID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return id, nil
}

func parseCategory(value string) (*txdomain.Category, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	category := txdomain.Category(value)
	if !category.Valid() {
		return nil, txdomain.ErrInvalidCategory
	}
	return &category, nil
}

func parseStatus(value string) (*txdomain.Status, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	status := txdomain.Status(value)
	if !status.Valid() {
		return nil, txdomain.ErrInvalidStatus
	}
	return &status, nil
}

// parseFilter reads category, status, startDate and endDate.
func parseFilter(query url.Values) (txdomain.Filter, error) {
	filter, err := parseFilterFields(query)
	if err != nil {
		return filter, err
	}
	return filter, checkDateOrder(filter)
}

func parseFilterFields(query url.Values) (txdomain.Filter, error) {
	var filter txdomain.Filter
	var err error

	if filter.Category, err = parseCategory(query.Get("category")); err != nil {
		return filter, err
	}
	if filter.Status, err = parseStatus(query.Get("status")); err != nil {
		return filter, err
	}
	if filter.From, err = parseDateParam(query.Get("startDate")); err != nil {
		return filter, fmt.Errorf("startDate: %w", err)
	}
	if filter.To, err = parseDateParam(query.Get("endDate")); err != nil {
		return filter, fmt.Errorf("endDate: %w", err)
	}
	return filter, nil
}

func checkDateOrder(filter txdomain.Filter) error {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return errors.New("startDate must be <= endDate")
	}
	return nil
}

func parseAnalyticsQuery(query url.Values) (analyticsdomain.Query, error) {
	timeRange, err := analyticsdomain.ParseTimeRange(query.Get("timeRange"))
	if err != nil {
		return analyticsdomain.Query{}, fmt.Errorf("%w: %q", err, query.Get("timeRange"))
	}

	// startDate and endDate only bound select and custom ranges; other
	// ranges ignore them, so their order is not checked there.
	filter, err := parseFilterFields(query)
	if err != nil {
		return analyticsdomain.Query{}, err
	}
	if timeRange == analyticsdomain.TimeRangeSelectRange || timeRange == analyticsdomain.TimeRangeCustom {
		if err := checkDateOrder(filter); err != nil {
			return analyticsdomain.Query{}, err
		}
	}

	return analyticsdomain.Query{
		TimeRange: timeRange,
		StartDate: filter.From,
		EndDate:   filter.To,
		Category:  filter.Category,
		Status:    filter.Status,
	}, nil
}

// writeDomainError maps transaction validation errors and reports whether it
// wrote a response.
func writeDomainError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, txdomain.ErrTransactionNotFound):
		writeError(w, http.StatusNotFound, "transaction_not_found", "transaction not found")
	case errors.Is(err, txdomain.ErrNoTransactionsToExport):
		writeError(w, http.StatusNotFound, "no_transactions", "no transactions found for export")
	case errors.Is(err, txdomain.ErrInvalidCategory),
		errors.Is(err, txdomain.ErrInvalidStatus),
		errors.Is(err, txdomain.ErrDescriptionTooLong),
		errors.Is(err, txdomain.ErrInvalidSort),
		errors.Is(err, txdomain.ErrInvalidPagination),
		errors.Is(err, analyticsdomain.ErrInvalidTimeRange):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		return false
	}
	return true
}
