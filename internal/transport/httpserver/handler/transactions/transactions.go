package transactions

import (
	"net/http"
	"strings"

	txdomain "finance-dashboard-go/internal/domain/transactions"
	"finance-dashboard-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type createTransactionRequest struct {
	Amount      *float64 `json:"amount"`
	Category    string   `json:"category"`
	Status      string   `json:"status"`
	Description *string  `json:"description"`
	Date        *string  `json:"date"`
}

type updateTransactionRequest struct {
	Amount      *float64 `json:"amount"`
	Category    *string  `json:"category"`
	Status      *string  `json:"status"`
	Description *string  `json:"description"`
	Date        *string  `json:"date"`
}

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	query := r.URL.Query()
	filter, err := parseFilter(query)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	// An explicit 0 is rejected; only an absent value takes the default.
	page, err := parseIntParam(query.Get("page"), txdomain.DefaultPage)
	if err != nil || page < 1 {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid page")
		return
	}
	limit, err := parseIntParam(query.Get("limit"), txdomain.DefaultLimit)
	if err != nil || limit < 1 {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return
	}

	result, err := h.Transactions.List(r.Context(), user.ID, txdomain.ListFilter{
		Filter:    filter,
		SortBy:    txdomain.SortField(strings.TrimSpace(query.Get("sortBy"))),
		SortOrder: txdomain.SortOrder(strings.ToLower(strings.TrimSpace(query.Get("sortOrder")))),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		if writeDomainError(w, err) {
			return
		}
		h.logFor(r).InternalError("transactions.list: list failed", err, "user_id", user.ID)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid transaction id")
		return
	}

	transaction, err := h.Transactions.Get(r.Context(), user.ID, id)
	if err != nil {
		if writeDomainError(w, err) {
			return
		}
		h.logFor(r).InternalError("transactions.get: get failed", err, "user_id", user.ID, "transaction_id", id)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, transaction)
}

func (h *Handlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}
	if req.Amount == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "amount is required")
		return
	}

	input := txdomain.CreateInput{
		UserID:      user.ID,
		Amount:      *req.Amount,
		Category:    txdomain.Category(strings.TrimSpace(req.Category)),
		Status:      txdomain.Status(strings.TrimSpace(req.Status)),
		Description: req.Description,
	}
	if req.Date != nil {
		date, err := parseDateParam(*req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
			return
		}
		input.Date = date
	}

	transaction, err := h.Transactions.Create(r.Context(), input)
	if err != nil {
		if writeDomainError(w, err) {
			h.logFor(r).BusinessError("transactions.create: rejected", err, "user_id", user.ID)
			return
		}
		h.logFor(r).InternalError("transactions.create: create failed", err, "user_id", user.ID)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusCreated, transaction)
}

func (h *Handlers) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid transaction id")
		return
	}

	var req updateTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}

	input := txdomain.UpdateInput{
		ID:          id,
		UserID:      user.ID,
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.Category != nil {
		category := txdomain.Category(strings.TrimSpace(*req.Category))
		input.Category = &category
	}
	if req.Status != nil {
		status := txdomain.Status(strings.TrimSpace(*req.Status))
		input.Status = &status
	}
	if req.Date != nil {
		date, err := parseDateParam(*req.Date)
		if err != nil || date == nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
			return
		}
		input.Date = date
	}

	transaction, err := h.Transactions.Update(r.Context(), input)
	if err != nil {
		if writeDomainError(w, err) {
			h.logFor(r).BusinessError("transactions.update: rejected", err, "user_id", user.ID, "transaction_id", id)
			return
		}
		h.logFor(r).InternalError("transactions.update: update failed", err, "user_id", user.ID, "transaction_id", id)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, transaction)
}

func (h *Handlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid transaction id")
		return
	}

	if err := h.Transactions.Delete(r.Context(), user.ID, id); err != nil {
		if writeDomainError(w, err) {
			h.logFor(r).BusinessError("transactions.delete: rejected", err, "user_id", user.ID, "transaction_id", id)
			return
		}
		h.logFor(r).InternalError("transactions.delete: delete failed", err, "user_id", user.ID, "transaction_id", id)
		internalError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
