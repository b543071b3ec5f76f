package common

import (
	"errors"
	"net/http"
	"time"

	userdomain "finance-dashboard-go/internal/domain/user"
	"finance-dashboard-go/internal/transport/httpserver/middleware"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type sessionResponse struct {
	User      *userdomain.User `json:"user"`
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
}

type profileResponse struct {
	User *userdomain.User `json:"user"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}

	user, err := h.Users.Register(r.Context(), userdomain.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		if h.writeUserError(w, err) {
			h.logFor(r).BusinessError("auth.register: rejected", err, "email", req.Email)
			return
		}
		h.logFor(r).InternalError("auth.register: create user failed", err)
		internalError(w)
		return
	}

	h.writeSession(w, r, http.StatusCreated, user)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}

	user, err := h.Users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, userdomain.ErrInvalidCredentials) {
			h.logFor(r).BusinessError("auth.login: invalid credentials", err, "email", req.Email)
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
			return
		}
		h.logFor(r).InternalError("auth.login: authenticate failed", err)
		internalError(w)
		return
	}

	h.writeSession(w, r, http.StatusOK, user)
}

func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	user, err := h.Users.GetByUserID(r.Context(), current.ID)
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user_not_found", "user not found")
			return
		}
		h.logFor(r).InternalError("auth.profile: get user failed", err, "user_id", current.ID)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{User: user})
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}

	user, err := h.Users.UpdateProfile(r.Context(), current.ID, userdomain.ProfileUpdate{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		if h.writeUserError(w, err) {
			h.logFor(r).BusinessError("auth.update_profile: rejected", err, "user_id", current.ID)
			return
		}
		h.logFor(r).InternalError("auth.update_profile: update failed", err, "user_id", current.ID)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{User: user})
}

func (h *Handlers) writeSession(w http.ResponseWriter, r *http.Request, status int, user *userdomain.User) {
	token, expiresAt, err := h.Tokens.Issue(user.UserID, user.Email)
	if err != nil {
		h.logFor(r).InternalError("auth.session: issue token failed", err, "user_id", user.UserID)
		internalError(w)
		return
	}
	writeJSON(w, status, sessionResponse{User: user, Token: token, ExpiresAt: expiresAt})
}

// writeUserError maps user-domain validation errors and reports whether it
// wrote a response.
func (h *Handlers) writeUserError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, userdomain.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email_taken", err.Error())
	case errors.Is(err, userdomain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, userdomain.ErrInvalidEmail),
		errors.Is(err, userdomain.ErrInvalidName),
		errors.Is(err, userdomain.ErrPasswordTooShort):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		return false
	}
	return true
}
