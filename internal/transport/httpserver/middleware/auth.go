package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"finance-dashboard-go/internal/config"
	userdomain "finance-dashboard-go/internal/domain/user"
	"finance-dashboard-go/pkg/logger"
)

type contextKey int

const userKey contextKey = 0

type User struct {
	ID    string
	Email string
	Name  string
}

type TokenVerifier interface {
	Verify(token string) (string, error)
}

type UserLookup interface {
	GetByUserID(ctx context.Context, userID string) (*userdomain.User, error)
}

// JWTAuth resolves the bearer token to a stored user. With SkipAuth set it
// injects the configured mock user instead.
type JWTAuth struct {
	tokens   TokenVerifier
	users    UserLookup
	log      logger.Logger
	skipAuth bool
	mockUser User
}

func NewJWTAuth(cfg config.AuthConfig, tokens TokenVerifier, users UserLookup, log logger.Logger) *JWTAuth {
	return &JWTAuth{
		tokens:   tokens,
		users:    users,
		log:      log,
		skipAuth: cfg.SkipAuth,
		mockUser: User{
			ID:    strings.TrimSpace(cfg.MockUserID),
			Email: strings.TrimSpace(cfg.MockUserEmail),
			Name:  strings.TrimSpace(cfg.MockUserName),
		},
	}
}

func (a *JWTAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			user := a.mockUser
			if user.ID == "" {
				writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth mock user id not configured")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
			return
		}

		log := logger.FromContext(r.Context(), a.log)
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing_token", "access denied, no token provided")
			return
		}

		userID, err := a.tokens.Verify(token)
		if err != nil {
			log.BusinessError("auth.verify: token rejected", err, "path", r.URL.Path)
			unauthorized(w)
			return
		}

		stored, err := a.users.GetByUserID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, userdomain.ErrUserNotFound) {
				log.BusinessError("auth.verify: user not found", err, "user_id", userID)
				unauthorized(w)
				return
			}
			log.InternalError("auth.verify: load user failed", err, "user_id", userID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}

		user := User{ID: stored.UserID, Email: stored.Email, Name: stored.Name}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (User, bool) {
	value := ctx.Value(userKey)
	user, ok := value.(User)
	if !ok || user.ID == "" {
		return User{}, false
	}
	return user, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
