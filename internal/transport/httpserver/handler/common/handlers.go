package common

import (
	"net/http"
	"time"

	userdomain "finance-dashboard-go/internal/domain/user"
	"finance-dashboard-go/pkg/logger"
)

type TokenIssuer interface {
	Issue(userID, email string) (string, time.Time, error)
}

type Handlers struct {
	Users  *userdomain.Service
	Tokens TokenIssuer
	log    logger.Logger
}

func New(users *userdomain.Service, tokens TokenIssuer, log logger.Logger) *Handlers {
	return &Handlers{
		Users:  users,
		Tokens: tokens,
		log:    log,
	}
}

// logFor prefers the request-scoped logger, which carries the request id.
func (h *Handlers) logFor(r *http.Request) logger.Logger {
	return logger.FromContext(r.Context(), h.log)
}
