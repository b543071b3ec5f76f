package transactions

import (
	"net/http"
	"time"

	analyticsdomain "finance-dashboard-go/internal/domain/analytics"
	txdomain "finance-dashboard-go/internal/domain/transactions"
	"finance-dashboard-go/pkg/logger"
)

type Handlers struct {
	Transactions *txdomain.Service
	Analytics    *analyticsdomain.Service
	exportDir    string
	now          func() time.Time
	log          logger.Logger
}

func New(transactions *txdomain.Service, analytics *analyticsdomain.Service, exportDir string, log logger.Logger) *Handlers {
	return &Handlers{
		Transactions: transactions,
		Analytics:    analytics,
		exportDir:    exportDir,
		now:          time.Now,
		log:          log,
	}
}

// logFor prefers the request-scoped logger, which carries the request id.
func (h *Handlers) logFor(r *http.Request) logger.Logger {
	return logger.FromContext(r.Context(), h.log)
}
