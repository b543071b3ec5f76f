package httpserver

import (
	"net"
	"net/http"
	"time"

	"finance-dashboard-go/internal/config"
)

const (
	defaultReadHeaderTimeout = 5 * time.Second
	defaultWriteTimeout      = 60 * time.Second
	defaultIdleTimeout       = 120 * time.Second
)

// New builds the API server. Zero timeouts fall back to the defaults above;
// the write timeout must outlast the slowest export download.
func New(cfg config.Config, handler http.Handler) *http.Server {
	timeouts := cfg.HTTPTimeouts
	return &http.Server{
		Addr:              net.JoinHostPort("", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: orDefault(timeouts.ReadHeader, defaultReadHeaderTimeout),
		WriteTimeout:      orDefault(timeouts.Write, defaultWriteTimeout),
		IdleTimeout:       orDefault(timeouts.Idle, defaultIdleTimeout),
	}
}

func orDefault(value, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return value
}
