package httpserver

import (
	"net"
	"net/http"
	"time"

	"housing-coop-go/internal/config"
)

// New builds the API server. Zero timeouts in cfg fall back to conservative defaults.
func New(cfg config.Config, handler http.Handler) *http.Server {
	timeouts := cfg.HTTP
	return &http.Server{
		Addr:              net.JoinHostPort("", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: orDefault(timeouts.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       orDefault(timeouts.ReadTimeout, 15*time.Second),
		WriteTimeout:      orDefault(timeouts.WriteTimeout, 45*time.Second),
		IdleTimeout:       orDefault(timeouts.IdleTimeout, time.Minute),
	}
}

func orDefault(value, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return value
}
