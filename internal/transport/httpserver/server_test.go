package httpserver

import (
	"net/http"
	"testing"
	"time"

	"housing-coop-go/internal/config"
)

func TestNewServerTimeouts(t *testing.T) {
	srv := New(config.Config{HTTPPort: "9090", HTTP: config.HTTPConfig{WriteTimeout: 2 * time.Minute}}, http.NotFoundHandler())

	if srv.Addr != ":9090" {
		t.Fatalf("expected addr :9090, got %q", srv.Addr)
	}
	if srv.WriteTimeout != 2*time.Minute {
		t.Fatalf("expected configured write timeout, got %s", srv.WriteTimeout)
	}
	if srv.ReadHeaderTimeout != 5*time.Second || srv.IdleTimeout != time.Minute {
		t.Fatalf("expected defaults for unset timeouts, got header=%s idle=%s", srv.ReadHeaderTimeout, srv.IdleTimeout)
	}
}
