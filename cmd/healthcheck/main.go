package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	json "github.com/goccy/go-json"

	httphandler "github.com/ericfisherdev/ghremote/internal/adapter/driving/http"
	"github.com/ericfisherdev/ghremote/internal/config"
)

const defaultAddr = "127.0.0.1:8080"

func main() {
	addr := defaultAddr
	if cfg, err := config.Load(); err == nil {
		addr = cfg.ListenAddr
	}

	if err := check(context.Background(), normalizeAddr(addr)); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "unhealthy: %s\n", err)
		os.Exit(1)
	}
}

// check asks the server at addr for its health and requires an "ok" status.
func check(ctx context.Context, addr string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("http://%s/api/v1/health", addr), nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	var health httphandler.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return fmt.Errorf("decoding health response: %w", err)
	}
	if health.Status != "ok" {
		return fmt.Errorf("server reports %q", health.Status)
	}
	return nil
}

// normalizeAddr points the probe at loopback when the server binds all
// interfaces; the probe runs inside the same container.
func normalizeAddr(raw string) string {
	host, port, err := net.SplitHostPort(raw)
	if err != nil {
		return defaultAddr
	}

	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}

	return net.JoinHostPort(host, port)
}
