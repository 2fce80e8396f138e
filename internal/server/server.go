package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tragdev/trag/internal/store"
)

// Options configure the dashboard server.
type Options struct {
	Addr string
}

// Run serves the conformance dashboard until ctx is canceled.
func Run(ctx context.Context, st *store.Store, opts Options) error {
	addr := opts.Addr
	if addr == "" {
		addr = envOrDefault("TRAG_SERVER_ADDR", ":8112")
	}

	d := &dashboard{store: st}

	srv := &http.Server{
		Addr:              addr,
		Handler:           buildRouter(d),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopMDNS := func() {}
	if port, err := listenPort(addr); err == nil {
		stopMDNS = startMDNSAdvertiser(port)
	} else {
		slog.Warn("mdns advertising disabled", "addr", addr, "error", err)
	}
	defer stopMDNS()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("trag dashboard started", "addr", addr)
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen and serve: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		slog.Info("trag dashboard stopped")
		return nil
	case err := <-errCh:
		if err != nil {
			return err
		}
		slog.Info("trag dashboard stopped")
		return nil
	}
}

// listenPort extracts the numeric port of a listen address. A bare port
// ("8112") is accepted alongside ":8112" and "host:8112".
func listenPort(addr string) (int, error) {
	addr = strings.TrimSpace(addr)
	hostPort := addr
	if !strings.Contains(addr, ":") {
		hostPort = ":" + addr
	}
	_, portStr, err := net.SplitHostPort(hostPort)
	if err != nil {
		return 0, fmt.Errorf("listen address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("listen address %q: port is not a number", addr)
	}
	return port, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
