// Spins up the dlist server: named basic and sorted lists served over the Redis protocol.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/nobletooth/dlist/pkg/config"
	"github.com/nobletooth/dlist/pkg/keyspace"
	"github.com/nobletooth/dlist/pkg/port"
	"github.com/nobletooth/dlist/pkg/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	printVersion   = flag.Bool("print_version", false, "Print the version and exit.")
	metricsAddress = flag.String("metrics_address", ":9380",
		"The ip:port serving prometheus metrics at /metrics; empty disables it.")
)

// serveMetrics exposes the default prometheus registry until `ctx` is cancelled.
func serveMetrics(ctx context.Context, address string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: address, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shut down metrics server.", "error", err)
		}
	}()

	slog.Info("Serving metrics.", "address", address)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// run wires the keyspace to its ports and blocks until `ctx` is cancelled or a port fails.
func run(ctx context.Context) error {
	lists, err := keyspace.New()
	if err != nil {
		return fmt.Errorf("failed to create keyspace: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if *metricsAddress != "" {
		go func() {
			if err := serveMetrics(ctx, *metricsAddress); err != nil {
				slog.Error("Metrics server stopped.", "error", err)
			}
		}()
	}

	return port.RunRedisServer(ctx, lists)
}

func main() {
	config.InitFlags()
	utils.InitLogging()

	if *printVersion {
		slog.Info("dlist build info.", utils.BuildInfo()...)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx); err != nil {
		slog.Error("dlist server stopped.", "err", err)
		os.Exit(1)
	}
	slog.Info("dlist server stopped.")
}
