package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/tripsplit/internal/api"
	"github.com/mmynk/tripsplit/internal/config"
	"github.com/mmynk/tripsplit/internal/metrics"
	"github.com/mmynk/tripsplit/internal/middleware"
	"github.com/mmynk/tripsplit/internal/service"
	"github.com/mmynk/tripsplit/internal/storage/sqlite"
	"github.com/mmynk/tripsplit/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(viper.New(), os.Getenv("TRIPSPLIT_CONFIG"))
	if err != nil {
		logging.Setup()
		return err
	}
	level, _ := logging.ParseLevel(cfg.LogLevel)
	logging.SetupWithLevel(level)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	mux := http.NewServeMux()

	var m *metrics.Metrics
	interceptors := []connect.Interceptor{middleware.LoggingInterceptor()}
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New(reg)
		interceptors = append(interceptors, middleware.MetricsInterceptor(m))
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	}
	opts := connect.WithInterceptors(interceptors...)

	api.RegisterLedger(mux, service.NewLedgerService(store, m), opts)
	api.RegisterInventory(mux, service.NewInventoryService(store), opts)

	staticDir, err := filepath.Abs(cfg.StaticPath)
	if err != nil {
		return fmt.Errorf("failed to resolve static path: %w", err)
	}
	slog.Info("Serving static files", "path", staticDir)
	mux.Handle("/", staticHandler(staticDir))

	// Request contexts derive from baseCtx so open Watch streams end on shutdown.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	handler := h2c.NewHandler(middleware.Logging(middleware.CORS(mux)), &http2.Server{})
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	srv.RegisterOnShutdown(cancelBase)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", srv.Addr, "url", fmt.Sprintf("http://localhost%s", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// staticHandler serves the frontend, falling back to index.html for unknown paths.
func staticHandler(dir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/tripsplit.v1.") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(dir, filepath.Clean(urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		http.ServeFile(w, r, filePath)
	})
}
