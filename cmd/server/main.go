/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the courier pay engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (flags + environment)
  2. Initialize the zap global logger
  3. Initialize SQLite store (runs migrations)
  4. Create pay engine over the work-week calendar
  5. Configure HTTP router
  6. Start server with graceful shutdown

CONFIGURATION:
  -a / RUN_ADDRESS     Listen address (default :8080)
  -d / DATABASE_PATH   SQLite database path (default ./courier.db)
                       Use ":memory:" for in-memory database
  -l / LOG_LVL         Log level (default info)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fleetpay/courier-engine/api"
	"github.com/fleetpay/courier-engine/config"
	"github.com/fleetpay/courier-engine/logger"
	"github.com/fleetpay/courier-engine/pay"
	"github.com/fleetpay/courier-engine/store/sqlite"
	"github.com/fleetpay/courier-engine/workweek"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.S().Fatalw("failed to load configuration", "error", err)
	}
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		zap.S().Fatalw("failed to initialize logger", "error", err)
	}
	defer zap.L().Sync()

	st, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		zap.S().Fatalw("failed to initialize database", "path", cfg.DatabasePath, "error", err)
	}
	defer st.Close()

	engine := pay.NewEngine(workweek.New())
	handler := api.NewHandler(st, engine)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zap.S().Infow("server starting", "address", cfg.RunAddress, "database", cfg.DatabasePath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.S().Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zap.S().Fatalw("server forced to shutdown", "error", err)
	}
	zap.S().Info("server stopped")
}
