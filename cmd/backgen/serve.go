package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backgen/internal/api"
	"backgen/internal/config"
	"backgen/internal/docs"
	"backgen/internal/generator"
	"backgen/internal/logging"
	"backgen/internal/repository"

	backgenmcp "backgen/internal/mcp"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the current backend model, its specification, and its documentation",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	logger := logging.NewLogger(verbose)
	defer logger.Sync()

	asm, err := buildAssembler(cfg, logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	store, cleanup, err := buildStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	state := generator.NewState()
	if m, err := store.Load(ctx); err == nil {
		state.Install(m)
		logger.Info("persisted model loaded", "name", m.Name, "generated_at", m.GeneratedAt)
	} else if !errors.Is(err, repository.ErrNoModel) {
		logger.Warn("failed to load persisted model", "error", err)
	}

	renderer := docs.NewRenderer(cfg.Docs.TemplateDir, cfg.Docs.Template, logger)
	srv := api.NewServer(asm, state, store, renderer, logger)

	return runServer(cfg, logger, srv, asm, state)
}

// buildStore selects the model store from configuration. The file store is
// the default artifact writer; postgres is opt-in for durable reload.
func buildStore(ctx context.Context, cfg *config.Config, logger *logging.Logger) (repository.ModelStore, func(), error) {
	if cfg.Storage.Driver != "postgres" {
		return repository.NewFileStore(cfg.Storage.OutputDir), func() {}, nil
	}

	logger.Debug("connecting to database")
	pool, err := pgxpool.New(ctx, cfg.Storage.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := repository.NewPostgresStore(pool)
	if err := store.InitSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	logger.Info("database connected")
	return store, pool.Close, nil
}

// runServer starts the HTTP server and blocks until shutdown.
func runServer(cfg *config.Config, logger *logging.Logger, srv *api.Server, gen api.Generator, state *generator.State) error {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(otelecho.Middleware("backgen"))

	srv.Register(e)
	logger.Info("REST API handlers mounted")

	mcpServer := backgenmcp.NewServer(gen, state)
	mcpHandlers := http.NewServeMux()
	backgenmcp.MountHTTPHandlers(mcpHandlers, mcpServer.GetMCPServer())
	e.Any("/mcp", echo.WrapHandler(mcpHandlers))
	e.Any("/mcp/*", echo.WrapHandler(mcpHandlers))
	logger.Info("MCP protocol handlers mounted")

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server starting", "address", cfg.Server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown error", "error", err)
			if err := server.Close(); err != nil {
				logger.Error("server close error", "error", err)
			}
		}

		logger.Info("server stopped gracefully")
	}

	return nil
}
