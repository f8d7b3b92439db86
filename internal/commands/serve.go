package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"gtd-web/internal/auth"
	"gtd-web/internal/config"
	"gtd-web/internal/handlers"
	"gtd-web/internal/logger"
	"gtd-web/internal/realtime"
	"gtd-web/internal/routes"
	"gtd-web/internal/service"
	"gtd-web/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveFlags struct {
	addr    string
	storage string
	dbPath  string
	dev     bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyServeFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		log, err := logger.New(cfg.Logging.Development)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer logger.Sync(log)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, log)
	},
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveFlags.addr, "addr", "", "listen address (overrides server.addr)")
	f.StringVar(&serveFlags.storage, "storage", "", "storage backend: sqlite or memory")
	f.StringVar(&serveFlags.dbPath, "db", "", "SQLite database path")
	f.BoolVar(&serveFlags.dev, "dev", false, "development logging")
}

func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Server.Addr = serveFlags.addr
	}
	if flags.Changed("storage") {
		cfg.Storage.Backend = serveFlags.storage
	}
	if flags.Changed("db") {
		cfg.Storage.Path = serveFlags.dbPath
	}
	if flags.Changed("dev") {
		cfg.Logging.Development = serveFlags.dev
	}
}

// app is everything a running server owns.
type app struct {
	handler http.Handler
	tasks   *service.TaskService
	close   func() error
}

// newApp opens the store, seeds it when configured, and wires the HTTP stack.
func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	st, closeStore, err := store.Open(cfg.Storage, cfg.Logging.SQL)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Storage.Backend, err)
	}

	if cfg.Storage.Seed {
		n, err := store.Seed(ctx, st, store.SeedTasks())
		if err != nil {
			_ = closeStore()
			return nil, fmt.Errorf("seed store: %w", err)
		}
		if n > 0 {
			log.Info("Seeded demo tasks", zap.Int("count", n))
		}
	}

	hub := realtime.NewHub()
	tasks := service.NewTaskService(st,
		service.WithPublisher(hub),
		service.WithLogger(log),
		service.WithProjectsTTL(cfg.Cache.ProjectsTTL))

	opts := handlers.Options{Tasks: tasks, Hub: hub, Log: log}
	if cfg.Auth.Enabled() {
		opts.Tokens = auth.NewTokens(cfg.Auth.Secret, cfg.Auth.TokenTTL)
		opts.Credentials = auth.Credentials{Username: cfg.Auth.Username, PasswordHash: cfg.Auth.PasswordHash}
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := routes.SetupRoutes(handlers.New(opts), opts.Tokens, log)

	return &app{handler: router, tasks: tasks, close: closeStore}, nil
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.close(); err != nil {
			log.Error("Failed to close store", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting",
			zap.String("addr", cfg.Server.Addr),
			zap.String("storage", cfg.Storage.Backend),
			zap.Bool("auth", cfg.Auth.Enabled()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
