package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/livercare/livercare/internal/config"
	"github.com/livercare/livercare/internal/domain/appointment"
	"github.com/livercare/livercare/internal/domain/casefile"
	"github.com/livercare/livercare/internal/domain/records"
	"github.com/livercare/livercare/internal/domain/session"
	"github.com/livercare/livercare/internal/domain/task"
	"github.com/livercare/livercare/internal/gateway"
	"github.com/livercare/livercare/internal/platform/kv"
	"github.com/livercare/livercare/internal/platform/middleware"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "livercare-server",
		Short: "Liver care dashboard gateway",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the gateway server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Install demo tasks and appointments",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			store, err := kv.NewBoltStore(cfg.DataPath, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := context.Background()
			taskSvc := task.NewService(task.NewKVTaskRepository(store), logger)
			if err := taskSvc.Seed(ctx); err != nil {
				return err
			}
			apptSvc := appointment.NewService(appointment.NewKVAppointmentRepository(store), logger)
			return apptSvc.Seed(ctx)
		},
	}
}

func newLogger() zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger
}

// errorHandler renders every error as {"error": message}, the shape the
// dashboard client expects.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	message := "internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, map[string]string{"error": message})
}

func runServer() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	store, err := kv.NewBoltStore(cfg.DataPath, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.DataPath).Msg("failed to open local store")
	}
	defer store.Close()
	logger.Info().Str("path", cfg.DataPath).Msg("local store opened")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit, cfg.UploadLimit))

	api := e.Group("/api")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	api.Use(middleware.RateLimit(rateLimitCfg))

	// Backend client and proxy surface
	client := gateway.NewClient(cfg.BackendURL, cfg.BackendTimeout(), logger)
	gatewayHandler := gateway.NewHandler(client, cfg.ChatTimeout(), logger)
	gatewayHandler.RegisterRoutes(api)

	// Analysis session
	sessionHandler := session.NewHandler(session.NewStore())
	sessionHandler.RegisterRoutes(api)

	// Local collections
	caseSvc := casefile.NewService(casefile.NewKVCaseRepository(store), client, logger)
	casefile.NewHandler(caseSvc).RegisterRoutes(api)

	taskSvc := task.NewService(task.NewKVTaskRepository(store), logger)
	task.NewHandler(taskSvc).RegisterRoutes(api)

	apptSvc := appointment.NewService(appointment.NewKVAppointmentRepository(store), logger)
	appointment.NewHandler(apptSvc).RegisterRoutes(api)

	// Analysis records and the delete cascade
	recordsSvc := records.NewService(client, caseSvc, taskSvc, apptSvc, logger)
	records.NewHandler(recordsSvc).RegisterRoutes(api)

	if cfg.SeedDemoData {
		ctx := context.Background()
		if err := taskSvc.Seed(ctx); err != nil {
			logger.Error().Err(err).Msg("failed to seed tasks")
		}
		if err := apptSvc.Seed(ctx); err != nil {
			logger.Error().Err(err).Msg("failed to seed appointments")
		}
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
