package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inovasi-informatika/spp-admin/internal/config"
	"github.com/inovasi-informatika/spp-admin/internal/database"
	"github.com/inovasi-informatika/spp-admin/internal/flash"
	"github.com/inovasi-informatika/spp-admin/internal/handler"
	"github.com/inovasi-informatika/spp-admin/internal/logger"
	"github.com/inovasi-informatika/spp-admin/internal/middleware"
	"github.com/inovasi-informatika/spp-admin/internal/repository"
	"github.com/inovasi-informatika/spp-admin/internal/router"
	"github.com/inovasi-informatika/spp-admin/internal/service"
	"github.com/inovasi-informatika/spp-admin/internal/validator"
	"github.com/inovasi-informatika/spp-admin/internal/view"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Str("api_base_url", cfg.APIBaseURL).
		Msg("Starting SPP Admin")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Flash Store ───────────────────────────────────────────────────
	// Redis lets several replicas share flash messages; a single instance
	// can keep them in memory.
	var (
		rdb        *redis.Client
		flashStore flash.Store
	)
	if cfg.RedisURL != "" {
		var err error
		rdb, err = database.NewRedisClient(ctx, cfg.RedisURL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		flashStore = flash.NewRedisStore(rdb)
	} else {
		log.Info().Msg("REDIS_URL not set, keeping flash messages in memory")
		flashStore = flash.NewMemoryStore()
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	client := repository.NewClient(cfg.APIBaseURL, cfg.APITimeout, log)
	studentRepo := repository.NewStudentRepository(client)
	paymentRepo := repository.NewPaymentRepository(client)

	// ─── Initialize Services ──────────────────────────────────────────
	studentService := service.NewStudentService(studentRepo, log)
	paymentService := service.NewPaymentService(paymentRepo, studentRepo, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	flashes := flash.NewManager(flashStore, cfg.FlashTTL, log)
	handlers := &router.Handlers{
		Page:    handler.NewPageHandler(studentService, paymentService, flashes, log),
		Student: handler.NewStudentHandler(studentService),
		Payment: handler.NewPaymentHandler(paymentService),
		System:  handler.NewSystemHandler(rdb, cfg.APIBaseURL, log),
	}

	pages, err := view.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load templates")
	}

	// Rate limiter for routes that write to the records API.
	limiter := middleware.NewRateLimiter(ctx, cfg.FormRateLimit, time.Minute)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, pages, limiter, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// Stop accepting new HTTP requests; in-flight calls to the records API
	// get the client timeout at most.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.APITimeout+5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
