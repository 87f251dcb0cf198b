package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hydrovibe/hydrosearch/internal/config"
	logpkg "github.com/hydrovibe/hydrosearch/internal/logger"
	"github.com/hydrovibe/hydrosearch/internal/metrics"
	catalogrepo "github.com/hydrovibe/hydrosearch/internal/repository/catalog"
	"github.com/hydrovibe/hydrosearch/internal/transport/api"
	chiTransport "github.com/hydrovibe/hydrosearch/internal/transport/chi"
	"github.com/hydrovibe/hydrosearch/internal/transport/provider"
	stacTransport "github.com/hydrovibe/hydrosearch/internal/transport/stac"
	healthuc "github.com/hydrovibe/hydrosearch/internal/usecase/health"
	searchparamsuc "github.com/hydrovibe/hydrosearch/internal/usecase/searchparams"
	stacuc "github.com/hydrovibe/hydrosearch/internal/usecase/stac"
	"github.com/hydrovibe/hydrosearch/internal/version"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting hydrosearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("llm_model", cfg.LLM.Model),
	)

	// Catalog is loaded once; the service cannot answer without it.
	catRepo := catalogrepo.New(cfg.Catalog.Path)
	cat, err := catRepo.Load()
	if err != nil {
		logger.Fatal("Failed to load collection catalog", zap.Error(err))
	}
	logger.Info("Collection catalog loaded",
		zap.String("source", catRepo.Source()),
		zap.Int("collections", cat.Len()),
	)

	// Register LLM metrics explicitly (no init())
	metrics.RegisterLLMMetrics()

	chats, err := provider.New(cfg.LLM, logger)
	if err != nil {
		logger.Fatal("Failed to create LLM provider", zap.Error(err))
	}

	// Create use case services
	paramsSvc := searchparamsuc.New(chats, cat, cfg.LLM.Model, logger).
		WithAllowedModels(cfg.LLM.AllowedModels).
		WithUnknownIDFilter(cfg.Catalog.FilterUnknownIDs).
		WithConcurrentStages(cfg.LLM.ConcurrentStages).
		WithFieldFailureRecorder(metrics.FieldFailures{})

	stacClient := stacTransport.NewClient(&stacTransport.Config{
		SearchURL: cfg.Stac.SearchURL,
		Timeout:   time.Duration(cfg.Stac.TimeoutSec) * time.Second,
	})
	stacSvc := stacuc.New(stacClient, cfg.Stac.Limit, logger)

	healthSvc := healthuc.New(cat, provider.HealthChecker(chats))

	// Create chi server
	server := chiTransport.NewServer(paramsSvc, stacSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	api.HandlerWithOptions(server, api.ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: chiTransport.ParamErrorHandler,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(api.ErrorResponse{
						Code:    api.ErrorResponseCodeInternalServerError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request. Query string excluded.
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
