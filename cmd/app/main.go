package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"slots-service/internal/config"
	bookingCancel "slots-service/internal/http-server/handlers/bookings/cancel"
	bookingCreate "slots-service/internal/http-server/handlers/bookings/create"
	overrideSet "slots-service/internal/http-server/handlers/overrides/set"
	overrideToggle "slots-service/internal/http-server/handlers/overrides/toggle"
	slotCheck "slots-service/internal/http-server/handlers/slots/check"
	templateSet "slots-service/internal/http-server/handlers/template/set"
	weekGet "slots-service/internal/http-server/handlers/week/get"
	"slots-service/internal/lock"
	"slots-service/internal/metrics"
	"slots-service/internal/notify"
	svc "slots-service/internal/service"
	"slots-service/internal/storage/memory"
	"slots-service/internal/storage/postgres"
	slogpretty "slots-service/pkg/handlers/slogPretty"
	"slots-service/pkg/middleware/mwLogger"
	"slots-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting API", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	var store svc.Store
	var closeStore func() error

	if cfg.StoragePath == "memory" {
		mem := memory.New()
		store = mem
		closeStore = mem.Close
		log.Info("Using in-memory storage")
	} else {
		pg, err := postgres.New(cfg.StoragePath)
		if err != nil {
			log.Error("Failed to init storage", sl.Err(err))
			os.Exit(1)
		}
		if err := pg.Init(context.Background()); err != nil {
			log.Error("Failed to init storage schema", sl.Err(err))
			os.Exit(1)
		}
		store = pg
		closeStore = pg.Close
	}

	var locker lock.Locker
	if cfg.RedisAddr != "" {
		redisLock, err := lock.NewRedisLock(cfg.RedisAddr)
		if err != nil {
			log.Error("Failed to init redis lock", sl.Err(err))
			os.Exit(1)
		}
		locker = redisLock
	} else {
		locker = lock.NewLocalLock()
		log.Info("Using in-process lock")
	}

	metrics.Register()

	offerings := make([]svc.Offering, 0, len(cfg.Services))
	for _, o := range cfg.Services {
		offerings = append(offerings, svc.Offering{Name: o.Name, Price: o.Price})
	}

	service := svc.NewService(log, store, locker, notify.NewLogNotifier(log), offerings)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwLogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(CORS)

	// Availability
	router.Get("/businesses/{business}/week", weekGet.New(log, service))
	router.Get("/businesses/{business}/slots/check", slotCheck.New(log, service))

	// Schedule editing
	router.Post("/businesses/{business}/template", templateSet.New(log, service))
	router.Post("/businesses/{business}/overrides", overrideSet.New(log, service))
	router.Post("/businesses/{business}/overrides/toggle", overrideToggle.New(log, service))

	// Bookings
	router.Post("/businesses/{business}/bookings", bookingCreate.New(log, service))
	router.Post("/businesses/{business}/bookings/cancel", bookingCancel.New(log, service))

	router.Handle("/metrics", promhttp.Handler())

	serv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErrCh := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", slog.String("addr", cfg.Address))
		if err := serv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErrCh:
		if err != nil {
			log.Error("HTTP server stopped unexpectedly", sl.Err(err))
		} else {
			log.Info("HTTP server stopped gracefully")
		}
	}

	shutdownTimeout := cfg.HTTPServer.ShutdownTimeout

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Shutting down HTTP server", slog.String("timeout", shutdownTimeout.String()))

	if err := serv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", sl.Err(err))
	} else {
		log.Info("Server shutdown complete")
	}

	if err := closeStore(); err != nil {
		log.Error("Failed to close storage", sl.Err(err))
	} else {
		log.Info("Storage closed")
	}

	if err := locker.Close(); err != nil {
		log.Error("Failed to close locker", sl.Err(err))
	} else {
		log.Info("Locker closed")
	}

	log.Info("Shutdown finished, server stopped")

}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
