package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/go-content-portal/internal/config"
	"github.com/pribylovaa/go-content-portal/internal/events"
	portalhttp "github.com/pribylovaa/go-content-portal/internal/http"
	"github.com/pribylovaa/go-content-portal/internal/http/handlers"
	"github.com/pribylovaa/go-content-portal/internal/http/middleware"
	"github.com/pribylovaa/go-content-portal/internal/service"
	"github.com/pribylovaa/go-content-portal/internal/sessions"
	miniostorage "github.com/pribylovaa/go-content-portal/internal/storage/minio"
	mongostorage "github.com/pribylovaa/go-content-portal/internal/storage/mongo"
	"github.com/pribylovaa/go-content-portal/internal/storage/postgres"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// tokenCleanupInterval — период фоновой чистки протухших refresh-токенов.
const tokenCleanupInterval = time.Hour

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting content-portal", "env", cfg.Env)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	dbCtx, dbCancel := context.WithTimeout(rootCtx, 10*time.Second)
	store, err := postgres.New(dbCtx, cfg.DB.URL)
	dbCancel()
	if err != nil {
		log.Error("postgres_connect_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer store.Close()
	log.Info("postgres_connected")

	mongoCtx, mongoCancel := context.WithTimeout(rootCtx, 10*time.Second)
	contacts, err := mongostorage.New(mongoCtx, cfg)
	mongoCancel()
	if err != nil {
		log.Error("mongo_connect_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if cerr := contacts.Close(closeCtx); cerr != nil {
			log.Warn("mongo_close_failed", slog.String("err", cerr.Error()))
		}
	}()
	log.Info("mongo_connected")

	s3Ctx, s3Cancel := context.WithTimeout(rootCtx, 10*time.Second)
	media, err := miniostorage.New(s3Ctx, cfg)
	s3Cancel()
	if err != nil {
		log.Error("minio_connect_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	log.Info("minio_connected")

	sessStore, err := sessions.NewRedisStore(cfg.Redis.URL, cfg.Redis.Prefix, cfg.Auth.RefreshTokenTTL)
	if err != nil {
		log.Error("redis_connect_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if cerr := sessStore.Close(); cerr != nil {
			log.Warn("redis_close_failed", slog.String("err", cerr.Error()))
		}
	}()
	log.Info("redis_connected")

	bus := events.NewBus()

	sessMgr := sessions.NewManager(sessStore, bus, log)
	defer sessMgr.Close()

	svc := service.New(store, contacts, media, cfg)
	log.Info("service_initialized")

	// Фоновая чистка протухших refresh-токенов.
	go func() {
		ticker := time.NewTicker(tokenCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-rootCtx.Done():
				return
			case <-ticker.C:
				cleanCtx, cancel := context.WithTimeout(rootCtx, cfg.Timeouts.Service)
				if err := svc.CleanupExpiredTokens(cleanCtx); err != nil {
					log.Warn("token_cleanup_failed", slog.String("err", err.Error()))
				}
				cancel()
			}
		}
	}()

	h := handlers.New(svc, sessMgr, bus, cfg)

	router, err := portalhttp.NewRouter(h, middleware.Session(sessMgr, bus, svc), portalhttp.Options{
		Logger:  log,
		Timeout: cfg.Timeouts.Service,
	})
	if err != nil {
		log.Error("router_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	var ready int32 // 0 — not ready; 1 — ready

	metricsMux := http.NewServeMux()
	metricsMux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if atomic.LoadInt32(&ready) == 1 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}

		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})

	metricsMux.Handle("/metrics", promhttp.Handler())

	metricsSrv := &http.Server{
		Addr:              cfg.Metrics.Addr(),
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("metrics_listen_start", slog.String("addr", metricsSrv.Addr))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics_serve_failed", slog.String("err", err.Error()))
		}
	}()

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		os.Exit(1)
	}

	log.Info("http_listen_start", slog.String("addr", httpAddr))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	atomic.StoreInt32(&ready, 1)
	log.Info("portal_ready")

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("metrics_shutdown_incomplete", slog.String("err", err.Error()))
	}

	log.Info("service_stopped")
}

// setupLogger настраивает slog по окружению.
func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
