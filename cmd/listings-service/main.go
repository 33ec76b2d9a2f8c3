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

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LiteBots/zacharska/internal/config"
	"github.com/LiteBots/zacharska/internal/service"
	"github.com/LiteBots/zacharska/internal/session"
	"github.com/LiteBots/zacharska/internal/storage"
	filestore "github.com/LiteBots/zacharska/internal/storage/file"
	mongostore "github.com/LiteBots/zacharska/internal/storage/mongo"
	transport "github.com/LiteBots/zacharska/internal/transport/http"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	// .env удобен для локального запуска; его отсутствие — норма.
	_ = godotenv.Load()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting listings-service", "env", cfg.Env, "backend", cfg.Storage.Backend)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	store, err := openStorage(rootCtx, cfg, log)
	if err != nil {
		log.Error("storage_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if cerr := store.Close(closeCtx); cerr != nil {
			log.Warn("storage_close_failed", slog.String("err", cerr.Error()))
		}
	}()

	svc := service.New(store)

	sessions := session.NewManager(cfg.Admin.PIN, cfg.Admin.SessionSecret, cfg.Admin.SessionTTL)
	if sessions.Enabled() {
		log.Info("admin_gate_enabled", "session_ttl", cfg.Admin.SessionTTL.String())
	} else {
		log.Warn("admin_gate_disabled")
	}

	apiHandler := transport.NewRouter(svc, sessions, transport.Options{
		Logger:       log,
		Timeout:      cfg.Timeouts.Service,
		BasePath:     "/api",
		CookieSecure: cfg.Admin.CookieSecure,
	})

	var ready int32 // 0 — not ready; 1 — ready

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if atomic.LoadInt32(&ready) == 1 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}

		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.Handle("/", apiHandler)

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           mux,
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
	log.Info("service_ready")

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.Shutdown)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	log.Info("service_stopped")
}

// openStorage выбирает бэкенд хранилища по конфигурации.
// Валидация конфига гарантирует, что backend — file или mongo.
func openStorage(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.Storage, error) {
	switch cfg.Storage.Backend {
	case config.BackendMongo:
		dbCtx, cancel := context.WithTimeout(ctx, cfg.Storage.Mongo.ConnectTimeout)
		defer cancel()

		store, err := mongostore.New(dbCtx, cfg.Storage.Mongo)
		if err != nil {
			return nil, err
		}

		log.Info("mongo_connected")
		return store, nil
	default:
		store, err := filestore.New(cfg.Storage.File.Path)
		if err != nil {
			return nil, err
		}

		log.Info("file_store_opened", "path", cfg.Storage.File.Path)
		return store, nil
	}
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: "2006-01-02 15:04:05",
		}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: slog.LevelDebug}))
	}
}
