package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	authhandler "docroute/internal/auth/handler"
	dirhandler "docroute/internal/directory/handler"
	dirservice "docroute/internal/directory/service"
	dirstore "docroute/internal/directory/store"
	formhandler "docroute/internal/forms/handler"
	formservice "docroute/internal/forms/service"
	formstore "docroute/internal/forms/store"
	linkhandler "docroute/internal/links/handler"
	linkservice "docroute/internal/links/service"
	linkstore "docroute/internal/links/store"
	reghandler "docroute/internal/registry/handler"
	regservice "docroute/internal/registry/service"
	regstore "docroute/internal/registry/store"
	transferhandler "docroute/internal/transfer/handler"
	transferservice "docroute/internal/transfer/service"
	transferstore "docroute/internal/transfer/store"

	"docroute/internal/auth"
	"docroute/internal/platform/config"
	"docroute/internal/platform/httpserver"
	"docroute/internal/platform/logger"
	"docroute/internal/platform/metrics"
	"docroute/internal/platform/middleware"
	platformpostgres "docroute/internal/platform/postgres"
	platformredis "docroute/internal/platform/redis"
	"docroute/internal/policy"
	"docroute/internal/storage"
	"docroute/internal/transfer/adapters"
)

// main wires the storage port, stores, services, and the HTTP router. All
// business logic lives in the internal service packages.
func main() {
	log := logger.New()
	if err := run(log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port, cleanup, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	m := metrics.New()

	recipientStore := dirstore.NewRecipientStore(port)
	userStore := dirstore.NewUserStore(port)
	formStore := formstore.NewFormStore(port)
	linkStore := linkstore.NewLinkStore(port)
	transferStore := transferstore.NewTransferStore(port)
	documentStore := regstore.NewDocumentStore(port)

	directory, err := dirservice.New(recipientStore, userStore,
		dirservice.WithLogger(log), dirservice.WithMetrics(m))
	if err != nil {
		return err
	}
	forms, err := formservice.New(formStore, formservice.WithLogger(log))
	if err != nil {
		return err
	}
	links, err := linkservice.New(linkStore, formStore, linkservice.WithLogger(log))
	if err != nil {
		return err
	}
	engine, err := transferservice.New(transferStore,
		adapters.NewUserDirectoryAdapter(userStore),
		transferservice.WithLogger(log), transferservice.WithMetrics(m))
	if err != nil {
		return err
	}
	registry, err := regservice.New(documentStore,
		regservice.WithLogger(log), regservice.WithMetrics(m))
	if err != nil {
		return err
	}
	resolver, err := policy.NewResolver(engine, links, userStore)
	if err != nil {
		return err
	}

	// The built-in recipient and demo accounts exist before the first request.
	if err := directory.Seed(ctx); err != nil {
		return fmt.Errorf("seed directory: %w", err)
	}

	tokens := auth.NewTokenService(cfg.JWTSigningKey, cfg.TokenTTL)
	login, err := auth.New(userStore, tokens, auth.WithLogger(log))
	if err != nil {
		return err
	}

	router := newRouter(log, auth.NewValidator(tokens),
		authhandler.New(login, authhandler.WithLogger(log)),
		dirhandler.New(directory, dirhandler.WithLogger(log)),
		formhandler.New(forms, formhandler.WithLogger(log)),
		linkhandler.New(links, linkhandler.WithLogger(log)),
		transferhandler.New(engine, resolver, userStore, transferhandler.WithLogger(log)),
		reghandler.New(registry, reghandler.WithLogger(log)),
	)

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr, "storage", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// registrar is anything that can mount its routes on the router.
type registrar interface {
	Register(r chi.Router)
}

func newRouter(log *slog.Logger, validator *auth.Validator, login registrar, authenticated ...registrar) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	login.Register(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(validator, log))
		for _, h := range authenticated {
			h.Register(r)
		}
	})
	return r
}

// openStorage builds the configured storage port plus its teardown.
func openStorage(ctx context.Context, cfg config.Server) (storage.Port, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendRedis:
		client, err := platformredis.New(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		if client == nil {
			return nil, nil, fmt.Errorf("REDIS_URL is required for the redis backend")
		}
		return storage.NewRedis(client.Client), func() { _ = client.Close() }, nil
	case config.BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, nil, fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
		db, err := platformpostgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		port := storage.NewPostgres(db)
		if err := port.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		return port, func() { _ = db.Close() }, nil
	default:
		return storage.NewMemory(), func() {}, nil
	}
}
