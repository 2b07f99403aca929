package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/wasifsarwar/gocart/internal/catalog"
	"github.com/wasifsarwar/gocart/internal/config"
	"github.com/wasifsarwar/gocart/internal/i18n"
	mw "github.com/wasifsarwar/gocart/internal/middleware"
	"github.com/wasifsarwar/gocart/internal/observability"
	"github.com/wasifsarwar/gocart/internal/orders"
	"github.com/wasifsarwar/gocart/internal/products"
	"github.com/wasifsarwar/gocart/internal/storage"
	"github.com/wasifsarwar/gocart/internal/users"
)

// server bundles the collaborators every handler needs.
type server struct {
	cfg       config.Config
	logger    *zap.Logger
	bundle    *i18n.Bundle
	views     *viewSet
	store     *storage.MemoryStore
	catalog   *products.Provider
	engine    *catalog.Engine
	orders    *orders.Client
	users     *users.Client
	imageBase string
}

func main() {
	var envFile string
	flag.StringVar(&envFile, "env", ".env", "path to .env overrides")
	flag.Parse()

	logger, err := observability.NewLogger()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, config.WithEnvFile(envFile))
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	srv, err := newServer(cfg, logger)
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}
	cleaner := storage.StartCleanup(srv.store, cfg.Storage.CleanupInterval, cfg.Storage.CleanupBatchSize, logger)
	defer cleaner.Stop()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ErrorLog:          zap.NewStdLog(logger),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("web listening",
			zap.String("addr", httpServer.Addr),
			zap.Bool("dev_mode", cfg.Server.DevMode),
			zap.Bool("offline_catalog", cfg.Services.ProductsURL == ""),
			zap.Bool("offline_users", cfg.Services.UsersURL == ""),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			logger.Error("listen", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("web stopped")
}

func newServer(cfg config.Config, logger *zap.Logger) (*server, error) {
	bundle, err := i18n.Load(cfg.Paths.Locales, cfg.Locale.Fallback, cfg.Locale.Supported)
	if err != nil {
		return nil, err
	}
	views, err := newViewSet(cfg.Paths.Templates, cfg.Server.DevMode, bundle)
	if err != nil {
		return nil, err
	}
	client := products.NewClient(cfg.Services.ProductsURL)
	return &server{
		cfg:    cfg,
		logger: logger,
		bundle: bundle,
		views:  views,
		store: storage.NewMemoryStore(
			storage.WithQuota(cfg.Storage.QuotaBytes),
			storage.WithTTL(cfg.Storage.TTL),
		),
		catalog: products.NewProvider(client,
			products.WithCacheTTL(cfg.Catalog.CacheTTL),
			products.WithLogger(logger.Named("catalog")),
		),
		engine:    catalog.NewEngine(),
		orders:    orders.NewClient(cfg.Services.OrdersURL),
		users:     users.NewClient(cfg.Services.UsersURL),
		imageBase: client.BaseURL(),
	}, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// RealIP trusts X-Forwarded-For; deploy behind a proxy that sets it.
	r.Use(chimw.RealIP)
	r.Use(mw.Logger(s.logger))
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/assets/*", mw.AssetsWithCache(filepath.Join(s.cfg.Paths.Public, "assets")))

	r.Group(func(r chi.Router) {
		r.Use(chimw.Compress(5))
		r.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
		r.Use(mw.HTMX)
		r.Use(mw.Session(mw.SessionOptions{
			SigningKey: s.cfg.Session.SigningKey,
			Secure:     s.cfg.Session.Secure,
			Logger:     s.logger,
		}))
		r.Use(mw.Locale(s.bundle))
		r.Use(mw.Auth(!s.cfg.IsProd()))
		r.Use(mw.Storage(s.store))
		r.Use(mw.CSRF)
		r.Use(mw.VaryLocale)

		r.Get("/", s.HomeHandler)

		r.Get("/products", s.ProductsHandler)
		r.Get("/products/results", s.ProductsResultsFrag)
		r.Post("/products/refetch", s.ProductsRefetchHandler)
		r.Get("/products/{id}", s.ProductDetailHandler)

		r.Post("/favorites/clear", s.FavoritesClearHandler)
		r.Post("/favorites/{id}", s.FavoriteToggleHandler)
		r.Post("/recent/clear", s.RecentClearHandler)

		r.Get("/cart", s.CartHandler)
		r.Post("/cart/items", s.CartAddHandler)
		r.Post("/cart/items/{id}", s.CartUpdateHandler)
		r.Post("/cart/items/{id}/remove", s.CartRemoveHandler)
		r.Post("/cart/clear", s.CartClearHandler)
		r.Post("/checkout", s.CheckoutHandler)

		r.Get("/orders", s.OrdersHandler)

		r.Get("/users", s.UsersHandler)
		r.Get("/users/register", s.RegisterPageHandler)
		r.Post("/users/register", s.RegisterHandler)
		r.Get("/login", s.LoginPageHandler)
		r.Post("/login", s.LoginHandler)
		r.Post("/logout", s.LogoutHandler)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})
	return r
}
