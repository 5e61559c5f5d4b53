package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"golang.org/x/sync/errgroup"

	"hotelguru/internal/apiclient"
	"hotelguru/internal/config"
	"hotelguru/internal/middleware"
	"hotelguru/internal/navigation"
	"hotelguru/internal/observability"
	"hotelguru/internal/portal"
	"hotelguru/internal/resource"
	"hotelguru/internal/security"
	"hotelguru/internal/session"
	"hotelguru/internal/storage"
	"hotelguru/internal/websocket"
)

func main() {
	if err := run(); err != nil {
		slog.Error("portal stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	observability.InitLogger(cfg.LogLevel, cfg.LogFormat)

	figure.NewFigure(cfg.AppName, "", true).Print()
	slog.Info("starting portal",
		slog.String("environment", cfg.Environment),
		slog.String("api_base_url", cfg.APIBaseURL),
		slog.String("storage", cfg.StorageBackend))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	openCtx, openCancel := context.WithTimeout(ctx, 10*time.Second)
	st, err := storage.Open(openCtx, cfg)
	openCancel()
	if err != nil {
		return err
	}
	defer st.Close()

	client, err := apiclient.New(cfg.APIBaseURL, st, apiclient.Options{
		Timeout:  cfg.APITimeout,
		Validate: cfg.ValidateAPI,
	})
	if err != nil {
		return err
	}
	api := resource.New(client)

	router := navigation.NewRouter(navigation.DefaultTable())
	store := session.NewStore(ctx, st, api.Users, router)
	router.BeforeEach(navigation.Guard(store))

	hub := websocket.NewHub()
	store.Subscribe(hub.PublishSession)
	hub.PublishSession(store.Snapshot())

	csrf, err := security.NewTokenManager()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: portal.NewServer(ctx, portal.Deps{
			Store:          store,
			Router:         router,
			API:            api,
			Storage:        st,
			Hub:            hub,
			CSRF:           csrf,
			AllowedOrigins: middleware.ParseOrigins(cfg.AllowedOrigins),
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := hub.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("portal listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down portal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("portal stopped gracefully")
	return nil
}
