package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"hotelguru/internal/apiclient"
	"hotelguru/internal/cli"
	"hotelguru/internal/config"
	"hotelguru/internal/navigation"
	"hotelguru/internal/observability"
	"hotelguru/internal/resource"
	"hotelguru/internal/session"
	"hotelguru/internal/storage"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return cli.ExitFailure
	}
	// stdout carries command output only
	observability.InitLoggerTo(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st, err := storage.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return cli.ExitFailure
	}
	defer st.Close()

	client, err := apiclient.New(cfg.APIBaseURL, st, apiclient.Options{
		Timeout:  cfg.APITimeout,
		Validate: cfg.ValidateAPI,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return cli.ExitFailure
	}
	api := resource.New(client)

	router := navigation.NewRouter(navigation.DefaultTable())
	store := session.NewStore(ctx, st, api.Users, router)
	router.BeforeEach(navigation.Guard(store))

	app := &cli.App{
		Name:   cfg.AppName,
		Store:  store,
		Router: router,
		API:    api,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	return app.Run(ctx, os.Args[1:])
}
