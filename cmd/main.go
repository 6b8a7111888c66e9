package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"go-mission-hub/internal/application/notify"
	"go-mission-hub/internal/infrastructure/auth"
	"go-mission-hub/internal/infrastructure/config"
	"go-mission-hub/internal/infrastructure/hub"
	"go-mission-hub/internal/infrastructure/logger"
	"go-mission-hub/internal/infrastructure/server"
	"go-mission-hub/internal/infrastructure/storage"
)

func main() {
	ctx := context.Background()
	sctx := WithSignal(ctx)

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	lCfg := logger.NewDefaultConfig()
	lCfg.Level = logger.ParseLevel(cfg.LogLevel)
	lCfg.Format = cfg.LogFormat
	lCfg.Output = cfg.LogOutput
	lCfg.FilePath = cfg.LogFilePath
	log := logger.NewLogrusLogger(lCfg)

	store, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}

	registry := hub.NewRegistry(log)
	fanout := hub.NewFanout(registry, log)
	dispatcher := notify.NewDispatcher(fanout, store, store, log)
	authorizer := auth.NewJWTAuthorizer(cfg.JWTSecret)

	router := InitRouter(cfg, registry, dispatcher, store, authorizer, log)
	httpSrv := server.NewHTTPServer(cfg.HTTPAddr, router)

	app := newApplication(log, httpSrv, registry, store)
	if err := app.Run(sctx); err != nil {
		log.Errorf("failed to run application: %v", err)
	}
}

type Application struct {
	logger   logger.Logger
	httpSrv  server.Server
	registry *hub.Registry
	store    *storage.Store
}

func newApplication(
	log logger.Logger,
	httpSrv *server.HTTPServer,
	registry *hub.Registry,
	store *storage.Store,
) *Application {
	return &Application{
		logger:   log.WithField("app", "mission-hub"),
		httpSrv:  httpSrv,
		registry: registry,
		store:    store,
	}
}

func (app *Application) Run(ctx context.Context) error {
	eg := errgroup.Group{}

	eg.Go(func() error {
		return app.httpSrv.Start(ctx)
	})

	eg.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// Close live connections first so sessions drain and exit,
		// then stop accepting HTTP, then release storage.
		app.registry.CloseAll()

		err := app.httpSrv.Stop(shutdownCtx)
		if cerr := app.store.Close(); cerr != nil {
			app.logger.Errorf("failed to close storage: %v", cerr)
		}
		return err
	})

	return eg.Wait()
}

func WithSignal(pctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(pctx)

	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

		<-sigc

		cancel()
	}()

	return ctx
}
