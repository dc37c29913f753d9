package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/kawacukennedy/AgriCredit-Africa-sub000/core/config"
	"github.com/kawacukennedy/AgriCredit-Africa-sub000/core/gateway"
	"github.com/kawacukennedy/AgriCredit-Africa-sub000/core/logger"
	"github.com/kawacukennedy/AgriCredit-Africa-sub000/core/server"
	"github.com/kawacukennedy/AgriCredit-Africa-sub000/core/ussd"
	"github.com/kawacukennedy/AgriCredit-Africa-sub000/integration/database/redis"
	"github.com/kawacukennedy/AgriCredit-Africa-sub000/integration/platform"
)

type appConfig struct {
	Env   string `env:"APP_ENV" envDefault:"development"`
	Store string `env:"USSD_STORE" envDefault:"redis"` // redis or memory

	Engine   ussd.Config
	Redis    redis.Config
	Platform platform.Config
	Server   server.Config
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	var log *slog.Logger
	if cfg.Env == "production" {
		log = logger.New(logger.WithProduction("ussd"))
	} else {
		log = logger.New(logger.WithDevelopment("ussd"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil && ctx.Err() == nil {
		log.Error("service failed", logger.Error(err))
		os.Exit(1)
	}
	log.Info("service stopped")
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	var (
		store     ussd.Store
		readiness []func(context.Context) error
	)
	switch cfg.Store {
	case "memory":
		ms := ussd.NewMemoryStore(cfg.Engine, ussd.WithMemoryStoreLogger(log))
		ms.Start()
		defer ms.Stop()
		store = ms
	default:
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()
		store = ussd.NewRedisStore(client, cfg.Engine)
		readiness = append(readiness, redis.Healthcheck(client))
	}

	catalog, err := ussd.NewCatalog(cfg.Engine.DefaultLanguage)
	if err != nil {
		return err
	}

	api, err := platform.New(cfg.Platform)
	if err != nil {
		return err
	}

	dispatcher, err := ussd.NewDispatcher(store, catalog, api.Services(), cfg.Engine, log)
	if err != nil {
		return err
	}

	svc, err := gateway.New(dispatcher,
		gateway.WithLogger(log),
		gateway.WithReadinessChecks(readiness...),
	)
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	svc.Register(e)

	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
	if err != nil {
		return err
	}

	log.Info("starting ussd service",
		logger.Component("main"),
		slog.String("addr", cfg.Server.Addr),
		slog.String("store", cfg.Store),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Run(gctx, e))
	return g.Wait()
}
