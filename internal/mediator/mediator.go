package mediator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"imageworld/config"
	"imageworld/internal/auth"
	"imageworld/internal/blob"
	"imageworld/internal/clients/gemini"
	"imageworld/internal/clients/huggingface"
	"imageworld/internal/dependencies"
	"imageworld/internal/gallery"
	"imageworld/internal/imagegen"
	"imageworld/internal/services"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type App struct {
	api   *services.Api
	rpc   *dependencies.Rpc
	hub   *services.Hub
	saves *services.SaveQueue

	db    *gorm.DB
	rdb   *redis.Client
	blobs blob.Store

	ctx    context.Context
	cancel context.CancelFunc
	logger *log.Logger
	// settings
	Config *config.Config
}

func NewApp(parent context.Context, cfg config.Config) (app *App, err error) {
	cfg.ApplyDefaults()

	ctx, cancel := context.WithCancel(parent)
	a := &App{
		ctx:    ctx,
		cancel: cancel,
		logger: log.With("component", "mediator"),
		Config: &cfg,
	}
	defer func() {
		if err != nil {
			a.Shutdown()
		}
	}()

	a.db, err = dependencies.NewDatabase(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("error creating newapp: %w", err)
	}
	if err = auth.Migrate(a.db); err != nil {
		return nil, fmt.Errorf("migrate users: %w", err)
	}
	if err = gallery.Migrate(a.db); err != nil {
		return nil, fmt.Errorf("migrate posts: %w", err)
	}

	sessions, err := a.sessionStore(cfg)
	if err != nil {
		return nil, err
	}
	identity := auth.NewService(a.db, sessions, cfg.SessionTTL())

	a.blobs, err = blob.New(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("blob store: %w", err)
	}
	posts := gallery.NewService(a.db, a.blobs)

	hf := huggingface.NewHfClient(huggingface.Options{
		ApiKey:       cfg.Provider.ApiKey,
		InferenceUrl: cfg.InferenceUrl(),
		ModelInfoUrl: cfg.ModelInfoUrl(),
		Timeout:      cfg.ProviderTimeout(),
	})
	provider, err := a.provider(cfg, hf)
	if err != nil {
		return nil, err
	}

	a.hub = services.NewHub()
	a.saves = services.NewSaveQueue(ctx, a.hub, posts, cfg.Gallery)
	a.saves.Run()

	deps := services.Dependencies{
		Bridge:  imagegen.NewBridge(provider),
		Auth:    identity,
		Gallery: posts,
		Models:  hf,
		Hub:     a.hub,
		Saves:   a.saves,
	}
	if local, ok := a.blobs.(*blob.Local); ok {
		deps.BlobDir = local.BaseDir()
	}
	a.api = services.NewApi(cfg.Api, cfg.Session, deps)

	a.rpc, err = dependencies.NewRpc(cfg.Rpc.Port)
	if err != nil {
		return nil, fmt.Errorf("error creating newapp: %w", err)
	}

	a.logger.Info("app ready", "provider", cfg.Provider.Kind, "sessions", cfg.Session.Store, "db", cfg.Database.Driver, "storage", cfg.Storage.Backend)
	return a, nil
}

func (a *App) sessionStore(cfg config.Config) (auth.SessionStore, error) {
	switch strings.ToLower(cfg.Session.Store) {
	case "memory":
		return auth.NewMemorySessionStore(), nil
	case "redis":
		rdb, err := dependencies.NewRedis(a.ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("session store: %w", err)
		}
		a.rdb = rdb
		return auth.NewRedisSessionStore(rdb), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}
}

func (a *App) provider(cfg config.Config, hf *huggingface.Hf) (imagegen.Provider, error) {
	switch strings.ToLower(cfg.Provider.Kind) {
	case "huggingface":
		return hf, nil
	case "gemini":
		client, err := gemini.NewClient(a.ctx, gemini.Options{
			ApiKey: cfg.Gemini.ApiKey,
			Model:  cfg.Gemini.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("provider: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown provider kind %q", cfg.Provider.Kind)
	}
}

// Start blocks until the http listener stops.
func (a *App) Start() error {
	go func() {
		if err := a.rpc.Serve(); err != nil {
			a.logger.Error("rpc stopped", "err", err)
		}
	}()
	a.rpc.SetServing(true)

	return a.api.Start()
}

func (a *App) Shutdown() {
	if a.rpc != nil {
		a.rpc.SetServing(false)
	}
	if a.api != nil {
		if err := a.api.Shutdown(); err != nil {
			a.logger.Error("api shutdown", "err", err)
		}
	}
	if a.saves != nil {
		a.saves.Shutdown()
	}
	if a.hub != nil {
		a.hub.Shutdown()
	}
	if a.rpc != nil {
		a.rpc.Close()
	}

	var errs []error
	if a.blobs != nil {
		errs = append(errs, a.blobs.Close())
	}
	if a.rdb != nil {
		errs = append(errs, a.rdb.Close())
	}
	if a.db != nil {
		errs = append(errs, dependencies.CloseDatabase(a.db))
	}
	if err := errors.Join(errs...); err != nil {
		a.logger.Error("closing dependencies", "err", err)
	}

	a.cancel()
}
