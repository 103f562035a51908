package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"imageworld/config"
	"imageworld/internal/mediator"

	"github.com/TypeTerrors/gonfig"
	"github.com/charmbracelet/log"
)

func main() {

	cfg, err := gonfig.Load[config.Config](
		gonfig.WithConfigFile("config/config.yaml"),
		gonfig.WithDotenv(".env"), // ignored if missing
		gonfig.WithStrict(),       // fail if ${VAR} has no value/default
	)
	if err != nil {
		log.Fatal("load config", "err", err)
	}
	cfg.ApplyDefaults()
	setupLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := mediator.NewApp(ctx, cfg)
	if err != nil {
		log.Fatal("start app", "err", err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- app.Start() }()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			log.Error("http server stopped", "err", err)
		}
	}
	app.Shutdown()
}

func setupLogger(cfg config.LogConfig) {
	log.SetReportTimestamp(true)
	if level, err := log.ParseLevel(cfg.Level); err == nil {
		log.SetLevel(level)
	} else {
		log.Warn("unknown log level, using info", "level", cfg.Level)
	}
	if strings.EqualFold(cfg.Format, "json") {
		log.SetFormatter(log.JSONFormatter)
	}
}
