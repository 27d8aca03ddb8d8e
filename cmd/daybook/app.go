package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sandeepkv93/daybook/internal/backend"
	"github.com/sandeepkv93/daybook/internal/config"
	"github.com/sandeepkv93/daybook/internal/day"
	"github.com/sandeepkv93/daybook/internal/logger"
	"github.com/sandeepkv93/daybook/internal/metrics"
	"github.com/sandeepkv93/daybook/internal/model"
	"github.com/sandeepkv93/daybook/internal/notify"
	"github.com/sandeepkv93/daybook/internal/scheduler"
	"github.com/sandeepkv93/daybook/internal/settings"
	"github.com/sandeepkv93/daybook/internal/storage"
)

// frontEnd is how a command surfaces notifications and permission prompts.
type frontEnd struct {
	sinks    []notify.Sink
	prompter notify.Prompter
	sound    notify.SoundPlayer
}

type app struct {
	cfg        *config.Config
	log        *logger.Logger
	metrics    *metrics.Metrics
	repo       *storage.SQLiteRepository
	client     *backend.Client
	store      *settings.Store
	gateway    *notify.Gateway
	presenter  *notify.Presenter
	poller     *scheduler.Scheduler
	days       *day.Aggregator
	controller *settings.Controller
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// bootstrap wires the services shared by all commands. logToFile keeps log
// output off a terminal owned by the TUI.
func bootstrap(opts *rootOptions, logToFile bool, build func(*config.Config, *logger.Logger) frontEnd) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	if logToFile && cfg.Logger.Output != "file" {
		cfg.Logger.Output = "file"
		cfg.Logger.Filename = filepath.Join(config.DefaultDir(), "daybook.log")
	}
	for _, path := range []string{cfg.Storage.Path, cfg.Logger.Filename} {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create directory for %s: %w", path, err)
		}
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log, metrics: metrics.New()}
	fe := build(cfg, log)

	a.repo, err = storage.OpenSQLite(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	a.client, err = backend.New(cfg.Server.BaseURL, backend.WithLogger(log))
	if err != nil {
		_ = a.repo.Close()
		return nil, err
	}
	a.store = settings.NewStore(a.repo, log)

	platform := &notify.ConsentPlatform{Store: a.store, Prompter: fe.prompter}
	if !hasInAppSink(fe.sinks) {
		platform.Probe = notify.DesktopAvailable
	}
	a.gateway = notify.NewGateway(platform, log)

	snoozer := scheduler.NewSnoozer(a.client, a.store, scheduler.WithSnoozeLogger(log))
	presenterOpts := []notify.PresenterOption{
		notify.WithSnoozer(snoozer),
		notify.WithHistory(a.repo),
		notify.WithLogger(log),
		notify.WithMetrics(a.metrics),
	}
	if fe.sound != nil {
		presenterOpts = append(presenterOpts, notify.WithSound(fe.sound))
	}
	a.presenter = notify.NewPresenter(fe.sinks, presenterOpts...)

	a.poller, err = scheduler.New(a.client, a.gateway, a.presenter,
		scheduler.WithInterval(cfg.Scheduler.Interval),
		scheduler.WithIcon(cfg.Notify.Icon),
		scheduler.WithLogger(log),
		scheduler.WithMetrics(a.metrics),
	)
	if err != nil {
		_ = a.repo.Close()
		return nil, err
	}
	a.days = day.New(a.client,
		day.WithAutosaveDelay(cfg.Day.AutosaveDelay),
		day.WithLogger(log),
		day.WithMetrics(a.metrics),
	)
	a.controller = settings.NewController(a.store, a.poller, a.gateway, log)
	return a, nil
}

func hasInAppSink(sinks []notify.Sink) bool {
	for _, s := range sinks {
		if _, ok := s.(*notify.ChanSink); ok {
			return true
		}
	}
	return false
}

// login reuses the session cookie when the server still knows us and falls
// back to the configured credentials.
func (a *app) login(ctx context.Context) (model.User, error) {
	user, ok, err := a.client.Status(ctx)
	if err == nil && ok {
		return user, nil
	}
	if a.cfg.Server.Username == "" {
		if err != nil {
			return model.User{}, fmt.Errorf("check session: %w", err)
		}
		return model.User{}, errors.New("not logged in: set DAYBOOK_USERNAME and DAYBOOK_PASSWORD")
	}
	user, err = a.client.Login(ctx, a.cfg.Server.Username, a.cfg.Server.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("login as %s: %w", a.cfg.Server.Username, err)
	}
	a.log.WithUser(user.Username).Infow("logged in")
	return user, nil
}

// serveMetrics exposes /metrics until ctx ends when enabled in config.
func (a *app) serveMetrics(ctx context.Context) {
	if !a.cfg.Metrics.Enabled {
		return
	}
	go func() {
		if err := a.metrics.Serve(ctx, a.cfg.Metrics.Listen); err != nil {
			a.log.WithError(err).Warnw("metrics listener stopped", "listen", a.cfg.Metrics.Listen)
		}
	}()
}

func (a *app) Close() {
	a.controller.EndSession()
	a.days.Close()
	if err := a.repo.Close(); err != nil {
		a.log.WithError(err).Warnw("close storage failed")
	}
	_ = a.log.Close()
}

func soundPlayer(cfg *config.Config) notify.SoundPlayer {
	if cfg.Notify.Desktop && notify.DesktopAvailable() {
		return notify.NewExecSoundPlayer(cfg.Notify.SoundFile)
	}
	return notify.BellPlayer{Out: os.Stdout}
}
