package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/onboardkit/pkg/auth"
	"github.com/dmitrymomot/onboardkit/pkg/config"
	"github.com/dmitrymomot/onboardkit/pkg/crm"
	"github.com/dmitrymomot/onboardkit/pkg/email"
	"github.com/dmitrymomot/onboardkit/pkg/export"
	"github.com/dmitrymomot/onboardkit/pkg/file"
	"github.com/dmitrymomot/onboardkit/pkg/httpserver"
	"github.com/dmitrymomot/onboardkit/pkg/i18n"
	"github.com/dmitrymomot/onboardkit/pkg/locales"
	"github.com/dmitrymomot/onboardkit/pkg/logger"
	"github.com/dmitrymomot/onboardkit/pkg/metrics"
	"github.com/dmitrymomot/onboardkit/pkg/onboarding"
	"github.com/dmitrymomot/onboardkit/pkg/redis"
	"github.com/dmitrymomot/onboardkit/pkg/requestid"
	"github.com/dmitrymomot/onboardkit/pkg/tickets"
	"github.com/dmitrymomot/onboardkit/pkg/tier"
)

// appConfig holds the settings that belong to the binary rather than to a
// package.
type appConfig struct {
	Env              string `env:"APP_ENV" envDefault:"development"`
	ServiceName      string `env:"APP_NAME" envDefault:"onboardkit"`
	TiersFile        string `env:"TIERS_FILE"`
	MetricsNamespace string `env:"METRICS_NAMESPACE" envDefault:"onboardkit"`
	AuthSubject      string `env:"AUTH_SUBJECT" envDefault:"operator"`
}

// app lazily builds the collaborators a command needs. Commands that never
// touch storage or the network do not need their settings.
type app struct {
	cfg      appConfig
	loadOpts []config.Option
	logger   *slog.Logger
	catalog  *tier.Catalog
	engine   *onboarding.Engine
	metrics  *metrics.Metrics
	registry *prometheus.Registry

	store     file.Storage
	exporter  *export.Exporter
	customers *crm.Repository
}

func newApp(ctx context.Context, logOut io.Writer, opts ...config.Option) (*app, error) {
	cfg, err := config.Load[appConfig](opts...)
	if err != nil {
		return nil, err
	}

	log := logger.New(
		logger.WithEnvironment(cfg.Env, cfg.ServiceName),
		logger.WithOutput(logOut),
		logger.WithContextExtractors(i18n.LoggerExtractor(), requestid.LoggerExtractor()),
	)

	catalog := tier.Default()
	if cfg.TiersFile != "" {
		data, err := os.ReadFile(cfg.TiersFile)
		if err != nil {
			return nil, fmt.Errorf("read tiers file: %w", err)
		}
		if catalog, err = tier.ParseCatalog(data); err != nil {
			return nil, err
		}
	}

	translator, err := locales.New(ctx, i18n.WithLogger(log))
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(cfg.MetricsNamespace)
	if err := m.Register(reg); err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		loadOpts: opts,
		logger:   log,
		catalog:  catalog,
		engine:   onboarding.NewEngine(catalog, translator, onboarding.WithLogger(log), onboarding.WithRecorder(m)),
		metrics:  m,
		registry: reg,
	}, nil
}

func (a *app) storage(ctx context.Context) (file.Storage, error) {
	if a.store != nil {
		return a.store, nil
	}
	cfg, err := config.Load[file.Config](a.loadOpts...)
	if err != nil {
		return nil, err
	}
	store, err := file.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.store = store
	return store, nil
}

// exporterFor builds the exporter with every sink the environment allows.
// The email sender is optional: a misconfigured driver only disables --send.
func (a *app) exporterFor(ctx context.Context) (*export.Exporter, error) {
	if a.exporter != nil {
		return a.exporter, nil
	}
	store, err := a.storage(ctx)
	if err != nil {
		return nil, err
	}
	opts := []export.Option{
		export.WithStorage(store),
		export.WithClipboard(export.NewCommandClipboard()),
		export.WithOpener(export.NewCommandOpener(export.ExecRunner)),
		export.WithRecorder(a.metrics),
		export.WithLogger(a.logger),
	}

	emailCfg, err := config.Load[email.Config](a.loadOpts...)
	if err != nil {
		return nil, err
	}
	sender, err := email.New(emailCfg, email.WithLogger(a.logger), email.WithDevStorage(store))
	if err != nil {
		a.logger.WarnContext(ctx, "email delivery disabled", logger.Component("cli"), logger.Error(err))
	} else {
		opts = append(opts, export.WithSender(sender))
	}

	a.exporter = export.NewExporter(opts...)
	return a.exporter, nil
}

func (a *app) repository(ctx context.Context) (*crm.Repository, error) {
	if a.customers != nil {
		return a.customers, nil
	}
	store, err := a.storage(ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load[crm.Config](a.loadOpts...)
	if err != nil {
		return nil, err
	}
	a.customers = crm.NewRepository(store, a.catalog,
		crm.WithConfig(cfg),
		crm.WithLogger(a.logger),
		crm.WithRecorder(a.metrics),
	)
	return a.customers, nil
}

// authService returns nil when no client ID is configured. Pending sign-ins
// go to Redis when REDIS_URL is set, to memory otherwise; tokens always live
// in file storage so they survive restarts.
func (a *app) authService(ctx context.Context) (*auth.Service, []httpserver.Check, error) {
	cfg, err := config.Load[auth.Config](a.loadOpts...)
	if err != nil {
		return nil, nil, err
	}
	if !cfg.Enabled() {
		return nil, nil, nil
	}
	store, err := a.storage(ctx)
	if err != nil {
		return nil, nil, err
	}
	opts := []auth.Option{
		auth.WithTokenStore(auth.NewStorageTokenStore(store)),
		auth.WithLogger(a.logger),
	}

	var checks []httpserver.Check
	redisCfg, err := config.Load[redis.Config](a.loadOpts...)
	if err != nil {
		return nil, nil, err
	}
	if redisCfg.Enabled() {
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, auth.WithStateStore(auth.NewRedisStateStore(client, redisCfg.KeyPrefix)))
		checks = append(checks, httpserver.Check{Name: "redis", Fn: redis.Probe(client, 2*time.Second)})
	}

	return auth.NewService(cfg, opts...), checks, nil
}

// ticketClient returns nil when TICKETS_BASE_URL is unset or sign-in is off.
func (a *app) ticketClient(svc *auth.Service) (*tickets.Client, error) {
	if svc == nil {
		return nil, nil
	}
	cfg, err := config.Load[tickets.Config](a.loadOpts...)
	if err != nil {
		return nil, err
	}
	if cfg.BaseURL == "" {
		return nil, nil
	}
	return tickets.NewClient(cfg, svc.Provider(a.cfg.AuthSubject), tickets.WithLogger(a.logger))
}
