package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/seqkit/config"
	"github.com/kbukum/seqkit/logger"
	"github.com/kbukum/seqkit/observe"
	"github.com/kbukum/seqkit/plan"
)

// App holds the infrastructure shared by seqkit commands.
type App struct {
	Name      string
	Version   string
	Cfg       *config.ServiceConfig
	Logger    *logger.Logger
	Telemetry *observe.Providers
	Metrics   *observe.Metrics
	Engine    *plan.Engine
	Loader    plan.Loader

	gracefulTimeout time.Duration
	onStart         []Hook
	onStop          []Hook
}

// NewApp applies defaults, validates the config, initializes the logger and
// telemetry, and builds the plan engine.
func NewApp(cfg *config.ServiceConfig, opts ...Option) (*App, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	o := resolveOptions(opts)
	app := &App{
		Name:            cfg.Name,
		Version:         o.version,
		Cfg:             cfg,
		gracefulTimeout: 5 * time.Second,
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}

	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(cfg.Logging)
		app.Logger = logger.GetGlobalLogger()
	}
	logger.RegisterComponents(app.Logger)

	telemetry, err := observe.Setup(observe.ProviderConfig{
		ServiceName:    cfg.Name,
		ServiceVersion: app.Version,
		Environment:    cfg.Environment,
		Metrics:        cfg.Engine.Metrics,
		Tracing:        cfg.Engine.Tracing,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("telemetry setup: %w", err)
	}
	app.Telemetry = telemetry

	engineOpts := []plan.Option{
		plan.WithMaxItems(cfg.Engine.MaxItems),
		plan.WithDefaultDepth(*cfg.Engine.DefaultDepth),
	}
	if o.registry != nil {
		engineOpts = append(engineOpts, plan.WithRegistry(o.registry))
	}
	if cfg.Engine.Metrics {
		m, err := observe.NewMetrics(observe.Meter(cfg.Name))
		if err != nil {
			return nil, fmt.Errorf("metrics setup: %w", err)
		}
		app.Metrics = m
		engineOpts = append(engineOpts, plan.WithMetrics(m))
	}
	app.Engine = plan.NewEngine(engineOpts...)
	app.Loader = plan.NewFileLoader(cfg.Engine.PlansDir...)

	return app, nil
}

// RunTask runs OnStart hooks, then task, then shuts down. The task context
// is canceled on SIGINT or SIGTERM.
func (a *App) RunTask(ctx context.Context, task func(ctx context.Context, app *App) error) error {
	a.Logger.Debug("starting", logger.Fields("name", a.Name, "version", a.Version))

	if err := runHooks(ctx, a.onStart); err != nil {
		_ = a.Shutdown()
		return fmt.Errorf("onStart hook failed: %w", err)
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Info("received signal, canceling task", logger.Fields("signal", sig.String()))
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx, a)

	if stopErr := a.Shutdown(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

// Shutdown runs OnStop hooks and flushes telemetry within the graceful
// timeout.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", logger.ErrorFields("shutdown", err))
		shutdownErr = err
	}
	if err := a.Telemetry.Shutdown(ctx); err != nil {
		a.Logger.Error("telemetry shutdown error", logger.ErrorFields("shutdown", err))
		if shutdownErr == nil {
			shutdownErr = err
		}
	}
	return shutdownErr
}
