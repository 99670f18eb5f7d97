package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dusk-indust/snipaudit/internal/agent"
	"github.com/dusk-indust/snipaudit/internal/config"
	"github.com/dusk-indust/snipaudit/internal/ctxlog"
	"github.com/dusk-indust/snipaudit/internal/ollama"
	"github.com/dusk-indust/snipaudit/internal/orchestrator"
	"github.com/dusk-indust/snipaudit/internal/source"
	"github.com/dusk-indust/snipaudit/internal/tracing"
	"github.com/viant/afs"
)

// app holds everything built from the config for one invocation.
type app struct {
	flags  cliFlags
	cfg    *config.ProjectConfig
	logger *slog.Logger
	stderr io.Writer
	fs     afs.Service
	client *ollama.Client
	tracer *tracing.Provider
}

func newApp(flags cliFlags, stderr io.Writer) (*app, error) {
	cfg, err := config.Load(flags.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &app{
		flags:  flags,
		cfg:    cfg,
		logger: ctxlog.New(cfg.LogLevel, cfg.LogFormat, stderr),
		stderr: stderr,
		fs:     afs.New(),
		client: ollama.NewClient(cfg.OllamaURL,
			ollama.WithModel(cfg.Model),
			ollama.WithTemperature(*cfg.Temperature),
		),
	}

	if cfg.TraceFile != "" {
		tp, err := tracing.NewFile("snipaudit", version, cfg.TraceFile)
		if err != nil {
			return nil, err
		}
		tp.Install()
		a.tracer = tp
	}
	return a, nil
}

func (a *app) close() {
	if a.tracer != nil {
		if err := a.tracer.Shutdown(context.Background()); err != nil {
			a.logger.Warn("trace shutdown failed", "error", err)
		}
	}
}

// context attaches the app logger.
func (a *app) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// connectivityHint names the server and model the user has to fix.
func (a *app) connectivityHint() string {
	return fmt.Sprintf("HINT: make sure the Ollama server is running at %s and the model %q is available (`ollama pull %s`).",
		a.cfg.OllamaURL, a.cfg.Model, a.cfg.Model)
}

// fanout builds the orchestrator over the validator agent.
func (a *app) fanout(opts ...orchestrator.Option) *orchestrator.FanOut {
	validator := agent.NewValidator(a.client)
	opts = append([]orchestrator.Option{
		orchestrator.WithWorkers(a.cfg.Agents),
		orchestrator.WithConnectivityHint(a.connectivityHint()),
	}, opts...)
	return orchestrator.NewFanOut(validator.Analyze, opts...)
}

func (a *app) loader() *source.Loader {
	return source.NewLoader(a.fs)
}
