package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vitalitypact/vitalitypact/internal/backend"
	"github.com/vitalitypact/vitalitypact/internal/ingestion"
	"github.com/vitalitypact/vitalitypact/internal/platform/logger"
	"github.com/vitalitypact/vitalitypact/pkg/config"
	"github.com/vitalitypact/vitalitypact/pkg/dialogue"
	"github.com/vitalitypact/vitalitypact/pkg/surface"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	user       string
	format     string
	verbose    bool
}

func (g *globalFlags) register(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&g.configPath, "config", "", "Path to config file (default: search for .vitalitypact/config.yaml)")
	f.StringVar(&g.user, "user", "", "User whose history to use (default: config user)")
	f.StringVar(&g.format, "format", "text", "Output format: text, json or markdown")
	f.BoolVarP(&g.verbose, "verbose", "v", false, "Log pipeline details to stderr")
}

// app is everything a subcommand needs once config is resolved.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	svc      *ingestion.Service
	user     string
	renderer surface.Renderer
	store    *backend.Opened
}

func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("closing storage", "error", err)
		}
	}
	a.log.Sync()
}

func loadConfig(path string) *config.Config {
	if path == "" {
		wd, err := os.Getwd()
		if err == nil {
			path = config.FindConfigFile(wd)
		}
	}
	if path == "" {
		return config.DefaultConfig()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		return config.DefaultConfig()
	}
	return cfg
}

func newLogger(g *globalFlags, cfg *config.Config) *logger.Logger {
	if !g.verbose {
		return logger.Nop()
	}
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to build logger: %v\n", err)
		return logger.Nop()
	}
	return log
}

// newDialogueGenerator returns a generator backed by the configured model,
// or one that only uses local lines when dialogue is disabled or no key is set.
func newDialogueGenerator(cfg *config.Config, log *logger.Logger) *dialogue.Generator {
	key := cfg.DialogueAPIKey()
	if !cfg.Dialogue.Enabled || key == "" {
		return dialogue.NewGenerator(nil, log, nil)
	}
	client, err := dialogue.NewClient(dialogue.ClientConfig{
		BaseURL: cfg.Dialogue.BaseURL,
		APIKey:  key,
		Model:   cfg.Dialogue.Model,
		Timeout: cfg.DialogueTimeout(),
	}, log)
	if err != nil {
		log.Warn("dialogue client disabled", "error", err)
		return dialogue.NewGenerator(nil, log, nil)
	}
	return dialogue.NewGenerator(client, log, nil)
}

// openApp resolves config and opens the storage backend.
func openApp(ctx context.Context, g *globalFlags) (*app, error) {
	renderer, ok := surface.ForFormat(g.format)
	if !ok {
		return nil, fmt.Errorf("unknown format %q (want text, json or markdown)", g.format)
	}

	cfg := loadConfig(g.configPath)
	log := newLogger(g, cfg)

	opened, err := backend.Open(ctx, cfg.Storage, cfg.History.RetentionDays, log)
	if err != nil {
		return nil, err
	}

	svc := ingestion.NewService(opened.Backend,
		ingestion.WithLogger(log),
		ingestion.WithWindowDays(cfg.History.WindowDays),
		ingestion.WithGenerator(newDialogueGenerator(cfg, log)),
	)

	return &app{
		cfg:      cfg,
		log:      log,
		svc:      svc,
		user:     firstNonEmpty(g.user, cfg.User, "default"),
		renderer: renderer,
		store:    opened,
	}, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
