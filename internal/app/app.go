package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/five82/pwinty/internal/config"
	"github.com/five82/pwinty/internal/prefs"
	"github.com/five82/pwinty/internal/pwinty"
	"github.com/five82/pwinty/internal/state"
	"github.com/five82/pwinty/internal/ui"
)

// Options configure the order browser.
type Options struct {
	ConfigPath string
	Host       string // overrides the configured host when set
	PrefsPath  string // empty uses default ~/.config/pwinty/prefs.toml
	PollEvery  int    // seconds; zero uses default
}

// LoadConfig reads the config at path, applies a non-empty host override and
// requires credentials.
func LoadConfig(path, host string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if host != "" {
		cfg.Host = host
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// NewClient builds an API client from cfg.
func NewClient(cfg config.Config, logger *slog.Logger) *pwinty.Client {
	return pwinty.NewClient(cfg.MerchantID, cfg.APIKey, cfg.Host,
		pwinty.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		pwinty.WithLogger(logger),
	)
}

// Run boots the order browser until the context is cancelled or the user
// quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := LoadConfig(opts.ConfigPath, opts.Host)
	if err != nil {
		return err
	}

	logFile, err := OpenLogFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()
	logger := NewLogger(logFile, cfg.LogLevel, "text")

	userPrefs := prefs.Load(opts.PrefsPath)
	client := NewClient(cfg, logger)
	store := &state.Store{}

	interval := defaultPollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	poller := NewPoller(client, store, interval, logger)
	poller.SetFilter(userPrefs.StatusFilter)
	poller.Start(ctx)

	logger.Info("order browser started", "merchant", cfg.MerchantID, "host", cfg.Host, "sandbox", cfg.Sandbox())

	return ui.Run(ui.Options{
		Context:   ctx,
		Client:    client,
		Store:     store,
		Source:    poller,
		Config:    &cfg,
		Filter:    userPrefs.StatusFilter,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
		Logger:    logger,
	})
}
