package app

import (
	"context"
	"fmt"

	"github.com/pitwall/paddock/internal/config"
	"github.com/pitwall/paddock/internal/console"
	"github.com/pitwall/paddock/internal/lookup"
	"github.com/pitwall/paddock/internal/mcapd"
	"github.com/pitwall/paddock/internal/prefs"
	"github.com/pitwall/paddock/internal/state"
	"github.com/pitwall/paddock/internal/ui"
)

// Options configure the Paddock application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/paddock/prefs.toml
}

// Run boots the Paddock console until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}

	client, err := mcapd.NewClient(cfg.APIBase, cfg.RequestTimeout)
	if err != nil {
		return fmt.Errorf("init mcapd client: %w", err)
	}

	store := &state.Store{}

	// Lookups are fetched once at startup. A failed collection degrades to
	// id display rather than blocking the console.
	lookups := lookup.Load(ctx, client)

	controller := console.New(client, store, lookups, cfg.DownloadDir)

	// Populate the collection before the first frame renders.
	controller.Refresh(ctx)

	return ui.Run(ui.Options{
		Context:       ctx,
		Controller:    controller,
		ThemeName:     userPrefs.Theme,
		PrefsPath:     opts.PrefsPath,
		ReplaceOnSave: userPrefs.ReplaceOnSave,
	})
}
