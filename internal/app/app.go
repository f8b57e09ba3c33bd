package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/joshiujjwal/lab37hw/internal/api"
	"github.com/joshiujjwal/lab37hw/internal/config"
	"github.com/joshiujjwal/lab37hw/internal/logging"
	"github.com/joshiujjwal/lab37hw/internal/prefs"
	"github.com/joshiujjwal/lab37hw/internal/session"
	"github.com/joshiujjwal/lab37hw/internal/tokenstore"
	"github.com/joshiujjwal/lab37hw/internal/ui"
)

// Options configure the recipebox application.
type Options struct {
	ConfigPath string
	Theme      string // empty uses the configured theme
}

// Deps are the services shared by the TUI and the CLI subcommands.
type Deps struct {
	Config  config.Config
	Logger  *slog.Logger
	Client  *api.Client
	Tokens  *tokenstore.FileStore
	Session *session.Session

	logCloser io.Closer
}

// Open loads configuration and builds the API client and session.
// Callers must Close the result.
func Open(opts Options) (*Deps, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, closer, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	tokens, err := tokenstore.NewFileStore(cfg.TokenFile)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("init token store: %w", err)
	}

	client, err := api.NewClient(cfg.APIURL,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithLogger(logger),
	)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("init api client: %w", err)
	}

	sess := session.New(tokens, client, logger)
	logger.Debug("recipebox configured",
		"api", client.BaseURL(),
		"token_file", tokens.Path(),
		"authenticated", sess.Authenticated(),
	)

	return &Deps{
		Config:    cfg,
		Logger:    logger,
		Client:    client,
		Tokens:    tokens,
		Session:   sess,
		logCloser: closer,
	}, nil
}

// Close releases the log file.
func (d *Deps) Close() error {
	if d == nil || d.logCloser == nil {
		return nil
	}
	return d.logCloser.Close()
}

// RememberUsername records username as the last one that signed in.
func (d *Deps) RememberUsername(username string) {
	if err := prefs.Update(d.Config.PrefsFile, func(p *prefs.Prefs) { p.LastUsername = username }); err != nil {
		d.Logger.Warn("save username failed", "error", err)
	}
}

// LastUsername returns the last username that signed in, if any.
func (d *Deps) LastUsername() string {
	return prefs.Load(d.Config.PrefsFile).LastUsername
}

// Run boots the recipebox TUI until the user quits or the context is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	deps, err := Open(opts)
	if err != nil {
		return err
	}
	defer func() { _ = deps.Close() }()

	remembered := prefs.Load(deps.Config.PrefsFile)
	theme := deps.Config.Theme
	if remembered.Theme != "" {
		theme = remembered.Theme
	}
	if opts.Theme != "" {
		theme = opts.Theme
	}

	deps.Logger.Info("starting tui", "api", deps.Client.BaseURL())
	err = ui.Run(ui.Options{
		Context:        ctx,
		Session:        deps.Session,
		Recipes:        deps.Client,
		Logger:         deps.Logger,
		ThemeName:      theme,
		SearchDebounce: deps.Config.SearchDebounce,
		Username:       remembered.LastUsername,
		OnLogin: func(username string) {
			deps.RememberUsername(username)
		},
		OnThemeChange: func(name string) {
			if err := prefs.Update(deps.Config.PrefsFile, func(p *prefs.Prefs) { p.Theme = name }); err != nil {
				deps.Logger.Warn("save theme failed", "error", err)
			}
		},
	})
	if err != nil {
		deps.Logger.Error("tui exited", "error", err)
	}
	return err
}
