// Command recipebox is a terminal client for a personal recipe API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/joshiujjwal/lab37hw/internal/api"
	"github.com/joshiujjwal/lab37hw/internal/app"
	"github.com/joshiujjwal/lab37hw/internal/session"
	"github.com/joshiujjwal/lab37hw/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	// A .env next to the binary may set RECIPEBOX_API_URL.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "recipebox: %v\n", err)
		return 1
	}
	return 0
}

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	theme      string
}

func (o *rootOptions) open() (*app.Deps, error) {
	return app.Open(app.Options{ConfigPath: o.configPath})
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "recipebox",
		Short: "Manage your recipes from the terminal",
		Long: `recipebox talks to a recipe API with a bearer token.

Run without a subcommand to open the interactive UI.

Examples:
  recipebox                      # Open the TUI
  recipebox login -u cook        # Sign in and store the token
  recipebox list --search pasta  # List matching recipes
  recipebox show 12              # Render one recipe
  recipebox delete 12 --yes      # Delete without prompting`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), app.Options{ConfigPath: opts.configPath, Theme: opts.theme})
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/recipebox/config.toml)")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "color theme ("+strings.Join(ui.ThemeNames(), ", ")+")")

	cmd.AddCommand(
		newLoginCommand(opts),
		newLogoutCommand(opts),
		newListCommand(opts),
		newShowCommand(opts),
		newDeleteCommand(opts),
	)
	return cmd
}

var errNotLoggedIn = errors.New("not logged in; run `recipebox login` first")

// requireLogin returns the current token or errNotLoggedIn.
func requireLogin(deps *app.Deps) (string, error) {
	token := deps.Session.Token()
	if token == "" {
		return "", errNotLoggedIn
	}
	return token, nil
}

// apiError turns a failed call into a user-facing error. A rejected token
// is dropped from the session so the next run asks for a login.
func apiError(deps *app.Deps, token, action string, err error) error {
	deps.Logger.Warn(action+" failed", "error", err)
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		deps.Session.Expire(token)
		return errors.New(session.ExpiredMessage)
	case errors.Is(err, api.ErrNetwork):
		return fmt.Errorf("%s: cannot reach %s", action, deps.Client.BaseURL())
	default:
		return fmt.Errorf("%s: %w", action, err)
	}
}
