package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/joshiujjwal/lab37hw/internal/api"
	"github.com/joshiujjwal/lab37hw/internal/state"
	"github.com/joshiujjwal/lab37hw/internal/ui"
)

const maxReadableWidth = 100

func newListCommand(root *rootOptions) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recipes, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := root.open()
			if err != nil {
				return err
			}
			defer func() { _ = deps.Close() }()

			token, err := requireLogin(deps)
			if err != nil {
				return err
			}
			items, err := deps.Client.ListRecipes(cmd.Context(), token, search)
			if err != nil {
				return apiError(deps, token, "list recipes", err)
			}

			out := cmd.OutOrStdout()
			if len(items) == 0 {
				if term := strings.TrimSpace(search); term != "" {
					fmt.Fprintf(out, "No recipes match %q.\n", term)
				} else {
					fmt.Fprintln(out, "No recipes yet.")
				}
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tYIELD")
			for _, item := range items {
				fmt.Fprintf(w, "%d\t%s\t%s\n", item.ID, item.Title, item.YieldAmount)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "only recipes whose title contains this text")
	return cmd
}

func newShowCommand(root *rootOptions) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Render a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			deps, err := root.open()
			if err != nil {
				return err
			}
			defer func() { _ = deps.Close() }()

			token, err := requireLogin(deps)
			if err != nil {
				return err
			}
			recipe, err := deps.Client.GetRecipe(cmd.Context(), token, id)
			if errors.Is(err, api.ErrNotFound) {
				return fmt.Errorf("recipe %d not found", id)
			}
			if err != nil {
				return apiError(deps, token, "load recipe", err)
			}

			if raw || !stdoutIsTerminal() {
				fmt.Fprint(cmd.OutOrStdout(), ui.RecipeMarkdown(*recipe))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderRecipe(*recipe, terminalWidth(), ""))
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown without styling")
	return cmd
}

func newDeleteCommand(root *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a recipe",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			deps, err := root.open()
			if err != nil {
				return err
			}
			defer func() { _ = deps.Close() }()

			token, err := requireLogin(deps)
			if err != nil {
				return err
			}

			if !yes {
				confirmed, err := confirmDelete(id)
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Kept recipe.")
					return nil
				}
			}

			if err := deps.Client.DeleteRecipe(cmd.Context(), token, id); err != nil {
				if errors.Is(err, api.ErrNotFound) {
					return fmt.Errorf("recipe %d not found", id)
				}
				return apiError(deps, token, "delete recipe", err)
			}
			deps.Logger.Info("recipe deleted", "id", id)
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted recipe %d.\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func confirmDelete(id int64) (bool, error) {
	var confirmed bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(state.DeleteConfirmPrompt).
				Description(fmt.Sprintf("Recipe %d will be removed permanently.", id)).
				Affirmative("Delete").
				Negative("Keep").
				Value(&confirmed),
		),
	).WithTheme(huh.ThemeDracula()).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("confirm delete: %w", err)
	}
	return confirmed, nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid recipe id %q", arg)
	}
	return id, nil
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func terminalWidth() int {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	return min(width, maxReadableWidth)
}
