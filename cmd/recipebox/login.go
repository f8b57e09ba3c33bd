package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/joshiujjwal/lab37hw/internal/session"
)

func newLoginCommand(root *rootOptions) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := root.open()
			if err != nil {
				return err
			}
			defer func() { _ = deps.Close() }()

			if username == "" {
				username = deps.LastUsername()
			}
			if username == "" || password == "" {
				if err := promptCredentials(&username, &password); err != nil {
					return err
				}
			}

			if err := deps.Session.Login(cmd.Context(), username, password); err != nil {
				deps.Logger.Warn("login failed", "username", username, "error", err)
				return errors.New(session.LoginFailedMessage)
			}
			deps.RememberUsername(username)
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s.\n", username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username (prompted when omitted)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

func promptCredentials(username, password *string) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(username).
				Validate(huh.ValidateNotEmpty()),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(password).
				Validate(huh.ValidateNotEmpty()),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errors.New("login cancelled")
		}
		return fmt.Errorf("read credentials: %w", err)
	}
	return nil
}

func newLogoutCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := root.open()
			if err != nil {
				return err
			}
			defer func() { _ = deps.Close() }()

			deps.Session.Logout()
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}
