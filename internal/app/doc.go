// Package app is the composition root for recipebox.
//
// # Overview
//
// Open turns a config file into the services every entry point needs:
//
//  1. Load ~/.config/recipebox/config.toml (or the given path)
//  2. Open the slog log file
//  3. Open the TOML token store
//  4. Build the API client with the configured timeout
//  5. Seed the session from the stored token
//
// Run uses those services to start the Bubble Tea UI and blocks until the
// user quits or the context is cancelled. The CLI subcommands in
// cmd/recipebox call Open directly and skip the UI.
//
// # Error Handling
//
// Configuration, log file and client construction failures are returned
// from Open. Nothing is checked against the server at startup; an
// unreachable API shows up as a load error on the dashboard.
//
// # Usage Example
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//
//	if err := app.Run(ctx, app.Options{}); err != nil {
//		log.Fatalf("recipebox failed: %v", err)
//	}
package app
