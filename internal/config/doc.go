// Package config loads recipebox settings from a TOML file.
//
// # Overview
//
// recipebox needs very little configuration: where the recipe API lives, where
// to keep the bearer token and remembered preferences between runs, where to
// write its log, and a couple of timing knobs. Every field has a default, so the client works without any
// file on disk.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/recipebox/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//  5. RECIPEBOX_API_URL, when set, wins over api_url
//
// # Default Values
//
//   - API endpoint: http://127.0.0.1:8000
//   - Token file: ~/.config/recipebox/session.toml
//   - Preferences file: ~/.config/recipebox/prefs.toml
//   - Log file: ~/.local/state/recipebox/recipebox.log
//   - Log level: info
//   - Theme: Nightfox
//   - Search debounce: 300ms
//   - Request timeout: 10s
//
// # TOML Format
//
//	api_url = "http://127.0.0.1:8000"
//	token_file = "~/.config/recipebox/session.toml"
//	prefs_file = "~/.config/recipebox/prefs.toml"
//	log_file = "~/.local/state/recipebox/recipebox.log"
//	log_level = "debug"
//	theme = "Slate"
//	search_debounce_ms = 300
//	request_timeout_seconds = 10
//
// Path fields get tilde expansion and are made absolute.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, and TOML parse errors (prefixed "parse config").
package config
