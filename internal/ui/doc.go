// Package ui provides the recipebox terminal interface built on Bubble Tea.
//
// # Architecture Overview
//
// Model is the single root tea.Model. It owns the session, the recipe service
// and the pure state objects from package state (Router, Dashboard, Detail,
// Debouncer), and renders one of four screens:
//
//   - Login: shown whenever the session holds no token
//   - Dashboard: the recipe list with a debounced search box
//   - Detail: one recipe rendered as markdown with glamour in a viewport
//   - Form: create or edit a recipe, including its ingredient rows
//
// # Package Structure
//
//   - app.go: Model, Update routing, view transitions and Run
//   - commands.go: tea.Cmd constructors for every API call and their messages
//   - login.go, dashboard.go, detail.go, form.go: per-screen input and rendering
//   - markdown.go: recipe markdown, also used by the CLI show command
//   - modal.go: the delete confirmation dialog
//   - help.go, keys.go: key bindings and the help overlay
//   - theme.go, style_helpers.go, strings.go: colors and rendering helpers
//
// # Request Lifecycle
//
// API calls run inside tea.Cmds with a per-view context. Entering another
// view cancels that context, and results carrying context.Canceled are
// dropped. List and detail responses also carry a sequence number so only the
// latest request is applied. Every result records the token it was issued
// with; results for a token that is no longer current are ignored, and an
// authorization failure expires the session and returns to the login screen.
//
// # Search
//
// Keystrokes in the search box restart a state.Debouncer. When it fires it
// delivers the term on a channel that a waitForSearch command turns into a
// searchFiredMsg, which starts the list load.
//
// # Key Bindings
//
//   - j/k, g/G: Move selection, jump to top or bottom
//   - enter: Open recipe
//   - n / e / d: New, edit, delete recipe
//   - /: Search, esc clears
//   - r: Reload
//   - tab, ctrl+n, ctrl+x, ctrl+s: Form navigation, rows and save
//   - T: Cycle theme
//   - L: Log out
//   - ?: Toggle help
//   - q or ctrl+c: Quit
package ui
