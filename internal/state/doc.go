// Package state holds the view state of recipebox independent of any
// terminal rendering.
//
// # Overview
//
// Every screen of the TUI is backed by a small state machine here. The types
// perform no I/O: they decide what request should be issued next and whether
// a response that arrives later is still wanted. The ui package turns those
// decisions into Bubble Tea commands; the CLI reuses the same rules.
//
// # Core Types
//
// Router: which view is active (dashboard, detail, form), the recipe the
// detail view shows, and the recipe staged for editing. Starting a new recipe
// always clears the staged edit target.
//
// Dashboard: the recipe list, current search term, selection cursor and a
// staged deletion. Loads are numbered; ApplyLoad ignores every response but
// the latest, so a slow search for "chi" cannot overwrite the results for
// "chicken". Dashboard is safe for concurrent use and hands out copies via
// Snapshot.
//
// Detail: the recipe behind the detail view, with the same sequence guard.
//
// Draft: the form's editable copy of a recipe, ingredient row editing,
// validation into ValidationErrors, and the create-or-update decision.
//
// Debouncer: delivers the last value triggered within a quiet period. The
// scheduler is injectable so tests advance a fake clock instead of sleeping.
//
// # Thread Safety
//
// Dashboard and Debouncer lock internally. Router, Detail and Draft are owned
// by the Bubble Tea update loop and are not synchronized.
package state
