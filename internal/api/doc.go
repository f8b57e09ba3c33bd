// Package api provides an HTTP client for the recipe service.
//
// # Overview
//
// The client wraps net/http with JSON encoding, bearer authentication and a
// uniform failure model. It knows the recipe endpoints and nothing about
// sessions or views; callers pass the token on every call.
//
// # Architecture
//
//   - client.go: base URL handling and the Get/Post/Put/Delete primitives
//   - recipes.go: typed helpers for /api/token/ and /api/recipes/
//   - types.go: Recipe, Ingredient, Quantity and request/response shapes
//   - errors.go: StatusError and the sentinels used for classification
//
// # Client Usage
//
//	client, err := api.NewClient("http://127.0.0.1:8000", api.WithTimeout(10*time.Second))
//	if err != nil {
//		return err
//	}
//	token, err := client.ObtainToken(ctx, "cook", "secret")
//	recipes, err := client.ListRecipes(ctx, token, "chicken")
//
// # Errors
//
// Every non-2xx response becomes a *StatusError. When the body carries a
// {"detail": "..."} message, Error returns it verbatim; otherwise it returns a
// generic "api METHOD PATH returned status N". Use errors.Is with
// ErrUnauthorized, ErrNotFound and ErrNetwork to branch. Delete additionally
// treats any status other than 204 as a failure.
//
// Context cancellation is reported as the context's own error so callers can
// tell an aborted request from a failed one.
//
// # Quantities
//
// Ingredient quantities arrive as JSON numbers or decimal strings. Quantity
// keeps whichever form it was given and writes it back unchanged.
package api
