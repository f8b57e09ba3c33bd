package state

import (
	"errors"

	"github.com/joshiujjwal/lab37hw/internal/api"
)

// DetailFailedMessage is shown when a recipe cannot be fetched.
const DetailFailedMessage = "Failed to load recipe details."

// Detail tracks the recipe shown in the detail view.
type Detail struct {
	id      int64
	token   string
	seq     uint64
	recipe  *api.Recipe
	loading bool
	err     error
}

// NeedsFetch reports whether id or token differ from the last fetch.
func (d *Detail) NeedsFetch(id int64, token string) bool {
	return d.seq == 0 || d.id != id || d.token != token
}

// Begin starts a fetch for id and returns its sequence number.
func (d *Detail) Begin(id int64, token string) uint64 {
	d.seq++
	d.id = id
	d.token = token
	d.recipe = nil
	d.err = nil
	d.loading = true
	return d.seq
}

// Apply stores a fetch result. Results from superseded fetches are ignored.
// A missing recipe renders blank rather than as an error.
func (d *Detail) Apply(seq uint64, recipe *api.Recipe, err error) bool {
	if seq != d.seq {
		return false
	}
	d.loading = false
	switch {
	case errors.Is(err, api.ErrNotFound):
		d.recipe, d.err = nil, nil
	case err != nil:
		d.recipe, d.err = nil, err
	default:
		d.recipe, d.err = recipe, nil
	}
	return true
}

// Reset forgets the current recipe.
func (d *Detail) Reset() {
	d.seq++
	d.id, d.token = 0, ""
	d.recipe, d.err, d.loading = nil, nil, false
}

// ID returns the recipe id being shown.
func (d *Detail) ID() int64 { return d.id }

// Recipe returns the fetched recipe, or nil.
func (d *Detail) Recipe() *api.Recipe { return d.recipe }

// Loading reports whether a fetch is outstanding.
func (d *Detail) Loading() bool { return d.loading }

// Err returns the last fetch failure.
func (d *Detail) Err() error { return d.err }
