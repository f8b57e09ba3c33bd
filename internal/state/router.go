package state

import "github.com/joshiujjwal/lab37hw/internal/api"

// View names the screen the authenticated UI is showing.
type View int

const (
	ViewDashboard View = iota
	ViewDetail
	ViewForm
)

func (v View) String() string {
	switch v {
	case ViewDetail:
		return "detail"
	case ViewForm:
		return "form"
	default:
		return "dashboard"
	}
}

// Router decides which view is active and what it is showing. It performs no
// I/O.
type Router struct {
	view       View
	selectedID int64
	editTarget *api.Recipe
}

// View returns the active view.
func (r *Router) View() View { return r.view }

// SelectedID returns the recipe the detail view shows.
func (r *Router) SelectedID() int64 { return r.selectedID }

// EditTarget returns a copy of the recipe staged for editing, or nil when the
// form is creating a new recipe.
func (r *Router) EditTarget() *api.Recipe {
	if r.editTarget == nil {
		return nil
	}
	dup := *r.editTarget
	dup.Ingredients = append([]api.Ingredient(nil), r.editTarget.Ingredients...)
	return &dup
}

// ShowDetail opens the detail view for id.
func (r *Router) ShowDetail(id int64) {
	r.view = ViewDetail
	r.selectedID = id
}

// NewRecipe opens an empty form. Any previously staged edit target is
// dropped so it cannot leak into the new recipe.
func (r *Router) NewRecipe() {
	r.editTarget = nil
	r.view = ViewForm
}

// EditRecipe opens the form pre-filled with recipe.
func (r *Router) EditRecipe(recipe api.Recipe) {
	dup := recipe
	dup.Ingredients = append([]api.Ingredient(nil), recipe.Ingredients...)
	r.editTarget = &dup
	r.view = ViewForm
}

// Back returns to the dashboard from the detail view.
func (r *Router) Back() {
	r.view = ViewDashboard
}

// Cancel leaves the form without saving.
func (r *Router) Cancel() {
	r.editTarget = nil
	r.view = ViewDashboard
}

// Saved returns to the dashboard after a successful save.
func (r *Router) Saved() {
	r.view = ViewDashboard
	r.selectedID = 0
	r.editTarget = nil
}

// Reset returns to the initial state.
func (r *Router) Reset() {
	*r = Router{}
}
