package state

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/joshiujjwal/lab37hw/internal/api"
)

// User-facing dashboard messages.
const (
	LoadFailedMessage   = "Failed to load recipes."
	DeleteFailedMessage = "Failed to delete recipe."
	DeleteConfirmPrompt = "Are you sure you want to delete this recipe?"
	DeletedMessage      = "Recipe deleted."
	SavedMessage        = "Recipe saved."
	emptyNoRecipes      = "No recipes yet. Press n to create a recipe."
	emptyNoMatches      = "No recipes match %q. Try adjusting your search."
)

// LoadRequest identifies one list fetch. Only the most recent request's
// response is applied.
type LoadRequest struct {
	Seq  uint64
	Term string
}

// ListSnapshot is a copy of the dashboard state for rendering.
type ListSnapshot struct {
	Items         []api.RecipeSummary
	Term          string
	Loading       bool
	LoadErr       error
	Notice        string
	Status        string
	Selected      int
	PendingDelete int64
	LastUpdated   time.Time
}

// Selection returns the highlighted summary, if any.
func (s ListSnapshot) Selection() (api.RecipeSummary, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Items) {
		return api.RecipeSummary{}, false
	}
	return s.Items[s.Selected], true
}

// EmptyMessage explains an empty list. The wording depends only on whether a
// search term is active. It is blank while loading, on error, or when there
// are items.
func (s ListSnapshot) EmptyMessage() string {
	if s.Loading || s.LoadErr != nil || len(s.Items) > 0 {
		return ""
	}
	if term := strings.TrimSpace(s.Term); term != "" {
		return fmt.Sprintf(emptyNoMatches, term)
	}
	return emptyNoRecipes
}

// Dashboard holds the recipe list, its search term and a staged deletion.
type Dashboard struct {
	mu       sync.RWMutex
	snapshot ListSnapshot
	seq      uint64
}

// BeginLoad records term as current and returns the request to issue.
func (d *Dashboard) BeginLoad(term string) LoadRequest {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	d.snapshot.Term = strings.TrimSpace(term)
	d.snapshot.Loading = true
	return LoadRequest{Seq: d.seq, Term: d.snapshot.Term}
}

// Reload re-issues the current term.
func (d *Dashboard) Reload() LoadRequest {
	d.mu.RLock()
	term := d.snapshot.Term
	d.mu.RUnlock()
	return d.BeginLoad(term)
}

// ApplyLoad stores the outcome of req. Responses for anything but the latest
// request are discarded and ApplyLoad returns false. A failure empties the
// list rather than leaving stale rows.
func (d *Dashboard) ApplyLoad(seq uint64, items []api.RecipeSummary, err error) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if seq != d.seq {
		return false
	}
	d.snapshot.Loading = false
	if err != nil {
		d.snapshot.Items = nil
		d.snapshot.LoadErr = err
		d.snapshot.Selected = 0
		return true
	}
	d.snapshot.Items = cloneSummaries(items)
	d.snapshot.LoadErr = nil
	d.snapshot.LastUpdated = time.Now()
	d.snapshot.Selected = clamp(d.snapshot.Selected, len(d.snapshot.Items))
	return true
}

// Move shifts the selection by delta, clamped to the list.
func (d *Dashboard) Move(delta int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.snapshot.Selected = clamp(d.snapshot.Selected+delta, len(d.snapshot.Items))
}

// SelectIndex jumps to index i, clamped. Negative i selects the last row.
func (d *Dashboard) SelectIndex(i int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i < 0 {
		i = len(d.snapshot.Items) - 1
	}
	d.snapshot.Selected = clamp(i, len(d.snapshot.Items))
}

// RequestDelete stages id for confirmation. Nothing is sent yet.
func (d *Dashboard) RequestDelete(id int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.snapshot.PendingDelete = id
	d.snapshot.Notice = ""
	d.snapshot.Status = ""
}

// CancelDelete drops the staged deletion.
func (d *Dashboard) CancelDelete() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.snapshot.PendingDelete = 0
}

// ConfirmDelete consumes the staged deletion and returns its id.
func (d *Dashboard) ConfirmDelete() (int64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.snapshot.PendingDelete
	d.snapshot.PendingDelete = 0
	return id, id != 0
}

// DeleteFailed surfaces a failed deletion. The list is left unchanged.
func (d *Dashboard) DeleteFailed() {
	d.SetNotice(DeleteFailedMessage)
}

// SetNotice shows the failure msg above the list until the next action
// clears it.
func (d *Dashboard) SetNotice(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.snapshot.Notice = msg
	d.snapshot.Status = ""
}

// SetStatus reports a completed action. It replaces any notice.
func (d *Dashboard) SetStatus(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.snapshot.Status = msg
	d.snapshot.Notice = ""
}

// ClearNotice removes any transient message.
func (d *Dashboard) ClearNotice() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.snapshot.Notice = ""
	d.snapshot.Status = ""
}

// Reset forgets everything, including the search term.
func (d *Dashboard) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	d.snapshot = ListSnapshot{}
}

// Snapshot returns a copy of the current state.
func (d *Dashboard) Snapshot() ListSnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	snap := d.snapshot
	snap.Items = cloneSummaries(d.snapshot.Items)
	return snap
}

func cloneSummaries(items []api.RecipeSummary) []api.RecipeSummary {
	if len(items) == 0 {
		return nil
	}
	dup := make([]api.RecipeSummary, len(items))
	copy(dup, items)
	return dup
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
