package ui

import (
	"strings"

	"github.com/joshiujjwal/lab37hw/internal/state"
)

// refreshDetail re-renders the detail document into the viewport. It is
// called when a recipe arrives and whenever width or theme change.
func (m *Model) refreshDetail() {
	if m.router.View() != state.ViewDetail {
		return
	}
	recipe := m.detail.Recipe()
	if recipe == nil {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(RenderRecipe(*recipe, m.screenWidth()-4, m.theme.Markdown))
}

func (m Model) renderDetail() string {
	styles := m.theme.Styles()
	switch {
	case m.detail.Loading():
		return m.spinner.View() + " " + styles.MutedText.Render("Loading recipe...")
	case m.detail.Err() != nil:
		return styles.DangerText.Render(state.DetailFailedMessage) + "\n" +
			styles.FaintText.Render("Press esc to go back.")
	case m.detail.Recipe() == nil:
		// Missing recipes render nothing.
		return ""
	}

	var b strings.Builder
	b.WriteString(m.viewport.View())
	if pct := m.viewport.ScrollPercent(); pct < 1 {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render(strings.Repeat(" ", 2) + "more below"))
	}
	return b.String()
}
