package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/joshiujjwal/lab37hw/internal/state"
)

// renderHeader renders the top bar: logo, active view and theme.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	width := m.screenWidth()

	parts := []string{
		bg.Render("recipebox", styles.Logo),
		bg.Render(m.router.View().String(), styles.AccentText),
	}
	if m.router.View() == state.ViewDashboard {
		snap := m.dashboard.Snapshot()
		count := fmt.Sprintf("%d %s", len(snap.Items), ternary(len(snap.Items) == 1, "recipe", "recipes"))
		parts = append(parts, bg.Render(count, styles.MutedText))
		if !snap.LastUpdated.IsZero() {
			parts = append(parts, bg.Render("updated "+humanize.Time(snap.LastUpdated), styles.FaintText))
		}
	}
	left := bg.Join(parts, "  ")
	right := bg.Render(m.theme.Name, styles.FaintText)

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	line := left
	if gap > 0 {
		line = left + bg.Render(strings.Repeat(" ", gap), styles.Text) + right
	}
	return styles.Header.Width(width).Render(line)
}

func (m Model) renderDashboard() string {
	styles := m.theme.Styles()
	snap := m.dashboard.Snapshot()
	width := m.screenWidth()
	bodyHeight := maxInt(m.screenHeight()-2, 3)

	var b strings.Builder

	searchBox := m.search.View()
	if m.searching {
		searchBox = styles.FocusPanel.Width(width - 4).Render(searchBox)
	} else {
		searchBox = styles.Panel.Width(width - 4).Render(searchBox)
	}
	b.WriteString(searchBox)
	b.WriteString("\n")
	used := lipgloss.Height(searchBox) + 1

	switch {
	case snap.Notice != "":
		b.WriteString(styles.DangerText.Render(snap.Notice))
		b.WriteString("\n")
		used++
	case snap.Status != "":
		b.WriteString(styles.SuccessText.Render(snap.Status))
		b.WriteString("\n")
		used++
	}

	switch {
	case snap.Loading && len(snap.Items) == 0:
		b.WriteString(m.spinner.View() + " " + styles.MutedText.Render("Loading recipes..."))
		return b.String()
	case snap.LoadErr != nil:
		b.WriteString(styles.DangerText.Render(state.LoadFailedMessage))
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render("Press r to retry."))
		return b.String()
	}

	if msg := snap.EmptyMessage(); msg != "" {
		b.WriteString(styles.MutedText.Render(msg))
		return b.String()
	}

	b.WriteString(m.renderRecipeRows(snap, width, maxInt(bodyHeight-used, 1)))
	return b.String()
}

// renderRecipeRows draws the visible window of the list around the selection.
func (m Model) renderRecipeRows(snap state.ListSnapshot, width, height int) string {
	styles := m.theme.Styles()

	start := 0
	if snap.Selected >= height {
		start = snap.Selected - height + 1
	}
	end := minInt(start+height, len(snap.Items))

	titleWidth := maxInt(width-30, 10)
	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		item := snap.Items[i]
		title := padRight(truncate(item.Title, titleWidth), titleWidth)
		yield := truncate(item.YieldAmount, 24)
		if i == snap.Selected {
			line := padRight(" "+title+"  "+yield, width-2)
			rows = append(rows, styles.Selected.Render(line))
			continue
		}
		rows = append(rows, " "+styles.Text.Render(title)+"  "+styles.MutedText.Render(yield))
	}
	if snap.Loading {
		rows = append(rows, m.spinner.View()+" "+styles.FaintText.Render("Refreshing..."))
	}
	return strings.Join(rows, "\n")
}
