package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// confirmModal asks a yes/no question and reports the answer as a
// confirmResultMsg.
type confirmModal struct {
	prompt  string
	subject string
}

func newConfirmModal(prompt, subject string) confirmModal {
	return confirmModal{prompt: prompt, subject: subject}
}

func (c confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(km, keys.Confirm):
		return c, confirmCmd(true), true
	case key.Matches(km, keys.Decline):
		return c, confirmCmd(false), true
	}
	return c, nil, false
}

func (c confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(c.prompt))
	if c.subject != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.AccentText.Render(truncate(c.subject, 40)))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.WarningText.Render("y") + styles.MutedText.Render(" delete   "))
	b.WriteString(styles.WarningText.Render("n") + styles.MutedText.Render(" keep"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Danger)).
		Padding(1, 2).
		Width(48).
		Render(b.String())

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

func confirmCmd(confirmed bool) tea.Cmd {
	return func() tea.Msg { return confirmResultMsg{confirmed: confirmed} }
}
