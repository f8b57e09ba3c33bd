package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joshiujjwal/lab37hw/internal/session"
)

// loginView holds the credential inputs shown while anonymous.
type loginView struct {
	username   textinput.Model
	password   textinput.Model
	focus      int
	err        string
	notice     string
	submitting bool
}

// newLoginView prefills username and, when one is given, starts on the
// password field.
func newLoginView(username string) loginView {
	user := textinput.New()
	user.Prompt = ""
	user.Placeholder = "username"
	user.CharLimit = 150
	user.Width = 30

	pass := textinput.New()
	pass.Prompt = ""
	pass.Placeholder = "password"
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'
	pass.Width = 30

	lv := loginView{username: user, password: pass}
	if username != "" {
		lv.username.SetValue(username)
		lv.focus = 1
		lv.password.Focus()
		return lv
	}
	lv.username.Focus()
	return lv
}

func (l *loginView) toggleFocus() {
	if l.focus == 0 {
		l.focus = 1
		l.username.Blur()
		l.password.Focus()
		return
	}
	l.focus = 0
	l.password.Blur()
	l.username.Focus()
}

// fail shows the login error and clears the password.
func (l *loginView) fail() {
	l.err = session.LoginFailedMessage
	l.notice = ""
	l.password.SetValue("")
}

func (l *loginView) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if l.focus == 0 {
		l.username, cmd = l.username.Update(msg)
	} else {
		l.password, cmd = l.password.Update(msg)
	}
	return cmd
}

func (m Model) renderLogin() string {
	styles := m.theme.Styles()
	l := m.login

	row := func(title string, input textinput.Model, focused bool) string {
		marker := "  "
		if focused {
			marker = styles.AccentText.Render("> ")
		}
		return marker + styles.MutedText.Width(10).Render(title) + input.View()
	}

	var b strings.Builder
	b.WriteString(styles.Logo.Render("recipebox"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("Sign in to manage your recipes"))
	b.WriteString("\n\n")
	if l.notice != "" {
		b.WriteString(styles.WarningText.Render(l.notice))
		b.WriteString("\n\n")
	}
	b.WriteString(row("Username", l.username, l.focus == 0))
	b.WriteString("\n")
	b.WriteString(row("Password", l.password, l.focus == 1))
	b.WriteString("\n\n")
	switch {
	case l.submitting:
		b.WriteString(m.spinner.View() + " " + styles.MutedText.Render("Signing in..."))
	case l.err != "":
		b.WriteString(styles.DangerText.Render(l.err))
	default:
		b.WriteString(styles.FaintText.Render("tab switch field • enter sign in • ctrl+c quit"))
	}

	box := styles.FocusPanel.Padding(1, 3).Render(b.String())
	return lipgloss.Place(
		m.screenWidth(),
		m.screenHeight(),
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
