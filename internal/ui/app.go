package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshiujjwal/lab37hw/internal/api"
	"github.com/joshiujjwal/lab37hw/internal/logging"
	"github.com/joshiujjwal/lab37hw/internal/session"
	"github.com/joshiujjwal/lab37hw/internal/state"
)

const defaultSearchDebounce = 300 * time.Millisecond

// Options configures the UI.
type Options struct {
	Context        context.Context
	Session        *session.Session
	Recipes        api.RecipeService
	Logger         *slog.Logger
	ThemeName      string
	SearchDebounce time.Duration
	// Scheduler drives the search debounce; nil uses the real clock.
	Scheduler state.Scheduler

	// Username prefills the login form.
	Username string
	// OnLogin and OnThemeChange are called after a successful login and
	// after the theme is cycled, so the choice can be remembered.
	OnLogin       func(username string)
	OnThemeChange func(theme string)
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx     context.Context
	session *session.Session
	recipes api.RecipeService
	logger  *slog.Logger

	lastUsername  string
	onLogin       func(string)
	onThemeChange func(string)

	// UI state
	theme    Theme
	keys     keyMap
	help     help.Model
	width    int
	height   int
	showHelp bool

	// View state
	router    *state.Router
	dashboard *state.Dashboard
	detail    *state.Detail
	debouncer *state.Debouncer
	searchCh  chan string

	// Cancelled whenever the active view changes.
	viewCtx    context.Context
	cancelView context.CancelFunc

	// Widgets
	login       loginView
	search      textinput.Model
	searching   bool
	pendingEdit int64
	modal       Modal
	spinner     spinner.Model
	viewport    viewport.Model
	form        *formView
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	delay := opts.SearchDebounce
	if delay <= 0 {
		delay = defaultSearchDebounce
	}

	searchCh := make(chan string, 1)
	deliver := func(term string) {
		select {
		case searchCh <- term:
		case <-ctx.Done():
		}
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "Search recipes"
	search.CharLimit = 120

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:       ctx,
		session:   opts.Session,
		recipes:   opts.Recipes,
		logger:    logger,

		lastUsername:  opts.Username,
		onLogin:       opts.OnLogin,
		onThemeChange: opts.OnThemeChange,

		theme:     GetTheme(opts.ThemeName),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		router:    &state.Router{},
		dashboard: &state.Dashboard{},
		detail:    &state.Detail{},
		debouncer: state.NewDebouncer(delay, opts.Scheduler, deliver),
		searchCh:  searchCh,
		login:     newLoginView(opts.Username),
		search:    search,
		spinner:   sp,
		viewport:  viewport.New(80, 20),
	}
	m.viewCtx, m.cancelView = context.WithCancel(ctx)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForSearch(m.ctx, m.searchCh), textinput.Blink}
	if m.session.Authenticated() {
		cmds = append(cmds, m.loadDashboard(m.dashboard.BeginLoad("")))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.search.Width = maxInt(msg.Width-6, 10)
		m.viewport.Width = msg.Width
		m.viewport.Height = maxInt(msg.Height-2, 1)
		if m.form != nil {
			m.form.resize(msg.Width)
		}
		m.refreshDetail()
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loginResultMsg:
		m.login.submitting = false
		if msg.err != nil {
			m.login.fail()
			return m, nil
		}
		m.lastUsername = msg.username
		if m.onLogin != nil {
			m.onLogin(msg.username)
		}
		m.login = newLoginView(msg.username)
		m.router.Reset()
		return m, m.showDashboard()

	case searchFiredMsg:
		cmds := []tea.Cmd{waitForSearch(m.ctx, m.searchCh)}
		if m.session.Authenticated() && m.router.View() == state.ViewDashboard {
			cmds = append(cmds, m.loadDashboard(m.dashboard.BeginLoad(msg.term)))
		}
		return m, tea.Batch(cmds...)

	case recipesLoadedMsg:
		if m.ignore(msg.token, msg.err) {
			return m, nil
		}
		if msg.err != nil {
			m.logger.Warn("load recipes failed", "error", msg.err)
		}
		m.dashboard.ApplyLoad(msg.seq, msg.items, msg.err)
		return m, nil

	case recipeLoadedMsg:
		if m.ignore(msg.token, msg.err) {
			return m, nil
		}
		if msg.err != nil {
			m.logger.Warn("load recipe failed", "error", msg.err)
		}
		if m.detail.Apply(msg.seq, msg.recipe, msg.err) {
			m.viewport.GotoTop()
			m.refreshDetail()
		}
		return m, nil

	case editLoadedMsg:
		if m.ignore(msg.token, msg.err) {
			return m, nil
		}
		if m.pendingEdit != msg.id || m.router.View() != state.ViewDashboard {
			return m, nil
		}
		m.pendingEdit = 0
		if msg.err != nil || msg.recipe == nil {
			m.logger.Warn("load recipe for edit failed", "id", msg.id, "error", msg.err)
			m.dashboard.SetNotice(state.DetailFailedMessage)
			return m, nil
		}
		return m, m.openForm(msg.recipe)

	case confirmResultMsg:
		if !msg.confirmed {
			m.dashboard.CancelDelete()
			return m, nil
		}
		id, ok := m.dashboard.ConfirmDelete()
		if !ok {
			return m, nil
		}
		return m, deleteRecipeCmd(m.viewCtx, m.recipes, m.session.Token(), id)

	case deletedMsg:
		if m.ignore(msg.token, msg.err) {
			return m, nil
		}
		if msg.err != nil {
			m.logger.Warn("delete recipe failed", "id", msg.id, "error", msg.err)
			m.dashboard.DeleteFailed()
			return m, nil
		}
		m.logger.Info("recipe deleted", "id", msg.id)
		m.dashboard.SetStatus(state.DeletedMessage)
		if m.router.View() != state.ViewDashboard {
			return m, nil
		}
		return m, m.loadDashboard(m.dashboard.Reload())

	case savedMsg:
		if m.ignore(msg.token, msg.err) || m.form == nil {
			return m, nil
		}
		m.form.saving = false
		if msg.err != nil {
			m.logger.Warn("save recipe failed", "error", msg.err)
			m.form.alert = state.SaveFailedMessage
			return m, nil
		}
		m.logger.Info("recipe saved", "id", msg.recipe.ID)
		m.dashboard.SetStatus(state.SavedMessage)
		m.router.Saved()
		return m, m.showDashboard()
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.session.Authenticated() {
		return m.renderLogin()
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.screenWidth(), m.screenHeight())
	}

	var body string
	var footer help.KeyMap = m.keys
	switch m.router.View() {
	case state.ViewDetail:
		body = m.renderDetail()
		footer = detailHelp{m.keys}
	case state.ViewForm:
		body = m.renderForm()
		footer = formHelp{m.keys}
	default:
		body = m.renderDashboard()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(m.theme.Styles().Footer.Render(m.help.View(footer)))
	return b.String()
}

// handleKey routes keyboard input to the active view.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.shutdown()
		return m, tea.Quit
	}
	if !m.session.Authenticated() {
		return m.handleLoginKey(msg)
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.modal != nil {
		modal, cmd, done := m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	switch m.router.View() {
	case state.ViewForm:
		return m.handleFormKey(msg)
	case state.ViewDetail:
		return m.handleDetailKey(msg)
	default:
		return m.handleDashboardKey(msg)
	}
}

// handleGlobalKey handles keys shared by the dashboard and detail views.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shutdown()
		return m, tea.Quit, true
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil, true
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.refreshDetail()
		if m.onThemeChange != nil {
			m.onThemeChange(m.theme.Name)
		}
		return m, nil, true
	case key.Matches(msg, m.keys.Logout):
		m.session.Logout()
		m.resetToLogin("")
		return m, textinput.Blink, true
	}
	return m, nil, false
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.login.submitting {
		return m, nil
	}
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		m.login.toggleFocus()
		return m, nil
	case "enter":
		if m.login.focus == 0 {
			m.login.toggleFocus()
			return m, nil
		}
		m.login.submitting = true
		m.login.err = ""
		return m, tea.Batch(
			loginCmd(m.viewCtx, m.session, m.login.username.Value(), m.login.password.Value()),
			m.spinner.Tick,
		)
	}
	return m, m.login.update(msg)
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}
	if model, cmd, ok := m.handleGlobalKey(msg); ok {
		return model, cmd
	}

	snap := m.dashboard.Snapshot()
	selected, hasSelection := snap.Selection()

	switch {
	case key.Matches(msg, m.keys.Up):
		m.dashboard.Move(-1)
	case key.Matches(msg, m.keys.Down):
		m.dashboard.Move(1)
	case key.Matches(msg, m.keys.Top):
		m.dashboard.SelectIndex(0)
	case key.Matches(msg, m.keys.Bottom):
		m.dashboard.SelectIndex(-1)
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Reload):
		return m, m.loadDashboard(m.dashboard.Reload())
	case key.Matches(msg, m.keys.New):
		return m, m.openForm(nil)
	case key.Matches(msg, m.keys.Open):
		if hasSelection {
			return m, m.openDetail(selected.ID)
		}
	case key.Matches(msg, m.keys.Edit):
		if hasSelection {
			m.pendingEdit = selected.ID
			m.dashboard.ClearNotice()
			return m, loadForEditCmd(m.viewCtx, m.recipes, m.session.Token(), selected.ID)
		}
	case key.Matches(msg, m.keys.Delete):
		if hasSelection {
			m.dashboard.RequestDelete(selected.ID)
			m.modal = newConfirmModal(state.DeleteConfirmPrompt, selected.Title)
		}
	case msg.String() == "esc":
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.debouncer.Trigger("")
		}
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if value := m.search.Value(); value != before {
		m.debouncer.Trigger(value)
	}
	return m, cmd
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model, cmd, ok := m.handleGlobalKey(msg); ok {
		return model, cmd
	}
	switch {
	case key.Matches(msg, m.keys.Back):
		m.router.Back()
		return m, m.showDashboard()
	case key.Matches(msg, m.keys.Edit):
		if recipe := m.detail.Recipe(); recipe != nil {
			return m, m.openForm(recipe)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.router.Cancel()
		return m, m.showDashboard()
	}
	if m.form.saving {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.router.Cancel()
		return m, m.showDashboard()
	case key.Matches(msg, m.keys.Save):
		return m, m.submitForm()
	}
	return m, m.form.update(msg, m.keys)
}

// resetViewContext aborts requests issued for the previous view.
func (m *Model) resetViewContext() {
	if m.cancelView != nil {
		m.cancelView()
	}
	m.viewCtx, m.cancelView = context.WithCancel(m.ctx)
}

func (m *Model) loadDashboard(req state.LoadRequest) tea.Cmd {
	return tea.Batch(loadRecipesCmd(m.viewCtx, m.recipes, m.session.Token(), req), m.spinner.Tick)
}

// showDashboard enters the dashboard and loads it with the term in the
// search box.
func (m *Model) showDashboard() tea.Cmd {
	m.resetViewContext()
	m.debouncer.Cancel()
	m.detail.Reset()
	m.form = nil
	m.modal = nil
	m.pendingEdit = 0
	return m.loadDashboard(m.dashboard.BeginLoad(m.search.Value()))
}

func (m *Model) openDetail(id int64) tea.Cmd {
	m.router.ShowDetail(id)
	m.resetViewContext()
	m.debouncer.Cancel()
	m.viewport.GotoTop()

	token := m.session.Token()
	if !m.detail.NeedsFetch(id, token) {
		m.refreshDetail()
		return nil
	}
	seq := m.detail.Begin(id, token)
	m.refreshDetail()
	return tea.Batch(loadRecipeCmd(m.viewCtx, m.recipes, token, id, seq), m.spinner.Tick)
}

// openForm shows the form for recipe, or an empty form when recipe is nil.
func (m *Model) openForm(recipe *api.Recipe) tea.Cmd {
	m.resetViewContext()
	m.debouncer.Cancel()
	m.detail.Reset()
	draft := state.NewDraft()
	if recipe != nil {
		m.router.EditRecipe(*recipe)
		draft = state.DraftFromRecipe(*m.router.EditTarget())
	} else {
		m.router.NewRecipe()
	}
	f := newFormView(draft, m.screenWidth())
	m.form = &f
	return textinput.Blink
}

func (m *Model) submitForm() tea.Cmd {
	f := m.form
	if err := f.draft.Validate(); err != nil {
		var verrs state.ValidationErrors
		if errors.As(err, &verrs) {
			f.errs = verrs
		}
		f.alert = ""
		return nil
	}
	f.errs = nil
	f.alert = ""
	f.saving = true
	return tea.Batch(saveRecipeCmd(m.viewCtx, m.recipes, m.session.Token(), f.snapshot()), m.spinner.Tick)
}

// resetToLogin drops all view state and shows the login screen.
func (m *Model) resetToLogin(notice string) {
	m.resetViewContext()
	m.debouncer.Cancel()
	m.router.Reset()
	m.dashboard.Reset()
	m.detail.Reset()
	m.form = nil
	m.modal = nil
	m.pendingEdit = 0
	m.showHelp = false
	m.searching = false
	m.search.SetValue("")
	m.search.Blur()
	m.login = newLoginView(m.lastUsername)
	m.login.notice = notice
}

// ignore reports whether a response should be dropped: it belongs to a
// superseded token, its view was left, or it ended the session.
func (m *Model) ignore(token string, err error) bool {
	if token != m.session.Token() || errors.Is(err, context.Canceled) {
		return true
	}
	if errors.Is(err, api.ErrUnauthorized) {
		if m.session.Expire(token) {
			m.resetToLogin(session.ExpiredMessage)
		}
		return true
	}
	return false
}

func (m *Model) shutdown() {
	m.debouncer.Cancel()
	if m.cancelView != nil {
		m.cancelView()
	}
}

func (m Model) busy() bool {
	if m.login.submitting {
		return true
	}
	if m.form != nil && m.form.saving {
		return true
	}
	return m.dashboard.Snapshot().Loading || m.detail.Loading()
}

func (m Model) screenWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

func (m Model) screenHeight() int {
	if m.height <= 0 {
		return 24
	}
	return m.height
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	model := New(opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(model.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && model.ctx.Err() != nil {
		return nil
	}
	return err
}
