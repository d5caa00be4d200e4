package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pwinty/internal/config"
	"github.com/five82/pwinty/internal/logtail"
	"github.com/five82/pwinty/internal/prefs"
	"github.com/five82/pwinty/internal/pwinty"
	"github.com/five82/pwinty/internal/state"
)

// View represents the active screen.
type View int

const (
	ViewOrders View = iota
	ViewLogs
)

// uiTick is how often the model re-reads the store.
const uiTick = time.Second

// OrderSource drives the background refresh of the store.
type OrderSource interface {
	SetFilter(status pwinty.OrderStatus)
	Kick()
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    pwinty.API
	Store     *state.Store
	Source    OrderSource
	Config    *config.Config
	Filter    pwinty.OrderStatus
	ThemeName string
	PrefsPath string
	Logger    *slog.Logger
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx       context.Context
	client    pwinty.API
	store     *state.Store
	source    OrderSource
	config    *config.Config
	prefsPath string
	logger    *slog.Logger

	theme       Theme
	keys        keyMap
	help        help.Model
	currentView View
	width       int
	height      int
	ready       bool
	focusDetail bool

	snapshot state.Snapshot
	filter   pwinty.OrderStatus

	table  table.Model
	detail detailState

	logViewport viewport.Model
	logMinLevel logtail.Level

	showHelp bool
	pending  *pendingAction
	flash    flashMessage
}

// New creates the root model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}

	m := Model{
		ctx:         ctx,
		client:      opts.Client,
		store:       opts.Store,
		source:      opts.Source,
		config:      opts.Config,
		prefsPath:   opts.PrefsPath,
		logger:      logger.With("component", "ui"),
		theme:       GetTheme(themeName),
		keys:        DefaultKeyMap(),
		help:        help.New(),
		currentView: ViewOrders,
		filter:      opts.Filter,
		logMinLevel: logtail.LevelInfo,
	}
	m.table = newOrderTable()
	m.applyTableStyles()
	m.logViewport = viewport.New(0, 0)
	m.detail.viewport = viewport.New(0, 0)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(uiTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
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
		m.ready = true
		m.layout()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.refreshTable()
		return m, nil

	case detailMsg:
		m.handleDetail(msg)
		return m, nil

	case actionMsg:
		return m.handleActionResult(msg)

	case logsMsg:
		m.handleLogs(msg)
		return m, nil
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	switch m.currentView {
	case ViewLogs:
		b.WriteString(m.renderLogs())
	default:
		b.WriteString(m.renderOrders())
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.pending != nil {
		return m.handlePromptKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.applyTableStyles()
		m.savePrefs()
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		if m.source != nil {
			m.source.Kick()
		}
		m.flash = newFlash("Refreshing…", false)
		return m, nil
	case key.Matches(msg, m.keys.ViewOrders), key.Matches(msg, m.keys.Escape):
		m.currentView = ViewOrders
		return m, nil
	case key.Matches(msg, m.keys.ViewLogs):
		m.currentView = ViewLogs
		return m, m.readLogsCmd()
	}

	switch m.currentView {
	case ViewLogs:
		return m.handleLogsKey(msg)
	default:
		return m.handleOrdersKey(msg)
	}
}

func (m Model) handleOrdersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Tab):
		m.focusDetail = !m.focusDetail
		return m, nil
	case key.Matches(msg, m.keys.CycleFilter):
		m.filter = nextFilter(m.filter)
		if m.source != nil {
			m.source.SetFilter(m.filter)
		}
		m.savePrefs()
		m.refreshTable()
		return m, nil
	case key.Matches(msg, m.keys.Open):
		cmd := m.loadSelectedDetail()
		return m, cmd
	case key.Matches(msg, m.keys.CancelOrder):
		m.promptStatusChange(pwinty.StatusCancelled)
		return m, nil
	case key.Matches(msg, m.keys.SubmitOrder):
		m.promptStatusChange(pwinty.StatusSubmitted)
		return m, nil
	}

	var cmd tea.Cmd
	if m.focusDetail {
		m.detail.viewport, cmd = m.detail.viewport.Update(msg)
		return m, cmd
	}
	before := m.table.Cursor()
	m.table, cmd = m.table.Update(msg)
	if m.table.Cursor() != before {
		m.syncDetail()
	}
	return m, cmd
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(uiTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.currentView == ViewLogs {
		cmds = append(cmds, m.readLogsCmd())
	}
	if m.flash.expired() {
		m.flash = flashMessage{}
	}
	return m, tea.Batch(cmds...)
}

// layout sizes the table, detail and log panes to the terminal.
func (m *Model) layout() {
	// header + footer + borders
	body := m.height - 2
	if body < 6 {
		body = 6
	}
	tableHeight := body / 2
	detailHeight := body - tableHeight - 4

	m.table.SetWidth(m.width - 2)
	m.table.SetHeight(tableHeight - 2)
	m.table.SetColumns(orderColumns(m.width - 4))

	m.detail.viewport.Width = m.width - 4
	m.detail.viewport.Height = max(detailHeight, 1)
	m.logViewport.Width = m.width - 4
	m.logViewport.Height = max(body-2, 1)
	m.help.Width = m.width
	m.renderDetail()
}

func (m *Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name, StatusFilter: m.filter}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", "error", err)
	}
}

// nextFilter cycles through "all" followed by every order status.
func nextFilter(current pwinty.OrderStatus) pwinty.OrderStatus {
	if current == "" {
		return pwinty.OrderStatuses[0]
	}
	for i, s := range pwinty.OrderStatuses {
		if s == current && i+1 < len(pwinty.OrderStatuses) {
			return pwinty.OrderStatuses[i+1]
		}
	}
	return ""
}

func filterLabel(status pwinty.OrderStatus) string {
	if status == "" {
		return "All"
	}
	return string(status)
}

// flashMessage is a short-lived status line shown in the footer.
type flashMessage struct {
	text    string
	isError bool
	until   time.Time
}

func newFlash(text string, isError bool) flashMessage {
	return flashMessage{text: text, isError: isError, until: time.Now().Add(5 * time.Second)}
}

func (f flashMessage) expired() bool {
	return f.text != "" && time.Now().After(f.until)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	if opts.Store == nil {
		return fmt.Errorf("ui requires a data store")
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
