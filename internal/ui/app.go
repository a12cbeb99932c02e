package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/five82/loopback/internal/config"
	"github.com/five82/loopback/internal/prefs"
	"github.com/five82/loopback/internal/state"
)

// RowSource supplies the panel contents, one string per LCD row.
type RowSource interface {
	Rows() []string
}

// Options configures the UI.
type Options struct {
	Store     *state.Store
	Frame     RowSource
	Network   config.Network
	Driver    string
	Prefs     prefs.Prefs
	PrefsPath string
	Tick      time.Duration
	Logger    logrus.FieldLogger
}

const defaultTick = 250 * time.Millisecond

// Model is the root front panel state for Bubble Tea.
type Model struct {
	// Configuration
	store     *state.Store
	frame     RowSource
	network   config.Network
	driver    string
	prefsPath string
	tick      time.Duration
	log       logrus.FieldLogger

	// UI state
	theme    Theme
	prefs    prefs.Prefs
	keys     keyMap
	help     help.Model
	showHelp bool
	width    int
	height   int
	ready    bool

	// Data state
	snapshot state.Snapshot
	rows     []string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	tick := opts.Tick
	if tick <= 0 {
		tick = defaultTick
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	p := opts.Prefs
	theme := GetTheme(p.Theme)
	p.Theme = theme.Name

	return Model{
		store:     opts.Store,
		frame:     opts.Frame,
		network:   opts.Network,
		driver:    opts.Driver,
		prefsPath: prefsPath,
		tick:      tick,
		log:       logger,
		theme:     theme,
		prefs:     p,
		keys:      DefaultKeyMap(),
		help:      help.New(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.tick), m.fetchCmd())
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
		m.ready = true
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.fetchCmd(), tickCmd(m.tick))

	case frameMsg:
		m.snapshot = msg.snapshot
		m.rows = msg.rows
		return m, nil

	case prefsSavedMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).Warn("save prefs")
		}
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
	if m.prefs.NetInfoVisible() {
		b.WriteString(m.renderNetInfo())
		b.WriteString("\n")
	}
	b.WriteString(m.renderPanel())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		return m, savePrefsCmd(m.prefsPath, m.prefs)

	case key.Matches(msg, m.keys.ToggleNetInfo):
		m.prefs = m.prefs.WithNetInfo(!m.prefs.NetInfoVisible())
		return m, savePrefsCmd(m.prefsPath, m.prefs)
	}

	return m, nil
}

type tickMsg time.Time

type frameMsg struct {
	snapshot state.Snapshot
	rows     []string
}

type prefsSavedMsg struct {
	err error
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) fetchCmd() tea.Cmd {
	store, frame := m.store, m.frame
	return func() tea.Msg {
		var msg frameMsg
		if store != nil {
			msg.snapshot = store.Snapshot()
		}
		if frame != nil {
			msg.rows = frame.Rows()
		}
		return msg
	}
}

func savePrefsCmd(path string, p prefs.Prefs) tea.Cmd {
	return func() tea.Msg {
		return prefsSavedMsg{err: prefs.Save(path, p)}
	}
}

// Run starts the front panel and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
