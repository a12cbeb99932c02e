package ui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/five82/loopback/internal/config"
	"github.com/five82/loopback/internal/display"
	"github.com/five82/loopback/internal/prefs"
	"github.com/five82/loopback/internal/scrolllog"
	"github.com/five82/loopback/internal/state"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, store *state.Store, frame RowSource) (Model, string) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	path := filepath.Join(t.TempDir(), "prefs.toml")
	m := New(Options{
		Store:     store,
		Frame:     frame,
		Network:   config.Default().Network,
		Driver:    config.DriverTerminal,
		Prefs:     prefs.Prefs{Theme: "Phosphor"},
		PrefsPath: path,
		Logger:    logger,
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model), path
}

// refresh runs the fetch command synchronously, as a tick would.
func refresh(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(m.fetchCmd()())
	return next.(Model)
}

func TestView_NotReadyBeforeWindowSize(t *testing.T) {
	m := New(Options{})
	if got := m.View(); got != "Loading..." {
		t.Fatalf("View = %q, want Loading...", got)
	}
}

func TestView_MirrorsPanelAndStatus(t *testing.T) {
	frame := display.NewTextFrame(3, 9)
	scroll, err := scrolllog.New(scrolllog.Options{Capacity: 3, MaxVisibleLines: 3, MaxLineLength: 10})
	if err != nil {
		t.Fatalf("scrolllog.New: %v", err)
	}
	for _, s := range []string{"alpha", "bravo", "charlie", "delta"} {
		scroll.Insert(s)
	}
	if err := scroll.Render(frame); err != nil {
		t.Fatalf("Render: %v", err)
	}

	store := &state.Store{}
	store.Listening("127.0.0.1:5000")
	store.Connect("10.0.0.9:41000", "sess")
	store.Received(2048, "delta", nil)

	m, _ := newTestModel(t, store, frame)
	m = refresh(t, m)
	view := m.View()

	for _, want := range []string{"loopback", "CONNECTED", "10.0.0.9:41000", "bravo", "charlie", "delta", "2.0 kB", "192.168.11.2", "00:08:DC:12:34:56"} {
		if !strings.Contains(view, want) {
			t.Fatalf("View missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "alpha") {
		t.Fatalf("View shows evicted line alpha:\n%s", view)
	}
	if strings.Index(view, "bravo") > strings.Index(view, "delta") {
		t.Fatalf("rows out of order:\n%s", view)
	}
}

func TestView_ShowsHaltAndRenderError(t *testing.T) {
	store := &state.Store{}
	store.Listening("127.0.0.1:5000")
	store.Received(1, "x", errors.New("spi write"))
	store.Halt(errors.New("accept: boom"))

	m, _ := newTestModel(t, store, nil)
	m = refresh(t, m)
	view := m.View()

	for _, want := range []string{"● HALTED", "HALTED: accept: boom", "Render error: spi write", "no panel attached"} {
		if !strings.Contains(view, want) {
			t.Fatalf("View missing %q:\n%s", want, view)
		}
	}
}

func TestHandleKey_CycleThemeSavesPrefs(t *testing.T) {
	m, path := newTestModel(t, &state.Store{}, nil)

	next, cmd := m.Update(runeKey("T"))
	m = next.(Model)
	if m.theme.Name != "Amber" {
		t.Fatalf("theme = %q, want Amber", m.theme.Name)
	}
	if cmd == nil {
		t.Fatal("theme change returned no save command")
	}
	if msg, ok := cmd().(prefsSavedMsg); !ok || msg.err != nil {
		t.Fatalf("save msg = %#v", msg)
	}

	saved, err := prefs.Load(path)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if saved.Theme != "Amber" {
		t.Fatalf("saved theme = %q, want Amber", saved.Theme)
	}
}

func TestHandleKey_ToggleNetInfo(t *testing.T) {
	m, path := newTestModel(t, &state.Store{}, nil)
	if !strings.Contains(m.View(), "192.168.11.2") {
		t.Fatal("network info hidden by default")
	}

	next, cmd := m.Update(runeKey("n"))
	m = next.(Model)
	if strings.Contains(m.View(), "192.168.11.2") {
		t.Fatal("network info still shown after toggle")
	}
	cmd()

	saved, err := prefs.Load(path)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if saved.NetInfoVisible() {
		t.Fatal("saved prefs still show network info")
	}
}

func TestHandleKey_HelpAndQuit(t *testing.T) {
	m, _ := newTestModel(t, &state.Store{}, nil)

	next, _ := m.Update(runeKey("?"))
	m = next.(Model)
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatal("help overlay not shown")
	}

	next, _ = m.Update(runeKey("x"))
	m = next.(Model)
	if m.showHelp {
		t.Fatal("any key should close help")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("ctrl+c did not quit")
	}
}

func TestNew_UnknownThemeFallsBack(t *testing.T) {
	m := New(Options{Prefs: prefs.Prefs{Theme: "Neon"}})
	if m.theme.Name != "Phosphor" || m.prefs.Theme != "Phosphor" {
		t.Fatalf("theme = %q prefs = %q, want Phosphor", m.theme.Name, m.prefs.Theme)
	}
	if m.tick != defaultTick {
		t.Fatalf("tick = %v, want %v", m.tick, defaultTick)
	}
}
