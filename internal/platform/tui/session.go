package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-turtle/internal/core"
	"github.com/vovakirdan/tui-turtle/internal/programs"
	"github.com/vovakirdan/tui-turtle/internal/registry"
)

type sessionState int

const (
	stateMenu sessionState = iota
	stateGallery
	stateViewer
)

// SessionModel manages the full session flow: menu -> viewer -> menu, with
// the gallery reachable from the menu. It is the top-level model for the
// menu command and for SSH sessions.
type SessionModel struct {
	opts     Options
	config   core.RuntimeConfig
	state    sessionState
	menu     MenuModel
	gallery  GalleryModel
	viewer   Model
	err      error
	quitting bool
}

// NewSessionModel creates a session starting at the menu, or at the
// gallery when startInGallery is set and a store is available.
func NewSessionModel(opts Options, startInGallery bool) SessionModel {
	cfg := opts.Config.Runtime()
	m := SessionModel{
		opts:   opts,
		config: cfg,
		menu:   NewMenuModel(cfg, opts.Store != nil),
	}
	if startInGallery && opts.Store != nil {
		m.state = stateGallery
		m.gallery = NewGalleryModel(opts.Store, cfg.ScreenW, cfg.ScreenH)
	}
	return m
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.state {
	case stateViewer:
		return m.updateViewer(msg)
	case stateGallery:
		return m.updateGallery(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsGallery():
		m.gallery = NewGalleryModel(m.opts.Store, m.config.ScreenW, m.config.ScreenH)
		m.state = stateGallery
		return m, m.gallery.Init()

	case m.menu.Selected() != nil:
		program, err := registry.Create(m.menu.Selected().ProgramID)
		if err != nil {
			m.err = err
			return m.toMenu()
		}
		return m.startViewer(program)
	}

	return m, cmd
}

// updateGallery handles updates when the gallery is shown.
func (m SessionModel) updateGallery(msg tea.Msg) (tea.Model, tea.Cmd) {
	newGallery, cmd := m.gallery.Update(msg)
	if g, ok := newGallery.(GalleryModel); ok {
		m.gallery = g
	}

	switch {
	case m.gallery.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.gallery.IsGoingBack():
		return m.toMenu()
	case m.gallery.Opened() != nil:
		return m.startViewer(programs.Replay{Drawing: m.gallery.Opened()})
	}
	return m, cmd
}

// updateViewer handles updates while a drawing runs.
func (m SessionModel) updateViewer(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.viewer.Update(msg)
	if v, ok := newModel.(Model); ok {
		m.viewer = v
	}

	if m.viewer.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.viewer.BackToMenu() {
		return m.toMenu()
	}
	return m, cmd
}

func (m SessionModel) startViewer(program registry.Program) (tea.Model, tea.Cmd) {
	opts := m.opts
	opts.Config.Screen.Width = m.config.ScreenW
	opts.Config.Screen.Height = m.config.ScreenH
	viewer, err := NewModel(program, opts)
	if err != nil {
		m.err = err
		return m.toMenu()
	}
	m.viewer = viewer
	m.state = stateViewer
	m.err = nil
	return m, m.viewer.Init()
}

func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.menu = NewMenuModel(m.config, m.opts.Store != nil)
	m.state = stateMenu
	return m, m.menu.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case stateViewer:
		return m.viewer.View()
	case stateGallery:
		return m.gallery.View()
	}
	out := m.menu.View()
	if m.err != nil {
		out += "\n" + centerText(errorStyle.Render(m.err.Error()), m.config.ScreenW)
	}
	return out
}

// RunSession runs the menu, gallery and viewer in one program.
func RunSession(opts Options, startInGallery bool) error {
	p := tea.NewProgram(
		NewSessionModel(opts, startInGallery),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
