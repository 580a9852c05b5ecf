package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-turtle/internal/canvas"
	"github.com/vovakirdan/tui-turtle/internal/config"
	"github.com/vovakirdan/tui-turtle/internal/core"
	"github.com/vovakirdan/tui-turtle/internal/raster"
	"github.com/vovakirdan/tui-turtle/internal/registry"
	"github.com/vovakirdan/tui-turtle/internal/storage"
	"github.com/vovakirdan/tui-turtle/internal/turtle"
)

// maxFrameTime caps dt so a stalled terminal does not make turtles jump.
const maxFrameTime = 0.25

// chromeLines is the status line plus the help bar.
const chromeLines = 2

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Model is the Bubble Tea model that animates one program.
type Model struct {
	program   registry.Program
	cfg       config.Config
	runtime   core.RuntimeConfig
	store     *storage.Store
	log       *log.Logger
	screen    *canvas.Screen
	surface   *raster.CellSurface // persistent drawing
	view      *raster.CellSurface // surface plus live segments and sprites
	keyMapper *KeyMapper
	help      help.Model
	input     core.InputFrame

	lastTick   time.Time
	paused     bool
	step       bool
	speed      float64 // multiplier applied with +/-
	notice     string
	lastErr    error
	quitting   bool
	backToMenu bool
	standalone bool // back quits instead of returning to a menu
}

// NewModel creates a viewer for program and runs its setup.
func NewModel(program registry.Program, opts Options) (Model, error) {
	rc := opts.Config.Runtime()
	w, h := rc.ScreenW, max(rc.ScreenH-chromeLines, 1)

	logger := opts.logger().With("program", program.ID())
	screen, surface, err := NewCellScreen(opts.Config, w, h, logger)
	if err != nil {
		return Model{}, err
	}
	if err := program.Setup(screen); err != nil {
		return Model{}, fmt.Errorf("setup %s: %w", program.ID(), err)
	}

	hm := help.New()
	hm.Width = w
	return Model{
		program:   program,
		cfg:       opts.Config,
		runtime:   rc,
		store:     opts.Store,
		log:       logger,
		screen:    screen,
		surface:   surface,
		view:      raster.NewCellSurface(w, h, opts.Config.Screen.UnitsPerCell, opts.Config.Screen.CellAspect),
		keyMapper: NewKeyMapper(),
		help:      hm,
		input:     core.NewInputFrame(),
		speed:     1,
	}, nil
}

// Init starts the frame loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.runtime)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey records the action for the next frame. Quit and back take
// effect at once.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.keyMapper.MapKeyToFrame(msg, &m.input) {
		m.quitting = true
		return m, tea.Quit
	}
	if m.input.Has(core.ActionBack) {
		m.input.Clear()
		m.backToMenu = true
		if m.standalone {
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// handleResize resizes both surfaces and repaints the drawing from history.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.runtime.ScreenW = msg.Width
	m.runtime.ScreenH = msg.Height
	w, h := max(msg.Width, 1), max(msg.Height-chromeLines, 1)
	m.surface.Resize(w, h)
	m.view.Resize(w, h)
	m.help.Width = w
	if err := m.screen.Redraw(); err != nil {
		m.fail(err)
	}
	return m, nil
}

// handleTick applies queued actions and advances the screen by the wall
// time since the previous tick.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	dt := 0.0
	if !m.lastTick.IsZero() {
		dt = min(now.Sub(m.lastTick).Seconds(), maxFrameTime)
	}
	m.lastTick = now

	m.input.Each(m.apply)
	m.input.Clear()

	switch {
	case m.step:
		m.step = false
		m.advance(1 / float64(max(m.runtime.TickRate, 1)))
	case !m.paused:
		m.advance(dt)
	}

	return m, tickCmd(m.runtime)
}

func (m *Model) advance(dt float64) {
	if err := m.screen.Update(dt); err != nil {
		m.fail(err)
	}
}

// apply runs one viewer action.
func (m *Model) apply(a core.Action) {
	switch a {
	case core.ActionPause:
		m.paused = !m.paused
	case core.ActionStep:
		m.paused = true
		m.step = true
	case core.ActionUndo:
		m.history(m.screen.Undo, "undo")
	case core.ActionRedo:
		m.history(m.screen.Redo, "redo")
	case core.ActionFaster:
		m.screen.ScaleSpeed(2)
		m.speed *= 2
	case core.ActionSlower:
		m.screen.ScaleSpeed(0.5)
		m.speed /= 2
	case core.ActionSave:
		m.save()
	case core.ActionScreenshot:
		m.screenshot()
	case core.ActionRestart:
		m.restart()
	}
}

func (m *Model) history(op func() error, name string) {
	err := op()
	switch {
	case errors.Is(err, turtle.ErrNothingToUndo), errors.Is(err, turtle.ErrNothingToRedo):
		m.notice = "nothing to " + name
		return
	case err != nil:
		m.fail(err)
		return
	}
	m.notice = ""
	if err := m.screen.Refresh(); err != nil {
		m.fail(err)
	}
}

// save stores the committed segments of every turtle.
func (m *Model) save() {
	if m.store == nil {
		m.notice = "no database"
		return
	}
	id, err := m.store.SaveDrawing(storage.Drawing{
		ProgramID: m.program.ID(),
		Title:     m.program.Title(),
		Frames:    m.screen.FrameNumber(),
		Segments:  m.screen.Segments(),
	})
	if err != nil {
		m.fail(err)
		return
	}
	m.log.Info("drawing saved", "id", id)
	m.notice = "saved " + shortID(id)
}

// screenshot writes the composed frame as plain text.
func (m *Model) screenshot() {
	m.screen.Compose(m.view)

	dir := filepath.Join(config.DataDir(), "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.fail(err)
		return
	}
	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.program.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.view.String()), 0o600); err != nil {
		m.fail(err)
		return
	}
	m.notice = "wrote " + path
}

// restart drops every turtle and runs the program setup again.
func (m *Model) restart() {
	m.screen.Teardown()
	if err := m.program.Setup(m.screen); err != nil {
		m.fail(err)
		return
	}
	if m.speed != 1 {
		m.screen.ScaleSpeed(m.speed)
	}
	m.notice = "restarted"
}

func (m *Model) fail(err error) {
	m.lastErr = err
	m.log.Warn("frame failed", "error", err)
}

// View renders the drawing, the status line and the help bar.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Compose(m.view)
	return RenderScreen(m.view.Screen(), m.screen.Background()) + "\n" +
		m.statusLine() + "\n" +
		helpStyle.Render(m.help.View(m.keyMapper.Keys()))
}

func (m Model) statusLine() string {
	state := "drawing"
	switch {
	case m.paused:
		state = "paused"
	case m.screen.Idle():
		state = "done"
	}
	line := fmt.Sprintf("%s  %s  frame %d  queued %d  segments %d  speed x%g",
		m.program.Title(), state,
		m.screen.FrameNumber(), m.screen.Pending(), len(m.screen.Segments()), m.speed)
	if m.notice != "" {
		line += "  " + m.notice
	}
	out := statusStyle.Render(line)
	if m.lastErr != nil {
		out += "  " + errorStyle.Render(m.lastErr.Error())
	}
	return out
}

// Screen exposes the canvas screen being animated.
func (m Model) Screen() *canvas.Screen { return m.screen }

// Paused reports whether the frame loop is paused.
func (m Model) Paused() bool { return m.paused }

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool { return m.quitting }

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool { return m.backToMenu }

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Run starts the Bubble Tea program for a single program and returns the
// screen as it was when the viewer closed.
func Run(program registry.Program, opts Options) (*canvas.Screen, error) {
	model, err := NewModel(program, opts)
	if err != nil {
		return nil, err
	}
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if m, ok := final.(Model); ok {
		return m.Screen(), err
	}
	return model.Screen(), err
}
