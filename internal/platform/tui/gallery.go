package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-turtle/internal/storage"
)

// maxDrawings bounds how many saved drawings the gallery loads.
const maxDrawings = 200

// GalleryKeyMap defines the key bindings for the gallery.
type GalleryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Delete key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k GalleryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Delete, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k GalleryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Delete},
		{k.Back, k.Quit},
	}
}

// DefaultGalleryKeyMap returns default key bindings.
func DefaultGalleryKeyMap() GalleryKeyMap {
	return GalleryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "replay"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// GalleryModel is the Bubble Tea model listing saved drawings.
type GalleryModel struct {
	store     *storage.Store
	drawings  []storage.Drawing
	stats     map[string]*storage.ProgramStats
	table     table.Model
	help      help.Model
	keys      GalleryKeyMap
	width     int
	height    int
	err       error
	quitting  bool
	goingBack bool
	opened    *storage.Drawing // loaded with segments when user pressed enter
}

// NewGalleryModel creates a gallery over store.
func NewGalleryModel(store *storage.Store, width, height int) GalleryModel {
	h := help.New()
	h.Width = width
	m := GalleryModel{
		store:  store,
		keys:   DefaultGalleryKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.reload()
	return m
}

// createTable creates a new table sized to the window.
func (m *GalleryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 10},
		{Title: "Program", Width: 14},
		{Title: "Segments", Width: 9},
		{Title: "Frames", Width: 8},
		{Title: "Saved", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, stats and help
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// reload reads drawings and per-program stats from the store.
func (m *GalleryModel) reload() {
	m.drawings, m.stats, m.err = nil, nil, nil
	if m.store != nil {
		if m.drawings, m.err = m.store.ListDrawings(maxDrawings); m.err == nil {
			m.stats, m.err = m.store.DrawingStats()
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with the loaded drawings.
func (m *GalleryModel) updateTableRows() {
	rows := make([]table.Row, len(m.drawings))
	for i, d := range m.drawings {
		rows[i] = table.Row{
			shortID(d.ID),
			d.ProgramID,
			fmt.Sprintf("%d", d.SegmentCount),
			fmt.Sprintf("%d", d.Frames),
			d.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.GotoTop()
	}
}

func (m GalleryModel) current() (storage.Drawing, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.drawings) {
		return storage.Drawing{}, false
	}
	return m.drawings[i], true
}

// Init initializes the gallery model.
func (m GalleryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the gallery.
func (m GalleryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Open):
			if d, ok := m.current(); ok {
				full, err := m.store.LoadDrawing(d.ID)
				switch {
				case err != nil:
					m.err = err
				case full == nil:
					m.reload()
				default:
					m.opened = full
					return m, tea.Quit
				}
			}
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			if d, ok := m.current(); ok {
				if _, err := m.store.DeleteDrawing(d.ID); err != nil {
					m.err = err
					return m, nil
				}
				m.reload()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table for scrolling
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the gallery.
func (m GalleryModel) View() string {
	if m.quitting || m.goingBack || m.opened != nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.MarginBottom(1).Render(centerText("SAVED DRAWINGS", m.width)))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(boxStyle.Render(m.renderTableContent()))
	b.WriteString("\n")

	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	if line := m.statsLine(); line != "" {
		b.WriteString(mutedStyle.Render(line))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m GalleryModel) renderTableContent() string {
	if len(m.drawings) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		if m.store == nil {
			return emptyStyle.Render("No database configured.")
		}
		return emptyStyle.Render("No drawings saved yet.\nPress s while a drawing runs to keep it.")
	}
	return m.table.View()
}

// statsLine summarizes the program of the drawing under the cursor.
func (m GalleryModel) statsLine() string {
	d, ok := m.current()
	if !ok {
		return ""
	}
	st := m.stats[d.ProgramID]
	if st == nil {
		return ""
	}
	return fmt.Sprintf("%s: %d drawings, %d segments total, longest %d, last saved %s",
		st.ProgramID, st.Drawings, st.TotalSegments, st.MaxSegments, st.LastSaved.Format("Jan 02 15:04"))
}

// Opened returns the drawing the user picked, or nil.
func (m GalleryModel) Opened() *storage.Drawing {
	return m.opened
}

// IsGoingBack returns true if user wants to go back to menu.
func (m GalleryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m GalleryModel) IsQuitting() bool {
	return m.quitting
}
