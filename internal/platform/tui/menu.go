package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-turtle/internal/core"
	"github.com/vovakirdan/tui-turtle/internal/registry"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

// MenuItem represents a selectable program in the menu.
type MenuItem struct {
	ProgramID string
	Title     string
}

// MenuModel is the Bubble Tea model for the program picker.
type MenuModel struct {
	items       []MenuItem
	cursor      int
	width       int
	height      int
	config      core.RuntimeConfig
	hasGallery  bool
	keyMapper   *KeyMapper
	quitting    bool
	selected    *MenuItem // Set when user selects a program
	openGallery bool      // True if user pressed Tab for the gallery
}

// NewMenuModel creates a new menu model listing every registered program.
func NewMenuModel(cfg core.RuntimeConfig, hasGallery bool) MenuModel {
	programs := registry.List()
	items := make([]MenuItem, 0, len(programs))
	for _, p := range programs {
		items = append(items, MenuItem{ProgramID: p.ID, Title: p.Title})
	}

	return MenuModel{
		items:      items,
		width:      cfg.ScreenW,
		height:     cfg.ScreenH,
		config:     cfg,
		hasGallery: hasGallery,
		keyMapper:  NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case MenuActionGallery:
		if m.hasGallery {
			m.openGallery = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  T U R T L E  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Pick a drawing", m.width))
	b.WriteString("\n\n")

	// Scroll the list so the cursor stays on screen.
	rows := max(m.height-10, 3)
	first := 0
	if m.cursor >= rows {
		first = m.cursor - rows + 1
	}
	for i := first; i < len(m.items) && i < first+rows; i++ {
		item := m.items[i]
		line := fmt.Sprintf("  %-12s %s", item.ProgramID, item.Title)
		if i == m.cursor {
			line = selectedStyle.Render(fmt.Sprintf("> %-12s %s", item.ProgramID, item.Title))
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Draw  |  Q: Quit"
	if m.hasGallery {
		controls = "Up/Down: Navigate  |  Enter: Draw  |  Tab: Gallery  |  Q: Quit"
	}
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsGallery returns true if user requested the gallery.
func (m MenuModel) WantsGallery() bool {
	return m.openGallery
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width, measuring styled text by
// its printed width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
