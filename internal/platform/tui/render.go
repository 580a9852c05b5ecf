package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-turtle/internal/core"
)

// palette caches one lipgloss style per pen color over a background.
type palette struct {
	bg     core.Color
	styles map[core.Color]lipgloss.Style
}

func newPalette(bg core.Color) *palette {
	return &palette{bg: bg, styles: make(map[core.Color]lipgloss.Style)}
}

func (p *palette) style(fg core.Color) lipgloss.Style {
	if st, ok := p.styles[fg]; ok {
		return st
	}
	st := lipgloss.NewStyle()
	if code := fg.ANSI(); code != "" {
		st = st.Foreground(lipgloss.Color(code))
	}
	if code := p.bg.ANSI(); code != "" {
		st = st.Background(lipgloss.Color(code))
	}
	p.styles[fg] = st
	return st
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape
// sequences; blank cells only carry the background.
func RenderScreen(s *core.Screen, bg core.Color) string {
	p := newPalette(bg)

	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			start := runColor(s.GetCell(x, y))
			run.Reset()
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if runColor(cell) != start {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}
			sb.WriteString(p.style(start).Render(run.String()))
		}
	}
	return sb.String()
}

// runColor folds every blank cell into one run regardless of its color.
func runColor(c core.Cell) core.Color {
	if c.Rune == ' ' || c.Rune == 0 {
		return core.ColorDefault
	}
	return c.Color
}
