// Package tui runs turtle drawings in the terminal with Bubble Tea: the
// frame loop, key bindings, the program menu, the saved drawing gallery and
// the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-turtle/internal/core"
)

// TickMsg is sent to trigger a frame. It carries the wall time so the
// viewer can derive dt.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends the next tick after one
// frame interval.
func tickCmd(rc core.RuntimeConfig) tea.Cmd {
	return tea.Tick(rc.TickInterval(), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
