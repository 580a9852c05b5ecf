package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-turtle/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a program picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to run a program.
Esc in the viewer returns to the menu. Tab opens saved drawings.

Examples:
  turtle menu
  turtle menu --speed fast
  turtle menu --db ./drawings.db`,
	Run: func(_ *cobra.Command, _ []string) { runSession(false) },
}

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "Browse and replay saved drawings",
	Long: `Show saved drawings in a table with per-program statistics.

Controls:
  Up/Down/j/k  - Navigate
  Enter        - Replay the drawing
  D            - Delete the drawing
  Esc          - Program menu
  Q            - Quit`,
	Run: func(_ *cobra.Command, _ []string) { runSession(true) },
}

func runSession(gallery bool) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fitTerminal(&cfg)

	logger, closeLog, err := newLogger(io.Discard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	store := openStore()
	if store != nil {
		defer store.Close()
	} else if gallery {
		fmt.Fprintln(os.Stderr, "Error: the gallery needs a database")
		os.Exit(1)
	}

	if err := tui.RunSession(tui.Options{Config: cfg, Store: store, Logger: logger}, gallery); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
