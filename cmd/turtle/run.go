package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-turtle/internal/canvas"
	"github.com/vovakirdan/tui-turtle/internal/config"
	"github.com/vovakirdan/tui-turtle/internal/platform/tui"
	"github.com/vovakirdan/tui-turtle/internal/platform/window"
	"github.com/vovakirdan/tui-turtle/internal/programs"
	"github.com/vovakirdan/tui-turtle/internal/raster"
	"github.com/vovakirdan/tui-turtle/internal/registry"
	"github.com/vovakirdan/tui-turtle/internal/storage"
)

// maxHeadlessFrames stops a headless run that never goes idle.
const maxHeadlessFrames = 1_000_000

var (
	flagHeadless bool
	flagFrames   int
	flagWindow   bool
	flagSave     bool
)

var runCmd = &cobra.Command{
	Use:   "run <program|file.yaml>",
	Short: "Run a program",
	Long: `Run a registered program or a YAML program file.

Controls:
  Space/P    - Pause
  .          - Step one frame
  U / R      - Undo / redo the last segment
  + / -      - Double / halve the speed
  S          - Save the drawing
  Ctrl+S     - Screenshot
  Ctrl+R     - Restart
  Q/Ctrl+C   - Quit

Headless mode runs without a viewer and prints the final drawing.

Examples:
  turtle run star
  turtle run tree --speed fast
  turtle run ./house.yaml --window
  turtle run spiral --headless --frames 120
  turtle run flower --headless --save`,
	Args: cobra.ExactArgs(1),
	Run:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&flagHeadless, "headless", false, "Run without a viewer and print the result")
	runCmd.Flags().IntVar(&flagFrames, "frames", 0, "Frames to run headless (0 = until idle)")
	runCmd.Flags().BoolVar(&flagWindow, "window", false, "Open a desktop window instead of the terminal viewer")
	runCmd.Flags().BoolVar(&flagSave, "save", false, "Save the drawing when the run ends")
}

func runRun(cmd *cobra.Command, args []string) {
	program, err := resolveProgram(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'turtle list' to see available programs.")
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(io.Discard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	var store *storage.Store
	if flagSave || !flagHeadless {
		store = openStore()
	}
	if store != nil {
		defer store.Close()
	}

	var screen *canvas.Screen
	switch {
	case flagHeadless:
		fitTerminal(&cfg)
		colored := term.IsTerminal(int(os.Stdout.Fd()))
		screen, err = runHeadless(os.Stdout, program, cfg, flagFrames, colored, logger)
	case flagWindow:
		screen, err = window.RunWindow(program, window.Options{Config: cfg, Store: store, Logger: logger})
	default:
		fitTerminal(&cfg)
		screen, err = tui.Run(program, tui.Options{Config: cfg, Store: store, Logger: logger})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}

	if flagSave && store != nil && screen != nil {
		id, err := saveScreen(store, program, screen)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error saving drawing: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Saved drawing %s\n", id)
	}
}

// resolveProgram treats args ending in .yaml or .yml, or naming an
// existing file, as program files and everything else as a registry id.
func resolveProgram(arg string) (registry.Program, error) {
	ext := strings.ToLower(filepath.Ext(arg))
	if ext == ".yaml" || ext == ".yml" {
		return programs.LoadFile(arg)
	}
	if registry.Exists(arg) {
		return registry.Create(arg)
	}
	if _, err := os.Stat(arg); err == nil {
		return programs.LoadFile(arg)
	}
	return nil, fmt.Errorf("unknown program %q", arg)
}

// runHeadless advances a cell screen at a fixed step for frames frames, or
// until every turtle is idle, then prints the composed drawing to w.
// Frame errors are logged and the run continues.
func runHeadless(w io.Writer, program registry.Program, cfg config.Config, frames int, colored bool, logger *log.Logger) (*canvas.Screen, error) {
	rc := cfg.Runtime()
	step := canvas.FixedClock(1 / float64(rc.TickRate))
	screen, surface, err := tui.NewCellScreen(cfg, rc.ScreenW, rc.ScreenH, logger, canvas.WithClock(step))
	if err != nil {
		return nil, err
	}
	if err := program.Setup(screen); err != nil {
		return nil, fmt.Errorf("setup %s: %w", program.ID(), err)
	}

	limit := frames
	if limit <= 0 {
		limit = maxHeadlessFrames
	}
	for i := 0; i < limit; i++ {
		if frames <= 0 && screen.Idle() {
			break
		}
		if err := screen.Tick(); err != nil {
			if errors.Is(err, canvas.ErrCorruptHistory) {
				return screen, err
			}
			logger.Warn("frame failed", "frame", screen.FrameNumber(), "error", err)
		}
	}

	w0, h0 := surface.Screen().Width(), surface.Screen().Height()
	view := raster.NewCellSurface(w0, h0, cfg.Screen.UnitsPerCell, cfg.Screen.CellAspect)
	screen.Compose(view)
	out := view.String()
	if colored {
		out = tui.RenderScreen(view.Screen(), screen.Background())
	}
	if _, err := fmt.Fprintln(w, out); err != nil {
		return screen, err
	}
	return screen, nil
}

func saveScreen(store *storage.Store, program registry.Program, screen *canvas.Screen) (string, error) {
	return store.SaveDrawing(storage.Drawing{
		ProgramID: program.ID(),
		Title:     program.Title(),
		Frames:    screen.FrameNumber(),
		Segments:  screen.Segments(),
	})
}
