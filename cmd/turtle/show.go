package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-turtle/internal/config"
	"github.com/vovakirdan/tui-turtle/internal/core"
	"github.com/vovakirdan/tui-turtle/internal/platform/tui"
	"github.com/vovakirdan/tui-turtle/internal/programs"
	"github.com/vovakirdan/tui-turtle/internal/raster"
	"github.com/vovakirdan/tui-turtle/internal/storage"
)

// prefixSearch bounds how many recent drawings an id prefix is matched
// against.
const prefixSearch = 1000

var showCmd = &cobra.Command{
	Use:   "show <drawing-id>",
	Short: "Print a saved drawing",
	Long: `Print a saved drawing to stdout. The id may be shortened to any
unique prefix, as shown in the gallery.

Examples:
  turtle show 3f2a9c1e
  turtle show 3f2a9c1e > drawing.txt`,
	Args: cobra.ExactArgs(1),
	Run:  runShow,
}

func runShow(_ *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fitTerminal(&cfg)

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	d, err := findDrawing(store, args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	colored := term.IsTerminal(int(os.Stdout.Fd()))
	if err := printDrawing(os.Stdout, d, cfg, colored); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// findDrawing loads the drawing with the given id, or the single recent
// drawing whose id starts with it.
func findDrawing(store *storage.Store, id string) (*storage.Drawing, error) {
	d, err := store.LoadDrawing(id)
	if err != nil || d != nil {
		return d, err
	}
	recent, err := store.ListDrawings(prefixSearch)
	if err != nil {
		return nil, err
	}
	var match string
	for _, r := range recent {
		if !strings.HasPrefix(r.ID, id) {
			continue
		}
		if match != "" {
			return nil, fmt.Errorf("drawing id %q is ambiguous", id)
		}
		match = r.ID
	}
	if match == "" {
		return nil, fmt.Errorf("no drawing %q", id)
	}
	return store.LoadDrawing(match)
}

// printDrawing rasterizes d onto a cell surface the size of the screen
// config and writes it below a one-line header.
func printDrawing(w io.Writer, d *storage.Drawing, cfg config.Config, colored bool) error {
	bg, _ := core.ParseColor(cfg.Screen.Background)
	rc := cfg.Runtime()
	surface := raster.NewCellSurface(rc.ScreenW, max(rc.ScreenH-1, 1), cfg.Screen.UnitsPerCell, cfg.Screen.CellAspect)
	programs.DrawSegments(surface, bg, d.Segments)

	out := surface.String()
	if colored {
		out = tui.RenderScreen(surface.Screen(), bg)
	}
	_, err := fmt.Fprintf(w, "%s (%s)  %d segments  %d frames  saved %s\n%s\n",
		d.Title, d.ProgramID, len(d.Segments), d.Frames, d.CreatedAt.Format("2006-01-02 15:04"), out)
	return err
}
