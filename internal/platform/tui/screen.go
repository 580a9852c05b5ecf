package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-turtle/internal/canvas"
	"github.com/vovakirdan/tui-turtle/internal/config"
	"github.com/vovakirdan/tui-turtle/internal/raster"
	"github.com/vovakirdan/tui-turtle/internal/storage"
)

// Options holds what every viewer session shares.
type Options struct {
	Config config.Config
	Store  *storage.Store // nil disables saving and the gallery
	Logger *log.Logger   // nil discards
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.New(io.Discard)
	}
	return o.Logger
}

// NewCellScreen builds a canvas screen that draws onto a w x h cell
// surface, with the configured turtle defaults and sprite. Extra options
// apply after the configured ones.
func NewCellScreen(cfg config.Config, w, h int, logger *log.Logger, extra ...canvas.Option) (*canvas.Screen, *raster.CellSurface, error) {
	ccfg, err := cfg.Canvas()
	if err != nil {
		return nil, nil, err
	}
	surface := raster.NewCellSurface(max(w, 1), max(h, 1), cfg.Screen.UnitsPerCell, cfg.Screen.CellAspect)

	opts := []canvas.Option{canvas.WithLogger(logger)}
	if name := cfg.Turtle.Sprite; name != "" && name != "none" {
		sprite, ok := raster.SpriteByName(name, ccfg.Turtle.Pen.Color)
		if !ok {
			return nil, nil, fmt.Errorf("unknown sprite %q (have %s)", name, strings.Join(raster.SpriteNames(), ", "))
		}
		opts = append(opts, canvas.WithSprite(sprite, raster.Rotate))
	}
	return canvas.New(surface, ccfg, append(opts, extra...)...), surface, nil
}
