package window

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/vovakirdan/tui-turtle/internal/canvas"
	"github.com/vovakirdan/tui-turtle/internal/config"
	"github.com/vovakirdan/tui-turtle/internal/core"
	"github.com/vovakirdan/tui-turtle/internal/registry"
	"github.com/vovakirdan/tui-turtle/internal/storage"
	"github.com/vovakirdan/tui-turtle/internal/turtle"
)

// Default window size in pixels.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// spritePixels is the size of the arrow sprite.
const spritePixels = 14

// Options configures a window run.
type Options struct {
	Config config.Config
	Store  *storage.Store // nil disables saving
	Logger *log.Logger   // nil discards
	Width  int           // pixels, 0 = DefaultWidth
	Height int           // pixels, 0 = DefaultHeight
	Scale  float64       // pixels per world unit, 0 = 1
}

// NewImageScreen builds a canvas screen drawing onto a pixel surface, with
// the arrow sprite unless the config asks for none.
func NewImageScreen(cfg config.Config, w, h int, scale float64, logger *log.Logger) (*canvas.Screen, error) {
	ccfg, err := cfg.Canvas()
	if err != nil {
		return nil, err
	}
	opts := []canvas.Option{canvas.WithLogger(logger)}
	if name := cfg.Turtle.Sprite; name != "" && name != "none" {
		opts = append(opts, canvas.WithSprite(ArrowSprite(spritePixels, ccfg.Turtle.Pen.Color), RotateImage))
	}
	return canvas.New(NewImageSurface(w, h, scale), ccfg, opts...), nil
}

// RunWindow opens a window running program and blocks until it closes. It
// returns the screen as it was when the window closed.
func RunWindow(program registry.Program, opts Options) (*canvas.Screen, error) {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	screen, err := NewImageScreen(opts.Config, opts.Width, opts.Height, opts.Scale, opts.Logger)
	if err != nil {
		return nil, err
	}
	if err := program.Setup(screen); err != nil {
		return nil, fmt.Errorf("setup %s: %w", program.ID(), err)
	}

	tps := opts.Config.Runtime().TickRate
	g := &hostGame{
		program: program,
		opts:    opts,
		screen:  screen,
		view:    NewImageSurface(opts.Width, opts.Height, opts.Scale),
		input:   core.NewInputFrame(),
		dt:      1 / float64(tps),
		speed:   1,
	}

	ebiten.SetWindowTitle("Turtle - " + program.Title())
	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetTPS(tps)
	err = ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		err = nil
	}
	return screen, err
}

// hostGame adapts a canvas screen to ebiten's game loop. Ebiten calls
// Update at a fixed rate, so every frame advances the screen by dt.
type hostGame struct {
	program registry.Program
	opts    Options
	screen  *canvas.Screen
	view    *ImageSurface
	input   core.InputFrame
	dt      float64
	speed   float64
	paused  bool
	step    bool
	notice  string
}

func (g *hostGame) Update() error {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl)
	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		if a := actionFor(k, ctrl); a != core.ActionNone {
			g.input.Set(a)
		}
	}
	if g.input.Has(core.ActionQuit) {
		return ebiten.Termination
	}
	g.input.Each(g.apply)
	g.input.Clear()

	if g.paused && !g.step {
		return nil
	}
	g.step = false
	if err := g.screen.Update(g.dt); err != nil {
		g.fail(err)
	}
	return nil
}

func (g *hostGame) apply(a core.Action) {
	switch a {
	case core.ActionPause:
		g.paused = !g.paused
	case core.ActionStep:
		g.paused = true
		g.step = true
	case core.ActionUndo:
		g.history(g.screen.Undo, "undo")
	case core.ActionRedo:
		g.history(g.screen.Redo, "redo")
	case core.ActionFaster:
		g.screen.ScaleSpeed(2)
		g.speed *= 2
	case core.ActionSlower:
		g.screen.ScaleSpeed(0.5)
		g.speed /= 2
	case core.ActionSave:
		g.save()
	case core.ActionScreenshot:
		g.screenshot()
	case core.ActionRestart:
		g.screen.Teardown()
		if err := g.program.Setup(g.screen); err != nil {
			g.fail(err)
			return
		}
		if g.speed != 1 {
			g.screen.ScaleSpeed(g.speed)
		}
		g.notice = "restarted"
	}
}

func (g *hostGame) history(op func() error, name string) {
	err := op()
	switch {
	case errors.Is(err, turtle.ErrNothingToUndo), errors.Is(err, turtle.ErrNothingToRedo):
		g.notice = "nothing to " + name
	case err != nil:
		g.fail(err)
	default:
		g.notice = ""
		if err := g.screen.Refresh(); err != nil {
			g.fail(err)
		}
	}
}

func (g *hostGame) save() {
	if g.opts.Store == nil {
		g.notice = "no database"
		return
	}
	id, err := g.opts.Store.SaveDrawing(storage.Drawing{
		ProgramID: g.program.ID(),
		Title:     g.program.Title(),
		Frames:    g.screen.FrameNumber(),
		Segments:  g.screen.Segments(),
	})
	if err != nil {
		g.fail(err)
		return
	}
	g.opts.Logger.Info("drawing saved", "id", id)
	g.notice = "saved " + id[:min(8, len(id))]
}

// screenshot writes the composed frame as a PNG.
func (g *hostGame) screenshot() {
	g.screen.Compose(g.view)
	w, h := g.view.Size()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	g.view.Image().ReadPixels(img.Pix)

	dir := filepath.Join(config.DataDir(), "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		g.fail(err)
		return
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", g.program.ID(), time.Now().Format("20060102_150405")))
	f, err := os.Create(path)
	if err != nil {
		g.fail(err)
		return
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		g.fail(err)
		return
	}
	g.notice = "wrote " + path
}

func (g *hostGame) fail(err error) {
	g.notice = err.Error()
	g.opts.Logger.Warn("frame error", "program", g.program.ID(), "error", err)
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	g.screen.Compose(g.view)
	screen.DrawImage(g.view.Image(), nil)
	ebitenutil.DebugPrint(screen, g.status())
}

func (g *hostGame) status() string {
	state := "running"
	switch {
	case g.paused:
		state = "paused"
	case g.screen.Idle():
		state = "done"
	}
	line := fmt.Sprintf("%s  %s  frame %d  queued %d  segments %d  x%g",
		g.program.Title(), state, g.screen.FrameNumber(), g.screen.Pending(), len(g.screen.Segments()), g.speed)
	if g.notice != "" {
		line += "\n" + g.notice
	}
	return line
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.view.Size()
}

// actionFor maps a key press to a viewer action, mirroring the terminal
// key bindings.
func actionFor(k ebiten.Key, ctrl bool) core.Action {
	switch k {
	case ebiten.KeySpace, ebiten.KeyP:
		return core.ActionPause
	case ebiten.KeyPeriod:
		return core.ActionStep
	case ebiten.KeyU:
		return core.ActionUndo
	case ebiten.KeyR:
		if ctrl {
			return core.ActionRestart
		}
		return core.ActionRedo
	case ebiten.KeyEqual, ebiten.KeyNumpadAdd:
		return core.ActionFaster
	case ebiten.KeyMinus, ebiten.KeyNumpadSubtract:
		return core.ActionSlower
	case ebiten.KeyS:
		if ctrl {
			return core.ActionScreenshot
		}
		return core.ActionSave
	case ebiten.KeyQ, ebiten.KeyEscape:
		return core.ActionQuit
	case ebiten.KeyC:
		if ctrl {
			return core.ActionQuit
		}
	}
	return core.ActionNone
}
