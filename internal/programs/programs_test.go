package programs

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-turtle/internal/canvas"
	"github.com/vovakirdan/tui-turtle/internal/core"
	"github.com/vovakirdan/tui-turtle/internal/raster"
	"github.com/vovakirdan/tui-turtle/internal/registry"
	"github.com/vovakirdan/tui-turtle/internal/storage"
	"github.com/vovakirdan/tui-turtle/internal/turtle"
)

func newScreen() *canvas.Screen {
	cfg := canvas.DefaultConfig()
	cfg.Turtle.Speed = 1e6
	return canvas.New(raster.NewCellSurface(80, 30, 3, 2), cfg)
}

// runToIdle steps the screen one second at a time.
func runToIdle(t *testing.T, s *canvas.Screen) {
	t.Helper()
	for range 2000 {
		if s.Idle() {
			return
		}
		if err := s.Update(1); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
	t.Fatalf("program still has %d pending instructions", s.Pending())
}

func TestEveryProgramRunsToIdle(t *testing.T) {
	for _, info := range registry.List() {
		if strings.HasPrefix(info.ID, "zz-") {
			continue
		}
		t.Run(info.ID, func(t *testing.T) {
			p, err := registry.Create(info.ID)
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			s := newScreen()
			if err := p.Setup(s); err != nil {
				t.Fatalf("Setup: %v", err)
			}
			if len(s.Turtles()) == 0 {
				t.Fatal("program created no turtles")
			}
			runToIdle(t, s)
			if len(s.Segments()) == 0 {
				t.Error("program drew nothing")
			}
		})
	}
}

func TestSegmentCounts(t *testing.T) {
	tests := []struct {
		id   string
		want int
	}{
		{"square", 4},
		{"star", 5},
		{"race", 6}, // three lines and three dots
		{"undo", 5}, // two sides kept, three triangle sides
		{"house", 9},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			p, err := registry.Create(tt.id)
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			s := newScreen()
			if err := p.Setup(s); err != nil {
				t.Fatalf("Setup: %v", err)
			}
			runToIdle(t, s)
			if got := len(s.Segments()); got != tt.want {
				t.Errorf("segments = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTreeRegistersStyleOnce(t *testing.T) {
	s := newScreen()
	for range 2 {
		if err := tree(s); err != nil {
			t.Fatalf("tree: %v", err)
		}
	}
	if !s.Registry().Registered(treeStyleOp) {
		t.Fatal("style opcode not registered")
	}
	runToIdle(t, s)
}

func TestParseFile(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name: "valid",
			data: `
id: tri
turtles:
  - steps:
      - repeat: 3
        steps: [{forward: 10}, {left: [120]}]
`,
		},
		{name: "no id", data: "turtles: [{steps: []}]", wantErr: "no id"},
		{name: "no turtles", data: "id: x", wantErr: "no turtles"},
		{name: "bad start", data: "id: x\nturtles: [{start: [1]}]", wantErr: "start"},
		{name: "bad color", data: "id: x\nturtles: [{pen: {color: mauve}}]", wantErr: "unknown color"},
		{name: "bad background", data: "id: x\nbackground: \"#12\"\nturtles: [{}]", wantErr: "unknown background"},
		{name: "unknown command", data: "id: x\nturtles: [{steps: [{fly: 1}]}]", wantErr: "unknown command"},
		{name: "two commands", data: "id: x\nturtles: [{steps: [{forward: 1, left: 2}]}]", wantErr: "exactly one command"},
		{name: "negative repeat", data: "id: x\nturtles: [{steps: [{repeat: -1, steps: []}]}]", wantErr: "repeat"},
		{name: "repeat without body", data: "id: x\nturtles: [{steps: [{repeat: 2}]}]", wantErr: "steps list"},
		{
			name:    "too large",
			data:    "id: x\nturtles: [{steps: [{repeat: 1000, steps: [{repeat: 1000, steps: [forward]}]}]}]",
			wantErr: "limit",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFile([]byte(tt.data))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ParseFile: %v", err)
				}
				if f.Title() != f.ID() {
					t.Errorf("Title = %q, want id fallback", f.Title())
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestFileStepForms(t *testing.T) {
	f, err := ParseFile([]byte(`
id: forms
turtles:
  - steps:
      - penup
      - goto: [10, 20]
      - pd: null
      - circle: [5, 4, -1]
      - set_color: red
`))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	steps := f.Turtles[0].Steps
	if len(steps) != 5 {
		t.Fatalf("steps = %d", len(steps))
	}
	if steps[0].Op != turtle.OpPenUp || steps[0].Args != nil {
		t.Errorf("bare step = %+v", steps[0])
	}
	if steps[1].Op != turtle.OpGoto || len(steps[1].Args) != 2 {
		t.Errorf("goto step = %+v", steps[1])
	}
	if steps[2].Op != turtle.OpPenDown || steps[2].Args != nil {
		t.Errorf("null step = %+v", steps[2])
	}
	if !steps[3].Circle || len(steps[3].Args) != 3 {
		t.Errorf("circle step = %+v", steps[3])
	}

	s := newScreen()
	if err := f.Setup(s); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	runToIdle(t, s)
	tu := s.Turtles()[0]
	if tu.PenColor().String() != "red" {
		t.Errorf("pen color = %v", tu.PenColor())
	}
	if got := len(tu.History()); got != 4 {
		t.Errorf("circle drew %d segments, want 4", got)
	}
}

func TestFileTurtleOverrides(t *testing.T) {
	f, err := ParseFile([]byte(`
id: overrides
turtles:
  - speed: 5
    start: [30, -10]
    heading: 90
    pen: {color: green, width: 3, down: false}
`))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	s := newScreen()
	if err := f.Setup(s); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	tu := s.Turtles()[0]
	if tu.Speed() != 5 {
		t.Errorf("speed = %v", tu.Speed())
	}
	if p := tu.Position(); p.X != 30 || p.Y != -10 {
		t.Errorf("position = %v", p)
	}
	if tu.Heading() != 90 {
		t.Errorf("heading = %v", tu.Heading())
	}
	if tu.PenIsDown() || tu.PenWidth() != 3 {
		t.Errorf("pen down=%v width=%v", tu.PenIsDown(), tu.PenWidth())
	}
}

func TestFileColorsAndNonFiniteSteps(t *testing.T) {
	f, err := ParseFile([]byte(`
id: truecolor
background: "#102040"
turtles:
  - speed: 50
    pen: {color: "#ff8000"}
    steps:
      - forward: [.nan]
      - forward: [.inf]
      - set_color: [0, 128, 255]
      - forward: [10]
`))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	s := newScreen()
	if err := f.Setup(s); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if s.Background() != core.RGB(0x10, 0x20, 0x40) {
		t.Errorf("background = %v", s.Background())
	}

	var errs []error
	for i := 0; i < 1000 && !s.Idle(); i++ {
		if err := s.Update(0.1); err != nil {
			errs = append(errs, err)
		}
	}
	if !s.Idle() {
		t.Fatal("program never became idle")
	}
	if len(errs) == 0 || !errors.Is(errs[0], turtle.ErrInvalidArity) {
		t.Errorf("errors = %v, want ErrInvalidArity", errs)
	}
	segs := s.Segments()
	if len(segs) != 1 || segs[0].Color != core.RGB(0, 128, 255) {
		t.Fatalf("segments = %+v, want one truecolor segment", segs)
	}
	if !segs[0].End.ApproxEqual(core.V(10, 0), 1e-9) {
		t.Errorf("segment ends at %v, want (10, 0)", segs[0].End)
	}
}

func TestRegisterDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("a.yaml", "id: zz-dir-a\nturtles: [{steps: [{forward: 10}]}]\n")
	write("b.yaml", "id: square\nturtles: [{steps: [{forward: 10}]}]\n")
	write("notes.txt", "ignored")

	ids, err := RegisterDir(dir)
	if err != nil {
		t.Fatalf("RegisterDir: %v", err)
	}
	if len(ids) != 1 || ids[0] != "zz-dir-a" {
		t.Errorf("ids = %v, want [zz-dir-a]", ids)
	}
	if !registry.Exists("zz-dir-a") {
		t.Error("program not registered")
	}

	ids, err = RegisterDir(filepath.Join(dir, "missing"))
	if err != nil || len(ids) != 0 {
		t.Errorf("missing dir: ids=%v err=%v", ids, err)
	}

	write("c.yaml", "id: [")
	if _, err := RegisterDir(dir); err == nil {
		t.Error("broken file accepted")
	}
}

func TestReplayRedrawsSegments(t *testing.T) {
	src := newScreen()
	if err := star(src); err != nil {
		t.Fatal(err)
	}
	src.Turtles()[0].Dot()
	runToIdle(t, src)
	want := src.Segments()

	d := &storage.Drawing{ProgramID: "star", Title: "Five-pointed star", Segments: want}
	r := Replay{Drawing: d}
	if r.ID() != "star" || r.Title() != "Five-pointed star (saved)" {
		t.Errorf("replay id=%q title=%q", r.ID(), r.Title())
	}

	dst := newScreen()
	if err := r.Setup(dst); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	runToIdle(t, dst)
	got := dst.Segments()
	if len(got) != len(want) {
		t.Fatalf("replayed %d segments, want %d", len(got), len(want))
	}
	for i := range want {
		if !near(got[i].Start, want[i].Start) || !near(got[i].End, want[i].End) {
			t.Errorf("segment %d = %v->%v, want %v->%v", i, got[i].Start, got[i].End, want[i].Start, want[i].End)
		}
		if got[i].Color != want[i].Color || got[i].Dot() != want[i].Dot() {
			t.Errorf("segment %d style differs", i)
		}
	}
	if dst.Turtles()[0].Visible() {
		t.Error("replay turtle left visible")
	}
}

func TestDrawSegmentsSkipsInvisible(t *testing.T) {
	surf := raster.NewCellSurface(10, 5, 1, 1)
	DrawSegments(surf, core.ColorDefault, []turtle.Segment{
		{Start: core.V(0, 0), End: core.V(0, 0), Color: core.ColorRed, Width: 1, Visible: true},
		{Start: core.V(-3, 1), End: core.V(3, 1), Color: core.ColorRed, Width: 1},
	})
	if got := strings.Count(surf.String(), "•"); got != 1 {
		t.Errorf("dots = %d, want 1", got)
	}
	if strings.Contains(surf.String(), "─") {
		t.Error("invisible segment drawn")
	}
}

func near(a, b core.Vec2) bool {
	return math.Abs(a.X-b.X) < 1e-6 && math.Abs(a.Y-b.Y) < 1e-6
}
