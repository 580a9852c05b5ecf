package programs

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-turtle/internal/canvas"
	"github.com/vovakirdan/tui-turtle/internal/core"
	"github.com/vovakirdan/tui-turtle/internal/registry"
	"github.com/vovakirdan/tui-turtle/internal/turtle"
)

//go:embed examples/*.yaml
var exampleFiles embed.FS

// maxInstructions bounds how many instructions one file may expand to.
const maxInstructions = 200_000

// File is a turtle program described in YAML.
//
//	id: house
//	name: Little house
//	background: "#102040"
//	turtles:
//	  - speed: 80
//	    pen: {color: yellow, width: 1}
//	    steps:
//	      - forward: [40]
//	      - repeat: 3
//	        steps: [{left: [90]}, {forward: [40]}]
type File struct {
	ProgramID  string       `yaml:"id"`
	Name       string       `yaml:"name"`
	Background string       `yaml:"background"` // empty keeps the screen's
	Turtles    []FileTurtle `yaml:"turtles"`
}

// FileTurtle describes one turtle of a program file. Unset fields take the
// screen defaults.
type FileTurtle struct {
	Speed   *float64  `yaml:"speed"`
	Start   []float64 `yaml:"start"` // [x, y]
	Heading float64   `yaml:"heading"`
	Pen     *FilePen  `yaml:"pen"`
	Steps   []Step    `yaml:"steps"`
}

// FilePen overrides pen defaults.
type FilePen struct {
	Color string   `yaml:"color"`
	Width *float64 `yaml:"width"`
	Down  *bool    `yaml:"down"`
}

// Step is one command of a program file: either an opcode name mapped to
// its arguments, a circle, or a repeat block.
type Step struct {
	Op     turtle.Opcode
	Args   []any
	Circle bool
	Repeat int
	Steps  []Step
}

// UnmarshalYAML decodes a bare command name such as penup, or a single-key
// mapping such as {forward: [10]} or {repeat: 4, steps: [...]}.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		op, ok := turtle.ParseOpcode(node.Value)
		if !ok {
			return fmt.Errorf("line %d: unknown command %q", node.Line, node.Value)
		}
		s.Op = op
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: step must be a mapping", node.Line)
	}

	var raw map[string]yaml.Node
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if rep, ok := raw["repeat"]; ok {
		if err := rep.Decode(&s.Repeat); err != nil {
			return fmt.Errorf("line %d: repeat: %w", rep.Line, err)
		}
		if s.Repeat < 0 {
			return fmt.Errorf("line %d: repeat must be >= 0", rep.Line)
		}
		body, ok := raw["steps"]
		if !ok || len(raw) != 2 {
			return fmt.Errorf("line %d: repeat needs exactly one steps list", node.Line)
		}
		return body.Decode(&s.Steps)
	}

	if len(raw) != 1 {
		return fmt.Errorf("line %d: step must have exactly one command, got %d", node.Line, len(raw))
	}
	for name, value := range raw {
		args, err := decodeArgs(&value)
		if err != nil {
			return fmt.Errorf("line %d: %s: %w", value.Line, name, err)
		}
		s.Args = args
		if strings.EqualFold(name, "circle") {
			s.Circle = true
			return nil
		}
		op, ok := turtle.ParseOpcode(name)
		if !ok {
			return fmt.Errorf("line %d: unknown command %q", node.Line, name)
		}
		s.Op = op
	}
	return nil
}

// decodeArgs accepts null, a scalar or a sequence of scalars.
func decodeArgs(n *yaml.Node) ([]any, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil, nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return []any{v}, nil
	case yaml.SequenceNode:
		var vs []any
		if err := n.Decode(&vs); err != nil {
			return nil, err
		}
		return vs, nil
	default:
		return nil, errors.New("arguments must be a scalar or a list")
	}
}

// ParseFile decodes and checks a program file.
func ParseFile(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f.ProgramID == "" {
		return nil, errors.New("program file has no id")
	}
	if len(f.Turtles) == 0 {
		return nil, fmt.Errorf("program %q has no turtles", f.ProgramID)
	}
	if _, ok := core.ParseColor(f.Background); !ok {
		return nil, fmt.Errorf("program %q: unknown background %q", f.ProgramID, f.Background)
	}
	for i, ft := range f.Turtles {
		if ft.Start != nil && len(ft.Start) != 2 {
			return nil, fmt.Errorf("program %q turtle %d: start must be [x, y]", f.ProgramID, i+1)
		}
		if ft.Pen != nil && ft.Pen.Color != "" {
			if _, ok := core.ParseColor(ft.Pen.Color); !ok {
				return nil, fmt.Errorf("program %q turtle %d: unknown color %q", f.ProgramID, i+1, ft.Pen.Color)
			}
		}
		if n := count(ft.Steps); n > maxInstructions {
			return nil, fmt.Errorf("program %q turtle %d: expands to %d instructions, limit %d", f.ProgramID, i+1, n, maxInstructions)
		}
	}
	return &f, nil
}

// LoadFile reads a program file from disk.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program %s: %w", path, err)
	}
	f, err := ParseFile(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse program %s: %w", path, err)
	}
	return f, nil
}

// RegisterDir registers every *.yaml program in dir whose id is not taken
// yet. A missing directory is not an error.
func RegisterDir(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, p := range paths {
		f, err := LoadFile(p)
		if err != nil {
			return ids, err
		}
		if registry.Exists(f.ProgramID) {
			continue
		}
		registry.Register(f.ProgramID, func() registry.Program { return f })
		ids = append(ids, f.ProgramID)
	}
	return ids, nil
}

func init() {
	entries, err := fs.Glob(exampleFiles, "examples/*.yaml")
	if err != nil {
		panic(err)
	}
	for _, name := range entries {
		data, err := exampleFiles.ReadFile(name)
		if err != nil {
			panic(err)
		}
		f, err := ParseFile(data)
		if err != nil {
			panic(fmt.Sprintf("programs: embedded %s: %v", name, err))
		}
		registry.Register(f.ProgramID, func() registry.Program { return f })
	}
}

// ID implements registry.Program.
func (f *File) ID() string { return f.ProgramID }

// Title implements registry.Program.
func (f *File) Title() string {
	if f.Name != "" {
		return f.Name
	}
	return f.ProgramID
}

// Setup implements registry.Program.
func (f *File) Setup(s *canvas.Screen) error {
	if f.Background != "" {
		bg, _ := core.ParseColor(f.Background)
		if err := s.SetBackground(bg); err != nil {
			return fmt.Errorf("program %q: %w", f.ProgramID, err)
		}
	}
	for _, ft := range f.Turtles {
		cfg := s.TurtleDefaults()
		if ft.Speed != nil {
			cfg.Speed = *ft.Speed
		}
		if len(ft.Start) == 2 {
			cfg.Origin = core.V(ft.Start[0], ft.Start[1])
		}
		cfg.Heading = ft.Heading
		if p := ft.Pen; p != nil {
			if c, ok := core.ParseColor(p.Color); ok && p.Color != "" {
				cfg.Pen.Color = c
			}
			if p.Width != nil {
				cfg.Pen.Width = *p.Width
			}
			if p.Down != nil {
				cfg.Pen.Down = *p.Down
			}
		}
		t := s.NewTurtleWith(cfg)
		if err := enqueue(t, ft.Steps); err != nil {
			return fmt.Errorf("program %q: %w", f.ProgramID, err)
		}
	}
	return nil
}

func enqueue(t *turtle.Turtle, steps []Step) error {
	for _, st := range steps {
		switch {
		case st.Steps != nil || st.Repeat > 0:
			for range st.Repeat {
				if err := enqueue(t, st.Steps); err != nil {
					return err
				}
			}
		case st.Circle:
			args := turtle.Args(st.Args)
			if err := args.Want(1, 3); err != nil {
				return fmt.Errorf("circle: %w", err)
			}
			r, err := args.Float(0)
			if err != nil {
				return fmt.Errorf("circle: %w", err)
			}
			n, dir := 0, turtle.CircleLeft
			if args.Len() > 1 {
				if n, err = args.Int(1); err != nil {
					return fmt.Errorf("circle: %w", err)
				}
			}
			if args.Len() > 2 {
				d, err := args.Int(2)
				if err != nil {
					return fmt.Errorf("circle: %w", err)
				}
				if d < 0 {
					dir = turtle.CircleRight
				}
			}
			t.Circle(r, n, dir)
		default:
			t.Command(st.Op, st.Args...)
		}
	}
	return nil
}

// count returns how many instructions steps expand to. Circles count as
// one since their size is only known once arguments are checked.
func count(steps []Step) int {
	n := 0
	for _, st := range steps {
		if st.Repeat > 0 || st.Steps != nil {
			n += st.Repeat * count(st.Steps)
		} else {
			n++
		}
		if n > maxInstructions {
			return n
		}
	}
	return n
}
