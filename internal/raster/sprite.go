package raster

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/vovakirdan/tui-turtle/internal/core"
)

// SpriteCell is one glyph of a sprite, offset from the anchor cell.
// DY grows upwards like world coordinates.
type SpriteCell struct {
	DX, DY int
	Rune   rune
}

// Sprite is a small cell image drawn at a turtle's position.
// A sprite with Ring set is directional: its anchor glyph is picked from the
// ring by heading, counter-clockwise starting at heading 0.
type Sprite struct {
	Name    string
	Cells   []SpriteCell
	Color   core.Color
	Ring    []rune
	Heading float64
}

// Size returns the bounding box in cells.
func (s *Sprite) Size() (w, h int) {
	if len(s.Cells) == 0 {
		return 0, 0
	}
	minX, maxX := s.Cells[0].DX, s.Cells[0].DX
	minY, maxY := s.Cells[0].DY, s.Cells[0].DY
	for _, c := range s.Cells[1:] {
		minX, maxX = min(minX, c.DX), max(maxX, c.DX)
		minY, maxY = min(minY, c.DY), max(maxY, c.DY)
	}
	return maxX - minX + 1, maxY - minY + 1
}

// Fingerprint hashes the sprite content. Two sprites with the same cells,
// color, ring and heading share a fingerprint.
func (s *Sprite) Fingerprint() uint64 {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%d|%s|%g|", s.Name, s.Color, string(s.Ring), s.Heading)
	for _, c := range s.Cells {
		fmt.Fprintf(&b, "%d,%d,%c;", c.DX, c.DY, c.Rune)
	}
	return xxhash.Sum64String(b.String())
}

// Rotate returns a copy of img rotated counter-clockwise by deg degrees.
// Cell offsets are rotated and rounded; a directional sprite also swaps its
// anchor glyph. It satisfies core.RotateFunc.
func Rotate(img core.Image, deg float64) core.Image {
	s, ok := img.(*Sprite)
	if !ok {
		return img
	}
	out := &Sprite{
		Name:    s.Name,
		Color:   s.Color,
		Ring:    s.Ring,
		Heading: core.NormalizeDegrees(s.Heading + deg),
		Cells:   make([]SpriteCell, 0, len(s.Cells)),
	}
	seen := make(map[[2]int]bool, len(s.Cells))
	for _, c := range s.Cells {
		p := core.V(float64(c.DX), float64(c.DY)).Rotate(deg)
		dx, dy := int(math.Round(p.X)), int(math.Round(p.Y))
		r := c.Rune
		if dx == 0 && dy == 0 && len(s.Ring) > 0 {
			r = ringGlyph(s.Ring, out.Heading)
		}
		if seen[[2]int{dx, dy}] {
			continue
		}
		seen[[2]int{dx, dy}] = true
		out.Cells = append(out.Cells, SpriteCell{DX: dx, DY: dy, Rune: r})
	}
	return out
}

func ringGlyph(ring []rune, heading float64) rune {
	step := 360 / float64(len(ring))
	i := int(math.Round(heading/step)) % len(ring)
	return ring[i]
}

var sprites = map[string]func(core.Color) *Sprite{
	"arrow": func(c core.Color) *Sprite {
		return &Sprite{
			Name:  "arrow",
			Color: c,
			Ring:  []rune("→↗↑↖←↙↓↘"),
			Cells: []SpriteCell{{Rune: '→'}},
		}
	},
	"turtle": func(c core.Color) *Sprite {
		return &Sprite{
			Name:  "turtle",
			Color: c,
			Cells: []SpriteCell{{Rune: '@'}, {DX: 1, Rune: 'o'}},
		}
	},
	"classic": func(c core.Color) *Sprite {
		return &Sprite{
			Name:  "classic",
			Color: c,
			Ring:  []rune(">^<v"),
			Cells: []SpriteCell{{Rune: '>'}},
		}
	},
	"dot": func(c core.Color) *Sprite {
		return &Sprite{Name: "dot", Color: c, Cells: []SpriteCell{{Rune: '●'}}}
	},
}

// SpriteByName returns a built-in sprite pointing along heading 0.
func SpriteByName(name string, c core.Color) (*Sprite, bool) {
	mk, ok := sprites[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return mk(c), true
}

// SpriteNames lists the built-in sprites, sorted.
func SpriteNames() []string {
	names := make([]string, 0, len(sprites))
	for n := range sprites {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
