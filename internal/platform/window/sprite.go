package window

import (
	"encoding/binary"
	"image"
	"image/color"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/vovakirdan/tui-turtle/internal/core"
)

// Sprite is a turtle image on the GPU. The fingerprint covers the source
// pixels and the accumulated rotation.
type Sprite struct {
	img  *ebiten.Image
	w, h int
	sum  uint64
}

// NewSprite uploads src as a sprite.
func NewSprite(src *image.RGBA) *Sprite {
	b := src.Bounds()
	return &Sprite{
		img: ebiten.NewImageFromImage(src),
		w:   b.Dx(),
		h:   b.Dy(),
		sum: xxhash.Sum64(src.Pix),
	}
}

// Size returns the sprite size in pixels.
func (s *Sprite) Size() (w, h int) { return s.w, s.h }

// Fingerprint returns the content hash.
func (s *Sprite) Fingerprint() uint64 { return s.sum }

// ArrowSprite returns a filled arrow head of size px pointing along +x.
func ArrowSprite(px int, c core.Color) *Sprite {
	return NewSprite(arrowPixels(px, c.RGBA()))
}

// arrowPixels rasterizes a triangle with its tip on the right edge.
func arrowPixels(px int, c color.RGBA) *image.RGBA {
	px = max(px, 4)
	img := image.NewRGBA(image.Rect(0, 0, px, px))
	n := float64(px)
	tip := [2]float64{n, n / 2}
	top := [2]float64{0, 0}
	bottom := [2]float64{0, n}
	notch := [2]float64{n / 4, n / 2}
	for y := range px {
		for x := range px {
			p := [2]float64{float64(x) + 0.5, float64(y) + 0.5}
			if inTriangle(p, top, tip, notch) || inTriangle(p, notch, tip, bottom) {
				img.SetRGBA(x, y, c)
			}
		}
	}
	return img
}

func inTriangle(p, a, b, c [2]float64) bool {
	side := func(p, a, b [2]float64) float64 {
		return (p[0]-b[0])*(a[1]-b[1]) - (a[0]-b[0])*(p[1]-b[1])
	}
	d1, d2, d3 := side(p, a, b), side(p, b, c), side(p, c, a)
	neg := d1 < 0 || d2 < 0 || d3 < 0
	pos := d1 > 0 || d2 > 0 || d3 > 0
	return !(neg && pos)
}

// RotateImage returns a copy of img rotated counter-clockwise by deg
// degrees on a square canvas large enough to hold any rotation. It
// satisfies core.RotateFunc.
func RotateImage(img core.Image, deg float64) core.Image {
	s, ok := img.(*Sprite)
	if !ok {
		return img
	}
	d := rotatedSide(s.w, s.h)
	out := ebiten.NewImage(d, d)
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM.Translate(-float64(s.w)/2, -float64(s.h)/2)
	// Screen y grows downwards, so a counter-clockwise world turn is a
	// negative screen rotation.
	op.GeoM.Rotate(-core.Radians(deg))
	op.GeoM.Translate(float64(d)/2, float64(d)/2)
	out.DrawImage(s.img, op)

	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], s.sum)
	binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(core.NormalizeDegrees(deg)))
	return &Sprite{img: out, w: d, h: d, sum: xxhash.Sum64(buf[:])}
}

func rotatedSide(w, h int) int {
	return int(math.Ceil(math.Hypot(float64(w), float64(h))))
}
