// Package window shows a turtle screen in a desktop window with ebiten.
package window

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/vovakirdan/tui-turtle/internal/core"
)

// ImageSurface implements core.Surface on an ebiten image. World
// coordinates have their origin at the image center with +y up; one world
// unit covers Scale pixels.
type ImageSurface struct {
	img   *ebiten.Image
	scale float64
}

// NewImageSurface creates a w x h pixel surface. scale <= 0 falls back to 1.
func NewImageSurface(w, h int, scale float64) *ImageSurface {
	if scale <= 0 {
		scale = 1
	}
	return &ImageSurface{
		img:   ebiten.NewImage(max(w, 1), max(h, 1)),
		scale: scale,
	}
}

// Image exposes the backing image.
func (s *ImageSurface) Image() *ebiten.Image { return s.img }

// Size returns the surface size in pixels.
func (s *ImageSurface) Size() (w, h int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// ToPixel maps a world position to pixel coordinates.
func (s *ImageSurface) ToPixel(p core.Vec2) (x, y float32) {
	w, h := s.Size()
	return toPixel(p, w, h, s.scale)
}

func toPixel(p core.Vec2, w, h int, scale float64) (x, y float32) {
	return float32(float64(w)/2 + p.X*scale), float32(float64(h)/2 - p.Y*scale)
}

// Fill clears the image to the background color. ColorDefault is black.
func (s *ImageSurface) Fill(bg core.Color) {
	s.img.Fill(background(bg))
}

func background(c core.Color) color.Color {
	if c == core.ColorDefault {
		return color.Black
	}
	return c.RGBA()
}

// DrawLines strokes a polyline. A single point draws a filled dot.
func (s *ImageSurface) DrawLines(points []core.Vec2, c core.Color, width float64) {
	stroke := strokeWidth(width, s.scale)
	clr := c.RGBA()
	switch len(points) {
	case 0:
		return
	case 1:
		x, y := s.ToPixel(points[0])
		vector.DrawFilledCircle(s.img, x, y, max(stroke, 1.5), clr, true)
		return
	}
	for i := 1; i < len(points); i++ {
		x0, y0 := s.ToPixel(points[i-1])
		x1, y1 := s.ToPixel(points[i])
		vector.StrokeLine(s.img, x0, y0, x1, y1, stroke, clr, true)
	}
}

func strokeWidth(width, scale float64) float32 {
	return float32(math.Max(width*scale, 1))
}

// Blit draws img centered at pos. Images from other backends are ignored.
func (s *ImageSurface) Blit(img core.Image, pos core.Vec2) {
	sp, ok := img.(*Sprite)
	if !ok {
		return
	}
	w, h := sp.Size()
	x, y := s.ToPixel(pos)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(x)-float64(w)/2, float64(y)-float64(h)/2)
	s.img.DrawImage(sp.img, op)
}

// Overlay draws src on top. Surfaces of other backends are ignored.
func (s *ImageSurface) Overlay(src core.Surface) {
	if o, ok := src.(*ImageSurface); ok {
		s.img.DrawImage(o.img, nil)
	}
}
