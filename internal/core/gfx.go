package core

// The interfaces below are the contracts the execution core consumes from a
// rasterization backend. The core never manages pixel formats or windows.

// Image is an opaque sprite image owned by a backend.
type Image interface {
	Size() (w, h int)
}

// Fingerprinter is implemented by images that can report a content hash.
// Caches compare fingerprints instead of identities when available.
type Fingerprinter interface {
	Fingerprint() uint64
}

// Surface is a raster target addressed in world coordinates.
type Surface interface {
	// Fill clears the whole surface to the background color.
	Fill(bg Color)
	// DrawLines strokes a connected polyline. A single point draws a dot.
	DrawLines(points []Vec2, c Color, width float64)
	// Blit draws img centered at pos.
	Blit(img Image, pos Vec2)
	// Overlay composites src (a surface of the same backend) on top.
	Overlay(src Surface)
}

// RotateFunc produces a copy of img rotated counter-clockwise by deg degrees.
type RotateFunc func(img Image, deg float64) Image

// Clock reports the seconds elapsed since its previous call.
type Clock interface {
	Elapsed() float64
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() float64

// Elapsed calls f.
func (f ClockFunc) Elapsed() float64 {
	return f()
}
