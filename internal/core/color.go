package core

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color represents a pen or cell color: either a palette entry or a 24-bit
// truecolor built with RGB. Palette colors use ANSI 256-color codes for
// terminal compatibility; pixel backends translate through RGBA.
type Color uint32

// rgbFlag marks a truecolor; the low 24 bits hold 0xRRGGBB.
const rgbFlag Color = 1 << 24

// RGB returns the truecolor with the given channels.
func RGB(r, g, b uint8) Color {
	return rgbFlag | Color(r)<<16 | Color(g)<<8 | Color(b)
}

// IsRGB reports whether c is a truecolor rather than a palette entry.
func (c Color) IsRGB() bool { return c&rgbFlag != 0 }

func (c Color) channels() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	rgba := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

// Palette colors available to pens and backgrounds.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
	ColorBlack
	colorCount // Sentinel value for iteration
)

var colorNames = [colorCount]string{
	ColorDefault:       "default",
	ColorRed:           "red",
	ColorGreen:         "green",
	ColorYellow:        "yellow",
	ColorBlue:          "blue",
	ColorMagenta:       "magenta",
	ColorCyan:          "cyan",
	ColorWhite:         "white",
	ColorBrightRed:     "bright-red",
	ColorBrightGreen:   "bright-green",
	ColorBrightYellow:  "bright-yellow",
	ColorBrightBlue:    "bright-blue",
	ColorBrightMagenta: "bright-magenta",
	ColorBrightCyan:    "bright-cyan",
	ColorBrightWhite:   "bright-white",
	ColorOrange:        "orange",
	ColorGray:          "gray",
	ColorBlack:         "black",
}

// ANSI returns the terminal color code, or "" for the terminal default.
// Truecolors are returned as #rrggbb, which lipgloss accepts as well.
func (c Color) ANSI() string {
	if c.IsRGB() {
		return c.Hex()
	}
	switch c {
	case ColorRed:
		return "1"
	case ColorGreen:
		return "2"
	case ColorYellow:
		return "3"
	case ColorBlue:
		return "4"
	case ColorMagenta:
		return "5"
	case ColorCyan:
		return "6"
	case ColorWhite:
		return "7"
	case ColorBrightRed:
		return "9"
	case ColorBrightGreen:
		return "10"
	case ColorBrightYellow:
		return "11"
	case ColorBrightBlue:
		return "12"
	case ColorBrightMagenta:
		return "13"
	case ColorBrightCyan:
		return "14"
	case ColorBrightWhite:
		return "15"
	case ColorOrange:
		return "208"
	case ColorGray:
		return "245"
	case ColorBlack:
		return "0"
	default:
		return ""
	}
}

// RGBA returns an approximation of the color for pixel backends.
// ColorDefault maps to opaque white.
func (c Color) RGBA() color.RGBA {
	if c.IsRGB() {
		r, g, b := c.channels()
		return color.RGBA{R: r, G: g, B: b, A: 0xff}
	}
	switch c {
	case ColorRed:
		return color.RGBA{R: 0xcd, A: 0xff}
	case ColorGreen:
		return color.RGBA{G: 0xcd, A: 0xff}
	case ColorYellow:
		return color.RGBA{R: 0xcd, G: 0xcd, A: 0xff}
	case ColorBlue:
		return color.RGBA{B: 0xee, A: 0xff}
	case ColorMagenta:
		return color.RGBA{R: 0xcd, B: 0xcd, A: 0xff}
	case ColorCyan:
		return color.RGBA{G: 0xcd, B: 0xcd, A: 0xff}
	case ColorWhite:
		return color.RGBA{R: 0xe5, G: 0xe5, B: 0xe5, A: 0xff}
	case ColorBrightRed:
		return color.RGBA{R: 0xff, A: 0xff}
	case ColorBrightGreen:
		return color.RGBA{G: 0xff, A: 0xff}
	case ColorBrightYellow:
		return color.RGBA{R: 0xff, G: 0xff, A: 0xff}
	case ColorBrightBlue:
		return color.RGBA{R: 0x5c, G: 0x5c, B: 0xff, A: 0xff}
	case ColorBrightMagenta:
		return color.RGBA{R: 0xff, B: 0xff, A: 0xff}
	case ColorBrightCyan:
		return color.RGBA{G: 0xff, B: 0xff, A: 0xff}
	case ColorOrange:
		return color.RGBA{R: 0xff, G: 0x87, A: 0xff}
	case ColorGray:
		return color.RGBA{R: 0x8a, G: 0x8a, B: 0x8a, A: 0xff}
	case ColorBlack:
		return color.RGBA{A: 0xff}
	default:
		return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
}

// String returns the palette name of the color, or #rrggbb for a truecolor.
func (c Color) String() string {
	if c.IsRGB() {
		return c.Hex()
	}
	if c >= colorCount {
		return "unknown"
	}
	return colorNames[c]
}

// ParseColor converts a palette name or a #rrggbb / #rgb hex string to a
// Color. Accepts underscores or spaces in place of dashes ("bright_red").
// Returns ColorDefault and false if the name is not recognized.
func ParseColor(s string) (Color, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(name, "#") {
		return parseHex(name[1:])
	}
	name = strings.NewReplacer("_", "-", " ", "-").Replace(name)
	switch name {
	case "", "none":
		return ColorDefault, true
	case "grey":
		return ColorGray, true
	}
	for i, n := range colorNames {
		if n == name {
			return Color(i), true
		}
	}
	return ColorDefault, false
}

func parseHex(h string) (Color, bool) {
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return ColorDefault, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return ColorDefault, false
	}
	return rgbFlag | Color(v), true
}

// AllColors returns every palette color in declaration order.
func AllColors() []Color {
	out := make([]Color, 0, colorCount)
	for c := ColorDefault; c < colorCount; c++ {
		out = append(out, c)
	}
	return out
}
