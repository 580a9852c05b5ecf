package core

import (
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in     string
		want   Color
		wantOK bool
	}{
		{"red", ColorRed, true},
		{"Bright_Red", ColorBrightRed, true},
		{"grey", ColorGray, true},
		{"", ColorDefault, true},
		{"#ff8000", RGB(0xff, 0x80, 0x00), true},
		{"#F80", RGB(0xff, 0x88, 0x00), true},
		{"#000000", RGB(0, 0, 0), true},
		{"#12345", ColorDefault, false},
		{"#gg0000", ColorDefault, false},
		{"mauve", ColorDefault, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseColor(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseColor(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRGBColor(t *testing.T) {
	c := RGB(0x12, 0x34, 0x56)
	if !c.IsRGB() {
		t.Fatal("RGB color not flagged as truecolor")
	}
	if ColorBlack.IsRGB() {
		t.Error("palette color flagged as truecolor")
	}
	// Black truecolor must stay distinct from the terminal default.
	if RGB(0, 0, 0) == ColorDefault {
		t.Error("RGB(0,0,0) collides with ColorDefault")
	}
	if got := c.RGBA(); got != (color.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xff}) {
		t.Errorf("RGBA = %v", got)
	}
	if got := c.ANSI(); got != "#123456" {
		t.Errorf("ANSI = %q", got)
	}
	if got := c.String(); got != "#123456" {
		t.Errorf("String = %q", got)
	}
	back, ok := ParseColor(c.String())
	if !ok || back != c {
		t.Errorf("ParseColor(String()) = %v, %v", back, ok)
	}
	if got := ColorRed.String(); got != "red" {
		t.Errorf("palette String = %q", got)
	}
}
