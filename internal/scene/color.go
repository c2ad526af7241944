package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/amalg/go-labyrinth/internal/maze"
)

// HexColor parses "#rrggbb", falling back to white.
func HexColor(hex string) color.RGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// StarColor converts a particle's current colour to premultiplied RGBA.
func StarColor(p maze.Particle) color.RGBA {
	c := p.Color()
	a := mgl64.Clamp(c[3], 0, 1)
	return color.RGBA{
		R: uint8(mgl64.Clamp(c[0], 0, 1) * a * 255),
		G: uint8(mgl64.Clamp(c[1], 0, 1) * a * 255),
		B: uint8(mgl64.Clamp(c[2], 0, 1) * a * 255),
		A: uint8(a * 255),
	}
}
