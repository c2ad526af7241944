package maze

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Wall is an axis-aligned box on the x/z plane, extruded to the layout's wall height.
type Wall struct {
	X     float64 `json:"x" yaml:"x"`
	Z     float64 `json:"z" yaml:"z"`
	Width float64 `json:"width" yaml:"width"`
	Depth float64 `json:"depth" yaml:"depth"`
}

// Min returns the (x, z) corner with the smallest coordinates.
func (w Wall) Min() mgl64.Vec2 {
	return mgl64.Vec2{w.X - w.Width/2, w.Z - w.Depth/2}
}

// Max returns the (x, z) corner with the largest coordinates.
func (w Wall) Max() mgl64.Vec2 {
	return mgl64.Vec2{w.X + w.Width/2, w.Z + w.Depth/2}
}

// Distance returns the distance from (x, z) to the closest point of the wall.
// Points inside the wall are at distance 0.
func (w Wall) Distance(x, z float64) float64 {
	lo, hi := w.Min(), w.Max()
	cx := mgl64.Clamp(x, lo.X(), hi.X())
	cz := mgl64.Clamp(z, lo.Y(), hi.Y())
	return math.Hypot(x-cx, z-cz)
}

// Blocks reports whether a circle of the given radius at (x, z) penetrates the wall.
// Touching exactly at the radius does not block.
func (w Wall) Blocks(x, z, radius float64) bool {
	return w.Distance(x, z) < radius
}

// FirstBlocking returns the first wall that blocks a circle at (x, z).
func FirstBlocking(x, z, radius float64, walls []Wall) (Wall, bool) {
	for _, w := range walls {
		if w.Blocks(x, z, radius) {
			return w, true
		}
	}
	return Wall{}, false
}

// Blocked reports whether any wall blocks a circle at (x, z).
// An empty wall set never blocks.
func Blocked(x, z, radius float64, walls []Wall) bool {
	_, hit := FirstBlocking(x, z, radius, walls)
	return hit
}
