// Package scene projects the maze into screen space for the window host.
package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/amalg/go-labyrinth/internal/maze"
)

const (
	FieldOfView = 45.0 // degrees, vertical
	Near        = 0.1
	Far         = 1000.0
)

var up = mgl64.Vec3{0, 1, 0}

// View maps world points onto a screen of Width×Height pixels as seen from
// the orbit camera.
type View struct {
	Matrix mgl64.Mat4
	Width  float64
	Height float64
}

// NewView builds the view-projection for the camera.
func NewView(cam maze.Camera, width, height int) View {
	w, h := float64(max(width, 1)), float64(max(height, 1))
	proj := mgl64.Perspective(mgl64.DegToRad(FieldOfView), w/h, Near, Far)
	look := mgl64.LookAtV(cam.Eye(), cam.Target, up)
	return View{Matrix: proj.Mul4(look), Width: w, Height: h}
}

// Point projects p. ok is false when p lies behind the near plane.
func (v View) Point(p mgl64.Vec3) (mgl64.Vec2, bool) {
	clip := v.Matrix.Mul4x1(p.Vec4(1))
	if clip.W() < Near {
		return mgl64.Vec2{}, false
	}
	return v.toScreen(clip), true
}

// Segment projects a line, cutting it at the near plane. ok is false when
// the whole segment lies behind the camera.
func (v View) Segment(a, b mgl64.Vec3) (mgl64.Vec2, mgl64.Vec2, bool) {
	ca := v.Matrix.Mul4x1(a.Vec4(1))
	cb := v.Matrix.Mul4x1(b.Vec4(1))

	switch {
	case ca.W() < Near && cb.W() < Near:
		return mgl64.Vec2{}, mgl64.Vec2{}, false
	case ca.W() < Near:
		ca = clipNear(cb, ca)
	case cb.W() < Near:
		cb = clipNear(ca, cb)
	}
	return v.toScreen(ca), v.toScreen(cb), true
}

// clipNear moves out toward in until it sits on the near plane.
func clipNear(in, out mgl64.Vec4) mgl64.Vec4 {
	t := (in.W() - Near) / (in.W() - out.W())
	return in.Add(out.Sub(in).Mul(t))
}

// toScreen divides by w and maps NDC to pixels. Screen x is mirrored: the
// world is left-handed (forward +z, left -x) and LookAtV is right-handed.
func (v View) toScreen(clip mgl64.Vec4) mgl64.Vec2 {
	ndcX := clip.X() / clip.W()
	ndcY := clip.Y() / clip.W()
	return mgl64.Vec2{
		(1 - ndcX) / 2 * v.Width,
		(1 - ndcY) / 2 * v.Height,
	}
}

// Edge is a world-space line segment.
type Edge [2]mgl64.Vec3

// WallEdges returns the twelve edges of a wall box standing on the ground.
func WallEdges(w maze.Wall, height float64) []Edge {
	lo, hi := w.Min(), w.Max()
	c := [8]mgl64.Vec3{
		{lo.X(), 0, lo.Y()}, {hi.X(), 0, lo.Y()}, {hi.X(), 0, hi.Y()}, {lo.X(), 0, hi.Y()},
		{lo.X(), height, lo.Y()}, {hi.X(), height, lo.Y()}, {hi.X(), height, hi.Y()}, {lo.X(), height, hi.Y()},
	}
	return []Edge{
		{c[0], c[1]}, {c[1], c[2]}, {c[2], c[3]}, {c[3], c[0]},
		{c[4], c[5]}, {c[5], c[6]}, {c[6], c[7]}, {c[7], c[4]},
		{c[0], c[4]}, {c[1], c[5]}, {c[2], c[6]}, {c[3], c[7]},
	}
}

// GroundGrid returns the ground outline plus grid lines every spacing units.
func GroundGrid(l maze.Layout, spacing float64) []Edge {
	hw, hd := l.GroundWidth/2, l.GroundDepth/2
	edges := []Edge{
		{{-hw, 0, -hd}, {hw, 0, -hd}},
		{{hw, 0, -hd}, {hw, 0, hd}},
		{{hw, 0, hd}, {-hw, 0, hd}},
		{{-hw, 0, hd}, {-hw, 0, -hd}},
	}
	if spacing <= 0 {
		return edges
	}
	for x := -hw + spacing; x < hw; x += spacing {
		edges = append(edges, Edge{{x, 0, -hd}, {x, 0, hd}})
	}
	for z := -hd + spacing; z < hd; z += spacing {
		edges = append(edges, Edge{{-hw, 0, z}, {hw, 0, z}})
	}
	return edges
}
