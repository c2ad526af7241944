package maze

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	minBeta = 0.01
	maxBeta = math.Pi - 0.01
)

// Camera is a third-person orbit camera around a look-at target.
// Alpha is the horizontal angle the movement resolver reads as camera yaw,
// Beta the angle down from vertical.
type Camera struct {
	Alpha     float64    `json:"alpha"`
	Beta      float64    `json:"beta"`
	Radius    float64    `json:"radius"`
	MinRadius float64    `json:"min_radius"`
	MaxRadius float64    `json:"max_radius"`
	Target    mgl64.Vec3 `json:"target"`
}

// NewCamera creates a camera from its configuration, clamping the initial orbit.
func NewCamera(cfg CameraConfig) Camera {
	c := Camera{
		Alpha:     cfg.Alpha,
		MinRadius: cfg.MinRadius,
		MaxRadius: cfg.MaxRadius,
	}
	if c.MaxRadius < c.MinRadius {
		c.MaxRadius = c.MinRadius
	}
	c.SetBeta(cfg.Beta)
	c.SetRadius(cfg.Radius)
	return c
}

// Orbit rotates the camera around its target.
func (c *Camera) Orbit(dAlpha float64) {
	c.Alpha = WrapAngle(c.Alpha + dAlpha)
}

// Tilt changes the pitch, staying strictly between straight up and straight down.
func (c *Camera) Tilt(dBeta float64) {
	c.SetBeta(c.Beta + dBeta)
}

// SetBeta sets the pitch within its limits.
func (c *Camera) SetBeta(beta float64) {
	c.Beta = mgl64.Clamp(beta, minBeta, maxBeta)
}

// Zoom moves the camera toward (negative) or away from (positive) its target.
func (c *Camera) Zoom(delta float64) {
	c.SetRadius(c.Radius + delta)
}

// SetRadius sets the orbit distance within the zoom limits.
func (c *Camera) SetRadius(r float64) {
	c.Radius = mgl64.Clamp(r, c.MinRadius, c.MaxRadius)
}

// Follow moves the look-at target.
func (c *Camera) Follow(target mgl64.Vec3) {
	c.Target = target
}

// Eye returns the camera position in world space.
func (c Camera) Eye() mgl64.Vec3 {
	sinB, cosB := math.Sincos(c.Beta)
	sinA, cosA := math.Sincos(c.Alpha)
	return c.Target.Add(mgl64.Vec3{
		c.Radius * cosA * sinB,
		c.Radius * cosB,
		c.Radius * sinA * sinB,
	})
}

// Heading returns the world direction on the x/z plane that forward input
// moves in under this camera.
func (c Camera) Heading() mgl64.Vec2 {
	return CameraRelative(mgl64.Vec2{1, 0}, c.Alpha)
}
