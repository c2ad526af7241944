package maze

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Direction is one of the four logical movement keys.
type Direction int

const (
	DirForward Direction = iota
	DirBackward
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirForward:
		return "forward"
	case DirBackward:
		return "backward"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	}
	return "unknown"
}

// Pose is the controlled entity's position and facing.
// Yaw is a rotation about the vertical (Y) axis in radians.
type Pose struct {
	Position mgl64.Vec3 `json:"position"`
	Yaw      float64    `json:"yaw"`
}

// MovementConfig holds the tunables of the movement resolver and collision guard.
type MovementConfig struct {
	Speed             float64 `mapstructure:"speed"`           // world units per reference tick
	TurnRate          float64 `mapstructure:"turnRate"`        // fraction of the remaining turn per reference tick
	CollisionRadius   float64 `mapstructure:"collisionRadius"` // entity footprint radius
	OrientationOffset float64 `mapstructure:"orientationOffset"`

	// RotateWhenBlocked keeps the yaw update on frames whose displacement
	// was rejected, so the entity turns to face the wall it ran into.
	RotateWhenBlocked bool `mapstructure:"rotateWhenBlocked"`

	// FrameIndependent scales speed and turning by elapsed time measured in
	// reference ticks. When false every Tick is exactly one step.
	FrameIndependent  bool    `mapstructure:"frameIndependent"`
	ReferenceTickRate float64 `mapstructure:"referenceTickRate"`
}

// CameraConfig holds the initial orbit and the zoom limits.
type CameraConfig struct {
	Alpha     float64 `mapstructure:"alpha"`
	Beta      float64 `mapstructure:"beta"`
	Radius    float64 `mapstructure:"radius"`
	MinRadius float64 `mapstructure:"minRadius"`
	MaxRadius float64 `mapstructure:"maxRadius"`
}

// Config holds the parameters of a maze session.
type Config struct {
	TickRate int            `mapstructure:"tickRate"` // host frames per second
	Movement MovementConfig `mapstructure:"movement"`
	Camera   CameraConfig   `mapstructure:"camera"`
	Sky      SkyConfig      `mapstructure:"sky"`
}

// DefaultMovementConfig returns the per-tick constants the scene was tuned with.
func DefaultMovementConfig() MovementConfig {
	return MovementConfig{
		Speed:             0.1,
		TurnRate:          0.2,
		CollisionRadius:   0.5,
		OrientationOffset: -math.Pi / 2,
		RotateWhenBlocked: true,
		FrameIndependent:  true,
		ReferenceTickRate: 60,
	}
}

// DefaultCameraConfig returns the third-person orbit the scene starts with.
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Alpha:     -math.Pi / 2,
		Beta:      math.Pi / 3,
		Radius:    10,
		MinRadius: 5,
		MaxRadius: 20,
	}
}

// DefaultConfig returns a sensible default session configuration.
func DefaultConfig() Config {
	return Config{
		TickRate: 60,
		Movement: DefaultMovementConfig(),
		Camera:   DefaultCameraConfig(),
		Sky:      DefaultSkyConfig(),
	}
}

// TickInterval is the wall-clock duration of one host frame.
func (c Config) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRate)
}

// Snapshot is a copy of the controller state safe to hand to renderers.
type Snapshot struct {
	Pose     Pose       `json:"pose"`
	Entity   Entity     `json:"entity"`
	Camera   Camera     `json:"camera"`
	Layout   Layout     `json:"layout"`
	Stars    []Particle `json:"stars"`
	Moving   bool       `json:"moving"`
	Blocked  bool       `json:"blocked"`
	Ticks    uint64     `json:"ticks"`
	Rejected uint64     `json:"rejected"`
}
