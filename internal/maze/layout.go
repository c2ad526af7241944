package maze

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// Layout is the fixed maze: ground size, wall boxes and where the entity starts.
type Layout struct {
	GroundWidth float64 `json:"ground_width" yaml:"groundWidth"`
	GroundDepth float64 `json:"ground_depth" yaml:"groundDepth"`
	WallHeight  float64 `json:"wall_height" yaml:"wallHeight"`
	SpawnX      float64 `json:"spawn_x" yaml:"spawnX"`
	SpawnZ      float64 `json:"spawn_z" yaml:"spawnZ"`
	Walls       []Wall  `json:"walls" yaml:"walls"`
}

// DefaultLayout returns the single hard-coded maze: a 50×50 ground enclosed by
// four boundary walls, with six interior walls.
func DefaultLayout() Layout {
	return Layout{
		GroundWidth: 50,
		GroundDepth: 50,
		WallHeight:  5,
		Walls: []Wall{
			// Boundary
			{X: 0, Z: 25, Width: 50, Depth: 1},
			{X: 0, Z: -25, Width: 50, Depth: 1},
			{X: 25, Z: 0, Width: 1, Depth: 50},
			{X: -25, Z: 0, Width: 1, Depth: 50},

			// Interior
			{X: 10, Z: 0, Width: 1, Depth: 20},
			{X: -10, Z: 5, Width: 1, Depth: 15},
			{X: 0, Z: 10, Width: 15, Depth: 1},
			{X: 5, Z: -10, Width: 20, Depth: 1},
			{X: -15, Z: -10, Width: 10, Depth: 1},
			{X: 15, Z: 15, Width: 15, Depth: 1},
		},
	}
}

// LoadLayout reads a layout from a YAML file.
// Walls with zero width or depth are kept as they are; they simply have no extent.
func LoadLayout(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read layout: %w", err)
	}

	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("parse layout %s: %w", path, err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, fmt.Errorf("layout %s: %w", path, err)
	}
	return l, nil
}

// Validate checks the layout has a ground and at least one wall.
func (l Layout) Validate() error {
	if l.GroundWidth <= 0 || l.GroundDepth <= 0 {
		return fmt.Errorf("ground must be positive, got %gx%g", l.GroundWidth, l.GroundDepth)
	}
	if len(l.Walls) == 0 {
		return fmt.Errorf("no walls")
	}
	if l.WallHeight <= 0 {
		return fmt.Errorf("wall height must be positive, got %g", l.WallHeight)
	}
	return nil
}

// Spawn returns the starting point on the ground plane.
func (l Layout) Spawn() mgl64.Vec2 {
	return mgl64.Vec2{l.SpawnX, l.SpawnZ}
}

// OnGround reports whether (x, z) lies over the ground rectangle.
func (l Layout) OnGround(x, z float64) bool {
	return x >= -l.GroundWidth/2 && x <= l.GroundWidth/2 &&
		z >= -l.GroundDepth/2 && z <= l.GroundDepth/2
}

func (l Layout) clone() Layout {
	cp := l
	cp.Walls = make([]Wall, len(l.Walls))
	copy(cp.Walls, l.Walls)
	return cp
}
