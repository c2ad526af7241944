package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amalg/go-labyrinth/internal/maze"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "labyrinth.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.TickRate)
	assert.Equal(t, maze.DefaultMovementConfig(), cfg.Movement)
	assert.Equal(t, maze.DefaultCameraConfig(), cfg.Camera)
	assert.Equal(t, maze.DefaultSkyConfig(), cfg.Sky)
	assert.Equal(t, "", cfg.Maze.LayoutFile)
	assert.Equal(t, "", cfg.Character.Manifest)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "", cfg.Log.File)
	assert.Equal(t, 500*time.Millisecond, cfg.UI.HoldTimeout)
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	path := writeConfig(t, `
tickRate: 30
movement:
  speed: 0.2
  rotateWhenBlocked: false
camera:
  radius: 12
maze:
  layoutFile: mazes/small.yaml
character:
  manifest: assets/dog.yaml
log:
  level: debug
  file: labyrinth.log
ui:
  holdTimeout: 250ms
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.TickRate)
	assert.Equal(t, 0.2, cfg.Movement.Speed)
	assert.False(t, cfg.Movement.RotateWhenBlocked)
	assert.Equal(t, 0.2, cfg.Movement.TurnRate, "unset keys keep their defaults")
	assert.InDelta(t, -math.Pi/2, cfg.Movement.OrientationOffset, 1e-12)
	assert.Equal(t, 12.0, cfg.Camera.Radius)
	assert.Equal(t, "mazes/small.yaml", cfg.Maze.LayoutFile)
	assert.Equal(t, "assets/dog.yaml", cfg.Character.Manifest)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "labyrinth.log", cfg.Log.File)
	assert.Equal(t, 250*time.Millisecond, cfg.UI.HoldTimeout)

	// Emitter geometry is not configurable.
	assert.Equal(t, maze.DefaultSkyConfig().BoxMax, cfg.Sky.BoxMax)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, maze.DefaultMovementConfig(), cfg.Movement)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, "movement: [unterminated\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LABYRINTH_MOVEMENT_SPEED", "0.05")
	t.Setenv("LABYRINTH_LOG_LEVEL", "warn")
	t.Setenv("LABYRINTH_CHARACTER_MANIFEST", "/tmp/dog.yaml")

	path := writeConfig(t, "movement:\n  speed: 0.3\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.05, cfg.Movement.Speed, "environment wins over the file")
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "/tmp/dog.yaml", cfg.Character.Manifest)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"tick rate", "tickRate: 0\n", "tickRate"},
		{"negative speed", "movement:\n  speed: -1\n", "movement.speed"},
		{"turn rate", "movement:\n  turnRate: 1.5\n", "movement.turnRate"},
		{"radius", "movement:\n  collisionRadius: -0.5\n", "movement.collisionRadius"},
		{"reference rate", "movement:\n  referenceTickRate: 0\n", "movement.referenceTickRate"},
		{"zoom limits", "camera:\n  minRadius: 30\n", "camera radius"},
		{"sky capacity", "sky:\n  capacity: -1\n", "sky.capacity"},
		{"sky emit rate", "sky:\n  emitRate: -5\n", "sky.emitRate"},
		{"sky lifetime", "sky:\n  minLifetime: 6\n", "sky lifetime"},
		{"sky size", "sky:\n  minSize: 2\n", "sky size"},
		{"sky power", "sky:\n  maxPower: 0.001\n", "sky power"},
		{"hold timeout", "ui:\n  holdTimeout: 0s\n", "ui.holdTimeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_NegativeSkyCapacityFromEnv(t *testing.T) {
	t.Setenv("LABYRINTH_SKY_CAPACITY", "-1")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sky.capacity")
}

func TestLoad_SampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "labyrinth.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Maze.LayoutFile, "the built-in maze is used")
	assert.Equal(t, "assets/character.yaml", cfg.Character.Manifest)
	assert.InDelta(t, math.Pi/3, cfg.Camera.Beta, 1e-9)
}
