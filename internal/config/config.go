package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/amalg/go-labyrinth/internal/maze"
)

// EnvPrefix is prepended to every environment override, e.g. LABYRINTH_MOVEMENT_SPEED.
const EnvPrefix = "LABYRINTH"

// MazeFiles points at optional data files for the scene.
type MazeFiles struct {
	LayoutFile string `mapstructure:"layoutFile"`
}

// CharacterConfig selects the character that replaces the placeholder.
type CharacterConfig struct {
	Manifest string `mapstructure:"manifest"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// UIConfig holds terminal host settings.
type UIConfig struct {
	// HoldTimeout is how long a key counts as held after its last repeat.
	HoldTimeout time.Duration `mapstructure:"holdTimeout"`
}

// Config is the full application configuration.
type Config struct {
	maze.Config `mapstructure:",squash"`

	Maze      MazeFiles       `mapstructure:"maze"`
	Character CharacterConfig `mapstructure:"character"`
	Log       LogConfig       `mapstructure:"log"`
	UI        UIConfig        `mapstructure:"ui"`
}

// Load reads configuration from an optional YAML file and LABYRINTH_* environment
// variables on top of the built-in defaults. An empty path or a missing file
// yields the defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := Config{Config: maze.DefaultConfig()}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := maze.DefaultConfig()

	v.SetDefault("tickRate", d.TickRate)

	v.SetDefault("movement.speed", d.Movement.Speed)
	v.SetDefault("movement.turnRate", d.Movement.TurnRate)
	v.SetDefault("movement.collisionRadius", d.Movement.CollisionRadius)
	v.SetDefault("movement.orientationOffset", d.Movement.OrientationOffset)
	v.SetDefault("movement.rotateWhenBlocked", d.Movement.RotateWhenBlocked)
	v.SetDefault("movement.frameIndependent", d.Movement.FrameIndependent)
	v.SetDefault("movement.referenceTickRate", d.Movement.ReferenceTickRate)

	v.SetDefault("camera.alpha", d.Camera.Alpha)
	v.SetDefault("camera.beta", d.Camera.Beta)
	v.SetDefault("camera.radius", d.Camera.Radius)
	v.SetDefault("camera.minRadius", d.Camera.MinRadius)
	v.SetDefault("camera.maxRadius", d.Camera.MaxRadius)

	v.SetDefault("sky.capacity", d.Sky.Capacity)
	v.SetDefault("sky.emitRate", d.Sky.EmitRate)
	v.SetDefault("sky.minLifetime", d.Sky.MinLifetime)
	v.SetDefault("sky.maxLifetime", d.Sky.MaxLifetime)
	v.SetDefault("sky.minSize", d.Sky.MinSize)
	v.SetDefault("sky.maxSize", d.Sky.MaxSize)
	v.SetDefault("sky.minPower", d.Sky.MinPower)
	v.SetDefault("sky.maxPower", d.Sky.MaxPower)

	v.SetDefault("maze.layoutFile", "")
	v.SetDefault("character.manifest", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	v.SetDefault("ui.holdTimeout", 500*time.Millisecond)
}

func (c Config) validate() error {
	switch {
	case c.TickRate <= 0:
		return fmt.Errorf("tickRate must be positive, got %d", c.TickRate)
	case c.Movement.Speed < 0:
		return fmt.Errorf("movement.speed must not be negative, got %v", c.Movement.Speed)
	case c.Movement.TurnRate < 0 || c.Movement.TurnRate > 1:
		return fmt.Errorf("movement.turnRate must be within [0, 1], got %v", c.Movement.TurnRate)
	case c.Movement.CollisionRadius < 0:
		return fmt.Errorf("movement.collisionRadius must not be negative, got %v", c.Movement.CollisionRadius)
	case c.Movement.FrameIndependent && c.Movement.ReferenceTickRate <= 0:
		return fmt.Errorf("movement.referenceTickRate must be positive, got %v", c.Movement.ReferenceTickRate)
	case c.Camera.MinRadius <= 0 || c.Camera.MaxRadius < c.Camera.MinRadius:
		return fmt.Errorf("camera radius limits [%v, %v] are invalid", c.Camera.MinRadius, c.Camera.MaxRadius)
	case c.Sky.Capacity < 0:
		return fmt.Errorf("sky.capacity must not be negative, got %d", c.Sky.Capacity)
	case c.Sky.EmitRate < 0:
		return fmt.Errorf("sky.emitRate must not be negative, got %v", c.Sky.EmitRate)
	case c.Sky.MinLifetime > c.Sky.MaxLifetime:
		return fmt.Errorf("sky lifetime range [%v, %v] is inverted", c.Sky.MinLifetime, c.Sky.MaxLifetime)
	case c.Sky.MinSize > c.Sky.MaxSize:
		return fmt.Errorf("sky size range [%v, %v] is inverted", c.Sky.MinSize, c.Sky.MaxSize)
	case c.Sky.MinPower > c.Sky.MaxPower:
		return fmt.Errorf("sky power range [%v, %v] is inverted", c.Sky.MinPower, c.Sky.MaxPower)
	case c.UI.HoldTimeout <= 0:
		return fmt.Errorf("ui.holdTimeout must be positive, got %v", c.UI.HoldTimeout)
	}
	return nil
}
