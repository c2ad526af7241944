// Package asset loads the character that replaces the placeholder entity.
package asset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/amalg/go-labyrinth/internal/maze"
)

var (
	ErrInvalidModel    = errors.New("model is not a readable glTF document")
	ErrMissingModelRef = errors.New("manifest has no model path")
)

// Manifest describes a character: which model to import and how to place it.
type Manifest struct {
	Name       string   `yaml:"name"`
	Model      string   `yaml:"model"` // relative to the manifest directory
	Scale      float64  `yaml:"scale"`
	BaseHeight float64  `yaml:"baseHeight"`
	Glyph      string   `yaml:"glyph"`
	Color      string   `yaml:"color"`
}

// Result is delivered once per load.
type Result struct {
	Entity maze.Entity
	Err    error
}

// Loader imports characters.
type Loader struct {
	log zerolog.Logger
}

// NewLoader creates a loader that reports through the given logger.
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{log: log.With().Str("component", "asset").Logger()}
}

// LoadAsync loads a character in the background. The channel yields exactly
// one result and is then closed. There is no retry.
func (l *Loader) LoadAsync(ctx context.Context, manifestPath string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		e, err := l.Load(ctx, manifestPath)
		out <- Result{Entity: e, Err: err}
	}()
	return out
}

// Load reads the manifest and checks the model it points at.
func (l *Loader) Load(ctx context.Context, manifestPath string) (maze.Entity, error) {
	m, err := ReadManifest(manifestPath)
	if err != nil {
		l.log.Error().Err(err).Str("manifest", manifestPath).Msg("character load failed")
		return maze.Entity{}, err
	}
	if err := ctx.Err(); err != nil {
		return maze.Entity{}, err
	}

	modelPath := m.Model
	if !filepath.IsAbs(modelPath) {
		modelPath = filepath.Join(filepath.Dir(manifestPath), modelPath)
	}
	clips, err := readClips(modelPath)
	if err != nil {
		l.log.Error().Err(err).Str("model", modelPath).Msg("character load failed")
		return maze.Entity{}, err
	}

	e := m.Entity()
	if len(clips) > 0 {
		e.Animations = clips
		e.Animation = clips[0]
	}
	l.log.Info().
		Str("name", e.Name).
		Str("model", modelPath).
		Float64("scale", e.Scale).
		Int("animations", len(e.Animations)).
		Str("playing", e.Animation).
		Msg("character loaded")
	return e, nil
}

// ReadManifest parses a character manifest.
func ReadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if m.Model == "" {
		return Manifest{}, fmt.Errorf("manifest %s: %w", path, ErrMissingModelRef)
	}
	return m, nil
}

// Entity converts the manifest into a character entity, keeping the scene
// defaults for anything left unset.
func (m Manifest) Entity() maze.Entity {
	name := m.Name
	if name == "" {
		name = filepath.Base(m.Model)
	}
	e := maze.Character(name)
	if m.Scale > 0 {
		e.Scale = m.Scale
	}
	if m.BaseHeight > 0 {
		e.BaseHeight = m.BaseHeight
	}
	if m.Glyph != "" {
		e.Glyph = m.Glyph
	}
	if m.Color != "" {
		e.Color = m.Color
	}
	return e
}

// readClips opens a glTF or GLB model and returns the names of its
// animation clips in document order. Unnamed clips get their index.
func readClips(path string) ([]string, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open model: %w", err)
		}
		return nil, fmt.Errorf("%s: %w: %w", path, ErrInvalidModel, err)
	}

	clips := make([]string, 0, len(doc.Animations))
	for i, a := range doc.Animations {
		name := a.Name
		if name == "" {
			name = fmt.Sprintf("animation%d", i)
		}
		clips = append(clips, name)
	}
	return clips, nil
}
