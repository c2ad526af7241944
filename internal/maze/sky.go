package maze

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// RGBA is a colour with components in [0, 1].
type RGBA [4]float64

func (c RGBA) lerp(to RGBA, t float64) RGBA {
	var out RGBA
	for i := range c {
		out[i] = c[i] + (to[i]-c[i])*t
	}
	return out
}

// SkyConfig describes the star field emitter.
type SkyConfig struct {
	Capacity    int     `mapstructure:"capacity"`
	EmitRate    float64 `mapstructure:"emitRate"` // particles per second
	MinLifetime float64 `mapstructure:"minLifetime"`
	MaxLifetime float64 `mapstructure:"maxLifetime"`
	MinSize     float64 `mapstructure:"minSize"`
	MaxSize     float64 `mapstructure:"maxSize"`
	MinPower    float64 `mapstructure:"minPower"`
	MaxPower    float64 `mapstructure:"maxPower"`

	Emitter mgl64.Vec3 `mapstructure:"-"`
	BoxMin  mgl64.Vec3 `mapstructure:"-"`
	BoxMax  mgl64.Vec3 `mapstructure:"-"`
	DirMin  mgl64.Vec3 `mapstructure:"-"`
	DirMax  mgl64.Vec3 `mapstructure:"-"`
	Color1  RGBA       `mapstructure:"-"`
	Color2  RGBA       `mapstructure:"-"`
	Dead    RGBA       `mapstructure:"-"`
}

// DefaultSkyConfig returns the default star field: a wide box of
// slow, twinkling white and pale-yellow points high above the maze.
func DefaultSkyConfig() SkyConfig {
	return SkyConfig{
		Capacity:    2000,
		EmitRate:    400,
		MinLifetime: 2,
		MaxLifetime: 5,
		MinSize:     0.3,
		MaxSize:     1.5,
		MinPower:    0.01,
		MaxPower:    0.05,
		Emitter:     mgl64.Vec3{0, 50, 0},
		BoxMin:      mgl64.Vec3{-100, 0, -100},
		BoxMax:      mgl64.Vec3{100, 50, 100},
		DirMin:      mgl64.Vec3{-0.1, -0.1, -0.1},
		DirMax:      mgl64.Vec3{0.1, 0.1, 0.1},
		Color1:      RGBA{1, 1, 1, 1},
		Color2:      RGBA{1, 1, 0.8, 1},
		Dead:        RGBA{1, 1, 1, 0},
	}
}

// Particle is a single star.
type Particle struct {
	Position mgl64.Vec3 `json:"position"`
	Velocity mgl64.Vec3 `json:"velocity"`
	Size     float64    `json:"size"`
	Age      float64    `json:"age"`
	Lifetime float64    `json:"lifetime"`
	Start    RGBA       `json:"start"`
	Dead     RGBA       `json:"dead"`
}

// Color returns the particle colour at its current age, fading toward the dead colour.
func (p Particle) Color() RGBA {
	if p.Lifetime <= 0 {
		return p.Dead
	}
	t := p.Age / p.Lifetime
	if t > 1 {
		t = 1
	}
	return p.Start.lerp(p.Dead, t)
}

// Sky is a particle system with no gravity.
type Sky struct {
	cfg       SkyConfig
	rng       *rand.Rand
	particles []Particle
	pending   float64 // fractional emissions carried between updates
}

// NewSky creates an empty star field.
func NewSky(cfg SkyConfig, seed int64) *Sky {
	return &Sky{
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(seed)),
		particles: make([]Particle, 0, cfg.Capacity),
	}
}

// Update ages every star, removes the expired ones, moves the rest and
// emits new stars at the configured rate up to capacity.
func (s *Sky) Update(dt float64) {
	if dt <= 0 {
		return
	}

	remaining := s.particles[:0]
	for _, p := range s.particles {
		p.Age += dt
		if p.Age >= p.Lifetime {
			continue
		}
		p.Position = p.Position.Add(p.Velocity.Mul(dt))
		remaining = append(remaining, p)
	}
	s.particles = remaining

	s.pending += s.cfg.EmitRate * dt
	for s.pending >= 1 {
		s.pending--
		if len(s.particles) >= s.cfg.Capacity {
			continue
		}
		s.particles = append(s.particles, s.spawn())
	}
}

func (s *Sky) spawn() Particle {
	c := s.cfg
	dir := mgl64.Vec3{
		s.between(c.DirMin.X(), c.DirMax.X()),
		s.between(c.DirMin.Y(), c.DirMax.Y()),
		s.between(c.DirMin.Z(), c.DirMax.Z()),
	}
	return Particle{
		Position: c.Emitter.Add(mgl64.Vec3{
			s.between(c.BoxMin.X(), c.BoxMax.X()),
			s.between(c.BoxMin.Y(), c.BoxMax.Y()),
			s.between(c.BoxMin.Z(), c.BoxMax.Z()),
		}),
		Velocity: dir.Mul(s.between(c.MinPower, c.MaxPower)),
		Size:     s.between(c.MinSize, c.MaxSize),
		Lifetime: s.between(c.MinLifetime, c.MaxLifetime),
		Start:    c.Color1.lerp(c.Color2, s.rng.Float64()),
		Dead:     c.Dead,
	}
}

func (s *Sky) between(lo, hi float64) float64 {
	return lo + (hi-lo)*s.rng.Float64()
}

// Len returns the number of live stars.
func (s *Sky) Len() int {
	return len(s.particles)
}

// Particles returns a copy of the live stars.
func (s *Sky) Particles() []Particle {
	out := make([]Particle, len(s.particles))
	copy(out, s.particles)
	return out
}
