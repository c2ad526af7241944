package maze

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/amalg/go-labyrinth/internal/maze"

// maxCatchUpSteps bounds the reference ticks one frame may cover.
const maxCatchUpSteps = 60

// Controller owns the entity pose, the input state, the camera and the sky,
// and advances them once per rendered frame.
type Controller struct {
	Config Config

	mu      sync.Mutex
	layout  Layout
	pose    Pose
	entity  Entity
	input   InputState
	camera  Camera
	sky     *Sky
	swap    chan Entity // entities waiting to be attached at the next tick
	done    chan struct{}
	stop    sync.Once
	onTick  func(Snapshot) // Callback after each tick with a COPY of state
	log     zerolog.Logger
	moving  bool
	blocked bool

	ticks    uint64
	rejected uint64

	meters        metric.MeterProvider
	tickCounter   metric.Int64Counter
	rejectCounter metric.Int64Counter
	starGauge     metric.Int64ObservableGauge
}

// Option customizes a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for swaps and rejected moves.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithSkySeed seeds the star field for reproducible output.
func WithSkySeed(seed int64) Option {
	return func(c *Controller) { c.sky = NewSky(c.Config.Sky, seed) }
}

// WithMeterProvider records the controller metrics on mp instead of the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *Controller) { c.meters = mp }
}

// NewController creates a controller with the placeholder entity at the layout spawn.
func NewController(config Config, layout Layout, opts ...Option) (*Controller, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}

	placeholder := Placeholder()
	spawn := layout.Spawn()

	c := &Controller{
		Config: config,
		layout: layout.clone(),
		pose: Pose{
			Position: mgl64.Vec3{spawn.X(), placeholder.BaseHeight, spawn.Y()},
		},
		entity: placeholder,
		camera: NewCamera(config.Camera),
		swap:   make(chan Entity, 1),
		done:   make(chan struct{}),
		log:    zerolog.Nop(),
		meters: otel.GetMeterProvider(),
	}
	c.sky = NewSky(config.Sky, time.Now().UnixNano())

	for _, opt := range opts {
		opt(c)
	}
	c.camera.Follow(c.pose.Position)

	if err := c.initMetrics(); err != nil {
		return nil, err
	}
	return c, nil
}

// initMetrics registers instruments on the meter provider (the global one,
// a no-op unless configured, by default).
func (c *Controller) initMetrics() error {
	m := c.meters.Meter(instrumentationName)

	var err error
	c.tickCounter, err = m.Int64Counter(
		"maze.ticks",
		metric.WithDescription("Frames advanced"),
	)
	if err != nil {
		return fmt.Errorf("creating tick counter: %w", err)
	}

	c.rejectCounter, err = m.Int64Counter(
		"maze.moves.rejected",
		metric.WithDescription("Frames whose displacement was rejected by a wall"),
	)
	if err != nil {
		return fmt.Errorf("creating rejected counter: %w", err)
	}

	c.starGauge, err = m.Int64ObservableGauge(
		"maze.sky.particles",
		metric.WithDescription("Live star particles"),
	)
	if err != nil {
		return fmt.Errorf("creating star gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			c.mu.Lock()
			n := c.sky.Len()
			c.mu.Unlock()
			o.ObserveInt64(c.starGauge, int64(n))
			return nil
		},
		c.starGauge,
	)
	if err != nil {
		return fmt.Errorf("registering star callback: %w", err)
	}
	return nil
}

// OnTick sets a callback that is invoked after every tick with a copy of the state.
func (c *Controller) OnTick(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTick = fn
}

// SetKey records a key-down (held=true) or key-up for a direction.
func (c *Controller) SetKey(d Direction, held bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input.Set(d, held)
}

// ReleaseAll marks every direction as released.
func (c *Controller) ReleaseAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input.Release()
}

// OrbitCamera rotates the camera horizontally around the entity.
func (c *Controller) OrbitCamera(dAlpha float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.camera.Orbit(dAlpha)
}

// TiltCamera changes the camera pitch.
func (c *Controller) TiltCamera(dBeta float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.camera.Tilt(dBeta)
}

// ZoomCamera changes the camera distance within its limits.
func (c *Controller) ZoomCamera(delta float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.camera.Zoom(delta)
}

// Attach queues a new renderable for the pose. The swap happens at the start
// of the next tick, never in the middle of one. A newer request replaces an
// older one that was not applied yet.
func (c *Controller) Attach(e Entity) {
	for {
		select {
		case c.swap <- e:
			return
		default:
			select {
			case <-c.swap:
			default:
			}
		}
	}
}

// Run advances the controller at the configured tick rate.
// It blocks until ctx is cancelled or Stop is called.
func (c *Controller) Run(ctx context.Context) error {
	interval := c.Config.TickInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return nil
		case <-ticker.C:
			c.Tick(interval)
		}
	}
}

// Stop halts Run.
func (c *Controller) Stop() {
	c.stop.Do(func() { close(c.done) })
}

// Tick advances one frame: attach a pending entity, resolve movement, guard it
// against the walls, sync the camera and move the stars.
// The state is copied under the lock and the callback runs after it is released.
func (c *Controller) Tick(dt time.Duration) {
	c.mu.Lock()

	c.applySwapLocked()
	c.stepLocked(dt.Seconds())
	c.sky.Update(dt.Seconds())
	c.ticks++

	stateCopy := c.snapshotLocked()
	onTick := c.onTick
	blocked := c.blocked
	kind := c.entity.Kind.String()

	c.mu.Unlock()

	attrs := metric.WithAttributes(attribute.String("entity", kind))
	c.tickCounter.Add(context.Background(), 1, attrs)
	if blocked {
		c.rejectCounter.Add(context.Background(), 1, attrs)
	}

	if onTick != nil {
		onTick(stateCopy)
	}
}

// applySwapLocked attaches a queued entity. x/z and yaw carry over; the pose
// height becomes the new entity's resting height.
func (c *Controller) applySwapLocked() {
	select {
	case e := <-c.swap:
		prev := c.entity.Kind
		c.entity = e.clone()
		c.pose.Position[1] = e.BaseHeight
		c.log.Info().
			Str("from", prev.String()).
			Str("to", e.Kind.String()).
			Str("name", e.Name).
			Msg("entity attached")
	default:
	}
}

// stepLocked runs the movement resolver and the collision guard. A long
// frame is split into sub-steps of at most one reference tick so the
// entity cannot pass through a wall thinner than its displacement.
// MUST be called while c.mu is held.
func (c *Controller) stepLocked(dtSeconds float64) {
	cfg := c.Config.Movement
	step := math.Min(Step(dtSeconds, cfg), maxCatchUpSteps)

	n := int(math.Ceil(step))
	if n < 1 {
		n = 1
	}

	c.moving = false
	c.blocked = false
	for i := 0; i < n && !c.blocked; i++ {
		c.subStepLocked(step/float64(n), cfg)
	}

	c.camera.Follow(c.pose.Position)
}

// subStepLocked resolves and guards one displacement of at most one reference tick.
func (c *Controller) subStepLocked(step float64, cfg MovementConfig) {
	move := Resolve(c.pose, c.input, c.camera.Alpha, step, cfg)
	if !move.Moving {
		return
	}
	c.moving = true

	cand := move.Candidate.Position
	w, hit := FirstBlocking(cand.X(), cand.Z(), cfg.CollisionRadius, c.layout.Walls)
	if !hit {
		c.pose = move.Candidate
		return
	}

	c.blocked = true
	c.rejected++
	if cfg.RotateWhenBlocked {
		c.pose.Yaw = move.Candidate.Yaw
	}
	c.log.Debug().
		Float64("x", cand.X()).
		Float64("z", cand.Z()).
		Float64("wall_x", w.X).
		Float64("wall_z", w.Z).
		Msg("move rejected")
}

// Pose returns the current entity pose.
func (c *Controller) Pose() Pose {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pose
}

// Camera returns a copy of the orbit camera.
func (c *Controller) Camera() Camera {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.camera
}

// Snapshot returns a deep copy of the controller state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// snapshotLocked creates a deep copy of the state.
// MUST be called while c.mu is held.
func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Pose:     c.pose,
		Entity:   c.entity.clone(),
		Camera:   c.camera,
		Layout:   c.layout.clone(),
		Stars:    c.sky.Particles(),
		Moving:   c.moving,
		Blocked:  c.blocked,
		Ticks:    c.ticks,
		Rejected: c.rejected,
	}
}
