// Package window hosts the maze in a desktop window.
package window

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"

	"github.com/amalg/go-labyrinth/internal/asset"
	"github.com/amalg/go-labyrinth/internal/maze"
	"github.com/amalg/go-labyrinth/internal/scene"
)

const (
	orbitSpeed = 1.5 // radians per second while Q/E is held
	tiltSpeed  = 1.0
	zoomStep   = 1.0
	gridStep   = 5.0
)

var (
	skyColor     = color.RGBA{R: 0x0b, G: 0x0b, B: 0x1a, A: 0xff}
	gridColor    = color.RGBA{R: 0x3c, G: 0x5a, B: 0x32, A: 0xff}
	wallColor    = color.RGBA{R: 0xa0, G: 0xa0, B: 0xa8, A: 0xff}
	blockedColor = color.RGBA{R: 0xff, G: 0x44, B: 0x44, A: 0xff}
	headingColor = color.RGBA{R: 0xff, G: 0x88, B: 0x44, A: 0xa0}
	textShadow   = color.RGBA{A: 0x80}
)

// movementKeys lists the physical keys of each logical direction.
var movementKeys = [4][]ebiten.Key{
	maze.DirForward:  {ebiten.KeyW, ebiten.KeyArrowUp},
	maze.DirBackward: {ebiten.KeyS, ebiten.KeyArrowDown},
	maze.DirLeft:     {ebiten.KeyA, ebiten.KeyArrowLeft},
	maze.DirRight:    {ebiten.KeyD, ebiten.KeyArrowRight},
}

// Options configures the window host.
type Options struct {
	Title  string
	Width  int
	Height int
	Assets <-chan asset.Result
	Logger zerolog.Logger
}

// Game implements ebiten.Game on top of a maze controller.
type Game struct {
	ctrl   *maze.Controller
	assets <-chan asset.Result
	log    zerolog.Logger
	status string

	snap   maze.Snapshot
	width  int
	height int
}

// NewGame creates the window host.
func NewGame(ctrl *maze.Controller, opts Options) *Game {
	status := ""
	if opts.Assets != nil {
		status = "loading character..."
	}
	return &Game{
		ctrl:   ctrl,
		assets: opts.Assets,
		log:    opts.Logger,
		status: status,
		snap:   ctrl.Snapshot(),
		width:  opts.Width,
		height: opts.Height,
	}
}

// Run opens the window and blocks until it closes.
func Run(ctrl *maze.Controller, opts Options) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1280, 720
	}
	if opts.Title == "" {
		opts.Title = "Labyrinth"
	}

	g := NewGame(ctrl, opts)
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(ctrl.Config.TickRate)

	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Update polls input, attaches a loaded character and advances one frame.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	for d, keys := range movementKeys {
		held := false
		for _, k := range keys {
			if ebiten.IsKeyPressed(k) {
				held = true
				break
			}
		}
		g.ctrl.SetKey(maze.Direction(d), held)
	}

	tps := float64(ebiten.TPS())
	if ebiten.IsKeyPressed(ebiten.KeyQ) {
		g.ctrl.OrbitCamera(-orbitSpeed / tps)
	}
	if ebiten.IsKeyPressed(ebiten.KeyE) {
		g.ctrl.OrbitCamera(orbitSpeed / tps)
	}
	if ebiten.IsKeyPressed(ebiten.KeyR) {
		g.ctrl.TiltCamera(-tiltSpeed / tps)
	}
	if ebiten.IsKeyPressed(ebiten.KeyF) {
		g.ctrl.TiltCamera(tiltSpeed / tps)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		g.ctrl.ZoomCamera(-zoomStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		g.ctrl.ZoomCamera(zoomStep)
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		g.ctrl.ZoomCamera(-wy * zoomStep)
	}

	g.pollAssets()

	g.ctrl.Tick(time.Second / time.Duration(ebiten.TPS()))
	g.snap = g.ctrl.Snapshot()
	return nil
}

func (g *Game) pollAssets() {
	if g.assets == nil {
		return
	}
	select {
	case res, ok := <-g.assets:
		g.assets = nil
		switch {
		case !ok:
			g.log.Warn().Msg("character loader closed without a result")
			g.status = "character unavailable, keeping placeholder"
		case res.Err != nil:
			g.status = "character unavailable, keeping placeholder"
		default:
			g.ctrl.Attach(res.Entity)
			g.status = "character loaded: " + res.Entity.Name
		}
	default:
	}
}

// Draw renders the maze from the orbit camera.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(skyColor)

	s := g.snap
	v := scene.NewView(s.Camera, g.width, g.height)

	for _, p := range s.Stars {
		if pt, ok := v.Point(p.Position); ok {
			vector.DrawFilledCircle(screen, float32(pt.X()), float32(pt.Y()), float32(p.Size), scene.StarColor(p), true)
		}
	}

	for _, e := range scene.GroundGrid(s.Layout, gridStep) {
		strokeEdge(screen, v, e, 1, gridColor)
	}
	for _, w := range s.Layout.Walls {
		for _, e := range scene.WallEdges(w, s.Layout.WallHeight) {
			strokeEdge(screen, v, e, 1.5, wallColor)
		}
	}

	g.drawEntity(screen, v)
	g.drawHUD(screen)
}

func (g *Game) drawEntity(screen *ebiten.Image, v scene.View) {
	s := g.snap
	pos := s.Pose.Position
	center, ok := v.Point(pos)
	if !ok {
		return
	}

	radius := 6.0
	if top, ok := v.Point(pos.Add(mgl64.Vec3{0, g.ctrl.Config.Movement.CollisionRadius, 0})); ok {
		radius = math.Max(center.Sub(top).Len(), 2)
	}

	fill := scene.HexColor(s.Entity.Color)
	if s.Blocked {
		vector.DrawFilledCircle(screen, float32(center.X()), float32(center.Y()), float32(radius+3), blockedColor, true)
	}
	vector.DrawFilledCircle(screen, float32(center.X()), float32(center.Y()), float32(radius), fill, true)

	// Where forward input leads under the current camera.
	h := s.Camera.Heading().Mul(2)
	strokeEdge(screen, v, scene.Edge{pos, pos.Add(mgl64.Vec3{h.X(), 0, h.Y()})}, 1, headingColor)

	f := maze.Facing(s.Pose.Yaw, g.ctrl.Config.Movement)
	nose := pos.Add(mgl64.Vec3{f.X(), 0, f.Y()})
	strokeEdge(screen, v, scene.Edge{pos, nose}, 2, color.White)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	s := g.snap
	lines := []string{
		fmt.Sprintf("%s (%s)  %s", s.Entity.Name, s.Entity.Kind, g.status),
		fmt.Sprintf("pos %6.2f %5.2f %6.2f  yaw %6.1f", s.Pose.Position.X(), s.Pose.Position.Y(), s.Pose.Position.Z(), mgl64.RadToDeg(s.Pose.Yaw)),
		fmt.Sprintf("camera a %6.1f b %5.1f r %4.1f", mgl64.RadToDeg(s.Camera.Alpha), mgl64.RadToDeg(s.Camera.Beta), s.Camera.Radius),
		fmt.Sprintf("stars %d  rejected %d  TPS %.0f", len(s.Stars), s.Rejected, ebiten.ActualTPS()),
		"WASD/Arrows move  Q/E orbit  R/F tilt  +/-/wheel zoom  Esc quit",
	}
	if s.Entity.Animation != "" {
		lines = slices.Insert(lines, 1, "clip "+s.Entity.Animation+" (loop)")
	}

	vector.DrawFilledRect(screen, 4, 4, 420, float32(16*len(lines)+8), textShadow, false)
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, 10, 8+16*i)
	}
}

// Layout follows the window size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

func strokeEdge(screen *ebiten.Image, v scene.View, e scene.Edge, width float32, clr color.Color) {
	a, b, ok := v.Segment(e[0], e[1])
	if !ok {
		return
	}
	vector.StrokeLine(screen, float32(a.X()), float32(a.Y()), float32(b.X()), float32(b.Y()), width, clr, true)
}
