package ui

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amalg/go-labyrinth/internal/asset"
	"github.com/amalg/go-labyrinth/internal/maze"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T, opts Options) (Model, *maze.Controller) {
	t.Helper()
	ctrl, err := maze.NewController(maze.DefaultConfig(), maze.DefaultLayout(), maze.WithSkySeed(1))
	require.NoError(t, err)
	m := NewModel(ctrl, opts)
	m.now = func() time.Time { return t0 }
	return m, ctrl
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func step(m Model, at time.Time) Model {
	next, cmd := m.Update(tickMsg(at))
	if cmd == nil {
		panic("tick must schedule the next frame")
	}
	return next.(Model)
}

func TestForwardKeyMovesAwayFromCamera(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	start := m.Snapshot().Pose.Position

	m = press(m, "w")
	m = step(m, t0.Add(10*time.Millisecond))

	pos := m.Snapshot().Pose.Position
	assert.InDelta(t, start.X(), pos.X(), 1e-9)
	assert.Greater(t, pos.Z(), start.Z())
	assert.True(t, m.Snapshot().Moving)
}

func TestArrowKeysMove(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m = press(m, "up")
	m = step(m, t0)
	assert.Greater(t, m.Snapshot().Pose.Position.Z(), 0.0)
}

func TestHeldKeyReleasedAfterTimeout(t *testing.T) {
	m, ctrl := newTestModel(t, Options{HoldTimeout: 150 * time.Millisecond})

	m = press(m, "w")
	m = step(m, t0.Add(100*time.Millisecond))
	moved := ctrl.Pose().Position.Z()
	require.Greater(t, moved, 0.0)

	m = step(m, t0.Add(400*time.Millisecond))
	assert.Equal(t, moved, ctrl.Pose().Position.Z(), "key should be released once repeats stop")
	assert.False(t, m.Snapshot().Moving)
}

func TestKeyRepeatKeepsMoving(t *testing.T) {
	m, ctrl := newTestModel(t, Options{HoldTimeout: 150 * time.Millisecond})

	for i := 0; i < 5; i++ {
		at := t0.Add(time.Duration(i) * 100 * time.Millisecond)
		m.now = func() time.Time { return at }
		m = press(m, "w")
		m = step(m, at.Add(50*time.Millisecond))
	}
	assert.True(t, m.Snapshot().Moving)
	assert.Greater(t, ctrl.Pose().Position.Z(), 0.3)
}

func TestDefaultHoldSurvivesAutorepeatDelay(t *testing.T) {
	m, ctrl := newTestModel(t, Options{})

	// First press, then the terminal's initial repeat delay before the next one.
	m = press(m, "w")
	m = step(m, t0.Add(200*time.Millisecond))
	m = step(m, t0.Add(400*time.Millisecond))
	assert.True(t, m.Snapshot().Moving, "key must stay held through the repeat delay")
	z := ctrl.Pose().Position.Z()

	at := t0.Add(450 * time.Millisecond)
	m.now = func() time.Time { return at }
	m = press(m, "w")
	m = step(m, at.Add(30*time.Millisecond))
	assert.True(t, m.Snapshot().Moving)
	assert.Greater(t, ctrl.Pose().Position.Z(), z)
}

func TestSpaceStops(t *testing.T) {
	m, ctrl := newTestModel(t, Options{})
	m = press(m, "w")
	m = press(m, " ")
	m = step(m, t0)
	assert.Equal(t, 0.0, ctrl.Pose().Position.Z())
}

func TestCameraKeys(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	cam := m.Snapshot().Camera

	m = press(m, "e")
	m = press(m, "f")
	m = press(m, "+")
	m = step(m, t0)

	got := m.Snapshot().Camera
	assert.InDelta(t, cam.Alpha+orbitStep, got.Alpha, 1e-12)
	assert.InDelta(t, cam.Beta+tiltStep, got.Beta, 1e-12)
	assert.InDelta(t, cam.Radius-zoomStep, got.Radius, 1e-12)

	m = press(m, "q")
	m = press(m, "r")
	m = press(m, "-")
	m = step(m, t0)
	got = m.Snapshot().Camera
	assert.InDelta(t, cam.Alpha, got.Alpha, 1e-12)
	assert.InDelta(t, cam.Beta, got.Beta, 1e-12)
	assert.InDelta(t, cam.Radius, got.Radius, 1e-12)
}

func TestOrbitChangesForwardDirection(t *testing.T) {
	m, ctrl := newTestModel(t, Options{})
	// Half a turn: forward now walks toward -z.
	for i := 0; i < 36; i++ {
		m = press(m, "e")
	}
	m = press(m, "w")
	m = step(m, t0)
	assert.Less(t, ctrl.Pose().Position.Z(), 0.0)
}

func TestEscQuits(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, "Goodbye! 👋\n", next.View())
}

func TestWindowSize(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
	assert.Contains(t, m.View(), "LABYRINTH")
}

func TestAssetAttachedOnNextTick(t *testing.T) {
	m, _ := newTestModel(t, Options{Assets: make(chan asset.Result)})
	assert.Equal(t, "loading character...", m.status)

	next, _ := m.Update(assetMsg{Entity: maze.Character("dog")})
	m = next.(Model)
	assert.Equal(t, maze.KindPlaceholder, m.Snapshot().Entity.Kind, "swap waits for the frame")

	m = step(m, t0)
	snap := m.Snapshot()
	assert.Equal(t, maze.KindCharacter, snap.Entity.Kind)
	assert.Equal(t, 1.5, snap.Pose.Position.Y())
	assert.Equal(t, "character loaded: dog", m.status)
}

func TestAssetFailureKeepsPlaceholder(t *testing.T) {
	m, _ := newTestModel(t, Options{Assets: make(chan asset.Result)})

	next, _ := m.Update(assetMsg{Err: errors.New("boom")})
	m = step(next.(Model), t0)

	assert.Equal(t, maze.KindPlaceholder, m.Snapshot().Entity.Kind)
	assert.Equal(t, 1.0, m.Snapshot().Pose.Position.Y())
	assert.Contains(t, m.status, "keeping placeholder")
}

func TestWaitForAsset(t *testing.T) {
	ch := make(chan asset.Result, 1)
	ch <- asset.Result{Entity: maze.Character("cat")}
	close(ch)

	msg := waitForAsset(ch)()
	assert.Equal(t, "cat", msg.(assetMsg).Entity.Name)

	msg = waitForAsset(ch)()
	assert.Error(t, msg.(assetMsg).Err)
}

func TestFacingArrow(t *testing.T) {
	mv := maze.DefaultMovementConfig()
	tests := []struct {
		yaw  float64
		want string
	}{
		{-math.Pi / 2, "↑"}, // facing +z
		{0, "→"},            // facing +x
		{math.Pi / 2, "↓"},
		{math.Pi, "←"},
		{-math.Pi / 4, "↗"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FacingArrow(tt.yaw, mv), "yaw %v", tt.yaw)
	}
}

func TestRenderSceneShowsEntityWallsAndStars(t *testing.T) {
	snap := maze.Snapshot{
		Pose:   maze.Pose{Position: mgl64.Vec3{0, 1, 0}, Yaw: -math.Pi / 2},
		Entity: maze.Placeholder(),
		Camera: maze.NewCamera(maze.DefaultCameraConfig()),
		Layout: maze.DefaultLayout(),
		Stars: []maze.Particle{
			{Position: mgl64.Vec3{27.5, 60, 0}, Lifetime: 4, Start: maze.RGBA{1, 1, 1, 1}},
		},
	}
	snap.Camera.Follow(snap.Pose.Position)

	out := RenderScene(snap, maze.DefaultMovementConfig(), 0, 0)
	assert.Contains(t, out, "●↑")
	assert.Contains(t, out, "██")
	assert.Contains(t, out, "◎")
	assert.Contains(t, out, "✦")

	// A star over the ground is hidden by it.
	snap.Stars[0].Position = mgl64.Vec3{3, 60, 3}
	out = RenderScene(snap, maze.DefaultMovementConfig(), 0, 0)
	assert.NotContains(t, out, "✦")
}

func TestRenderSceneWithoutWalls(t *testing.T) {
	assert.Equal(t, "Waiting for the maze...", RenderScene(maze.Snapshot{}, maze.DefaultMovementConfig(), 80, 24))
}

func TestRenderHUD(t *testing.T) {
	snap := maze.Snapshot{
		Pose:     maze.Pose{Position: mgl64.Vec3{1.5, 1, -2}},
		Entity:   maze.Placeholder(),
		Camera:   maze.NewCamera(maze.DefaultCameraConfig()),
		Blocked:  true,
		Rejected: 7,
	}
	hud := RenderHUD(snap, "loading character...")
	for _, want := range []string{"placeholder", "blocked", "7", "loading character...", "Esc: Quit"} {
		assert.True(t, strings.Contains(hud, want), "HUD missing %q:\n%s", want, hud)
	}
	assert.NotContains(t, hud, "Clip:")

	snap.Entity = maze.Character("dog")
	snap.Entity.Animation = "walk"
	hud = RenderHUD(snap, "")
	assert.Contains(t, hud, "Clip:")
	assert.Contains(t, hud, "walk (loop)")
}
