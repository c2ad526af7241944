package ui

import (
	"fmt"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amalg/go-labyrinth/internal/asset"
	"github.com/amalg/go-labyrinth/internal/maze"
)

const (
	orbitStep = math.Pi / 36 // 5°
	tiltStep  = 0.05
	zoomStep  = 1.0

	// DefaultHoldTimeout outlasts the usual 250-600 ms terminal autorepeat delay.
	DefaultHoldTimeout = 500 * time.Millisecond

	// maxFrameGap caps the elapsed time fed to one tick, e.g. after a suspend.
	maxFrameGap = 250 * time.Millisecond
)

// tickMsg drives one controller frame.
type tickMsg time.Time

// assetMsg carries the outcome of the background character load.
type assetMsg asset.Result

// Options configures the terminal host.
type Options struct {
	TickInterval time.Duration
	// HoldTimeout releases a movement key when no repeat arrived for this long.
	// Terminals report presses only, never releases.
	HoldTimeout time.Duration
	// Assets, if set, delivers the character that replaces the placeholder.
	Assets <-chan asset.Result
}

// Model is the Bubbletea model for the maze.
type Model struct {
	ctrl   *maze.Controller
	opts   Options
	now    func() time.Time
	snap   maze.Snapshot
	status string

	pressed  [4]time.Time // last press per direction; zero when released
	lastTick time.Time

	width    int
	height   int
	quitting bool
}

// NewModel creates a TUI model that drives the given controller.
func NewModel(ctrl *maze.Controller, opts Options) Model {
	if opts.TickInterval <= 0 {
		opts.TickInterval = ctrl.Config.TickInterval()
	}
	if opts.HoldTimeout <= 0 {
		opts.HoldTimeout = DefaultHoldTimeout
	}
	status := ""
	if opts.Assets != nil {
		status = "loading character..."
	}
	return Model{
		ctrl:   ctrl,
		opts:   opts,
		now:    time.Now,
		snap:   ctrl.Snapshot(),
		status: status,
	}
}

// Init starts the frame clock and waits for the character, if any.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tick(m.opts.TickInterval)}
	if m.opts.Assets != nil {
		cmds = append(cmds, waitForAsset(m.opts.Assets))
	}
	return tea.Batch(cmds...)
}

// Update handles key presses, frame ticks, resizes and the asset result.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		m.advance(time.Time(msg))
		return m, tick(m.opts.TickInterval)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case assetMsg:
		if msg.Err != nil {
			m.status = "character unavailable, keeping placeholder"
		} else {
			m.ctrl.Attach(msg.Entity)
			m.status = "character loaded: " + msg.Entity.Name
		}
		return m, nil
	}

	return m, nil
}

// View renders the maze map next to the HUD.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye! 👋\n"
	}

	mapWidth := m.width - hudWidth - 2
	scene := RenderScene(m.snap, m.ctrl.Config.Movement, mapWidth, m.height-1)
	hud := RenderHUD(m.snap, m.status)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		scene,
		"  ",
		hud,
	) + "\n"
}

// Snapshot returns the state the model last rendered.
func (m Model) Snapshot() maze.Snapshot {
	return m.snap
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if d, ok := maze.KeyDirection(key); ok {
		m.pressed[d] = m.now()
		m.ctrl.SetKey(d, true)
		return m, nil
	}

	switch key {
	case "ctrl+c", "esc":
		m.quitting = true
		m.ctrl.ReleaseAll()
		return m, tea.Quit

	case "q":
		m.ctrl.OrbitCamera(-orbitStep)
	case "e":
		m.ctrl.OrbitCamera(orbitStep)
	case "r":
		m.ctrl.TiltCamera(-tiltStep)
	case "f":
		m.ctrl.TiltCamera(tiltStep)
	case "+", "=":
		m.ctrl.ZoomCamera(-zoomStep)
	case "-", "_":
		m.ctrl.ZoomCamera(zoomStep)
	case " ":
		// Stop on the spot.
		m.pressed = [4]time.Time{}
		m.ctrl.ReleaseAll()
	}

	return m, nil
}

// advance releases keys whose repeats stopped and steps the controller.
func (m *Model) advance(now time.Time) {
	for d := range m.pressed {
		if m.pressed[d].IsZero() {
			continue
		}
		if now.Sub(m.pressed[d]) > m.opts.HoldTimeout {
			m.pressed[d] = time.Time{}
			m.ctrl.SetKey(maze.Direction(d), false)
		}
	}

	dt := m.opts.TickInterval
	if !m.lastTick.IsZero() {
		if gap := now.Sub(m.lastTick); gap > 0 && gap <= maxFrameGap {
			dt = gap
		}
	}
	m.lastTick = now

	m.ctrl.Tick(dt)
	m.snap = m.ctrl.Snapshot()
}

// tick returns a Cmd that fires the next frame.
func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// waitForAsset returns a Cmd that waits for the character load to finish.
func waitForAsset(ch <-chan asset.Result) tea.Cmd {
	return func() tea.Msg {
		res, ok := <-ch
		if !ok {
			return assetMsg{Err: fmt.Errorf("character loader closed")}
		}
		return assetMsg(res)
	}
}
