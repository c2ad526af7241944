package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/amalg/go-labyrinth/internal/maze"
)

const (
	hudWidth = 34

	// viewMargin is the band of sky (world units) drawn around the ground.
	viewMargin = 4.0

	defaultCols = 40
	defaultRows = 24
)

// Color palette
var (
	wallStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#3a3a3a")).
			Foreground(lipgloss.Color("#555555"))

	groundStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#24361f")).
			Foreground(lipgloss.Color("#24361f"))

	skyStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1a1a2e")).
			Foreground(lipgloss.Color("#1a1a2e"))

	brightStarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1a1a2e")).
			Foreground(lipgloss.Color("#ffffcc")).
			Bold(true)

	dimStarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1a1a2e")).
			Foreground(lipgloss.Color("#777788"))

	cameraStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#24361f")).
			Foreground(lipgloss.Color("#ff8844"))

	blockedColor = lipgloss.Color("#ff4444")

	// HUD styles
	hudBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1).
			Width(hudWidth)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff8844")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#44aaff")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
)

// arrows indexed by octant of the facing angle, counter-clockwise from +x.
var arrows = [8]string{"→", "↗", "↑", "↖", "←", "↙", "↓", "↘"}

// viewport maps world x/z onto map cells. Row 0 is the far +z edge, so with
// the starting camera forward input moves up the screen.
type viewport struct {
	minX, maxZ float64
	cell       float64 // world units per cell
	cols, rows int
}

func newViewport(l maze.Layout, width, height int) viewport {
	cols, rows := width/2, height // each cell is 2 characters wide
	if cols <= 0 {
		cols = defaultCols
	}
	if rows <= 0 {
		rows = defaultRows
	}

	viewW := l.GroundWidth + 2*viewMargin
	viewD := l.GroundDepth + 2*viewMargin
	cell := math.Max(viewW/float64(cols), viewD/float64(rows))
	cell = math.Max(cell, 1)

	return viewport{
		minX: -viewW / 2,
		maxZ: viewD / 2,
		cell: cell,
		cols: int(math.Ceil(viewW / cell)),
		rows: int(math.Ceil(viewD / cell)),
	}
}

// cellOf returns the cell containing a world point, ok=false when off the map.
func (v viewport) cellOf(x, z float64) (row, col int, ok bool) {
	col = int(math.Floor((x - v.minX) / v.cell))
	row = int(math.Floor((v.maxZ - z) / v.cell))
	ok = row >= 0 && row < v.rows && col >= 0 && col < v.cols
	return row, col, ok
}

// bounds returns the world rectangle a cell covers.
func (v viewport) bounds(row, col int) (minX, minZ, maxX, maxZ float64) {
	minX = v.minX + float64(col)*v.cell
	maxX = minX + v.cell
	maxZ = v.maxZ - float64(row)*v.cell
	minZ = maxZ - v.cell
	return
}

// RenderScene draws the maze from above: walls, ground, the entity with its
// facing arrow, the camera position and the stars over the surrounding sky.
func RenderScene(s maze.Snapshot, mv maze.MovementConfig, width, height int) string {
	if len(s.Layout.Walls) == 0 {
		return "Waiting for the maze..."
	}
	v := newViewport(s.Layout, width, height)

	stars := make(map[[2]int]maze.Particle, len(s.Stars))
	for _, p := range s.Stars {
		if s.Layout.OnGround(p.Position.X(), p.Position.Z()) {
			continue
		}
		if r, c, ok := v.cellOf(p.Position.X(), p.Position.Z()); ok {
			if prev, dup := stars[[2]int{r, c}]; !dup || p.Color()[3] > prev.Color()[3] {
				stars[[2]int{r, c}] = p
			}
		}
	}

	er, ec, entityVisible := v.cellOf(s.Pose.Position.X(), s.Pose.Position.Z())
	eye := s.Camera.Eye()
	cr, cc, cameraVisible := v.cellOf(eye.X(), eye.Z())

	rows := make([]string, 0, v.rows)
	for r := 0; r < v.rows; r++ {
		var b strings.Builder
		for c := 0; c < v.cols; c++ {
			switch {
			case entityVisible && r == er && c == ec:
				b.WriteString(renderEntity(s, mv))
			case cameraVisible && r == cr && c == cc:
				b.WriteString(cameraStyle.Render("◎ "))
			default:
				b.WriteString(renderCell(s.Layout, v, r, c, stars))
			}
		}
		rows = append(rows, b.String())
	}
	return strings.Join(rows, "\n")
}

// renderCell renders a single map cell with the appropriate style.
// Priority: Wall > Ground > Star > Sky
func renderCell(l maze.Layout, v viewport, r, c int, stars map[[2]int]maze.Particle) string {
	minX, minZ, maxX, maxZ := v.bounds(r, c)
	for _, w := range l.Walls {
		lo, hi := w.Min(), w.Max()
		if lo.X() < maxX && hi.X() > minX && lo.Y() < maxZ && hi.Y() > minZ {
			return wallStyle.Render("██")
		}
	}

	if l.OnGround((minX+maxX)/2, (minZ+maxZ)/2) {
		return groundStyle.Render("  ")
	}

	if p, ok := stars[[2]int{r, c}]; ok {
		if p.Color()[3] > 0.5 {
			return brightStarStyle.Render("✦ ")
		}
		return dimStarStyle.Render("· ")
	}
	return skyStyle.Render("  ")
}

func renderEntity(s maze.Snapshot, mv maze.MovementConfig) string {
	style := lipgloss.NewStyle().
		Background(lipgloss.Color("#24361f")).
		Foreground(lipgloss.Color(s.Entity.Color)).
		Bold(true)
	if s.Blocked {
		style = style.Background(blockedColor)
	}
	return style.Render(s.Entity.Glyph + FacingArrow(s.Pose.Yaw, mv))
}

// FacingArrow returns the screen arrow closest to the entity's facing.
func FacingArrow(yaw float64, mv maze.MovementConfig) string {
	f := maze.Facing(yaw, mv)
	// Screen right is +x, screen up is +z.
	octant := int(math.Round(math.Atan2(f.Y(), f.X()) / (math.Pi / 4)))
	return arrows[(octant%8+8)%8]
}

// RenderHUD renders the heads-up display: entity, pose, camera and controls.
func RenderHUD(s maze.Snapshot, status string) string {
	var parts []string

	parts = append(parts, titleStyle.Render("◇ LABYRINTH"))
	parts = append(parts, "")

	entity := fmt.Sprintf("%s (%s)", s.Entity.Name, s.Entity.Kind)
	parts = append(parts, labelStyle.Render("Entity: ")+
		lipgloss.NewStyle().Foreground(lipgloss.Color(s.Entity.Color)).Render(entity))
	if s.Entity.Animation != "" {
		parts = append(parts, labelStyle.Render("Clip:   ")+s.Entity.Animation+" (loop)")
	}
	if status != "" {
		parts = append(parts, loadingStyle.Render(status))
	}
	parts = append(parts, "")

	pos := s.Pose.Position
	parts = append(parts, labelStyle.Render("Position: ")+fmt.Sprintf("%6.2f %5.2f %6.2f", pos.X(), pos.Y(), pos.Z()))
	parts = append(parts, labelStyle.Render("Yaw:      ")+fmt.Sprintf("%6.1f°", degrees(s.Pose.Yaw)))

	state := "idle"
	switch {
	case s.Blocked:
		state = lipgloss.NewStyle().Foreground(blockedColor).Render("blocked")
	case s.Moving:
		state = "moving"
	}
	parts = append(parts, labelStyle.Render("State:    ")+state)
	parts = append(parts, labelStyle.Render("Rejected: ")+fmt.Sprintf("%d", s.Rejected))
	parts = append(parts, "")

	parts = append(parts, labelStyle.Render("Camera:   ")+fmt.Sprintf("α %6.1f° β %5.1f°", degrees(s.Camera.Alpha), degrees(s.Camera.Beta)))
	parts = append(parts, labelStyle.Render("Distance: ")+fmt.Sprintf("%.1f", s.Camera.Radius))
	parts = append(parts, labelStyle.Render("Stars:    ")+fmt.Sprintf("%d", len(s.Stars)))
	parts = append(parts, labelStyle.Render("Frame:    ")+fmt.Sprintf("%d", s.Ticks))

	parts = append(parts, "")
	parts = append(parts, helpStyle.Render("WASD/Arrows: Move | Space: Stop"))
	parts = append(parts, helpStyle.Render("Q/E: Orbit | R/F: Tilt | +/-: Zoom"))
	parts = append(parts, helpStyle.Render("Esc: Quit"))

	return hudBorderStyle.Render(strings.Join(parts, "\n"))
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
