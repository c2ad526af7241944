package maze

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWallExtents(t *testing.T) {
	w := Wall{X: 10, Z: 0, Width: 1, Depth: 20}
	assert.Equal(t, 9.5, w.Min().X())
	assert.Equal(t, -10.0, w.Min().Y())
	assert.Equal(t, 10.5, w.Max().X())
	assert.Equal(t, 10.0, w.Max().Y())
}

func TestBlockedBoundaryIsStrict(t *testing.T) {
	walls := []Wall{{X: 10, Z: 0, Width: 1, Depth: 20}}

	// Exactly one radius away from the face: allowed.
	assert.False(t, Blocked(9.0, 0, 0.5, walls))
	// A hair closer: blocked.
	assert.True(t, Blocked(9.0+1e-9, 0, 0.5, walls))
}

func TestBlockedCorner(t *testing.T) {
	walls := []Wall{{X: 0, Z: 0, Width: 2, Depth: 2}}

	// Diagonal distance to the corner (1,1) is 0.3·√2 ≈ 0.424.
	assert.True(t, Blocked(1.3, 1.3, 0.5, walls))
	// 0.4·√2 ≈ 0.566.
	assert.False(t, Blocked(1.4, 1.4, 0.5, walls))
}

func TestBlockedInsideWall(t *testing.T) {
	walls := []Wall{{X: 0, Z: 0, Width: 4, Depth: 4}}
	assert.True(t, Blocked(0, 0, 0.5, walls))
	assert.Zero(t, walls[0].Distance(1, -1))
}

func TestBlockedNoWalls(t *testing.T) {
	assert.False(t, Blocked(0, 0, 0.5, nil))
	assert.False(t, Blocked(0, 0, 0.5, []Wall{}))
}

func TestDegenerateWallIsAPoint(t *testing.T) {
	walls := []Wall{{X: 3, Z: 3}}
	assert.True(t, Blocked(3.2, 3, 0.5, walls))
	assert.False(t, Blocked(4, 3, 0.5, walls))
}

func TestFirstBlockingReportsWall(t *testing.T) {
	walls := DefaultLayout().Walls
	w, hit := FirstBlocking(9.4, 0, 0.5, walls)
	assert.True(t, hit)
	assert.Equal(t, Wall{X: 10, Z: 0, Width: 1, Depth: 20}, w)

	_, hit = FirstBlocking(0, 0, 0.5, walls)
	assert.False(t, hit)
}
