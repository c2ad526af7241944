package headless

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amalg/go-labyrinth/internal/maze"
)

func TestParseScript(t *testing.T) {
	steps, err := ParseScript("w:30,d:10,a+w:20")
	require.NoError(t, err)
	require.Len(t, steps, 3)
	assert.Equal(t, Step{Keys: []maze.Direction{maze.DirForward}, Ticks: 30}, steps[0])
	assert.Equal(t, Step{Keys: []maze.Direction{maze.DirRight}, Ticks: 10}, steps[1])
	assert.Equal(t, Step{Keys: []maze.Direction{maze.DirLeft, maze.DirForward}, Ticks: 20}, steps[2])
	assert.Equal(t, 60, TotalTicks(steps))

	steps, err = ParseScript(" up + left : 2 , idle:5, -:1 ,")
	require.NoError(t, err)
	require.Len(t, steps, 3)
	assert.Equal(t, []maze.Direction{maze.DirForward, maze.DirLeft}, steps[0].Keys)
	assert.Empty(t, steps[1].Keys)
	assert.Empty(t, steps[2].Keys)
}

func TestParseScriptErrors(t *testing.T) {
	tests := []struct {
		script string
		want   string
	}{
		{"", "empty script"},
		{"w", "expected KEYS:TICKS"},
		{"w:0", "positive integer"},
		{"w:abc", "positive integer"},
		{"w:5,x:3", `unknown key "x"`},
	}
	for _, tt := range tests {
		_, err := ParseScript(tt.script)
		require.Error(t, err, "script %q", tt.script)
		assert.Contains(t, err.Error(), tt.want)
	}
}

func newController(t *testing.T) *maze.Controller {
	t.Helper()
	cfg := maze.DefaultConfig()
	cfg.TickRate = 1000
	cfg.Movement.FrameIndependent = false
	ctrl, err := maze.NewController(cfg, maze.DefaultLayout(), maze.WithSkySeed(1))
	require.NoError(t, err)
	return ctrl
}

func readTrace(t *testing.T, r io.Reader) []*Envelope {
	t.Helper()
	dec := json.NewDecoder(r)
	var out []*Envelope
	for {
		env, err := Decode(dec)
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, env)
	}
}

func TestRunnerPlaysScript(t *testing.T) {
	ctrl := newController(t)
	steps, err := ParseScript("w:5,idle:3")
	require.NoError(t, err)

	var trace, logs bytes.Buffer
	end, err := NewRunner(ctrl, steps, zerolog.New(&logs), &trace).Run(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 0, end.Pose.Position.X(), 1e-9)
	assert.InDelta(t, 0.5, end.Pose.Position.Z(), 1e-9)
	assert.GreaterOrEqual(t, end.Ticks, uint64(8))
	assert.False(t, end.Moving)
	assert.Contains(t, logs.String(), "script finished")

	records := readTrace(t, &trace)
	require.Len(t, records, 1+8+1)
	assert.Equal(t, RecordStart, records[0].Type)
	assert.Equal(t, RecordEnd, records[len(records)-1].Type)

	var start StartRecord
	require.NoError(t, DecodePayload(records[0], &start))
	assert.Equal(t, 10, start.Walls)
	assert.Equal(t, 8, start.Ticks)
	assert.Equal(t, maze.KindPlaceholder, start.Entity.Kind)

	var first, sixth FrameRecord
	require.NoError(t, DecodePayload(records[1], &first))
	require.NoError(t, DecodePayload(records[6], &sixth))
	assert.Equal(t, uint64(1), first.Tick)
	assert.Equal(t, []string{"forward"}, first.Keys)
	assert.True(t, first.Moving)
	assert.InDelta(t, 0.1, first.Pose.Position.Z(), 1e-9)
	assert.Equal(t, "placeholder", first.Entity)
	assert.Empty(t, sixth.Keys)
	assert.False(t, sixth.Moving)
}

func TestRunnerTracesPlayingClip(t *testing.T) {
	ctrl := newController(t)
	dog := maze.Character("dog")
	dog.Animations = []string{"walk", "sit"}
	dog.Animation = "walk"
	ctrl.Attach(dog)

	steps, err := ParseScript("w:2")
	require.NoError(t, err)

	var trace bytes.Buffer
	_, err = NewRunner(ctrl, steps, zerolog.Nop(), &trace).Run(context.Background())
	require.NoError(t, err)

	records := readTrace(t, &trace)
	require.GreaterOrEqual(t, len(records), 3)
	var frame FrameRecord
	require.NoError(t, DecodePayload(records[1], &frame))
	assert.Equal(t, "character", frame.Entity)
	assert.Equal(t, "walk", frame.Animation)
}

func TestRunnerStopsAtWall(t *testing.T) {
	ctrl := newController(t)
	steps, err := ParseScript("w:200")
	require.NoError(t, err)

	end, err := NewRunner(ctrl, steps, zerolog.Nop(), nil).Run(context.Background())
	require.NoError(t, err)

	// The wall centred at z=10 is one unit deep; a 0.5 radius stops at 9.0 at most.
	assert.LessOrEqual(t, end.Pose.Position.Z(), 9.0+1e-9)
	assert.Greater(t, end.Pose.Position.Z(), 8.8)
	assert.Greater(t, end.Rejected, uint64(0))
}

func TestRunnerCancelled(t *testing.T) {
	ctrl := newController(t)
	steps, err := ParseScript("w:1000000")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = NewRunner(ctrl, steps, zerolog.Nop(), nil).Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRunnerReportsTraceErrors(t *testing.T) {
	ctrl := newController(t)
	steps, err := ParseScript("w:2")
	require.NoError(t, err)

	_, err = NewRunner(ctrl, steps, zerolog.Nop(), failingWriter{}).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
