package headless

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/amalg/go-labyrinth/internal/maze"
)

// Runner plays a script against a controller in real time.
type Runner struct {
	ctrl  *maze.Controller
	steps []Step
	log   zerolog.Logger
	trace io.Writer // optional JSON-lines trace

	// Touched only from the controller's tick callback.
	current  int
	elapsed  int
	finished bool
	traceErr error
}

// NewRunner creates a runner. trace may be nil.
func NewRunner(ctrl *maze.Controller, steps []Step, log zerolog.Logger, trace io.Writer) *Runner {
	return &Runner{ctrl: ctrl, steps: steps, log: log, trace: trace}
}

// Run drives the controller until the script ends or ctx is cancelled and
// returns the final state.
func (r *Runner) Run(ctx context.Context) (maze.Snapshot, error) {
	if len(r.steps) == 0 {
		return r.ctrl.Snapshot(), errors.New("empty script")
	}

	start := r.ctrl.Snapshot()
	r.record(RecordStart, StartRecord{
		Pose:   start.Pose,
		Entity: start.Entity,
		Walls:  len(start.Layout.Walls),
		Ticks:  TotalTicks(r.steps),
	})
	r.log.Info().
		Int("steps", len(r.steps)).
		Int("ticks", TotalTicks(r.steps)).
		Msg("script started")

	r.applyKeys(r.steps[0])
	r.ctrl.OnTick(r.onTick)
	defer r.ctrl.OnTick(nil)

	if err := r.ctrl.Run(ctx); err != nil {
		return r.ctrl.Snapshot(), err
	}

	end := r.ctrl.Snapshot()
	r.record(RecordEnd, EndRecord{Pose: end.Pose, Ticks: end.Ticks, Rejected: end.Rejected})
	r.log.Info().
		Float64("x", end.Pose.Position.X()).
		Float64("z", end.Pose.Position.Z()).
		Float64("yaw", end.Pose.Yaw).
		Uint64("rejected", end.Rejected).
		Msg("script finished")
	return end, r.traceErr
}

func (r *Runner) onTick(s maze.Snapshot) {
	if r.finished {
		return
	}
	step := r.steps[r.current]

	r.record(RecordFrame, FrameRecord{
		Tick:      s.Ticks,
		Keys:      keyNames(step.Keys),
		Pose:      s.Pose,
		Entity:    s.Entity.Kind.String(),
		Animation: s.Entity.Animation,
		Moving:    s.Moving,
		Blocked:   s.Blocked,
		Camera:    s.Camera,
	})
	r.log.Info().
		Uint64("tick", s.Ticks).
		Float64("x", s.Pose.Position.X()).
		Float64("y", s.Pose.Position.Y()).
		Float64("z", s.Pose.Position.Z()).
		Float64("yaw", s.Pose.Yaw).
		Bool("blocked", s.Blocked).
		Msg("pose")

	r.elapsed++
	if r.elapsed < step.Ticks {
		return
	}

	r.current++
	r.elapsed = 0
	if r.current == len(r.steps) {
		r.finished = true
		r.ctrl.ReleaseAll()
		r.ctrl.Stop()
		return
	}
	r.applyKeys(r.steps[r.current])
}

func (r *Runner) applyKeys(s Step) {
	r.ctrl.ReleaseAll()
	for _, d := range s.Keys {
		r.ctrl.SetKey(d, true)
	}
}

func (r *Runner) record(typ RecordType, payload interface{}) {
	if r.trace == nil || r.traceErr != nil {
		return
	}
	if err := Encode(r.trace, typ, payload); err != nil {
		r.traceErr = err
		r.log.Error().Err(err).Msg("trace write failed")
	}
}

func keyNames(keys []maze.Direction) []string {
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, d := range keys {
		names[i] = d.String()
	}
	return names
}
