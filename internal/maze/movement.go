package maze

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Move is the outcome of resolving one frame of input.
type Move struct {
	Candidate Pose
	Direction mgl64.Vec2 // world-space unit direction on the x/z plane
	Moving    bool
}

// Intent maps the held keys to a local intent vector (forward, strafe).
// Opposing keys cancel. A non-zero result has unit length.
func Intent(in InputState) mgl64.Vec2 {
	var v mgl64.Vec2
	if in.Held(DirForward) {
		v[0]++
	}
	if in.Held(DirBackward) {
		v[0]--
	}
	if in.Held(DirLeft) {
		v[1]++
	}
	if in.Held(DirRight) {
		v[1]--
	}

	if l := v.Len(); l > 0 {
		v = v.Mul(1 / l)
	}
	return v
}

// CameraRelative rotates an intent vector into world space using the
// camera's horizontal angle:
//
//	x' =  x·cos(a) + z·sin(a)
//	z' = -x·sin(a) + z·cos(a)
func CameraRelative(intent mgl64.Vec2, cameraYaw float64) mgl64.Vec2 {
	return mgl64.Rotate2D(-cameraYaw).Mul2x1(intent)
}

// WrapAngle normalizes an angle into (-π, π].
func WrapAngle(a float64) float64 {
	a = math.Remainder(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// Step converts elapsed time into reference ticks. It is exactly 1 when the
// movement is tick-based or when dt equals one reference tick.
func Step(dtSeconds float64, cfg MovementConfig) float64 {
	if !cfg.FrameIndependent || cfg.ReferenceTickRate <= 0 {
		return 1
	}
	if dtSeconds <= 0 {
		return 0
	}
	return dtSeconds * cfg.ReferenceTickRate
}

// turnFactor is the share of the remaining turn applied over step ticks.
// Exponential smoothing keeps the result identical to TurnRate at step 1.
func turnFactor(step float64, cfg MovementConfig) float64 {
	if step == 1 {
		return cfg.TurnRate
	}
	return 1 - math.Pow(1-cfg.TurnRate, step)
}

// Resolve computes the candidate pose for one frame. It has no side effects.
// With no effective intent the pose is returned unchanged and Moving is false.
func Resolve(pose Pose, in InputState, cameraYaw, step float64, cfg MovementConfig) Move {
	intent := Intent(in)
	if intent.Len() == 0 {
		return Move{Candidate: pose}
	}

	dir := CameraRelative(intent, cameraYaw)

	next := pose
	dist := cfg.Speed * step
	next.Position[0] += dir.X() * dist
	next.Position[2] += dir.Y() * dist

	target := math.Atan2(dir.X(), dir.Y()) + cfg.OrientationOffset
	diff := WrapAngle(target - pose.Yaw)
	next.Yaw = pose.Yaw + diff*turnFactor(step, cfg)

	return Move{Candidate: next, Direction: dir, Moving: true}
}

// Facing returns the unit x/z direction the entity looks along at the given yaw.
// It inverts the target yaw of Resolve, so a settled entity faces where it walks.
func Facing(yaw float64, cfg MovementConfig) mgl64.Vec2 {
	s, c := math.Sincos(yaw - cfg.OrientationOffset)
	return mgl64.Vec2{s, c}
}
