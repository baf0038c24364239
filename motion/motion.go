// Package motion moves a body mesh and its wheel rig every frame.
//
// Two models exist. PathFollower loops over waypoints and turns the body
// towards the segment it travels. LinearMover slides the body along a fixed
// displacement without turning. Both recompute every vertex from the
// captured snapshot on each tick, so no error accumulates between frames.
package motion

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/carrig/rig"
	"github.com/mogaika/carrig/vertexbuf"
)

type MotionState struct {
	// Elapsed seconds since setup, taken from the host clock
	Elapsed     float64 `json:"elapsed"`
	Waypoint    int     `json:"waypoint"`
	SegmentTime float32 `json:"segment_time"`
}

// Pose is where the body ended up after a tick
type Pose struct {
	Position mgl32.Vec3 `json:"position"`
	Heading  float32    `json:"heading"`
	Spin     float32    `json:"spin"`
}

type Model interface {
	// TickAt advances the model to now, the host's monotonic time since setup.
	// dt is the frame delta and only drives the segment timer.
	TickAt(now time.Duration, dt float32) MotionState
	// Tick is TickAt for hosts without a clock: now is the previous time plus dt.
	Tick(dt float32) MotionState
	State() MotionState
	Pose() Pose
	Body() vertexbuf.MeshHandle
	Rig() *rig.Rig
}

// body is the part shared by both models
type body struct {
	mesh   vertexbuf.MeshHandle
	buffer *vertexbuf.Buffer
	wheels *rig.Rig

	angularVelocity float32
	now             time.Duration
	state           MotionState
	pose            Pose
}

func newBody(mesh, wheel vertexbuf.MeshHandle, inst rig.Instantiator,
	pivots [rig.WheelCount]mgl32.Vec3, scale, angularVelocity float32) (*body, error) {
	buf, err := vertexbuf.CaptureMesh(mesh)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to capture body")
	}
	wheels, err := rig.Setup(inst, wheel, pivots, scale)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to setup wheels")
	}
	return &body{
		mesh:            mesh,
		buffer:          buf,
		wheels:          wheels,
		angularVelocity: angularVelocity,
	}, nil
}

func (b *body) State() MotionState         { return b.state }
func (b *body) Pose() Pose                 { return b.pose }
func (b *body) Body() vertexbuf.MeshHandle { return b.mesh }
func (b *body) Rig() *rig.Rig              { return b.wheels }

// Seconds converts a frame delta to a duration, rounded to the nanosecond
func Seconds(dt float32) time.Duration {
	return time.Duration(math.Round(float64(dt) * float64(time.Second)))
}

func (b *body) setTime(now time.Duration) {
	b.now = now
	b.state.Elapsed = now.Seconds()
}

// spin comes from absolute time so it never drifts with frame times.
// Reduced to one turn to keep float32 precision on long runs.
func (b *body) spin() float32 {
	return float32(math.Mod(float64(b.angularVelocity)*b.state.Elapsed, 360))
}

// apply moves the body by outer and the wheels by wheelOuter * comp(pivot)
func (b *body) apply(outer, wheelOuter mgl32.Mat4, comp rig.Compensation) {
	if b.wheels.Parallel {
		b.buffer.ApplyParallel(outer)
	} else {
		b.buffer.Apply(outer)
	}
	vertexbuf.Writeback(b.mesh, b.buffer)
	b.wheels.Update(wheelOuter, b.pose.Spin, comp)
}
