package motion

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/carrig/rig"
	"github.com/mogaika/carrig/transform"
	"github.com/mogaika/carrig/vertexbuf"
)

type PathParams struct {
	AngularVelocity      float32
	Scale                float32
	TimeBetweenWaypoints float32
	Waypoints            []mgl32.Vec3
	WheelPivots          [rig.WheelCount]mgl32.Vec3
}

func (p *PathParams) Validate() error {
	if len(p.Waypoints) < 2 {
		return errors.Errorf("Path needs at least 2 waypoints, got %d", len(p.Waypoints))
	}
	if p.TimeBetweenWaypoints <= 0 {
		return errors.Errorf("Time between waypoints must be positive, got %v", p.TimeBetweenWaypoints)
	}
	return nil
}

type PathFollower struct {
	*body
	window    float32
	waypoints []mgl32.Vec3
}

// NewPathFollower captures the body, spawns the wheels and places everything
// at the start of the first segment. The first waypoint is moved to the origin.
func NewPathFollower(mesh, wheel vertexbuf.MeshHandle, inst rig.Instantiator, p PathParams) (*PathFollower, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	b, err := newBody(mesh, wheel, inst, p.WheelPivots, p.Scale, p.AngularVelocity)
	if err != nil {
		return nil, err
	}

	waypoints := make([]mgl32.Vec3, len(p.Waypoints))
	copy(waypoints, p.Waypoints)
	waypoints[0] = mgl32.Vec3{}

	f := &PathFollower{body: b, window: p.TimeBetweenWaypoints, waypoints: waypoints}
	f.Tick(0)
	return f, nil
}

func (f *PathFollower) Waypoints() []mgl32.Vec3 { return f.waypoints }

// Advance moves the segment timer by dt. Once the timer reaches window the
// next segment starts with a zeroed timer; the leftover time is dropped and
// at most one segment is skipped per call.
func Advance(s MotionState, dt, window float32, count int) MotionState {
	s.SegmentTime += dt
	if s.SegmentTime >= window {
		s.Waypoint = (s.Waypoint + 1) % count
		s.SegmentTime = 0
	}
	return s
}

// Segment returns the endpoints of the segment being traveled in s.
func Segment(waypoints []mgl32.Vec3, s MotionState) (from, to mgl32.Vec3) {
	return waypoints[s.Waypoint], waypoints[(s.Waypoint+1)%len(waypoints)]
}

// Fraction of the current segment, clamped to [0, 1].
func Fraction(s MotionState, window float32) float32 {
	return mgl32.Clamp(s.SegmentTime/window, 0, 1)
}

func PathPose(waypoints []mgl32.Vec3, s MotionState, window float32) (position mgl32.Vec3, heading float32) {
	from, to := Segment(waypoints, s)
	return transform.Lerp(from, to, Fraction(s, window)), transform.Heading(to.Sub(from))
}

func (f *PathFollower) Tick(dt float32) MotionState {
	return f.TickAt(f.now+Seconds(dt), dt)
}

func (f *PathFollower) TickAt(now time.Duration, dt float32) MotionState {
	f.setTime(now)
	f.state = Advance(f.state, dt, f.window, len(f.waypoints))

	position, heading := PathPose(f.waypoints, f.state, f.window)
	f.pose = Pose{Position: position, Heading: heading, Spin: f.spin()}

	move := transform.TranslationV(position)
	outer := transform.Compose(move, transform.Rotation(heading, transform.AxisY))

	f.apply(outer, move, rig.HeadingCompensation(heading))
	return f.state
}
