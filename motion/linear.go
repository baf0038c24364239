package motion

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/carrig/rig"
	"github.com/mogaika/carrig/transform"
	"github.com/mogaika/carrig/vertexbuf"
)

type LinearParams struct {
	AngularVelocity float32
	Scale           float32
	Displacement    mgl32.Vec3
	WheelPivots     [rig.WheelCount]mgl32.Vec3
}

// LinearMover places the body at Displacement*elapsed. The body never turns,
// and the wheels spin around their local X axis without pivot compensation.
type LinearMover struct {
	*body
	displacement mgl32.Vec3
}

func NewLinearMover(mesh, wheel vertexbuf.MeshHandle, inst rig.Instantiator, p LinearParams) (*LinearMover, error) {
	b, err := newBody(mesh, wheel, inst, p.WheelPivots, p.Scale, p.AngularVelocity)
	if err != nil {
		return nil, err
	}
	m := &LinearMover{body: b, displacement: p.Displacement}
	m.Tick(0)
	return m, nil
}

func (m *LinearMover) Tick(dt float32) MotionState {
	return m.TickAt(m.now+Seconds(dt), dt)
}

func (m *LinearMover) TickAt(now time.Duration, dt float32) MotionState {
	m.setTime(now)

	t := m.state.Elapsed
	position := mgl32.Vec3{
		float32(float64(m.displacement[0]) * t),
		float32(float64(m.displacement[1]) * t),
		float32(float64(m.displacement[2]) * t),
	}
	m.pose = Pose{Position: position, Spin: m.spin()}

	move := transform.TranslationV(position)
	m.apply(move, move, rig.NoCompensation)
	return m.state
}
