package motion

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/carrig/rig"
	"github.com/mogaika/carrig/scene"
	"github.com/mogaika/carrig/transform"
)

func requireVec(t *testing.T, expected, actual mgl32.Vec3) {
	t.Helper()
	for i := range expected {
		require.InDelta(t, expected[i], actual[i], 1e-4, "component %d of %v vs %v", i, expected, actual)
	}
}

// marker is a body with a single vertex at its origin
func marker() *scene.Mesh {
	return scene.NewMesh("marker", []mgl32.Vec3{{0, 0, 0}, {0, 0, -1}}, nil)
}

func pathParams(waypoints ...mgl32.Vec3) PathParams {
	return PathParams{
		AngularVelocity:      90,
		Scale:                0.69,
		TimeBetweenWaypoints: 1,
		Waypoints:            waypoints,
		WheelPivots:          rig.DefaultPivots(),
	}
}

func TestAdvanceWraps(t *testing.T) {
	var s MotionState
	for i := 0; i < 3; i++ {
		s = Advance(s, 1, 1, 3)
		assert.Equal(t, (i+1)%3, s.Waypoint)
		assert.Equal(t, float32(0), s.SegmentTime)
	}
	assert.Equal(t, 0, s.Waypoint)
}

func TestAdvanceDropsRemainder(t *testing.T) {
	s := Advance(MotionState{}, 2.5, 1, 4)
	assert.Equal(t, 1, s.Waypoint)
	assert.Equal(t, float32(0), s.SegmentTime)
}

func TestFractionClamped(t *testing.T) {
	assert.Equal(t, float32(1), Fraction(MotionState{SegmentTime: 1.2}, 1))
	assert.Equal(t, float32(0), Fraction(MotionState{SegmentTime: -1}, 1))
	assert.Equal(t, float32(0.25), Fraction(MotionState{SegmentTime: 0.5}, 2))
}

func TestPathParamsValidate(t *testing.T) {
	p := pathParams(mgl32.Vec3{})
	assert.Error(t, p.Validate())

	p = pathParams(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0})
	p.TimeBetweenWaypoints = 0
	assert.Error(t, p.Validate())

	_, err := NewPathFollower(marker(), scene.Cylinder("w", 1, 1, 8), scene.New(), pathParams())
	assert.Error(t, err)
	_, err = NewPathFollower(nil, scene.Cylinder("w", 1, 1, 8), scene.New(), pathParams(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}))
	assert.Error(t, err)
}

func TestHeadingOfFirstSegment(t *testing.T) {
	_, heading := PathPose([]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}}, MotionState{}, 1)
	assert.InDelta(t, 90, heading, 1e-4)
}

func TestPathFollowerReachesWaypoint(t *testing.T) {
	waypoints := []mgl32.Vec3{{0, 0, 0}, {4, 0, 0}, {4, 0, -4}}
	body := marker()
	f, err := NewPathFollower(body, scene.Cylinder("w", 1, 1, 8), scene.New(), pathParams(waypoints...))
	require.NoError(t, err)

	s := f.Tick(0.5)
	assert.Equal(t, 0, s.Waypoint)
	requireVec(t, mgl32.Vec3{2, 0, 0}, body.Vertices()[0])

	s = f.Tick(0.5)
	assert.Equal(t, 1, s.Waypoint)
	assert.Equal(t, float32(0), s.SegmentTime)
	assert.Equal(t, waypoints[1], f.Pose().Position)
	requireVec(t, waypoints[1], body.Vertices()[0])

	// now heading along -Z, which is the body forward
	assert.InDelta(t, 0, f.Pose().Heading, 1e-4)
	requireVec(t, mgl32.Vec3{4, 0, -1}, body.Vertices()[1])
}

func TestPathFollowerForcesOriginStart(t *testing.T) {
	f, err := NewPathFollower(marker(), scene.Cylinder("w", 1, 1, 8), scene.New(),
		pathParams(mgl32.Vec3{5, 5, 5}, mgl32.Vec3{1, 0, 0}))
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{}, f.Waypoints()[0])
	assert.Equal(t, mgl32.Vec3{}, f.Pose().Position)
}

func TestPathFollowerWheelsFollowBody(t *testing.T) {
	s := scene.New()
	wheel := scene.NewMesh("hub", []mgl32.Vec3{{0, 0, 0}}, nil)
	f, err := NewPathFollower(marker(), wheel, s, pathParams(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{1, 0, 1}))
	require.NoError(t, err)
	f.Tick(0.25)

	pose := f.Pose()
	body := transform.Compose(transform.TranslationV(pose.Position), transform.Rotation(pose.Heading, transform.AxisY))
	for _, slot := range f.Rig().Slots {
		m := slot.Mesh.(*scene.Mesh)
		hub := m.Vertices()[0].Add(m.Position)
		requireVec(t, transform.Apply(body, slot.Pivot), hub)
	}
	assert.InDelta(t, 90*0.25, pose.Spin, 1e-5)
}

func TestLinearMover(t *testing.T) {
	s := scene.New()
	body := marker()
	wheel := scene.NewMesh("hub", []mgl32.Vec3{{0, 0, 0}, {0, 1, 0}}, nil)
	m, err := NewLinearMover(body, wheel, s, LinearParams{
		AngularVelocity: 90,
		Scale:           0.5,
		Displacement:    mgl32.Vec3{0, 0, -2},
		WheelPivots:     rig.DefaultPivots(),
	})
	require.NoError(t, err)

	m.Tick(0.5)
	st := m.Tick(0.5)
	assert.Equal(t, 1.0, st.Elapsed)
	assert.Equal(t, 0, st.Waypoint)

	requireVec(t, mgl32.Vec3{0, 0, -2}, body.Vertices()[0])
	assert.Equal(t, float32(0), m.Pose().Heading)

	for _, slot := range m.Rig().Slots {
		v := slot.Mesh.Vertices()
		requireVec(t, mgl32.Vec3{0, 0, -2}, v[0])
		// 90 degrees after one second: spoke turned from +Y to +Z
		requireVec(t, mgl32.Vec3{0, 0, -1.5}, v[1])
	}
}

func TestModelsSatisfyInterface(t *testing.T) {
	var _ Model = (*PathFollower)(nil)
	var _ Model = (*LinearMover)(nil)
}

func hubWheel() *scene.Mesh {
	return scene.NewMesh("hub", []mgl32.Vec3{{0, 0, 0}, {0, 1, 0}}, nil)
}

func linearParams() LinearParams {
	return LinearParams{
		AngularVelocity: 90,
		Scale:           0.5,
		Displacement:    mgl32.Vec3{0, 0, -2},
		WheelPivots:     rig.DefaultPivots(),
	}
}

func TestLinearMoverHourAtHostTime(t *testing.T) {
	body := marker()
	m, err := NewLinearMover(body, hubWheel(), scene.New(), linearParams())
	require.NoError(t, err)

	const frames = 60 * 60 * 60
	for i := 1; i <= frames; i++ {
		m.TickAt(time.Duration(i)*time.Second/60, 1.0/60)
	}

	assert.Equal(t, 3600.0, m.State().Elapsed)
	assert.InDelta(t, 0, m.Pose().Spin, 1e-6)
	assert.Equal(t, mgl32.Vec3{0, 0, -7200}, m.Pose().Position)
	requireVec(t, mgl32.Vec3{0, 0, -7200}, body.Vertices()[0])
}

func TestLinearMoverHourOfDeltas(t *testing.T) {
	m, err := NewLinearMover(marker(), hubWheel(), scene.New(), linearParams())
	require.NoError(t, err)

	const frames = 60 * 60 * 60
	for i := 0; i < frames; i++ {
		m.Tick(1.0 / 60)
	}

	// only the float32 rounding of 1/60 itself remains
	assert.InDelta(t, 3600, m.State().Elapsed, 1e-3)
	assert.InDelta(t, 0, m.Pose().Spin, 0.05)
	assert.InDelta(t, -7200, m.Pose().Position.Z(), 2e-3)
}

func TestPathFollowerSpinFromHostTime(t *testing.T) {
	f, err := NewPathFollower(marker(), hubWheel(), scene.New(),
		pathParams(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{1, 0, 1}))
	require.NoError(t, err)

	// uneven frame deltas do not matter for spin, only the clock does
	f.TickAt(300*time.Millisecond, 0.3)
	f.TickAt(310*time.Millisecond, 0.01)
	s := f.TickAt(1700*time.Millisecond, 0.2)

	assert.InDelta(t, 1.7, s.Elapsed, 1e-12)
	assert.InDelta(t, 90*1.7, f.Pose().Spin, 1e-4)
	assert.Equal(t, 0, s.Waypoint)
	assert.InDelta(t, 0.51, s.SegmentTime, 1e-6)
}

func TestParallelBodyMatchesSequential(t *testing.T) {
	vertices := make([]mgl32.Vec3, 10000)
	for i := range vertices {
		f := float32(i)
		vertices[i] = mgl32.Vec3{f * 0.001, -f * 0.002, f * 0.003}
	}
	seqBody := scene.NewMesh("body", vertices, nil)
	parBody := scene.NewMesh("body", vertices, nil)

	seq, err := NewPathFollower(seqBody, hubWheel(), scene.New(),
		pathParams(mgl32.Vec3{}, mgl32.Vec3{3, 0, 1}, mgl32.Vec3{1, 0, 5}))
	require.NoError(t, err)
	par, err := NewPathFollower(parBody, hubWheel(), scene.New(),
		pathParams(mgl32.Vec3{}, mgl32.Vec3{3, 0, 1}, mgl32.Vec3{1, 0, 5}))
	require.NoError(t, err)
	par.Rig().Parallel = true

	seq.Tick(0.4)
	par.Tick(0.4)

	assert.Equal(t, seqBody.Vertices(), parBody.Vertices())
	for i := range seq.Rig().Slots {
		assert.Equal(t, seq.Rig().Slots[i].Mesh.Vertices(), par.Rig().Slots[i].Mesh.Vertices())
	}
}
