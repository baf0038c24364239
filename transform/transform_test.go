package transform

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-5

func requireVec(t *testing.T, expected, actual mgl32.Vec3) {
	t.Helper()
	for i := range expected {
		require.InDelta(t, expected[i], actual[i], eps, "component %d of %v vs %v", i, expected, actual)
	}
}

func TestRotationAxes(t *testing.T) {
	var tests = []struct {
		axis Axis
		in   mgl32.Vec3
		out  mgl32.Vec3
	}{
		{AxisX, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}},
		{AxisY, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}},
		{AxisZ, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	}
	for _, test := range tests {
		t.Run(test.axis.String(), func(t *testing.T) {
			requireVec(t, test.out, Apply(Rotation(90, test.axis), test.in))
		})
	}
}

func TestRotationUnknownAxisPanics(t *testing.T) {
	assert.Panics(t, func() { Rotation(10, Axis(7)) })
}

func TestTranslationAndScale(t *testing.T) {
	v := mgl32.Vec3{1, 2, 3}
	requireVec(t, mgl32.Vec3{2, 4, 6}, Apply(Translation(1, 2, 3), v))
	requireVec(t, mgl32.Vec3{2, -2, 1.5}, Apply(Scale(2, -1, 0.5), v))
	requireVec(t, mgl32.Vec3{0.5, 1, 1.5}, Apply(UniformScale(0.5), v))
}

func TestComposeOrder(t *testing.T) {
	v := mgl32.Vec3{1, 0, 0}
	// rotate first, then move
	m := Compose(Translation(10, 0, 0), Rotation(90, AxisZ))
	requireVec(t, mgl32.Vec3{10, 1, 0}, Apply(m, v))

	// move first, then rotate
	m = Compose(Rotation(90, AxisZ), Translation(10, 0, 0))
	requireVec(t, mgl32.Vec3{0, 11, 0}, Apply(m, v))

	assert.Equal(t, mgl32.Ident4(), Compose())
}

func TestPivotRotationFixedPoint(t *testing.T) {
	pivot := mgl32.Vec3{2, 0, 0}
	m := PivotRotation(pivot, 90, AxisX)
	requireVec(t, pivot, Apply(m, pivot))

	// a point one unit above the pivot swings around it
	requireVec(t, mgl32.Vec3{2, 0, 1}, Apply(m, mgl32.Vec3{2, 1, 0}))
}

func TestLerp(t *testing.T) {
	a := mgl32.Vec3{0.1, -3.7, 12.25}
	b := mgl32.Vec3{7.3, 0.3, -1.1}

	assert.Equal(t, a, Lerp(a, b, 0))
	assert.Equal(t, b, Lerp(a, b, 1))

	dir := b.Sub(a)
	prev := float32(-1)
	for i := 0; i <= 10; i++ {
		p := Lerp(a, b, float32(i)/10)
		along := p.Sub(a).Dot(dir)
		assert.GreaterOrEqual(t, along, prev)
		prev = along
	}
}

func TestSignedAngle(t *testing.T) {
	assert.InDelta(t, 90, Heading(mgl32.Vec3{1, 0, 0}), eps)
	assert.InDelta(t, -90, Heading(mgl32.Vec3{-1, 0, 0}), eps)
	assert.InDelta(t, 0, Heading(mgl32.Vec3{0, 0, -5}), eps)
	assert.InDelta(t, 180, Heading(mgl32.Vec3{0, 0, 1}), eps)
	assert.InDelta(t, 45, SignedAngle(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{1, 1, 0}, mgl32.Vec3{0, 0, 1}), eps)
	assert.Equal(t, float32(0), Heading(mgl32.Vec3{}))
}
