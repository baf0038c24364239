// Package transform builds the homogeneous matrices used to move rigid meshes.
// Matrices are column-major mgl32.Mat4 and are applied as M * [x y z 1].
// Composition is right to left: the rightmost matrix touches the vertex first.
package transform

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

var (
	// Back is the reference forward of the car body
	Back = mgl32.Vec3{0, 0, -1}
	Down = mgl32.Vec3{0, -1, 0}
)

func Translation(dx, dy, dz float32) mgl32.Mat4 {
	return mgl32.Translate3D(dx, dy, dz)
}

func TranslationV(v mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(v.X(), v.Y(), v.Z())
}

// Rotation around one of the principal axes, angle in degrees
func Rotation(angle float32, axis Axis) mgl32.Mat4 {
	rad := mgl32.DegToRad(angle)
	switch axis {
	case AxisX:
		return mgl32.HomogRotate3DX(rad)
	case AxisY:
		return mgl32.HomogRotate3DY(rad)
	case AxisZ:
		return mgl32.HomogRotate3DZ(rad)
	default:
		panic(fmt.Sprintf("transform: unknown rotation axis %v", axis))
	}
}

func Scale(sx, sy, sz float32) mgl32.Mat4 {
	return mgl32.Scale3D(sx, sy, sz)
}

func UniformScale(s float32) mgl32.Mat4 {
	return mgl32.Scale3D(s, s, s)
}

// Compose multiplies matrices left to right, so the last argument
// is the first transform applied to a vertex.
func Compose(mats ...mgl32.Mat4) mgl32.Mat4 {
	result := mgl32.Ident4()
	for _, m := range mats {
		result = result.Mul4(m)
	}
	return result
}

// PivotRotation rotates around pivot instead of the origin:
// T(pivot) * R * T(-pivot). The pivot itself is a fixed point.
func PivotRotation(pivot mgl32.Vec3, angle float32, axis Axis) mgl32.Mat4 {
	return Compose(
		TranslationV(pivot),
		Rotation(angle, axis),
		TranslationV(pivot.Mul(-1)))
}

func Apply(m mgl32.Mat4, v mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(v.Vec4(1)).Vec3()
}

// Lerp hits a exactly at t=0 and b exactly at t=1.
func Lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return mgl32.Vec3{
		a[0]*(1-t) + b[0]*t,
		a[1]*(1-t) + b[1]*t,
		a[2]*(1-t) + b[2]*t,
	}
}

// UnsignedAngle between two vectors in degrees, 0 if either is degenerate.
func UnsignedAngle(from, to mgl32.Vec3) float32 {
	denom := math.Sqrt(float64(from.LenSqr()) * float64(to.LenSqr()))
	if denom < 1e-15 {
		return 0
	}
	dot := float64(from.Dot(to)) / denom
	if dot > 1 {
		dot = 1
	} else if dot < -1 {
		dot = -1
	}
	return float32(math.Acos(dot) * 180 / math.Pi)
}

// SignedAngle returns the angle in degrees from `from` to `to`, negative when
// the rotation is clockwise looking down the axis (right-hand rule).
func SignedAngle(from, to, axis mgl32.Vec3) float32 {
	angle := UnsignedAngle(from, to)
	if axis.Dot(from.Cross(to)) < 0 {
		return -angle
	}
	return angle
}

// Heading of the travel direction relative to the body forward, around Down.
func Heading(direction mgl32.Vec3) float32 {
	return SignedAngle(Back, direction, Down)
}
