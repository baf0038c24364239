// Package rig drives the four wheels that follow a parent mesh.
package rig

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/mogaika/carrig/transform"
	"github.com/mogaika/carrig/vertexbuf"
)

const WheelCount = 4

const (
	FrontRight = iota
	FrontLeft
	BackRight
	BackLeft
)

var (
	FrontAxis = mgl32.Vec3{2.1, 0.85, -2.8}
	BackAxis  = mgl32.Vec3{2.1, 0.85, 2.87}
)

// Instantiator creates a copy of template placed at position with identity orientation.
type Instantiator interface {
	Instantiate(template vertexbuf.MeshHandle, position mgl32.Vec3) (vertexbuf.MeshHandle, error)
}

type WheelSlot struct {
	Pivot  mgl32.Vec3
	Mesh   vertexbuf.MeshHandle
	Buffer *vertexbuf.Buffer
}

type Rig struct {
	Slots [WheelCount]WheelSlot
	Scale float32
	// Parallel updates every wheel on its own goroutine
	Parallel bool
}

// Compensation returns the matrix inserted between the outer transform
// and the wheel's local spin for a wheel at pivot.
type Compensation func(pivot mgl32.Vec3) mgl32.Mat4

// NoCompensation leaves the spin axis in world orientation.
func NoCompensation(mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Ident4()
}

// HeadingCompensation turns the wheel with the body: T(-pivot) * Ry(heading) * T(pivot).
// The wheel mesh is local to its pivot, so it is moved into body space,
// rotated with the body and moved back.
func HeadingCompensation(heading float32) Compensation {
	return func(pivot mgl32.Vec3) mgl32.Mat4 {
		return transform.PivotRotation(pivot.Mul(-1), heading, transform.AxisY)
	}
}

// MirroredPivots produces right/left pivots for front and back axles by
// flipping the lateral component.
func MirroredPivots(front, back mgl32.Vec3) [WheelCount]mgl32.Vec3 {
	mirror := func(v mgl32.Vec3) mgl32.Vec3 { return mgl32.Vec3{-v.X(), v.Y(), v.Z()} }
	return [WheelCount]mgl32.Vec3{
		FrontRight: front,
		FrontLeft:  mirror(front),
		BackRight:  back,
		BackLeft:   mirror(back),
	}
}

func DefaultPivots() [WheelCount]mgl32.Vec3 {
	return MirroredPivots(FrontAxis, BackAxis)
}

// Setup instantiates one wheel per pivot and captures its vertices.
func Setup(inst Instantiator, template vertexbuf.MeshHandle, pivots [WheelCount]mgl32.Vec3, scale float32) (*Rig, error) {
	if inst == nil {
		return nil, errors.Errorf("Instantiator is nil")
	}
	if template == nil {
		return nil, errors.Errorf("Wheel template is nil")
	}
	if scale <= 0 {
		return nil, errors.Errorf("Wheel scale must be positive, got %v", scale)
	}

	r := &Rig{Scale: scale}
	for i, pivot := range pivots {
		mesh, err := inst.Instantiate(template, pivot)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to instantiate wheel %d", i)
		}
		buf, err := vertexbuf.CaptureMesh(mesh)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to capture wheel %d", i)
		}
		r.Slots[i] = WheelSlot{Pivot: pivot, Mesh: mesh, Buffer: buf}
	}
	return r, nil
}

// Transform of slot i: outer * comp(pivot) * Rx(spin) * S(scale)
func (r *Rig) Transform(i int, outer mgl32.Mat4, spin float32, comp Compensation) mgl32.Mat4 {
	if comp == nil {
		comp = NoCompensation
	}
	return transform.Compose(
		outer,
		comp(r.Slots[i].Pivot),
		transform.Rotation(spin, transform.AxisX),
		transform.UniformScale(r.Scale))
}

func (r *Rig) updateSlot(i int, outer mgl32.Mat4, spin float32, comp Compensation) {
	slot := &r.Slots[i]
	m := r.Transform(i, outer, spin, comp)
	if r.Parallel {
		slot.Buffer.ApplyParallel(m)
	} else {
		slot.Buffer.Apply(m)
	}
	vertexbuf.Writeback(slot.Mesh, slot.Buffer)
}

// Update recomputes and writes back all four wheels.
func (r *Rig) Update(outer mgl32.Mat4, spin float32, comp Compensation) {
	if !r.Parallel {
		for i := range r.Slots {
			r.updateSlot(i, outer, spin, comp)
		}
		return
	}

	var g errgroup.Group
	for i := range r.Slots {
		i := i
		g.Go(func() error {
			r.updateSlot(i, outer, spin, comp)
			return nil
		})
	}
	g.Wait()
}
