// Package vertexbuf keeps an immutable snapshot of a mesh's vertices and
// recomputes a working copy from it every frame.
package vertexbuf

import (
	"fmt"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// MeshHandle is the renderable mesh owned by the host.
type MeshHandle interface {
	Vertices() []mgl32.Vec3
	SetVertices(vertices []mgl32.Vec3)
	RecalculateNormals()
}

type Buffer struct {
	base    []mgl32.Vec3
	working []mgl32.Vec3
}

// below this count the goroutine overhead is larger than the work
const parallelMinVertices = 4096

func Capture(raw []mgl32.Vec3) *Buffer {
	b := &Buffer{
		base:    make([]mgl32.Vec3, len(raw)),
		working: make([]mgl32.Vec3, len(raw)),
	}
	copy(b.base, raw)
	copy(b.working, raw)
	return b
}

func CaptureMesh(h MeshHandle) (*Buffer, error) {
	if h == nil {
		return nil, errors.Errorf("Cannot capture vertices of nil mesh")
	}
	return Capture(h.Vertices()), nil
}

func (b *Buffer) Len() int { return len(b.base) }

// Base must not be modified by the caller
func (b *Buffer) Base() []mgl32.Vec3 { return b.base }

func (b *Buffer) Working() []mgl32.Vec3 { return b.working }

func (b *Buffer) checkLengths() {
	if len(b.base) != len(b.working) {
		panic(fmt.Sprintf("vertexbuf: base has %d vertices, working has %d", len(b.base), len(b.working)))
	}
}

func applyRange(m mgl32.Mat4, dst, src []mgl32.Vec3) {
	for i, v := range src {
		dst[i] = m.Mul4x1(v.Vec4(1)).Vec3()
	}
}

// Apply overwrites every working vertex with transform * base and returns the working slice.
func (b *Buffer) Apply(transform mgl32.Mat4) []mgl32.Vec3 {
	b.checkLengths()
	applyRange(transform, b.working, b.base)
	return b.working
}

// ApplyParallel is Apply split into chunks over the available cpus.
// Result is identical to Apply.
func (b *Buffer) ApplyParallel(transform mgl32.Mat4) []mgl32.Vec3 {
	b.checkLengths()
	n := len(b.base)
	workers := runtime.GOMAXPROCS(0)
	if n < parallelMinVertices || workers < 2 {
		applyRange(transform, b.working, b.base)
		return b.working
	}

	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		dst, src := b.working[start:end], b.base[start:end]
		g.Go(func() error {
			applyRange(transform, dst, src)
			return nil
		})
	}
	g.Wait()
	return b.working
}

// Writeback pushes the working vertices to the host mesh and rebuilds its normals.
func Writeback(h MeshHandle, b *Buffer) {
	out := make([]mgl32.Vec3, len(b.working))
	copy(out, b.working)
	h.SetVertices(out)
	h.RecalculateNormals()
}
