package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Box centered at origin. Each face has its own vertices so normals stay flat.
func Box(name string, size mgl32.Vec3) *Mesh {
	h := size.Mul(0.5)
	faces := [6][4]mgl32.Vec3{
		{{h[0], -h[1], -h[2]}, {h[0], h[1], -h[2]}, {h[0], h[1], h[2]}, {h[0], -h[1], h[2]}},
		{{-h[0], -h[1], h[2]}, {-h[0], h[1], h[2]}, {-h[0], h[1], -h[2]}, {-h[0], -h[1], -h[2]}},
		{{-h[0], h[1], -h[2]}, {-h[0], h[1], h[2]}, {h[0], h[1], h[2]}, {h[0], h[1], -h[2]}},
		{{-h[0], -h[1], h[2]}, {-h[0], -h[1], -h[2]}, {h[0], -h[1], -h[2]}, {h[0], -h[1], h[2]}},
		{{-h[0], -h[1], h[2]}, {h[0], -h[1], h[2]}, {h[0], h[1], h[2]}, {-h[0], h[1], h[2]}},
		{{h[0], -h[1], -h[2]}, {-h[0], -h[1], -h[2]}, {-h[0], h[1], -h[2]}, {h[0], h[1], -h[2]}},
	}

	vertices := make([]mgl32.Vec3, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range faces {
		base := uint32(len(vertices))
		vertices = append(vertices, f[:]...)
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return NewMesh(name, vertices, indices)
}

// Cylinder with its axis along X, the way wheels spin.
func Cylinder(name string, radius, width float32, segments int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	hw := width / 2
	vertices := make([]mgl32.Vec3, 0, segments*2+2)
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		y := radius * float32(math.Cos(a))
		z := radius * float32(math.Sin(a))
		vertices = append(vertices, mgl32.Vec3{-hw, y, z}, mgl32.Vec3{hw, y, z})
	}
	left := uint32(len(vertices))
	right := left + 1
	vertices = append(vertices, mgl32.Vec3{-hw, 0, 0}, mgl32.Vec3{hw, 0, 0})

	indices := make([]uint32, 0, segments*12)
	for i := 0; i < segments; i++ {
		l0, r0 := uint32(i*2), uint32(i*2+1)
		l1, r1 := uint32(((i+1)%segments)*2), uint32(((i+1)%segments)*2+1)
		indices = append(indices,
			l0, l1, r1, l0, r1, r0,
			left, l1, l0,
			right, r0, r1)
	}
	return NewMesh(name, vertices, indices)
}
