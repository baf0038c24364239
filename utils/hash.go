package utils

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// VerticesHash digests the exact bit patterns of the vertices,
// so any change of any component changes the result.
func VerticesHash(d *xxhash.Digest, vertices []mgl32.Vec3) {
	var buf [12]byte
	for _, v := range vertices {
		binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(v[0]))
		binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(v[1]))
		binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(v[2]))
		d.Write(buf[:])
	}
}

func HashVertices(vertices ...[]mgl32.Vec3) uint64 {
	d := xxhash.New()
	for _, vs := range vertices {
		VerticesHash(d, vs)
	}
	return d.Sum64()
}
