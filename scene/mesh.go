package scene

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Mesh is a renderable triangle mesh placed at Position in the world.
// Vertices are local to Position. Readers (web, export) may run while the
// simulation writes, so all access goes through the lock.
type Mesh struct {
	ID       uuid.UUID
	Name     string
	Position mgl32.Vec3

	lock     sync.RWMutex
	vertices []mgl32.Vec3
	normals  []mgl32.Vec3
	indices  []uint32
	revision uint64
}

func NewMesh(name string, vertices []mgl32.Vec3, indices []uint32) *Mesh {
	m := &Mesh{
		ID:       uuid.New(),
		Name:     name,
		vertices: append([]mgl32.Vec3(nil), vertices...),
		indices:  append([]uint32(nil), indices...),
	}
	m.RecalculateNormals()
	return m
}

func (m *Mesh) Vertices() []mgl32.Vec3 {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return append([]mgl32.Vec3(nil), m.vertices...)
}

func (m *Mesh) SetVertices(vertices []mgl32.Vec3) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.vertices = vertices
	m.revision++
}

// RecalculateNormals rebuilds every normal from the current triangles.
// Each vertex gets the normalized sum of its faces' normals weighted by area.
func (m *Mesh) RecalculateNormals() {
	m.lock.Lock()
	defer m.lock.Unlock()

	normals := make([]mgl32.Vec3, len(m.vertices))
	for i := 0; i+2 < len(m.indices); i += 3 {
		a, b, c := m.indices[i], m.indices[i+1], m.indices[i+2]
		if int(a) >= len(m.vertices) || int(b) >= len(m.vertices) || int(c) >= len(m.vertices) {
			continue
		}
		face := m.vertices[b].Sub(m.vertices[a]).Cross(m.vertices[c].Sub(m.vertices[a]))
		normals[a] = normals[a].Add(face)
		normals[b] = normals[b].Add(face)
		normals[c] = normals[c].Add(face)
	}
	for i, n := range normals {
		if n.Len() > 1e-12 {
			normals[i] = n.Normalize()
		}
	}
	m.normals = normals
}

// Snapshot is a consistent copy of the mesh geometry
type Snapshot struct {
	Name     string
	Position mgl32.Vec3
	Vertices []mgl32.Vec3
	Normals  []mgl32.Vec3
	Indices  []uint32
	Revision uint64
}

func (m *Mesh) Snapshot() Snapshot {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return Snapshot{
		Name:     m.Name,
		Position: m.Position,
		Vertices: append([]mgl32.Vec3(nil), m.vertices...),
		Normals:  append([]mgl32.Vec3(nil), m.normals...),
		Indices:  append([]uint32(nil), m.indices...),
		Revision: m.revision,
	}
}

// World returns vertices offset by the mesh position
func (s Snapshot) World() []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(s.Vertices))
	for i, v := range s.Vertices {
		out[i] = v.Add(s.Position)
	}
	return out
}
