// Package scene is a small host for rigged meshes: it owns the meshes,
// instantiates templates and loads geometry from glTF files.
package scene

import (
	"fmt"
	"log"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mogaika/carrig/vertexbuf"
)

type Scene struct {
	lock    sync.RWMutex
	objects []*Mesh
	byId    map[uuid.UUID]*Mesh
}

func New() *Scene {
	return &Scene{byId: make(map[uuid.UUID]*Mesh)}
}

func (s *Scene) Add(m *Mesh) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.objects = append(s.objects, m)
	s.byId[m.ID] = m
}

// Instantiate copies template into a new object placed at position.
// Templates that are not scene meshes contribute vertices only.
func (s *Scene) Instantiate(template vertexbuf.MeshHandle, position mgl32.Vec3) (vertexbuf.MeshHandle, error) {
	if template == nil {
		return nil, errors.Errorf("Cannot instantiate nil template")
	}

	var indices []uint32
	name := "object"
	if tm, ok := template.(*Mesh); ok {
		snap := tm.Snapshot()
		indices = snap.Indices
		name = snap.Name
	}

	s.lock.RLock()
	name = fmt.Sprintf("%s.%d", name, len(s.objects))
	s.lock.RUnlock()

	m := NewMesh(name, template.Vertices(), indices)
	m.Position = position
	s.Add(m)
	log.Printf("[scene] Instantiated %q (%v) at %v", m.Name, m.ID, position)
	return m, nil
}

func (s *Scene) Objects() []*Mesh {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return append([]*Mesh(nil), s.objects...)
}

func (s *Scene) Get(id uuid.UUID) (*Mesh, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	m, ok := s.byId[id]
	return m, ok
}

func (s *Scene) Snapshot() []Snapshot {
	objects := s.Objects()
	snaps := make([]Snapshot, len(objects))
	for i, m := range objects {
		snaps[i] = m.Snapshot()
	}
	return snaps
}
