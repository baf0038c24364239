package gltfutils

import (
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func NewDocument() *gltf.Document {
	return gltf.NewDocument()
}

func Vec3Array(vs []mgl32.Vec3) [][3]float32 {
	out := make([][3]float32, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

// AddMeshNode writes a triangle mesh and a node placed at translation
// into the default scene of doc.
func AddMeshNode(doc *gltf.Document, name string, translation mgl32.Vec3,
	vertices, normals []mgl32.Vec3, indices []uint32) uint32 {
	attributes := map[string]uint32{
		"POSITION": modeler.WritePosition(doc, Vec3Array(vertices)),
	}
	if len(normals) == len(vertices) {
		attributes["NORMAL"] = modeler.WriteNormal(doc, Vec3Array(normals))
	}

	primitive := &gltf.Primitive{Attributes: attributes}
	if len(indices) != 0 {
		primitive.Indices = gltf.Index(modeler.WriteIndices(doc, indices))
	}

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name:       name,
		Primitives: []*gltf.Primitive{primitive},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{
		Name:        name,
		Mesh:        gltf.Index(uint32(len(doc.Meshes) - 1)),
		Translation: [3]float32(translation),
	})
	iNode := uint32(len(doc.Nodes) - 1)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, iNode)
	return iNode
}

func ExportBinary(w io.Writer, doc *gltf.Document) error {
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return encoder.Encode(doc)
}
