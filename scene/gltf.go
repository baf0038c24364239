package scene

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// LoadGLTF reads every mesh referenced by the scene nodes of a .gltf/.glb file.
// Primitives of one glTF mesh are merged into a single Mesh.
func LoadGLTF(path string) ([]*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open gltf %q", path)
	}
	return MeshesFromDocument(doc)
}

// LoadGLTFMesh returns the mesh called name, or the first one when name is empty.
func LoadGLTFMesh(path, name string) (*Mesh, error) {
	meshes, err := LoadGLTF(path)
	if err != nil {
		return nil, err
	}
	for _, m := range meshes {
		if name == "" || m.Name == name {
			return m, nil
		}
	}
	return nil, errors.Errorf("Mesh %q not found in %q", name, path)
}

func MeshesFromDocument(doc *gltf.Document) ([]*Mesh, error) {
	result := make([]*Mesh, 0)
	if len(doc.Scenes) == 0 {
		return result, nil
	}

	var walk func(id uint32, parent mgl32.Mat4) error
	walk = func(id uint32, parent mgl32.Mat4) error {
		node := doc.Nodes[id]
		world := parent.Mul4(NodeMatrix(node))
		if node.Mesh != nil {
			m, err := meshFromDocument(doc, *node.Mesh, node.Name, world)
			if err != nil {
				return errors.Wrapf(err, "Node %q", node.Name)
			}
			if m != nil {
				result = append(result, m)
			}
		}
		for _, child := range node.Children {
			if err := walk(child, world); err != nil {
				return err
			}
		}
		return nil
	}

	for _, iNode := range doc.Scenes[0].Nodes {
		if err := walk(iNode, mgl32.Ident4()); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// NodeMatrix returns the local transform of node. A non-identity matrix wins
// over TRS; decoded nodes always carry the identity when none was written.
func NodeMatrix(node *gltf.Node) mgl32.Mat4 {
	if m := node.MatrixOrDefault(); m != gltf.DefaultMatrix {
		return mgl32.Mat4(m)
	}

	r := node.RotationOrDefault()
	rotation := mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}.Normalize()
	scale := node.ScaleOrDefault()
	t := node.TranslationOrDefault()

	return mgl32.Translate3D(t[0], t[1], t[2]).
		Mul4(rotation.Mat4()).
		Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
}

func meshFromDocument(doc *gltf.Document, iMesh uint32, nodeName string, world mgl32.Mat4) (*Mesh, error) {
	gmesh := doc.Meshes[iMesh]
	vertices := make([]mgl32.Vec3, 0)
	indices := make([]uint32, 0)

	for _, primitive := range gmesh.Primitives {
		iPosition, ok := primitive.Attributes["POSITION"]
		if !ok {
			log.Printf("[scene] Mesh %q primitive without positions", gmesh.Name)
			continue
		}

		positions, err := modeler.ReadPosition(doc, doc.Accessors[iPosition], make([][3]float32, 0))
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to read mesh vertices")
		}

		offset := uint32(len(vertices))
		for _, p := range positions {
			vertices = append(vertices, world.Mul4x1(mgl32.Vec3(p).Vec4(1)).Vec3())
		}

		if primitive.Indices == nil {
			for i := range positions {
				indices = append(indices, offset+uint32(i))
			}
			continue
		}
		primitiveIndices, err := modeler.ReadIndices(doc, doc.Accessors[*primitive.Indices], make([]uint32, 0))
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to read mesh indices")
		}
		for _, index := range primitiveIndices {
			indices = append(indices, index+offset)
		}
	}

	if len(vertices) == 0 {
		return nil, nil
	}

	name := gmesh.Name
	if name == "" {
		name = nodeName
	}
	return NewMesh(name, vertices, indices), nil
}
