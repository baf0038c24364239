// Package export writes the current geometry of a scene to model files.
package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mogaika/fbx/builders/bfbx73"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	"github.com/mogaika/carrig/scene"
	"github.com/mogaika/carrig/utils"
	"github.com/mogaika/carrig/utils/fbxbuilder"
	"github.com/mogaika/carrig/utils/gltfutils"
)

// Checksum changes whenever any object moved or any vertex changed
func Checksum(snaps []scene.Snapshot) uint64 {
	all := make([][]mgl32.Vec3, 0, len(snaps)*2)
	for _, s := range snaps {
		all = append(all, []mgl32.Vec3{s.Position}, s.Vertices)
	}
	return utils.HashVertices(all...)
}

func GLTF(snaps []scene.Snapshot) *gltf.Document {
	doc := gltfutils.NewDocument()
	for _, s := range snaps {
		gltfutils.AddMeshNode(doc, s.Name, s.Position, s.Vertices, s.Normals, s.Indices)
	}
	return doc
}

func GLB(w io.Writer, snaps []scene.Snapshot) error {
	if err := gltfutils.ExportBinary(w, GLTF(snaps)); err != nil {
		return errors.Wrapf(err, "Failed to encode glb")
	}
	return nil
}

// OBJ writes world space positions, one group per object.
// Indices in obj files are 1-based and global for the file.
func OBJ(w io.Writer, snaps []scene.Snapshot) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# carrig frame, %d objects\n", len(snaps))

	offset := 1
	for _, s := range snaps {
		fmt.Fprintf(bw, "o %s\n", s.Name)
		for _, v := range s.World() {
			fmt.Fprintf(bw, "v %f %f %f\n", v[0], v[1], v[2])
		}
		hasNormals := len(s.Normals) == len(s.Vertices)
		if hasNormals {
			for _, n := range s.Normals {
				fmt.Fprintf(bw, "vn %f %f %f\n", n[0], n[1], n[2])
			}
		}
		for i := 0; i+2 < len(s.Indices); i += 3 {
			a, b, c := int(s.Indices[i])+offset, int(s.Indices[i+1])+offset, int(s.Indices[i+2])+offset
			if hasNormals {
				fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
			} else {
				fmt.Fprintf(bw, "f %d %d %d\n", a, b, c)
			}
		}
		offset += len(s.Vertices)
	}

	if err := bw.Flush(); err != nil {
		return errors.Wrapf(err, "Failed to write obj")
	}
	return nil
}

// FBXScene builds one Model+Geometry pair per object, all parented to the
// scene root. Vertices stay local, the object position goes to Lcl Translation.
func FBXScene(snaps []scene.Snapshot, filename string) *fbxbuilder.FBXBuilder {
	f := fbxbuilder.NewFBXBuilder(filename)

	for _, s := range snaps {
		vertices := make([]float64, 0, len(s.Vertices)*3)
		for _, v := range s.Vertices {
			vertices = append(vertices, float64(v[0]), float64(v[1]), float64(v[2]))
		}
		// last index of every polygon is stored as -(i)-1
		indexes := make([]int32, 0, len(s.Indices))
		for i := 0; i+2 < len(s.Indices); i += 3 {
			indexes = append(indexes, int32(s.Indices[i]), int32(s.Indices[i+1]), -int32(s.Indices[i+2])-1)
		}

		geometryId := f.GenerateId()
		geometryLayer := bfbx73.Layer(0).AddNodes(
			bfbx73.Version(100),
		)
		geometry := bfbx73.Geometry(geometryId, "\x00\x01Geometry", "Mesh").AddNodes(
			bfbx73.GeometryVersion(124),
			bfbx73.Vertices(vertices),
			bfbx73.PolygonVertexIndex(indexes),
			geometryLayer,
		)

		if len(s.Normals) == len(s.Vertices) {
			normals := make([]float64, 0, len(s.Normals)*3)
			for _, n := range s.Normals {
				normals = append(normals, float64(n[0]), float64(n[1]), float64(n[2]))
			}
			geometry.AddNode(
				bfbx73.LayerElementNormal(0).AddNodes(
					bfbx73.Version(101),
					bfbx73.Name(""),
					bfbx73.MappingInformationType("ByVertice"),
					bfbx73.ReferenceInformationType("Direct"),
					bfbx73.Normals(normals),
				),
			)
			geometryLayer.AddNode(
				bfbx73.LayerElement().AddNodes(
					bfbx73.Type("LayerElementNormal"),
					bfbx73.TypedIndex(0),
				),
			)
		}

		modelId := f.GenerateId()
		p := s.Position
		model := bfbx73.Model(modelId, s.Name+"\x00\x01Model", "Mesh").AddNodes(
			bfbx73.Version(232),
			bfbx73.Properties70().AddNodes(
				bfbx73.P("Lcl Translation", "Lcl Translation", "", "A", float64(p[0]), float64(p[1]), float64(p[2])),
			),
			bfbx73.Shading(true),
			bfbx73.Culling("CullingOff"),
		)

		f.AddObjects(model, geometry)
		f.AddConnections(
			bfbx73.C("OO", geometryId, modelId),
			bfbx73.C("OO", modelId, 0),
		)
	}
	return f
}

func FBX(w io.Writer, snaps []scene.Snapshot) error {
	if err := FBXScene(snaps, "frame.fbx").Write(w); err != nil {
		return errors.Wrapf(err, "Failed to encode fbx")
	}
	return nil
}
