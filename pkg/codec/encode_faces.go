package codec

import (
	"github.com/Faultbox/bmesh-gltf/pkg/bmesh"
	"github.com/Faultbox/bmesh-gltf/pkg/extension"
)

func encodeFaces(m *bmesh.Mesh, maps *IndexMaps, opts Options) *extension.Faces {
	if len(maps.Faces) == 0 {
		return nil
	}

	offsets := make([]uint32, 1, len(maps.Faces)+1)
	corners := make([]uint32, 0, len(maps.Loops))
	normals := make([]float32, 0, 3*len(maps.Faces))
	smooth := make([]uint8, 0, len(maps.Faces))
	var edges, loops []uint32
	for _, f := range maps.Faces {
		face := m.Face(f)
		for _, v := range m.FaceVerts(f) {
			corners = append(corners, maps.vert(v))
		}
		offsets = append(offsets, uint32(len(corners)))
		normals = append(normals, face.Normal.X, face.Normal.Y, face.Normal.Z)
		smooth = append(smooth, boolByte(face.Smooth))

		if opts.FaceAdjacency {
			for _, e := range m.FaceEdges(f) {
				edges = append(edges, maps.edge(e))
			}
			for _, l := range m.FaceLoops(f) {
				loops = append(loops, maps.loop(l))
			}
		}
	}

	out := &extension.Faces{
		Count:    uint32(len(maps.Faces)),
		Vertices: packUint32s(corners, extension.Scalar, extension.ArrayBuffer),
		Offsets:  packUint32s(offsets, extension.Scalar, extension.ArrayBuffer),
		Normals:  packFloat32s(normals, extension.Vec3),
		Smooth:   packUint8s(smooth),
	}
	if opts.FaceAdjacency {
		out.Edges = packUint32s(edges, extension.Scalar, extension.ArrayBuffer)
		out.Loops = packUint32s(loops, extension.Scalar, extension.ArrayBuffer)
	}
	return out
}
