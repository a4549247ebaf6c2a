package codec

import (
	"github.com/Faultbox/bmesh-gltf/pkg/bmesh"
	"github.com/Faultbox/bmesh-gltf/pkg/extension"
)

func encodeEdges(m *bmesh.Mesh, maps *IndexMaps, opts Options) *extension.Edges {
	if len(maps.Edges) == 0 {
		return nil
	}

	pairs := make([]uint32, 0, 2*len(maps.Edges))
	smooth := make([]uint8, 0, len(maps.Edges))
	manifold := make([]uint8, 0, len(maps.Edges))
	var adjacency []uint32
	for _, e := range maps.Edges {
		edge := m.Edge(e)
		pairs = append(pairs, maps.vert(edge.V[0]), maps.vert(edge.V[1]))
		smooth = append(smooth, boolByte(edge.Smooth))

		faces := m.EdgeFaces(e)
		for _, f := range faces {
			adjacency = append(adjacency, maps.face(f))
		}
		switch {
		case !opts.PreserveManifold:
			manifold = append(manifold, extension.ManifoldUnknown)
		case len(faces) == 2:
			manifold = append(manifold, extension.ManifoldYes)
		default:
			manifold = append(manifold, extension.ManifoldNo)
		}
	}

	return &extension.Edges{
		Count:    uint32(len(maps.Edges)),
		Vertices: packUint32s(pairs, extension.Vec2, extension.ElementArrayBuffer),
		Faces:    packUint32s(adjacency, extension.Scalar, extension.ArrayBuffer),
		Manifold: packUint8s(manifold),
		Attributes: map[string]extension.Source{
			extension.AttrSmooth: packUint8s(smooth),
		},
	}
}
