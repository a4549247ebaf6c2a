package codec

import (
	"github.com/Faultbox/bmesh-gltf/pkg/bmesh"
	"github.com/Faultbox/bmesh-gltf/pkg/extension"
)

func encodeVertices(m *bmesh.Mesh, maps *IndexMaps, opts Options) *extension.Vertices {
	if len(maps.Verts) == 0 {
		return nil
	}

	positions := make([]float32, 0, 3*len(maps.Verts))
	normals := make([]float32, 0, 3*len(maps.Verts))
	var adjacency []uint32
	for _, v := range maps.Verts {
		vert := m.Vert(v)
		positions = append(positions, vert.Co.X, vert.Co.Y, vert.Co.Z)
		normals = append(normals, vert.Normal.X, vert.Normal.Y, vert.Normal.Z)
		if opts.VertexAdjacency {
			for _, e := range m.VertEdges(v) {
				adjacency = append(adjacency, maps.edge(e))
			}
		}
	}

	out := &extension.Vertices{
		Count:     uint32(len(maps.Verts)),
		Positions: packFloat32s(positions, extension.Vec3),
		Attributes: map[string]extension.Source{
			extension.AttrNormal: packFloat32s(normals, extension.Vec3),
		},
	}
	if opts.VertexAdjacency {
		out.Edges = packUint32s(adjacency, extension.Scalar, extension.ArrayBuffer)
	}

	for layer := 0; layer < m.NumColorLayers(); layer++ {
		colors := make([]float32, 0, 4*len(maps.Verts))
		for _, v := range maps.Verts {
			c := m.Color(layer, v)
			colors = append(colors, c[0], c[1], c[2], c[3])
		}
		out.Attributes[colorName(layer)] = packFloat32s(colors, extension.Vec4)
	}
	return out
}
