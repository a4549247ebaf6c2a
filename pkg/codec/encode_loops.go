package codec

import (
	"github.com/Faultbox/bmesh-gltf/pkg/bmesh"
	"github.com/Faultbox/bmesh-gltf/pkg/extension"
)

func encodeLoops(m *bmesh.Mesh, maps *IndexMaps) *extension.Loops {
	if len(maps.Loops) == 0 {
		return nil
	}

	topology := make([]uint32, 0, extension.TopologyStride*len(maps.Loops))
	for _, l := range maps.Loops {
		loop := m.Loop(l)
		radial := maps.loop(radialPartner(m, l))
		topology = append(topology,
			maps.vert(loop.Vert),
			maps.edge(loop.Edge),
			maps.face(loop.Face),
			maps.loop(m.LoopNext(l)),
			maps.loop(m.LoopPrev(l)),
			radial,
			radial,
		)
	}

	out := &extension.Loops{
		Count:    uint32(len(maps.Loops)),
		Topology: packUint32s(topology, extension.Scalar, extension.ArrayBuffer),
	}
	if n := m.NumUVLayers(); n > 0 {
		out.Attributes = make(map[string]extension.Source, n)
		for layer := 0; layer < n; layer++ {
			uvs := make([]float32, 0, 2*len(maps.Loops))
			for _, l := range maps.Loops {
				uv := m.UV(layer, l)
				uvs = append(uvs, uv.X, uv.Y)
			}
			out.Attributes[texcoordName(layer)] = packFloat32s(uvs, extension.Vec2)
		}
	}
	return out
}

// radialPartner returns the loop across the edge of l: the loop of the first
// other face on that edge whose edge matches. Boundary edges and edges with
// no such loop yield l itself. With more than two faces on the edge the
// first other face wins, so radial next and prev are the same loop.
func radialPartner(m *bmesh.Mesh, l bmesh.LoopID) bmesh.LoopID {
	loop := m.Loop(l)
	for _, f := range m.EdgeFaces(loop.Edge) {
		if f == loop.Face {
			continue
		}
		for _, other := range m.FaceLoops(f) {
			if m.Loop(other).Edge == loop.Edge {
				return other
			}
		}
		break
	}
	return l
}
