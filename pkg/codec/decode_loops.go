package codec

import (
	"go.uber.org/zap"

	"github.com/Faultbox/bmesh-gltf/pkg/bmesh"
	"github.com/Faultbox/bmesh-gltf/pkg/extension"
	"github.com/Faultbox/bmesh-gltf/pkg/math"
)

// decodeLoops applies per-loop UV layers to the faces created from the
// document. Values are looked up by document loop id, which is how the
// encoder laid them out. The stored topology is only checked against the
// rebuilt mesh.
func (s *decodeState) decodeLoops(sec *extension.Loops, runs *faceRuns, edges []bmesh.EdgeID) {
	total := len(runs.corners)
	if int(sec.Count) != total {
		s.log.Warn("loop count differs from face corners", zap.Uint32("count", sec.Count), zap.Int("corners", total))
	}

	if sec.Topology != nil {
		topology, err := s.r.Uint32s(sec.Topology, total*extension.TopologyStride, extension.Scalar)
		if err != nil {
			s.unreadable("loops.topology", err)
		} else {
			s.checkTopology(topology, runs, edges)
		}
	}

	for layer := 0; ; layer++ {
		name := texcoordName(layer)
		src, ok := sec.Attributes[name]
		if !ok {
			break
		}
		uvs, err := s.r.Float32s(src, total, extension.Vec2)
		if err != nil {
			s.unreadable("loops.attributes."+name, err)
			continue
		}
		idx := s.mesh.AddUVLayer(name)
		for i, f := range runs.faces {
			if f == bmesh.NoFace {
				continue
			}
			s.index = i
			for k, l := range s.mesh.FaceLoops(f) {
				d := runs.loops[i][k]
				s.mesh.SetUV(idx, l, math.Vec2{X: uvs[2*d], Y: uvs[2*d+1]})
			}
		}
		s.stats.UVLayers++
	}
}

// checkTopology counts loops whose stored vertex, edge, face, next or prev
// disagree with the rebuilt mesh.
func (s *decodeState) checkTopology(topology []uint32, runs *faceRuns, edges []bmesh.EdgeID) {
	for i, f := range runs.faces {
		if f == bmesh.NoFace {
			continue
		}
		s.index = i
		start := runs.offsets[i]
		arity := runs.offsets[i+1] - start
		loops := s.mesh.FaceLoops(f)
		whole := uint32(len(loops)) == arity

		for k, l := range loops {
			d := runs.loops[i][k]
			t := topology[extension.TopologyStride*int(d):]
			ok := t[0] == runs.corners[d] && t[2] == uint32(i)
			if whole {
				ok = ok &&
					t[3] == start+(uint32(k)+1)%arity &&
					t[4] == start+(uint32(k)+arity-1)%arity
			}
			if edges != nil && int64(t[1]) < int64(len(edges)) && edges[t[1]] != bmesh.NoEdge {
				ok = ok && s.mesh.Loop(l).Edge == edges[t[1]]
			}
			if !ok {
				s.stats.TopologyMismatches++
			}
		}
	}
	if s.stats.TopologyMismatches > 0 {
		s.log.Debug("stored loop topology differs from rebuilt mesh", zap.Int("mismatches", s.stats.TopologyMismatches))
	}
}
