package codec

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/bmesh-gltf/pkg/bmesh"
	"github.com/Faultbox/bmesh-gltf/pkg/extension"
)

// decodeEdges creates the explicit edges and returns their handles indexed
// by document edge id; NoEdge marks entries that were skipped. An entry
// whose vertex pair already has an edge resolves to that edge, so the
// first-seen edge wins and later entries only contribute their smooth flag.
func (s *decodeState) decodeEdges(sec *extension.Edges, verts []bmesh.VertID) []bmesh.EdgeID {
	pairs, err := s.r.Uint32s(sec.Vertices, -1, extension.Vec2)
	if err != nil {
		s.unreadable("edges.vertices", err)
		return nil
	}

	edges := make([]bmesh.EdgeID, len(pairs)/2)
	for i := range edges {
		s.index = i
		edges[i] = bmesh.NoEdge

		a, okA := resolveVert(verts, pairs[2*i])
		b, okB := resolveVert(verts, pairs[2*i+1])
		if !okA || !okB {
			s.log.Debug("edge references missing vertex", zap.Int("index", i))
			s.stats.SkippedEdges++
			continue
		}

		id, err := s.mesh.AddEdge(a, b)
		switch {
		case errors.Is(err, bmesh.ErrEdgeExists):
			id = s.mesh.FindEdge(a, b)
			s.stats.DuplicateEdges++
		case err != nil:
			s.log.Debug("edge rejected", zap.Int("index", i), zap.Error(err))
			s.stats.SkippedEdges++
			continue
		default:
			s.stats.Edges++
		}
		edges[i] = id
	}

	if src, ok := sec.Attributes[extension.AttrSmooth]; ok {
		smooth, err := s.r.Uint8s(src, len(edges))
		if err != nil {
			s.unreadable("edges.attributes."+extension.AttrSmooth, err)
		} else {
			for i, e := range edges {
				if e != bmesh.NoEdge {
					s.mesh.Edge(e).Smooth = smooth[i] != 0
				}
			}
		}
	}
	return edges
}

// checkManifold compares stored manifold flags with the rebuilt adjacency.
// Disagreements are counted, never corrected.
func (s *decodeState) checkManifold(sec *extension.Edges, edges []bmesh.EdgeID) {
	if sec.Manifold == nil {
		return
	}
	flags, err := s.r.Uint8s(sec.Manifold, len(edges))
	if err != nil {
		s.unreadable("edges.manifold", err)
		return
	}
	for i, e := range edges {
		s.index = i
		if e == bmesh.NoEdge || flags[i] == extension.ManifoldUnknown {
			continue
		}
		manifold := len(s.mesh.EdgeFaces(e)) == 2
		if manifold != (flags[i] == extension.ManifoldYes) {
			s.stats.ManifoldMismatches++
		}
	}
	if s.stats.ManifoldMismatches > 0 {
		s.log.Debug("manifold flags differ from rebuilt mesh", zap.Int("mismatches", s.stats.ManifoldMismatches))
	}
}
