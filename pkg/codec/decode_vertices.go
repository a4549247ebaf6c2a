package codec

import (
	"go.uber.org/zap"

	"github.com/Faultbox/bmesh-gltf/pkg/bmesh"
	"github.com/Faultbox/bmesh-gltf/pkg/extension"
	"github.com/Faultbox/bmesh-gltf/pkg/math"
)

// decodeVertices creates one vertex per position and returns the handles
// indexed by document vertex id.
func (s *decodeState) decodeVertices(sec *extension.Vertices) []bmesh.VertID {
	positions, err := s.r.Float32s(sec.Positions, -1, extension.Vec3)
	if err != nil {
		s.unreadable("vertices.positions", err)
		return nil
	}
	n := len(positions) / 3
	if uint32(n) != sec.Count {
		s.log.Warn("vertex count differs from positions",
			zap.Uint32("count", sec.Count), zap.Int("positions", n))
	}

	verts := make([]bmesh.VertID, n)
	for i := range verts {
		s.index = i
		verts[i] = s.mesh.AddVert(math.Vec3{X: positions[3*i], Y: positions[3*i+1], Z: positions[3*i+2]})
	}
	s.stats.Vertices = n
	return verts
}

// decodeVertexAttributes applies normals and colors by vertex index. It runs
// as its own stage so a failure here keeps the vertices.
func (s *decodeState) decodeVertexAttributes(sec *extension.Vertices, verts []bmesh.VertID) {
	n := len(verts)
	if src, ok := sec.Attributes[extension.AttrNormal]; ok {
		normals, err := s.r.Float32s(src, n, extension.Vec3)
		if err != nil {
			s.unreadable("vertices.attributes."+extension.AttrNormal, err)
		} else {
			for i, v := range verts {
				s.index = i
				s.mesh.Vert(v).Normal = math.Vec3{X: normals[3*i], Y: normals[3*i+1], Z: normals[3*i+2]}
			}
			s.hasVertexNormals = true
		}
	}

	for layer := 0; ; layer++ {
		name := colorName(layer)
		src, ok := sec.Attributes[name]
		if !ok {
			break
		}
		colors, err := s.r.Float32s(src, n, extension.Vec4)
		if err != nil {
			s.unreadable("vertices.attributes."+name, err)
			continue
		}
		idx := s.mesh.AddColorLayer(name)
		for i, v := range verts {
			s.mesh.SetColor(idx, v, [4]float32{colors[4*i], colors[4*i+1], colors[4*i+2], colors[4*i+3]})
		}
		s.stats.ColorLayers++
	}
}

// resolveVert maps a document vertex id to its handle.
func resolveVert(verts []bmesh.VertID, id uint32) (bmesh.VertID, bool) {
	if int64(id) >= int64(len(verts)) {
		return bmesh.NoVert, false
	}
	return verts[id], true
}
