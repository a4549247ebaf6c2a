package bmesh

import "github.com/Faultbox/bmesh-gltf/pkg/math"

// RecalcFaceNormal recomputes the normal of f from its vertex positions.
func (m *Mesh) RecalcFaceNormal(f FaceID) {
	face := m.Face(f)
	if face == nil {
		return
	}
	points := make([]math.Vec3, len(face.loops))
	for i, l := range face.loops {
		points[i] = m.verts[m.loops[l].Vert].Co
	}
	face.Normal = math.NewellNormal(points)
}

// RecalcNormals recomputes every face normal, then sets each vertex normal
// to the normalised sum of its adjacent face normals. Vertices without
// faces keep their current normal.
func (m *Mesh) RecalcNormals() {
	sums := make([]math.Vec3, len(m.verts))
	used := make([]bool, len(m.verts))
	for i := range m.faces {
		if !m.faces[i].alive {
			continue
		}
		m.RecalcFaceNormal(FaceID(i))
		n := m.faces[i].Normal
		for _, l := range m.faces[i].loops {
			v := m.loops[l].Vert
			sums[v] = sums[v].Add(n)
			used[v] = true
		}
	}
	for i := range m.verts {
		if m.verts[i].alive && used[i] {
			m.verts[i].Normal = sums[i].Normalize()
		}
	}
}
