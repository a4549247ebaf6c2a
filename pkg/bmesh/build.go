package bmesh

import (
	"fmt"

	"github.com/Faultbox/bmesh-gltf/pkg/math"
)

// AddVert creates a vertex at co. Returns NoVert on a freed mesh.
func (m *Mesh) AddVert(co math.Vec3) VertID {
	if m.freed {
		return NoVert
	}
	id := VertID(len(m.verts))
	m.verts = append(m.verts, Vert{Co: co, alive: true})
	for _, layer := range m.colorLayers {
		layer.colors = append(layer.colors, defaultColor)
	}
	m.numVerts++
	return id
}

// AddEdge creates an edge between a and b. The endpoint order is kept as
// given. An edge that already connects the pair is reported with
// ErrEdgeExists; use FindEdge to retrieve it.
func (m *Mesh) AddEdge(a, b VertID) (EdgeID, error) {
	if m.freed {
		return NoEdge, ErrFreed
	}
	if m.Vert(a) == nil {
		return NoEdge, fmt.Errorf("%w: %d", ErrInvalidVert, a)
	}
	if m.Vert(b) == nil {
		return NoEdge, fmt.Errorf("%w: %d", ErrInvalidVert, b)
	}
	if a == b {
		return NoEdge, fmt.Errorf("%w: %d", ErrDegenerateEdge, a)
	}
	if m.FindEdge(a, b) != NoEdge {
		return NoEdge, fmt.Errorf("%w: %d-%d", ErrEdgeExists, a, b)
	}
	return m.newEdge(a, b), nil
}

func (m *Mesh) newEdge(a, b VertID) EdgeID {
	id := EdgeID(len(m.edges))
	m.edges = append(m.edges, Edge{V: [2]VertID{a, b}, Smooth: true, alive: true})
	m.verts[a].edges = append(m.verts[a].edges, id)
	m.verts[b].edges = append(m.verts[b].edges, id)
	m.numEdges++
	return id
}

// FindEdge returns the first edge, in a's disk order, whose endpoints are
// {a, b} in either order, or NoEdge.
func (m *Mesh) FindEdge(a, b VertID) EdgeID {
	v := m.Vert(a)
	if v == nil {
		return NoEdge
	}
	for _, e := range v.edges {
		ev := m.edges[e].V
		if (ev[0] == a && ev[1] == b) || (ev[0] == b && ev[1] == a) {
			return e
		}
	}
	return NoEdge
}

// AddFace creates a face through verts in the given winding order, creating
// any missing edges. The first loop of the face belongs to verts[0].
func (m *Mesh) AddFace(verts []VertID) (FaceID, error) {
	if m.freed {
		return NoFace, ErrFreed
	}
	if len(verts) < 3 {
		return NoFace, fmt.Errorf("%w: got %d", ErrFaceTooSmall, len(verts))
	}
	seen := make(map[VertID]struct{}, len(verts))
	for _, v := range verts {
		if m.Vert(v) == nil {
			return NoFace, fmt.Errorf("%w: %d", ErrInvalidVert, v)
		}
		if _, dup := seen[v]; dup {
			return NoFace, fmt.Errorf("%w: %d", ErrDuplicateVertex, v)
		}
		seen[v] = struct{}{}
	}
	if f := m.findFace(verts, seen); f != NoFace {
		return NoFace, fmt.Errorf("%w: face %d", ErrFaceExists, f)
	}

	n := len(verts)
	edges := make([]EdgeID, n)
	for i := range verts {
		a, b := verts[i], verts[(i+1)%n]
		e := m.FindEdge(a, b)
		if e == NoEdge {
			e = m.newEdge(a, b)
		}
		edges[i] = e
	}

	fid := FaceID(len(m.faces))
	first := LoopID(len(m.loops))
	face := Face{loops: make([]LoopID, n), alive: true}
	for i := range verts {
		lid := first + LoopID(i)
		face.loops[i] = lid
		m.loops = append(m.loops, Loop{
			Vert:  verts[i],
			Edge:  edges[i],
			Face:  fid,
			next:  first + LoopID((i+1)%n),
			prev:  first + LoopID((i+n-1)%n),
			alive: true,
		})
		m.edges[edges[i]].loops = append(m.edges[edges[i]].loops, lid)
	}
	for _, layer := range m.uvLayers {
		layer.uv = append(layer.uv, make([]math.Vec2, n)...)
	}
	m.faces = append(m.faces, face)
	m.numFaces++
	m.numLoops += n
	m.RecalcFaceNormal(fid)
	return fid, nil
}

// findFace returns an existing face using exactly the vertex set of verts.
func (m *Mesh) findFace(verts []VertID, set map[VertID]struct{}) FaceID {
	for _, e := range m.verts[verts[0]].edges {
		for _, l := range m.edges[e].loops {
			f := m.loops[l].Face
			loops := m.faces[f].loops
			if len(loops) != len(verts) {
				continue
			}
			match := true
			for _, fl := range loops {
				if _, ok := set[m.loops[fl].Vert]; !ok {
					match = false
					break
				}
			}
			if match {
				return f
			}
		}
	}
	return NoFace
}

// RemoveFace deletes a face and its loops. Edges and vertices are kept.
func (m *Mesh) RemoveFace(f FaceID) error {
	face := m.Face(f)
	if face == nil {
		return fmt.Errorf("%w: %d", ErrInvalidFace, f)
	}
	for _, l := range face.loops {
		e := &m.edges[m.loops[l].Edge]
		e.loops = removeID(e.loops, l)
		m.loops[l].alive = false
	}
	m.numLoops -= len(face.loops)
	face.loops = nil
	face.alive = false
	m.numFaces--
	return nil
}

// RemoveEdge deletes an edge together with every face that uses it.
func (m *Mesh) RemoveEdge(e EdgeID) error {
	edge := m.Edge(e)
	if edge == nil {
		return fmt.Errorf("%w: %d", ErrInvalidEdge, e)
	}
	for len(edge.loops) > 0 {
		if err := m.RemoveFace(m.loops[edge.loops[0]].Face); err != nil {
			return err
		}
	}
	for _, v := range edge.V {
		m.verts[v].edges = removeID(m.verts[v].edges, e)
	}
	edge.alive = false
	m.numEdges--
	return nil
}

// RemoveVert deletes a vertex together with its edges and faces.
func (m *Mesh) RemoveVert(v VertID) error {
	vert := m.Vert(v)
	if vert == nil {
		return fmt.Errorf("%w: %d", ErrInvalidVert, v)
	}
	for len(vert.edges) > 0 {
		if err := m.RemoveEdge(vert.edges[0]); err != nil {
			return err
		}
	}
	vert.alive = false
	m.numVerts--
	return nil
}

func removeID[T comparable](list []T, id T) []T {
	for i, x := range list {
		if x == id {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
