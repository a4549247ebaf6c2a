// Package bmesh implements an editable boundary-representation polygon mesh.
//
// Elements live in index-addressable arenas. Handles (VertID, EdgeID, FaceID,
// LoopID) are arena slots: they stay valid until the element is removed, and
// removal leaves a tombstone, so the live handles of a mesh are not
// necessarily dense. A Mesh is an explicitly managed resource: callers must
// release it with Free once they are done with it.
package bmesh

import (
	"errors"
	"sync/atomic"

	"github.com/Faultbox/bmesh-gltf/pkg/math"
)

// Element handles.
type (
	VertID int32
	EdgeID int32
	FaceID int32
	LoopID int32
)

// Sentinel handles for "no element".
const (
	NoVert VertID = -1
	NoEdge EdgeID = -1
	NoFace FaceID = -1
	NoLoop LoopID = -1
)

// Mesh operation errors.
var (
	ErrFreed           = errors.New("bmesh: mesh has been freed")
	ErrInvalidVert     = errors.New("bmesh: invalid vertex")
	ErrInvalidEdge     = errors.New("bmesh: invalid edge")
	ErrInvalidFace     = errors.New("bmesh: invalid face")
	ErrDegenerateEdge  = errors.New("bmesh: edge endpoints are the same vertex")
	ErrEdgeExists      = errors.New("bmesh: edge already exists")
	ErrFaceTooSmall    = errors.New("bmesh: face needs at least 3 vertices")
	ErrDuplicateVertex = errors.New("bmesh: face uses a vertex more than once")
	ErrFaceExists      = errors.New("bmesh: face already exists")
)

// live counts meshes that were allocated with New and not yet freed.
var live atomic.Int64

// Live returns the number of meshes allocated with New that have not been freed.
func Live() int64 {
	return live.Load()
}

// Vert is a mesh vertex.
type Vert struct {
	Co     math.Vec3 // Position
	Normal math.Vec3 // Vertex normal

	edges []EdgeID // disk list, insertion order
	alive bool
}

// Edge connects two vertices.
type Edge struct {
	V      [2]VertID // Endpoints in creation order
	Smooth bool      // Shading continuity across the edge

	loops []LoopID // radial list, insertion order
	alive bool
}

// Face is a polygon with three or more corners.
type Face struct {
	Normal math.Vec3
	Smooth bool

	loops []LoopID // winding order
	alive bool
}

// Loop is one corner of one face.
type Loop struct {
	Vert VertID
	Edge EdgeID // Edge from Vert to the next loop's vertex
	Face FaceID

	next, prev LoopID
	alive      bool
}

type uvLayer struct {
	name string
	uv   []math.Vec2 // indexed by LoopID
}

type colorLayer struct {
	name   string
	colors [][4]float32 // indexed by VertID
}

// Mesh is an editable polygon mesh.
type Mesh struct {
	verts []Vert
	edges []Edge
	faces []Face
	loops []Loop

	uvLayers    []*uvLayer
	colorLayers []*colorLayer

	numVerts, numEdges, numFaces, numLoops int

	freed bool
}

// New allocates an empty mesh. The caller owns it and must call Free.
func New() *Mesh {
	live.Add(1)
	return &Mesh{}
}

// Free releases the mesh. It is safe to call more than once; every
// accessor of a freed mesh reports no elements and mutators return ErrFreed.
func (m *Mesh) Free() {
	if m == nil || m.freed {
		return
	}
	m.freed = true
	m.verts, m.edges, m.faces, m.loops = nil, nil, nil, nil
	m.uvLayers, m.colorLayers = nil, nil
	m.numVerts, m.numEdges, m.numFaces, m.numLoops = 0, 0, 0, 0
	live.Add(-1)
}

// Freed reports whether Free has been called.
func (m *Mesh) Freed() bool {
	return m.freed
}

// NumVerts returns the number of live vertices.
func (m *Mesh) NumVerts() int { return m.numVerts }

// NumEdges returns the number of live edges.
func (m *Mesh) NumEdges() int { return m.numEdges }

// NumFaces returns the number of live faces.
func (m *Mesh) NumFaces() int { return m.numFaces }

// NumLoops returns the number of live loops.
func (m *Mesh) NumLoops() int { return m.numLoops }

// Vert returns the vertex for id, or nil if it does not exist.
func (m *Mesh) Vert(id VertID) *Vert {
	if id < 0 || int(id) >= len(m.verts) || !m.verts[id].alive {
		return nil
	}
	return &m.verts[id]
}

// Edge returns the edge for id, or nil if it does not exist.
func (m *Mesh) Edge(id EdgeID) *Edge {
	if id < 0 || int(id) >= len(m.edges) || !m.edges[id].alive {
		return nil
	}
	return &m.edges[id]
}

// Face returns the face for id, or nil if it does not exist.
func (m *Mesh) Face(id FaceID) *Face {
	if id < 0 || int(id) >= len(m.faces) || !m.faces[id].alive {
		return nil
	}
	return &m.faces[id]
}

// Loop returns the loop for id, or nil if it does not exist.
func (m *Mesh) Loop(id LoopID) *Loop {
	if id < 0 || int(id) >= len(m.loops) || !m.loops[id].alive {
		return nil
	}
	return &m.loops[id]
}

// Verts returns the live vertices in arena order.
func (m *Mesh) Verts() []VertID {
	out := make([]VertID, 0, m.numVerts)
	for i := range m.verts {
		if m.verts[i].alive {
			out = append(out, VertID(i))
		}
	}
	return out
}

// Edges returns the live edges in arena order.
func (m *Mesh) Edges() []EdgeID {
	out := make([]EdgeID, 0, m.numEdges)
	for i := range m.edges {
		if m.edges[i].alive {
			out = append(out, EdgeID(i))
		}
	}
	return out
}

// Faces returns the live faces in arena order.
func (m *Mesh) Faces() []FaceID {
	out := make([]FaceID, 0, m.numFaces)
	for i := range m.faces {
		if m.faces[i].alive {
			out = append(out, FaceID(i))
		}
	}
	return out
}

// VertCap, EdgeCap, FaceCap and LoopCap return the arena sizes, including
// tombstones. Handles are always below the matching cap.
func (m *Mesh) VertCap() int { return len(m.verts) }
func (m *Mesh) EdgeCap() int { return len(m.edges) }
func (m *Mesh) FaceCap() int { return len(m.faces) }
func (m *Mesh) LoopCap() int { return len(m.loops) }
