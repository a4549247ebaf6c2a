package codec

import "github.com/Faultbox/bmesh-gltf/pkg/bmesh"

// IndexMaps assigns dense ids to the live elements of one mesh. Vertices,
// edges and faces are numbered in arena order, loops in face order and then
// winding order within each face. The maps are only valid for the mesh they
// were built from and until it is next modified.
type IndexMaps struct {
	Verts []bmesh.VertID
	Edges []bmesh.EdgeID
	Faces []bmesh.FaceID
	Loops []bmesh.LoopID

	// reverse lookups indexed by arena slot; -1 for dead slots
	vertIDs []int32
	edgeIDs []int32
	faceIDs []int32
	loopIDs []int32
}

// BuildIndexMaps numbers the elements of m.
func BuildIndexMaps(m *bmesh.Mesh) *IndexMaps {
	im := &IndexMaps{
		Verts:   m.Verts(),
		Edges:   m.Edges(),
		Faces:   m.Faces(),
		Loops:   make([]bmesh.LoopID, 0, m.NumLoops()),
		vertIDs: newReverse(m.VertCap()),
		edgeIDs: newReverse(m.EdgeCap()),
		faceIDs: newReverse(m.FaceCap()),
		loopIDs: newReverse(m.LoopCap()),
	}
	for i, v := range im.Verts {
		im.vertIDs[v] = int32(i)
	}
	for i, e := range im.Edges {
		im.edgeIDs[e] = int32(i)
	}
	for i, f := range im.Faces {
		im.faceIDs[f] = int32(i)
		for _, l := range m.FaceLoops(f) {
			im.loopIDs[l] = int32(len(im.Loops))
			im.Loops = append(im.Loops, l)
		}
	}
	return im
}

func newReverse(n int) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = -1
	}
	return out
}

func lookup(ids []int32, slot int32) (uint32, bool) {
	if slot < 0 || int(slot) >= len(ids) || ids[slot] < 0 {
		return 0, false
	}
	return uint32(ids[slot]), true
}

// Vert returns the dense id of v.
func (im *IndexMaps) Vert(v bmesh.VertID) (uint32, bool) { return lookup(im.vertIDs, int32(v)) }

// Edge returns the dense id of e.
func (im *IndexMaps) Edge(e bmesh.EdgeID) (uint32, bool) { return lookup(im.edgeIDs, int32(e)) }

// Face returns the dense id of f.
func (im *IndexMaps) Face(f bmesh.FaceID) (uint32, bool) { return lookup(im.faceIDs, int32(f)) }

// Loop returns the dense id of l.
func (im *IndexMaps) Loop(l bmesh.LoopID) (uint32, bool) { return lookup(im.loopIDs, int32(l)) }

// vert, edge, face and loop are used by the encoders, which only look up
// live elements of the mapped mesh.
func (im *IndexMaps) vert(v bmesh.VertID) uint32 {
	id, _ := im.Vert(v)
	return id
}

func (im *IndexMaps) edge(e bmesh.EdgeID) uint32 {
	id, _ := im.Edge(e)
	return id
}

func (im *IndexMaps) face(f bmesh.FaceID) uint32 {
	id, _ := im.Face(f)
	return id
}

func (im *IndexMaps) loop(l bmesh.LoopID) uint32 {
	id, _ := im.Loop(l)
	return id
}
