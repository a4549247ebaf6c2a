package bmesh

// VertEdges returns the edges incident to v in insertion order.
func (m *Mesh) VertEdges(v VertID) []EdgeID {
	vert := m.Vert(v)
	if vert == nil {
		return nil
	}
	return append([]EdgeID(nil), vert.edges...)
}

// EdgeFaces returns the faces using e, in radial order. A face appears once
// per loop it has on the edge.
func (m *Mesh) EdgeFaces(e EdgeID) []FaceID {
	edge := m.Edge(e)
	if edge == nil {
		return nil
	}
	out := make([]FaceID, len(edge.loops))
	for i, l := range edge.loops {
		out[i] = m.loops[l].Face
	}
	return out
}

// EdgeLoops returns the loops on e in radial order.
func (m *Mesh) EdgeLoops(e EdgeID) []LoopID {
	edge := m.Edge(e)
	if edge == nil {
		return nil
	}
	return append([]LoopID(nil), edge.loops...)
}

// FaceLoops returns the loops of f in winding order.
func (m *Mesh) FaceLoops(f FaceID) []LoopID {
	face := m.Face(f)
	if face == nil {
		return nil
	}
	return append([]LoopID(nil), face.loops...)
}

// FaceVerts returns the vertices of f in winding order.
func (m *Mesh) FaceVerts(f FaceID) []VertID {
	face := m.Face(f)
	if face == nil {
		return nil
	}
	out := make([]VertID, len(face.loops))
	for i, l := range face.loops {
		out[i] = m.loops[l].Vert
	}
	return out
}

// FaceEdges returns the edges of f in winding order.
func (m *Mesh) FaceEdges(f FaceID) []EdgeID {
	face := m.Face(f)
	if face == nil {
		return nil
	}
	out := make([]EdgeID, len(face.loops))
	for i, l := range face.loops {
		out[i] = m.loops[l].Edge
	}
	return out
}

// LoopNext returns the next loop around the face of l.
func (m *Mesh) LoopNext(l LoopID) LoopID {
	loop := m.Loop(l)
	if loop == nil {
		return NoLoop
	}
	return loop.next
}

// LoopPrev returns the previous loop around the face of l.
func (m *Mesh) LoopPrev(l LoopID) LoopID {
	loop := m.Loop(l)
	if loop == nil {
		return NoLoop
	}
	return loop.prev
}

// LoopRadialNext returns the next loop around the edge of l. On an edge with
// a single face this is l itself.
func (m *Mesh) LoopRadialNext(l LoopID) LoopID {
	return m.radialStep(l, 1)
}

// LoopRadialPrev returns the previous loop around the edge of l.
func (m *Mesh) LoopRadialPrev(l LoopID) LoopID {
	return m.radialStep(l, -1)
}

func (m *Mesh) radialStep(l LoopID, step int) LoopID {
	loop := m.Loop(l)
	if loop == nil {
		return NoLoop
	}
	radial := m.edges[loop.Edge].loops
	for i, rl := range radial {
		if rl == l {
			n := len(radial)
			return radial[((i+step)%n+n)%n]
		}
	}
	return l
}
