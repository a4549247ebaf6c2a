package bmesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/bmesh-gltf/pkg/math"
)

// ErrInvalidPolyMesh is returned when a PolyMesh violates its layout invariants.
var ErrInvalidPolyMesh = errors.New("bmesh: invalid poly mesh")

// PolyMesh is the flat, persistent mesh representation that editable meshes
// are committed into. Faces use a CSR layout: face i owns the corners
// FaceVerts[FaceOffsets[i]:FaceOffsets[i+1]].
type PolyMesh struct {
	Name string

	Positions []math.Vec3
	Normals   []math.Vec3 // per vertex, optional

	Edges      [][2]uint32
	EdgeSmooth []bool

	FaceOffsets []uint32 // len = faces+1
	FaceVerts   []uint32
	FaceNormals []math.Vec3
	FaceSmooth  []bool

	UVLayers    []UVLayer    // per corner
	ColorLayers []ColorLayer // per vertex
}

// UVLayer holds one texture coordinate per face corner.
type UVLayer struct {
	Name string
	UV   []math.Vec2
}

// ColorLayer holds one RGBA color per vertex.
type ColorLayer struct {
	Name   string
	Colors [][4]float32
}

// NumFaces returns the number of faces.
func (p *PolyMesh) NumFaces() int {
	if len(p.FaceOffsets) == 0 {
		return 0
	}
	return len(p.FaceOffsets) - 1
}

// Face returns the vertex indices of face i.
func (p *PolyMesh) Face(i int) []uint32 {
	return p.FaceVerts[p.FaceOffsets[i]:p.FaceOffsets[i+1]]
}

// Validate checks the CSR layout, index ranges and per-element array lengths.
func (p *PolyMesh) Validate() error {
	nv := uint32(len(p.Positions))
	if p.Normals != nil && len(p.Normals) != len(p.Positions) {
		return fmt.Errorf("%w: %d normals for %d vertices", ErrInvalidPolyMesh, len(p.Normals), nv)
	}
	for i, e := range p.Edges {
		if e[0] >= nv || e[1] >= nv {
			return fmt.Errorf("%w: edge %d references missing vertex", ErrInvalidPolyMesh, i)
		}
	}
	if p.EdgeSmooth != nil && len(p.EdgeSmooth) != len(p.Edges) {
		return fmt.Errorf("%w: %d edge smooth flags for %d edges", ErrInvalidPolyMesh, len(p.EdgeSmooth), len(p.Edges))
	}
	if len(p.FaceOffsets) > 0 {
		if p.FaceOffsets[0] != 0 || p.FaceOffsets[len(p.FaceOffsets)-1] != uint32(len(p.FaceVerts)) {
			return fmt.Errorf("%w: face offsets do not span corner list", ErrInvalidPolyMesh)
		}
		for i := 1; i < len(p.FaceOffsets); i++ {
			if p.FaceOffsets[i] < p.FaceOffsets[i-1] {
				return fmt.Errorf("%w: face offsets decrease at %d", ErrInvalidPolyMesh, i)
			}
		}
	} else if len(p.FaceVerts) > 0 {
		return fmt.Errorf("%w: corners without face offsets", ErrInvalidPolyMesh)
	}
	for i, v := range p.FaceVerts {
		if v >= nv {
			return fmt.Errorf("%w: corner %d references missing vertex %d", ErrInvalidPolyMesh, i, v)
		}
	}
	nf := p.NumFaces()
	if p.FaceNormals != nil && len(p.FaceNormals) != nf {
		return fmt.Errorf("%w: %d face normals for %d faces", ErrInvalidPolyMesh, len(p.FaceNormals), nf)
	}
	if p.FaceSmooth != nil && len(p.FaceSmooth) != nf {
		return fmt.Errorf("%w: %d face smooth flags for %d faces", ErrInvalidPolyMesh, len(p.FaceSmooth), nf)
	}
	for _, layer := range p.UVLayers {
		if len(layer.UV) != len(p.FaceVerts) {
			return fmt.Errorf("%w: uv layer %q has %d values for %d corners", ErrInvalidPolyMesh, layer.Name, len(layer.UV), len(p.FaceVerts))
		}
	}
	for _, layer := range p.ColorLayers {
		if len(layer.Colors) != len(p.Positions) {
			return fmt.Errorf("%w: color layer %q has %d values for %d vertices", ErrInvalidPolyMesh, layer.Name, len(layer.Colors), nv)
		}
	}
	return nil
}

// ToPolyMesh commits the live elements of m into a new PolyMesh. Elements
// are numbered densely in arena order; corners follow face order.
func (m *Mesh) ToPolyMesh() *PolyMesh {
	p := &PolyMesh{}

	vertIndex := make([]uint32, len(m.verts))
	for i := range m.verts {
		if !m.verts[i].alive {
			continue
		}
		vertIndex[i] = uint32(len(p.Positions))
		p.Positions = append(p.Positions, m.verts[i].Co)
		p.Normals = append(p.Normals, m.verts[i].Normal)
	}

	for i := range m.edges {
		e := &m.edges[i]
		if !e.alive {
			continue
		}
		p.Edges = append(p.Edges, [2]uint32{vertIndex[e.V[0]], vertIndex[e.V[1]]})
		p.EdgeSmooth = append(p.EdgeSmooth, e.Smooth)
	}

	p.UVLayers = make([]UVLayer, len(m.uvLayers))
	for li, layer := range m.uvLayers {
		p.UVLayers[li].Name = layer.name
	}
	p.FaceOffsets = append(p.FaceOffsets, 0)
	for i := range m.faces {
		f := &m.faces[i]
		if !f.alive {
			continue
		}
		for _, l := range f.loops {
			p.FaceVerts = append(p.FaceVerts, vertIndex[m.loops[l].Vert])
			for li, layer := range m.uvLayers {
				p.UVLayers[li].UV = append(p.UVLayers[li].UV, layer.uv[l])
			}
		}
		p.FaceOffsets = append(p.FaceOffsets, uint32(len(p.FaceVerts)))
		p.FaceNormals = append(p.FaceNormals, f.Normal)
		p.FaceSmooth = append(p.FaceSmooth, f.Smooth)
	}

	for _, layer := range m.colorLayers {
		out := ColorLayer{Name: layer.name}
		for i := range m.verts {
			if m.verts[i].alive {
				out.Colors = append(out.Colors, layer.colors[i])
			}
		}
		p.ColorLayers = append(p.ColorLayers, out)
	}
	return p
}

// FromPolyMesh builds an editable mesh from p. Explicit edges are created
// first, so their endpoint order and smooth flags are kept. Vertex normals
// are recomputed when p carries none, and face normals when p carries none.
// The returned mesh must be freed by the caller.
func FromPolyMesh(p *PolyMesh) (*Mesh, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	m := New()
	verts := make([]VertID, len(p.Positions))
	for i, co := range p.Positions {
		verts[i] = m.AddVert(co)
		if p.Normals != nil {
			m.verts[verts[i]].Normal = p.Normals[i]
		}
	}

	for i, e := range p.Edges {
		id, err := m.AddEdge(verts[e[0]], verts[e[1]])
		if errors.Is(err, ErrEdgeExists) {
			id = m.FindEdge(verts[e[0]], verts[e[1]])
		} else if err != nil {
			m.Free()
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		if p.EdgeSmooth != nil {
			m.edges[id].Smooth = p.EdgeSmooth[i]
		}
	}

	uvs := make([]int, len(p.UVLayers))
	for i, layer := range p.UVLayers {
		uvs[i] = m.AddUVLayer(layer.Name)
	}
	for i := 0; i < p.NumFaces(); i++ {
		corners := p.Face(i)
		fv := make([]VertID, len(corners))
		for j, c := range corners {
			fv[j] = verts[c]
		}
		f, err := m.AddFace(fv)
		if err != nil {
			m.Free()
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
		if p.FaceSmooth != nil {
			m.faces[f].Smooth = p.FaceSmooth[i]
		}
		if p.FaceNormals != nil {
			m.faces[f].Normal = p.FaceNormals[i]
		}
		for j, l := range m.faces[f].loops {
			for li, layer := range p.UVLayers {
				m.SetUV(uvs[li], l, layer.UV[int(p.FaceOffsets[i])+j])
			}
		}
	}

	for _, layer := range p.ColorLayers {
		idx := m.AddColorLayer(layer.Name)
		for i, c := range layer.Colors {
			m.SetColor(idx, verts[i], c)
		}
	}

	if p.Normals == nil {
		faceNormals := make([]math.Vec3, 0, m.numFaces)
		if p.FaceNormals != nil {
			for i := range m.faces {
				faceNormals = append(faceNormals, m.faces[i].Normal)
			}
		}
		m.RecalcNormals()
		if p.FaceNormals != nil {
			for i := range m.faces {
				m.faces[i].Normal = faceNormals[i]
			}
		}
	}
	return m, nil
}
