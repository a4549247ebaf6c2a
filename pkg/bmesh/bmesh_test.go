package bmesh_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/bmesh-gltf/pkg/bmesh"
	"github.com/Faultbox/bmesh-gltf/pkg/bmesh/bmeshtest"
	"github.com/Faultbox/bmesh-gltf/pkg/math"
)

func addVerts(m *bmesh.Mesh, n int) []bmesh.VertID {
	out := make([]bmesh.VertID, n)
	for i := range out {
		out[i] = m.AddVert(math.Vec3{X: float32(i)})
	}
	return out
}

func TestAddFace_CreatesEdgesAndLoops(t *testing.T) {
	m := bmeshtest.Quad()
	defer m.Free()

	assert.Equal(t, 4, m.NumVerts())
	assert.Equal(t, 4, m.NumEdges())
	assert.Equal(t, 1, m.NumFaces())
	assert.Equal(t, 4, m.NumLoops())

	f := m.Faces()[0]
	assert.Equal(t, []bmesh.VertID{0, 1, 2, 3}, m.FaceVerts(f))

	loops := m.FaceLoops(f)
	for i, l := range loops {
		assert.Equal(t, loops[(i+1)%4], m.LoopNext(l))
		assert.Equal(t, loops[(i+3)%4], m.LoopPrev(l))
		// boundary edges point radially at themselves
		assert.Equal(t, l, m.LoopRadialNext(l))
		assert.Equal(t, l, m.LoopRadialPrev(l))
	}

	assert.InDelta(t, 1.0, float64(m.Face(f).Normal.Z), 1e-6)
	assert.False(t, m.Face(f).Smooth)
}

func TestAddEdge_Errors(t *testing.T) {
	m := bmesh.New()
	defer m.Free()
	v := addVerts(m, 2)

	e, err := m.AddEdge(v[0], v[1])
	require.NoError(t, err)
	assert.Equal(t, [2]bmesh.VertID{v[0], v[1]}, m.Edge(e).V)
	assert.True(t, m.Edge(e).Smooth)

	_, err = m.AddEdge(v[1], v[0])
	assert.ErrorIs(t, err, bmesh.ErrEdgeExists)
	assert.Equal(t, e, m.FindEdge(v[1], v[0]))

	_, err = m.AddEdge(v[0], v[0])
	assert.ErrorIs(t, err, bmesh.ErrDegenerateEdge)

	_, err = m.AddEdge(v[0], 42)
	assert.ErrorIs(t, err, bmesh.ErrInvalidVert)
}

func TestAddFace_Errors(t *testing.T) {
	m := bmesh.New()
	defer m.Free()
	v := addVerts(m, 4)

	tests := []struct {
		name    string
		verts   []bmesh.VertID
		wantErr error
	}{
		{"too small", []bmesh.VertID{v[0], v[1]}, bmesh.ErrFaceTooSmall},
		{"duplicate vertex", []bmesh.VertID{v[0], v[1], v[0]}, bmesh.ErrDuplicateVertex},
		{"missing vertex", []bmesh.VertID{v[0], v[1], 99}, bmesh.ErrInvalidVert},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.AddFace(tt.verts)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := m.AddFace([]bmesh.VertID{v[0], v[1], v[2]})
	require.NoError(t, err)
	_, err = m.AddFace([]bmesh.VertID{v[2], v[0], v[1]})
	assert.ErrorIs(t, err, bmesh.ErrFaceExists)
	assert.Equal(t, 1, m.NumFaces())
}

func TestRadialAdjacency(t *testing.T) {
	m := bmeshtest.Build([]math.Vec3{{}, {X: 1}, {Y: 1}, {X: 1, Y: 1}}, [][]int{{0, 1, 2}, {1, 3, 2}})
	defer m.Free()

	shared := m.FindEdge(1, 2)
	require.NotEqual(t, bmesh.NoEdge, shared)
	assert.Equal(t, []bmesh.FaceID{0, 1}, m.EdgeFaces(shared))

	loops := m.EdgeLoops(shared)
	require.Len(t, loops, 2)
	assert.Equal(t, loops[1], m.LoopRadialNext(loops[0]))
	assert.Equal(t, loops[0], m.LoopRadialNext(loops[1]))
	assert.Equal(t, loops[1], m.LoopRadialPrev(loops[0]))
}

func TestRemoveVert_LeavesTombstones(t *testing.T) {
	m := bmeshtest.Cube()
	defer m.Free()

	require.NoError(t, m.RemoveVert(0))
	assert.Equal(t, 7, m.NumVerts())
	assert.Equal(t, 9, m.NumEdges())
	assert.Equal(t, 3, m.NumFaces())
	assert.Equal(t, 12, m.NumLoops())
	assert.Nil(t, m.Vert(0))
	assert.Equal(t, 8, m.VertCap())
	assert.NotContains(t, m.Verts(), bmesh.VertID(0))

	assert.ErrorIs(t, m.RemoveVert(0), bmesh.ErrInvalidVert)
}

func TestFree_TracksLiveMeshes(t *testing.T) {
	before := bmesh.Live()
	m := bmeshtest.Quad()
	assert.Equal(t, before+1, bmesh.Live())

	m.Free()
	m.Free()
	assert.Equal(t, before, bmesh.Live())
	assert.True(t, m.Freed())
	assert.Equal(t, 0, m.NumFaces())

	_, err := m.AddFace([]bmesh.VertID{0, 1, 2})
	assert.ErrorIs(t, err, bmesh.ErrFreed)
	assert.Equal(t, bmesh.NoVert, m.AddVert(math.Vec3{}))
}

func TestLayers(t *testing.T) {
	m := bmeshtest.Triangle()
	defer m.Free()

	require.Equal(t, 1, m.NumUVLayers())
	assert.Equal(t, "UVMap", m.UVLayerName(0))
	loops := m.FaceLoops(0)
	assert.Equal(t, math.Vec2{X: 1, Y: 0}, m.UV(0, loops[1]))

	c := m.AddColorLayer("Col")
	assert.Equal(t, [4]float32{1, 1, 1, 1}, m.Color(c, 2))
	m.SetColor(c, 2, [4]float32{1, 0, 0, 1})
	assert.Equal(t, [4]float32{1, 0, 0, 1}, m.Color(c, 2))

	// vertices added after the layer get the default color
	v := m.AddVert(math.Vec3{Z: 1})
	assert.Equal(t, [4]float32{1, 1, 1, 1}, m.Color(c, v))
}

func TestPolyMeshRoundTrip(t *testing.T) {
	src := bmeshtest.MixedPolygons()
	defer src.Free()
	src.Face(2).Smooth = true
	src.Edge(0).Smooth = false

	p := src.ToPolyMesh()
	require.NoError(t, p.Validate())
	assert.Equal(t, 4, p.NumFaces())
	assert.Equal(t, []uint32{0, 3, 7, 12, 18}, p.FaceOffsets)

	m, err := bmesh.FromPolyMesh(p)
	require.NoError(t, err)
	defer m.Free()

	back := m.ToPolyMesh()
	assert.Equal(t, p.FaceVerts, back.FaceVerts)
	assert.Equal(t, p.FaceSmooth, back.FaceSmooth)
	assert.Equal(t, p.Edges, back.Edges)
	assert.Equal(t, p.EdgeSmooth, back.EdgeSmooth)
}

func TestPolyMeshValidate(t *testing.T) {
	base := func() *bmesh.PolyMesh {
		return &bmesh.PolyMesh{
			Positions:   []math.Vec3{{}, {X: 1}, {Y: 1}},
			FaceOffsets: []uint32{0, 3},
			FaceVerts:   []uint32{0, 1, 2},
		}
	}

	tests := []struct {
		name   string
		mutate func(p *bmesh.PolyMesh)
		valid  bool
	}{
		{"valid", func(p *bmesh.PolyMesh) {}, true},
		{"offset past corners", func(p *bmesh.PolyMesh) { p.FaceOffsets[1] = 4 }, false},
		{"corner out of range", func(p *bmesh.PolyMesh) { p.FaceVerts[2] = 7 }, false},
		{"edge out of range", func(p *bmesh.PolyMesh) { p.Edges = [][2]uint32{{0, 3}} }, false},
		{"short uv layer", func(p *bmesh.PolyMesh) { p.UVLayers = []bmesh.UVLayer{{Name: "uv", UV: make([]math.Vec2, 2)}} }, false},
		{"short face smooth", func(p *bmesh.PolyMesh) { p.FaceSmooth = []bool{} }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base()
			tt.mutate(p)
			err := p.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, bmesh.ErrInvalidPolyMesh)
			}
		})
	}
}

func TestFromPolyMesh_FreesOnError(t *testing.T) {
	before := bmesh.Live()
	p := &bmesh.PolyMesh{
		Positions:   []math.Vec3{{}, {X: 1}, {Y: 1}},
		FaceOffsets: []uint32{0, 3, 6},
		FaceVerts:   []uint32{0, 1, 2, 2, 0, 1},
	}
	_, err := bmesh.FromPolyMesh(p)
	assert.ErrorIs(t, err, bmesh.ErrFaceExists)
	assert.Equal(t, before, bmesh.Live())
}
