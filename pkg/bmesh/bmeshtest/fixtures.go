// Package bmeshtest provides small reference meshes for tests.
package bmeshtest

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/bmesh-gltf/pkg/bmesh"
	"github.com/Faultbox/bmesh-gltf/pkg/math"
)

// Build creates a mesh from positions and faces given as vertex index lists.
// It panics on invalid input; fixtures are expected to be well formed.
func Build(positions []math.Vec3, faces [][]int) *bmesh.Mesh {
	m := bmesh.New()
	verts := make([]bmesh.VertID, len(positions))
	for i, p := range positions {
		verts[i] = m.AddVert(p)
	}
	for i, f := range faces {
		fv := make([]bmesh.VertID, len(f))
		for j, v := range f {
			fv[j] = verts[v]
		}
		if _, err := m.AddFace(fv); err != nil {
			m.Free()
			panic(fmt.Sprintf("bmeshtest: face %d: %v", i, err))
		}
	}
	m.RecalcNormals()
	return m
}

// Quad is a single flat-shaded unit quad at z=0 in counter-clockwise order.
func Quad() *bmesh.Mesh {
	return Build([]math.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 1, Y: 1, Z: 0},
		{X: 0, Y: 1, Z: 0},
	}, [][]int{{0, 1, 2, 3}})
}

// Triangle is a single triangle with one UV layer holding (0,0), (1,0), (0,1).
func Triangle() *bmesh.Mesh {
	m := Build([]math.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
	}, [][]int{{0, 1, 2}})
	layer := m.AddUVLayer("UVMap")
	uvs := []math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	for i, l := range m.FaceLoops(m.Faces()[0]) {
		m.SetUV(layer, l, uvs[i])
	}
	return m
}

// Cube is a closed unit cube: 8 vertices, 12 edges, 6 outward-facing quads.
func Cube() *bmesh.Mesh {
	return Build([]math.Vec3{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
	}, [][]int{
		{0, 3, 2, 1}, // bottom
		{4, 5, 6, 7}, // top
		{0, 1, 5, 4}, // front
		{1, 2, 6, 5}, // right
		{2, 3, 7, 6}, // back
		{3, 0, 4, 7}, // left
	})
}

// OpenCylinder is the side wall of a cylinder with the given number of
// segments and no caps. Its top and bottom rings are boundary edges.
func OpenCylinder(segments int) *bmesh.Mesh {
	positions := make([]math.Vec3, 0, segments*2)
	for ring := 0; ring < 2; ring++ {
		for i := 0; i < segments; i++ {
			a := 2 * gomath.Pi * float64(i) / float64(segments)
			positions = append(positions, math.Vec3{
				X: float32(gomath.Cos(a)),
				Y: float32(gomath.Sin(a)),
				Z: float32(ring),
			})
		}
	}
	faces := make([][]int, segments)
	for i := 0; i < segments; i++ {
		j := (i + 1) % segments
		faces[i] = []int{i, j, segments + j, segments + i}
	}
	return Build(positions, faces)
}

// MixedPolygons is a strip of one triangle, one quad, one pentagon and one
// hexagon sharing edges, useful for arity checks.
func MixedPolygons() *bmesh.Mesh {
	return Build([]math.Vec3{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, // 0..2
		{X: 2, Y: 0, Z: 0}, {X: 2, Y: 1, Z: 0}, // 3..4
		{X: 3, Y: 0, Z: 0}, {X: 3.5, Y: 0.5, Z: 0}, {X: 3, Y: 1, Z: 0}, // 5..7
		{X: 4, Y: 0, Z: 0}, {X: 5, Y: 0, Z: 0}, {X: 5.5, Y: 0.5, Z: 0}, {X: 5, Y: 1, Z: 0}, // 8..11
	}, [][]int{
		{0, 1, 2},
		{1, 3, 4, 2},
		{3, 5, 6, 7, 4},
		{5, 8, 9, 10, 11, 6},
	})
}

// Fin is three quads hinged on the edge between vertices 0 and 1, added in
// the order flat, upright, flat. The hinge edge is non-manifold.
func Fin() *bmesh.Mesh {
	return Build([]math.Vec3{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, // 0..1 hinge
		{X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}, // 2..3
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, // 4..5
		{X: 1, Y: -1, Z: 0}, {X: 0, Y: -1, Z: 0}, // 6..7
	}, [][]int{
		{0, 1, 2, 3},
		{1, 0, 4, 5},
		{0, 1, 6, 7},
	})
}
