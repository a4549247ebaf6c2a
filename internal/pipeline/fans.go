package pipeline

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/bmesh-gltf/pkg/bmesh"
	"github.com/Faultbox/bmesh-gltf/pkg/codec"
	"github.com/Faultbox/bmesh-gltf/pkg/glb"
	"github.com/Faultbox/bmesh-gltf/pkg/math"
)

// smoothTolerance is how far a corner normal may stray from its face normal
// before the face is treated as smooth shaded.
const smoothTolerance = 1e-4

// RecoverFans groups a triangle list back into polygons. Consecutive
// triangles sharing their first index form one fan; each continuation
// contributes its third index. Trailing indices that do not make a full
// triangle are ignored.
func RecoverFans(indices []uint32) [][]uint32 {
	var faces [][]uint32
	var current []uint32
	for i := 0; i+2 < len(indices); i += 3 {
		tri := indices[i : i+3]
		if current == nil || tri[0] != current[0] {
			if current != nil {
				faces = append(faces, current)
			}
			current = []uint32{tri[0], tri[1], tri[2]}
			continue
		}
		if !contains(current, tri[2]) {
			current = append(current, tri[2])
		}
	}
	if current != nil {
		faces = append(faces, current)
	}
	return faces
}

func contains(list []uint32, v uint32) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// importTriangles rebuilds polygons from a triangle primitive. Vertices with
// identical positions are welded, so corners split for shading share one
// vertex again.
func importTriangles(f *glb.File, prim *gltf.Primitive) (*bmesh.PolyMesh, codec.Stats, error) {
	var stats codec.Stats
	if prim.Mode != gltf.PrimitiveTriangles {
		return nil, stats, fmt.Errorf("%w: primitive mode %d", ErrBadAccessor, prim.Mode)
	}
	pos, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, stats, fmt.Errorf("%w: no POSITION attribute", ErrBadAccessor)
	}

	positions, err := readVec3(f, pos)
	if err != nil {
		return nil, stats, fmt.Errorf("POSITION: %w", err)
	}
	n := len(positions)

	var normals [][3]float32
	var uvs [][2]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		if normals, err = readVec3(f, idx); err != nil || len(normals) != n {
			stats.Unreadable = append(stats.Unreadable, "NORMAL")
			normals = nil
		}
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		if uvs, err = readVec2(f, idx); err != nil || len(uvs) != n {
			stats.Unreadable = append(stats.Unreadable, "TEXCOORD_0")
			uvs = nil
		}
	}

	indices, err := readIndices(f, prim.Indices, n)
	if err != nil {
		return nil, stats, fmt.Errorf("indices: %w", err)
	}

	m := bmesh.New()
	defer m.Free()

	weld := make(map[[3]float32]bmesh.VertID)
	corner := make([]bmesh.VertID, n)
	for i, key := range positions {
		id, ok := weld[key]
		if !ok {
			id = m.AddVert(math.Vec3{X: key[0], Y: key[1], Z: key[2]})
			weld[key] = id
		}
		corner[i] = id
	}

	uvLayer := -1
	if uvs != nil {
		uvLayer = m.AddUVLayer("TEXCOORD_0")
	}

	type placed struct {
		face    bmesh.FaceID
		corners []uint32
	}
	var created []placed
	for _, face := range RecoverFans(indices) {
		fv := make([]bmesh.VertID, len(face))
		for k, c := range face {
			fv[k] = corner[c]
		}
		id, err := m.AddFace(fv)
		if err != nil {
			stats.SkippedFaces++
			continue
		}
		if uvLayer >= 0 {
			for k, l := range m.FaceLoops(id) {
				c := face[k]
				m.SetUV(uvLayer, l, math.Vec2{X: uvs[c][0], Y: 1 - uvs[c][1]})
			}
		}
		created = append(created, placed{face: id, corners: face})
	}
	if len(created) == 0 {
		return nil, stats, codec.ErrNoFaces
	}

	m.RecalcNormals()
	if normals != nil {
		for _, p := range created {
			face := m.Face(p.face)
			for _, c := range p.corners {
				cn := math.Vec3{X: normals[c][0], Y: normals[c][1], Z: normals[c][2]}
				if !cn.ApproxEqual(face.Normal, smoothTolerance) {
					face.Smooth = true
					break
				}
			}
		}
	}

	stats.Vertices = m.NumVerts()
	stats.Edges = m.NumEdges()
	stats.Faces = m.NumFaces()
	stats.Loops = m.NumLoops()
	stats.UVLayers = m.NumUVLayers()
	return m.ToPolyMesh(), stats, nil
}

func readVec3(f *glb.File, index int) ([][3]float32, error) {
	a, err := f.Accessor(index)
	if err != nil {
		return nil, err
	}
	if a.Type != gltf.AccessorVec3 || a.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("%w: accessor %d is %s of %s, want VEC3 of FLOAT", ErrBadAccessor, index, a.Type, a.ComponentType)
	}
	return modeler.ReadPosition(f.Document, a, nil)
}

func readVec2(f *glb.File, index int) ([][2]float32, error) {
	a, err := f.Accessor(index)
	if err != nil {
		return nil, err
	}
	if a.Type != gltf.AccessorVec2 {
		return nil, fmt.Errorf("%w: accessor %d is %s, want VEC2", ErrBadAccessor, index, a.Type)
	}
	return modeler.ReadTextureCoord(f.Document, a, nil)
}

// readIndices returns the triangle list of a primitive. A primitive without
// indices draws its vertices in order.
func readIndices(f *glb.File, index *int, vertices int) ([]uint32, error) {
	if index == nil {
		out := make([]uint32, vertices)
		for i := range out {
			out[i] = uint32(i)
		}
		return out, nil
	}

	a, err := f.Accessor(*index)
	if err != nil {
		return nil, err
	}
	if a.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("%w: index accessor is %s", ErrBadAccessor, a.Type)
	}
	switch a.ComponentType {
	case gltf.ComponentUbyte, gltf.ComponentUshort, gltf.ComponentUint:
	default:
		return nil, fmt.Errorf("%w: index component type %s", ErrBadAccessor, a.ComponentType)
	}
	out, err := modeler.ReadIndices(f.Document, a, nil)
	if err != nil {
		return nil, err
	}

	for i, v := range out {
		if int(v) >= vertices {
			return nil, fmt.Errorf("%w: index %d references vertex %d of %d", ErrBadAccessor, i, v, vertices)
		}
	}
	return out, nil
}
