package pipeline

import (
	"github.com/Faultbox/bmesh-gltf/pkg/bmesh"
	"github.com/Faultbox/bmesh-gltf/pkg/math"
)

// Vertex is one corner of the triangulated baseline with position, normal,
// and texture coordinates.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// TriMesh holds the triangulated baseline ready for accessor upload.
type TriMesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
	HasUV    bool
}

// Bounds holds the axis-aligned bounding box of the baseline.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// BuildTriangles fan-triangulates every face of p. Each face corner becomes
// its own vertex so that flat faces keep hard normals; the fan for a face
// with corners c0..cn is (c0, ck, ck+1). The first UV layer, if any, is
// written with V flipped to glTF's top-left origin.
func BuildTriangles(p *bmesh.PolyMesh) *TriMesh {
	out := &TriMesh{
		Bounds: Bounds{
			Min: [3]float32{1e10, 1e10, 1e10},
			Max: [3]float32{-1e10, -1e10, -1e10},
		},
	}
	var uv []math.Vec2
	if len(p.UVLayers) > 0 {
		uv = p.UVLayers[0].UV
		out.HasUV = true
	}

	for f := 0; f < p.NumFaces(); f++ {
		corners := p.Face(f)
		if len(corners) < 3 {
			continue
		}

		smooth := p.FaceSmooth != nil && p.FaceSmooth[f]
		var faceNormal math.Vec3
		if p.FaceNormals != nil {
			faceNormal = p.FaceNormals[f]
		} else {
			pts := make([]math.Vec3, len(corners))
			for i, c := range corners {
				pts[i] = p.Positions[c]
			}
			faceNormal = math.NewellNormal(pts)
		}

		base := uint32(len(out.Vertices))
		first := int(p.FaceOffsets[f])
		for i, c := range corners {
			pos := p.Positions[c]
			n := faceNormal
			if smooth && p.Normals != nil {
				n = p.Normals[c]
			}
			v := Vertex{Position: pos.Array(), Normal: n.Array()}
			if uv != nil {
				t := uv[first+i]
				v.TexCoord = [2]float32{t.X, 1 - t.Y}
			}
			out.Vertices = append(out.Vertices, v)
			updateBounds(&out.Bounds, v.Position)
		}
		for k := 1; k+1 < len(corners); k++ {
			out.Indices = append(out.Indices, base, base+uint32(k), base+uint32(k+1))
		}
	}

	if len(out.Vertices) == 0 {
		out.Bounds = Bounds{}
	}
	return out
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
