package codec

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/bmesh-gltf/pkg/bmesh"
	"github.com/Faultbox/bmesh-gltf/pkg/extension"
	"github.com/Faultbox/bmesh-gltf/pkg/math"
)

// faceRuns ties document faces and loops to the faces that were created.
type faceRuns struct {
	faces   []bmesh.FaceID // by document face id; NoFace when skipped
	loops   [][]uint32     // document loop id of each corner of faces[i]
	offsets []uint32
	corners []uint32
}

func (fr *faceRuns) created() int {
	n := 0
	for _, f := range fr.faces {
		if f != bmesh.NoFace {
			n++
		}
	}
	return n
}

// decodeFaces creates one face per offsets range. Faces with fewer than
// three resolvable vertices or rejected by the mesh are skipped. Stored
// normals and smooth flags are applied by document face id, so a skipped
// face never shifts the attributes of the faces after it.
func (s *decodeState) decodeFaces(sec *extension.Faces, verts []bmesh.VertID) (*faceRuns, error) {
	offsets, err := s.r.Uint32s(sec.Offsets, -1, extension.Scalar)
	if err != nil {
		s.unreadable("faces.offsets", err)
		return nil, fmt.Errorf("%w: offsets: %v", ErrNoFaceData, err)
	}
	corners, err := s.r.Uint32s(sec.Vertices, -1, extension.Scalar)
	if err != nil {
		s.unreadable("faces.vertices", err)
		return nil, fmt.Errorf("%w: vertices: %v", ErrNoFaceData, err)
	}
	if len(offsets) == 0 {
		return nil, fmt.Errorf("%w: empty offsets", ErrNoFaceData)
	}

	n := len(offsets) - 1
	if uint32(n) != sec.Count {
		s.log.Warn("face count differs from offsets", zap.Uint32("count", sec.Count), zap.Int("offsets", n))
	}

	runs := &faceRuns{
		faces:   make([]bmesh.FaceID, n),
		loops:   make([][]uint32, n),
		offsets: offsets,
		corners: corners,
	}
	for i := 0; i < n; i++ {
		s.index = i
		runs.faces[i] = bmesh.NoFace

		start, end := offsets[i], offsets[i+1]
		if end < start || int64(end) > int64(len(corners)) {
			s.log.Warn("face skipped: bad offset range",
				zap.Int("index", i), zap.Uint32("start", start), zap.Uint32("end", end))
			s.stats.SkippedFaces++
			continue
		}

		fv := make([]bmesh.VertID, 0, end-start)
		docLoops := make([]uint32, 0, end-start)
		for d := start; d < end; d++ {
			if v, ok := resolveVert(verts, corners[d]); ok {
				fv = append(fv, v)
				docLoops = append(docLoops, d)
			}
		}
		if len(fv) < 3 {
			s.log.Warn("face skipped: fewer than 3 vertices", zap.Int("index", i), zap.Int("vertices", len(fv)))
			s.stats.SkippedFaces++
			continue
		}

		f, err := s.mesh.AddFace(fv)
		if err != nil {
			s.log.Warn("face skipped", zap.Int("index", i), zap.Error(err))
			s.stats.SkippedFaces++
			continue
		}
		runs.faces[i] = f
		runs.loops[i] = docLoops
	}

	if !s.hasVertexNormals {
		s.mesh.RecalcNormals()
	}

	if sec.Normals != nil {
		normals, err := s.r.Float32s(sec.Normals, n, extension.Vec3)
		if err != nil {
			s.unreadable("faces.normals", err)
		} else {
			for i, f := range runs.faces {
				if f != bmesh.NoFace {
					s.mesh.Face(f).Normal = math.Vec3{X: normals[3*i], Y: normals[3*i+1], Z: normals[3*i+2]}
				}
			}
		}
	}
	if sec.Smooth != nil {
		smooth, err := s.r.Uint8s(sec.Smooth, n)
		if err != nil {
			s.unreadable("faces.smooth", err)
		} else {
			for i, f := range runs.faces {
				if f != bmesh.NoFace {
					s.mesh.Face(f).Smooth = smooth[i] != 0
				}
			}
		}
	}

	s.stats.Faces = runs.created()
	return runs, nil
}
