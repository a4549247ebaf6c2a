package codec

import "go.uber.org/zap/zapcore"

// Stats describes what a decode reconstructed and what it had to skip.
type Stats struct {
	Vertices int
	Edges    int // explicit edges created from the edge section
	Faces    int
	Loops    int

	UVLayers    int
	ColorLayers int

	DuplicateEdges int // edge entries resolved to an edge that already existed
	SkippedEdges   int
	SkippedFaces   int

	// Informational checks of the stored adjacency against the rebuilt mesh.
	TopologyMismatches int
	ManifoldMismatches int

	Unreadable   []string // wire paths of fields that could not be read
	FailedStages []string // stages that panicked and produced nothing
}

// Partial reports whether anything in the document was skipped or could
// not be read.
func (s Stats) Partial() bool {
	return s.SkippedEdges > 0 || s.SkippedFaces > 0 || len(s.Unreadable) > 0 || len(s.FailedStages) > 0
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (s Stats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("vertices", s.Vertices)
	enc.AddInt("edges", s.Edges)
	enc.AddInt("faces", s.Faces)
	enc.AddInt("loops", s.Loops)
	enc.AddInt("uvLayers", s.UVLayers)
	enc.AddInt("colorLayers", s.ColorLayers)
	if s.DuplicateEdges > 0 {
		enc.AddInt("duplicateEdges", s.DuplicateEdges)
	}
	if s.SkippedEdges > 0 {
		enc.AddInt("skippedEdges", s.SkippedEdges)
	}
	if s.SkippedFaces > 0 {
		enc.AddInt("skippedFaces", s.SkippedFaces)
	}
	if s.TopologyMismatches > 0 {
		enc.AddInt("topologyMismatches", s.TopologyMismatches)
	}
	if s.ManifoldMismatches > 0 {
		enc.AddInt("manifoldMismatches", s.ManifoldMismatches)
	}
	return nil
}
