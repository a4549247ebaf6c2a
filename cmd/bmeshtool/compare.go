package main

import (
	"fmt"

	"github.com/Faultbox/bmesh-gltf/pkg/bmesh"
	"github.com/Faultbox/bmesh-gltf/pkg/extension"
)

const positionTolerance = 1e-6

// maxProblems caps how many differences compareMeshes reports.
const maxProblems = 10

// compareMeshes lists the differences between two meshes that must survive
// a round trip: counts, face arities, corner order, positions, smooth flags
// and layer counts.
func compareMeshes(want, got *bmesh.PolyMesh) []string {
	var problems []string
	add := func(format string, args ...any) bool {
		problems = append(problems, fmt.Sprintf(format, args...))
		return len(problems) < maxProblems
	}

	if len(want.Positions) != len(got.Positions) {
		add("vertices: want %d, got %d", len(want.Positions), len(got.Positions))
	}
	if want.NumFaces() != got.NumFaces() {
		add("faces: want %d, got %d", want.NumFaces(), got.NumFaces())
	}
	if len(problems) > 0 {
		return problems
	}

	wa, ga := arities(want), arities(got)
	for n, c := range wa {
		if ga[n] != c {
			add("%d-gons: want %d, got %d", n, c, ga[n])
		}
	}

	for i, p := range want.Positions {
		if !p.ApproxEqual(got.Positions[i], positionTolerance) {
			if !add("vertex %d: want %v, got %v", i, p, got.Positions[i]) {
				return problems
			}
		}
	}

	for f := 0; f < want.NumFaces(); f++ {
		wf, gf := want.Face(f), got.Face(f)
		if len(wf) != len(gf) {
			continue
		}
		for k := range wf {
			if wf[k] != gf[k] {
				if !add("face %d: want corners %v, got %v", f, wf, gf) {
					return problems
				}
				break
			}
		}
		if want.FaceSmooth != nil && got.FaceSmooth != nil && want.FaceSmooth[f] != got.FaceSmooth[f] {
			if !add("face %d: smooth want %v, got %v", f, want.FaceSmooth[f], got.FaceSmooth[f]) {
				return problems
			}
		}
	}

	if len(want.UVLayers) != len(got.UVLayers) {
		add("uv layers: want %d, got %d", len(want.UVLayers), len(got.UVLayers))
	}
	if len(want.ColorLayers) != len(got.ColorLayers) {
		add("color layers: want %d, got %d", len(want.ColorLayers), len(got.ColorLayers))
	}
	return problems
}

func arities(p *bmesh.PolyMesh) map[int]int {
	out := make(map[int]int)
	for i := 0; i < p.NumFaces(); i++ {
		out[len(p.Face(i))]++
	}
	return out
}

// compareFingerprints reports every fingerprint in others that differs from
// want, naming the fields whose digests differ.
func compareFingerprints(want extension.Fingerprint, others ...extension.Fingerprint) []string {
	var problems []string
	for i, got := range others {
		if got.Document == want.Document {
			continue
		}
		problems = append(problems, fmt.Sprintf("document %d: want %s, got %s", i+1, want.Document.Short(), got.Document.Short()))

		fields := make(map[string]extension.Digest, len(got.Fields))
		for _, f := range got.Fields {
			fields[f.Path] = f.Digest
		}
		for _, f := range want.Fields {
			d, ok := fields[f.Path]
			switch {
			case !ok:
				problems = append(problems, fmt.Sprintf("  %s missing", f.Path))
			case d != f.Digest:
				problems = append(problems, fmt.Sprintf("  %s differs", f.Path))
			}
		}
	}
	return problems
}
