package main

import (
	"testing"

	"github.com/Faultbox/bmesh-gltf/pkg/bmesh"
	"github.com/Faultbox/bmesh-gltf/pkg/bmesh/bmeshtest"
	"github.com/Faultbox/bmesh-gltf/pkg/codec"
	"github.com/Faultbox/bmesh-gltf/pkg/extension"
)

func cubePoly() *bmesh.PolyMesh {
	m := bmeshtest.Cube()
	defer m.Free()
	return m.ToPolyMesh()
}

func TestCompareMeshes(t *testing.T) {
	a, b := cubePoly(), cubePoly()
	if problems := compareMeshes(a, b); len(problems) != 0 {
		t.Fatalf("identical meshes differ: %v", problems)
	}

	b.Positions[3].X += 0.5
	b.FaceSmooth[2] = true
	b.FaceVerts[0], b.FaceVerts[1] = b.FaceVerts[1], b.FaceVerts[0]
	if problems := compareMeshes(a, b); len(problems) != 3 {
		t.Errorf("expected 3 problems, got %v", problems)
	}

	b.Positions = b.Positions[:7]
	if problems := compareMeshes(a, b); len(problems) != 1 {
		t.Errorf("expected only the count problem, got %v", problems)
	}
}

func TestCompareFingerprints(t *testing.T) {
	m := bmeshtest.Cube()
	defer m.Free()
	doc := codec.NewEncoder(codec.DefaultOptions()).Encode(m)

	table := &extension.BufferTable{}
	committed := extension.Commit(doc, table)
	if problems := compareFingerprints(doc.Fingerprint(nil), committed.Fingerprint(table)); len(problems) != 0 {
		t.Errorf("committed document hashes differently: %v", problems)
	}

	other := codec.NewEncoder(codec.Options{}).Encode(m)
	if problems := compareFingerprints(doc.Fingerprint(nil), other.Fingerprint(nil)); len(problems) == 0 {
		t.Error("expected documents with different sections to differ")
	}
}
