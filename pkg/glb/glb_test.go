package glb

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/bmesh-gltf/pkg/extension"
)

// createTestGLB builds a GLB by hand from a JSON string and binary chunk.
func createTestGLB(js string, bin []byte) []byte {
	jsonChunk := []byte(js)
	for len(jsonChunk)%4 != 0 {
		jsonChunk = append(jsonChunk, ' ')
	}
	total := 12 + 8 + len(jsonChunk)
	if bin != nil {
		total += 8 + len(bin)
	}

	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, uint32(0x46546C67))
	binary.Write(buf, binary.LittleEndian, uint32(2))
	binary.Write(buf, binary.LittleEndian, uint32(total))

	binary.Write(buf, binary.LittleEndian, uint32(len(jsonChunk)))
	binary.Write(buf, binary.LittleEndian, uint32(0x4E4F534A))
	buf.Write(jsonChunk)

	if bin != nil {
		binary.Write(buf, binary.LittleEndian, uint32(len(bin)))
		binary.Write(buf, binary.LittleEndian, uint32(0x004E4942))
		buf.Write(bin)
	}
	return buf.Bytes()
}

func TestParse_ValidFile(t *testing.T) {
	js := `{"asset":{"version":"2.0"},"bufferViews":[{"buffer":0,"byteOffset":4,"byteLength":4,"target":34962}],"buffers":[{"byteLength":8}]}`
	data := createTestGLB(js, []byte{1, 2, 3, 4, 5, 6, 7, 8})

	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if f.Document.Asset.Version != "2.0" {
		t.Errorf("expected asset version 2.0, got %q", f.Document.Asset.Version)
	}
	if len(f.Bin()) != 8 {
		t.Errorf("expected 8 bytes of BIN, got %d", len(f.Bin()))
	}

	table := f.BufferTable()
	if len(table.Views) != 1 {
		t.Fatalf("expected 1 view, got %d", len(table.Views))
	}
	v := table.Views[0]
	if v.ByteOffset != 4 || v.ByteLength != 4 || v.Target != extension.ArrayBuffer {
		t.Errorf("unexpected view %+v", v)
	}
}

func TestParse_Errors(t *testing.T) {
	valid := createTestGLB(`{"asset":{"version":"2.0"}}`, nil)

	badMagic := append([]byte(nil), valid...)
	copy(badMagic, "gltF")

	badVersion := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(badVersion[4:], 1)

	shortLength := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(shortLength[8:], uint32(len(valid)+10))

	binOnly := new(bytes.Buffer)
	binary.Write(binOnly, binary.LittleEndian, []uint32{0x46546C67, 2, 12 + 8 + 4, 4, 0x004E4942})
	binOnly.Write([]byte{0, 0, 0, 0})

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"empty", nil, ErrTruncated},
		{"bad magic", badMagic, ErrInvalidMagic},
		{"version 1", badVersion, ErrUnsupportedVersion},
		{"length past end", shortLength, ErrTruncated},
		{"chunk past end", valid[:len(valid)-2], ErrMalformed},
		{"no JSON chunk", binOnly.Bytes(), ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.data
			if tt.name == "chunk past end" {
				// keep the header length consistent with the cut data
				data = append([]byte(nil), data...)
				binary.LittleEndian.PutUint32(data[8:], uint32(len(data)))
			}
			_, err := Parse(data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestBuilder_RoundTrip(t *testing.T) {
	b := NewBuilder("test")
	acc := modeler.WritePosition(b.Document(), [][3]float32{{0, 0, 0}, {1, 1, 1}})
	v1 := b.AddBufferView([]byte{1, 2, 3}, extension.ArrayBuffer)
	v2 := b.AddBufferView([]byte{4}, extension.ElementArrayBuffer)
	mesh := b.AddMesh("Cube", &gltf.Primitive{Attributes: map[string]int{"POSITION": acc}})
	b.UseExtension(extension.Name, false)
	b.UseExtension(extension.Name, true)

	data, err := b.File().Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(data)%4 != 0 {
		t.Errorf("GLB length %d is not 4-byte aligned", len(data))
	}

	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	doc := f.Document
	if doc.Asset.Generator != "test" {
		t.Errorf("expected generator 'test', got %q", doc.Asset.Generator)
	}
	if v1 != 1 || v2 != 2 || len(doc.BufferViews) != 3 {
		t.Fatalf("expected 3 buffer views, got %d", len(doc.BufferViews))
	}
	if doc.BufferViews[1].ByteOffset != 24 {
		t.Errorf("expected view 1 after the positions at 24, got %d", doc.BufferViews[1].ByteOffset)
	}
	if doc.BufferViews[2].ByteOffset != 28 {
		t.Errorf("expected view 2 at aligned offset 28, got %d", doc.BufferViews[2].ByteOffset)
	}
	if len(f.Bin()) != 29 {
		t.Errorf("expected 29 bytes in buffer 0, got %d", len(f.Bin()))
	}

	a, err := f.Accessor(acc)
	if err != nil {
		t.Fatalf("Accessor failed: %v", err)
	}
	if a.Count != 2 || a.Type != gltf.AccessorVec3 || *a.BufferView != 0 {
		t.Errorf("unexpected accessor %+v", a)
	}
	positions, err := modeler.ReadPosition(doc, a, nil)
	if err != nil {
		t.Fatalf("ReadPosition failed: %v", err)
	}
	if positions[1] != [3]float32{1, 1, 1} {
		t.Errorf("unexpected positions %v", positions)
	}
	if _, err := f.Accessor(5); !errors.Is(err, ErrBadAccessor) {
		t.Errorf("expected ErrBadAccessor for missing accessor, got %v", err)
	}

	if doc.Meshes[mesh].Name != "Cube" || *doc.Nodes[0].Mesh != mesh || doc.Scenes[0].Nodes[0] != 0 {
		t.Error("mesh, node and scene are not linked")
	}
	if !f.UsesExtension(extension.Name) || len(doc.ExtensionsUsed) != 1 || len(doc.ExtensionsRequired) != 1 {
		t.Errorf("unexpected extension lists %v %v", doc.ExtensionsUsed, doc.ExtensionsRequired)
	}

	table := f.BufferTable()
	v := table.Views[v1]
	if got := table.Buffer[v.ByteOffset : v.ByteOffset+v.ByteLength]; !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Errorf("view 1 holds %v", got)
	}
	if v.Target != extension.ArrayBuffer || table.Views[v2].Target != extension.ElementArrayBuffer {
		t.Errorf("targets not kept: %d %d", v.Target, table.Views[v2].Target)
	}
}

func TestAccessor_Bounds(t *testing.T) {
	const maxInt = int(^uint(0) >> 1)

	tests := []struct {
		name   string
		modify func(doc *gltf.Document)
	}{
		{"negative byte offset", func(doc *gltf.Document) { doc.Accessors[0].ByteOffset = -4 }},
		{"offset past view", func(doc *gltf.Document) { doc.Accessors[0].ByteOffset = 4 }},
		{"count past view", func(doc *gltf.Document) { doc.Accessors[0].Count = 3 }},
		{"negative count", func(doc *gltf.Document) { doc.Accessors[0].Count = -1 }},
		{"count at int limit", func(doc *gltf.Document) { doc.Accessors[0].Count = maxInt }},
		{"stride below element", func(doc *gltf.Document) { doc.BufferViews[0].ByteStride = 4 }},
		{"negative stride", func(doc *gltf.Document) { doc.BufferViews[0].ByteStride = -12 }},
		{"view past buffer", func(doc *gltf.Document) { doc.BufferViews[0].ByteLength = 100 }},
		{"view offset at int limit", func(doc *gltf.Document) { doc.BufferViews[0].ByteOffset = maxInt }},
		{"missing view", func(doc *gltf.Document) { doc.Accessors[0].BufferView = gltf.Index(9) }},
		{"no view", func(doc *gltf.Document) { doc.Accessors[0].BufferView = nil }},
		{"matrix type", func(doc *gltf.Document) { doc.Accessors[0].Type = gltf.AccessorMat4 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder("test")
			modeler.WritePosition(b.Document(), [][3]float32{{0, 0, 0}, {1, 1, 1}})
			f := b.File()
			if _, err := f.Accessor(0); err != nil {
				t.Fatalf("unmodified accessor rejected: %v", err)
			}
			tt.modify(f.Document)
			if _, err := f.Accessor(0); !errors.Is(err, ErrBadAccessor) {
				t.Errorf("expected ErrBadAccessor, got %v", err)
			}
		})
	}
}

func TestParse_PrimitiveExtensionsSurvive(t *testing.T) {
	js := `{"asset":{"version":"2.0"},"meshes":[{"primitives":[{"attributes":{"POSITION":0},"extensions":{"EXT_bmesh_encoding":{"faces":{"count":1,"offsets":3}}}}]}]}`
	f, err := Parse(createTestGLB(js, nil))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	raw, ok := PrimitiveExtension(f.Document.Meshes[0].Primitives[0], extension.Name)
	if !ok {
		t.Fatal("extension payload dropped")
	}
	doc, err := extension.Parse(raw)
	if err != nil {
		t.Fatalf("extension.Parse failed: %v", err)
	}
	if doc.Faces.Offsets != extension.ViewIndex(3) {
		t.Errorf("expected offsets view 3, got %v", doc.Faces.Offsets)
	}
}

func TestOpen_WriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.glb")
	b := NewBuilder("test")
	b.AddBufferView([]byte{9}, extension.ArrayBuffer)
	if err := b.File().WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if len(f.Bin()) != 1 || f.Bin()[0] != 9 {
		t.Errorf("unexpected buffer 0 %v", f.Bin())
	}

	if _, err := Open(filepath.Join(t.TempDir(), "missing.glb")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
