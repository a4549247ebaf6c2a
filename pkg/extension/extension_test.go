package extension

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() *Document {
	return &Document{
		Vertices: &Vertices{
			Count: 3,
			Positions: Inline{
				Data:          make([]byte, 36),
				Target:        ArrayBuffer,
				ComponentType: Float,
				Type:          Vec3,
				Count:         3,
			},
			Attributes: map[string]Source{
				AttrNormal: Inline{Data: make([]byte, 36), Target: ArrayBuffer, ComponentType: Float, Type: Vec3, Count: 3},
			},
		},
		Edges: &Edges{
			Count:    3,
			Vertices: Inline{Data: []byte{0, 0, 0, 0, 1, 0, 0, 0}, Target: ElementArrayBuffer, ComponentType: UnsignedInt, Type: Vec2, Count: 1},
			Manifold: Inline{Data: []byte{}, Target: ArrayBuffer, ComponentType: UnsignedByte, Type: Scalar},
		},
		Faces: &Faces{
			Count:   1,
			Offsets: ViewIndex(4),
			Smooth:  Inline{Data: []byte{1}, Target: ArrayBuffer, ComponentType: UnsignedByte, Type: Scalar, Count: 1},
		},
	}
}

func TestDocumentJSONRoundTrip(t *testing.T) {
	doc := sampleDocument()

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var wire map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.NotContains(t, wire, "loops")
	assert.Equal(t, float64(4), wire["faces"]["offsets"])
	positions := wire["vertices"]["positions"].(map[string]any)
	assert.Equal(t, float64(5126), positions["componentType"])
	assert.Equal(t, "VEC3", positions["type"])
	assert.Contains(t, wire["vertices"]["attributes"], "NORMAL")

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, doc, back)
}

func TestParseSource(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Source
		wantErr bool
	}{
		{"missing", "", nil, false},
		{"null", "null", nil, false},
		{"view index", "7", ViewIndex(7), false},
		{"inline", `{"data":"AQID","componentType":5121,"type":"SCALAR","count":3}`,
			Inline{Data: []byte{1, 2, 3}, ComponentType: UnsignedByte, Type: Scalar, Count: 3}, false},
		{"negative index", "-1", nil, true},
		{"fractional index", "1.5", nil, true},
		{"string", `"x"`, nil, true},
		{"bad inline", `{"data":12}`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSource("field", json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_RejectsBadReference(t *testing.T) {
	_, err := Parse([]byte(`{"faces":{"count":1,"offsets":"zero"}}`))
	assert.ErrorIs(t, err, ErrInvalidSource)

	_, err = Parse([]byte(`{"loops":{"count":1,"attributes":{"TEXCOORD_0":-3}}}`))
	assert.ErrorIs(t, err, ErrInvalidSource)
}

func TestFields_Order(t *testing.T) {
	var paths []string
	for _, f := range sampleDocument().Fields() {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{
		"vertices.positions",
		"vertices.attributes.NORMAL",
		"edges.vertices",
		"edges.manifold",
		"faces.offsets",
		"faces.smooth",
	}, paths)
}

func TestCommit(t *testing.T) {
	doc := sampleDocument()
	table := &BufferTable{}

	out := Commit(doc, table)

	// three non-empty inline payloads plus the smooth byte
	require.Len(t, table.Views, 4)
	assert.Equal(t, ViewIndex(0), out.Vertices.Positions)
	assert.Equal(t, ViewIndex(1), out.Vertices.Attributes[AttrNormal])
	assert.Equal(t, ViewIndex(2), out.Edges.Vertices)
	assert.Nil(t, out.Edges.Manifold, "empty payloads are dropped")
	assert.Equal(t, ViewIndex(4), out.Faces.Offsets, "existing view references are kept")
	assert.Equal(t, ViewIndex(3), out.Faces.Smooth)

	assert.Equal(t, ElementArrayBuffer, table.Views[2].Target)
	for _, v := range table.Views {
		assert.Zero(t, v.ByteOffset%4)
	}

	// the input document is left untouched
	assert.IsType(t, Inline{}, doc.Vertices.Positions)
	assert.NotNil(t, doc.Edges.Manifold)
}

func TestFingerprint(t *testing.T) {
	doc := sampleDocument()
	a := doc.Fingerprint(nil)
	b := sampleDocument().Fingerprint(nil)
	assert.Equal(t, a, b)
	require.Len(t, a.Fields, 6)
	assert.Equal(t, 36, a.Fields[0].Length)

	table := &BufferTable{}
	committed := Commit(doc, table)
	c := committed.Fingerprint(table)
	assert.Equal(t, a.Fields[0].Digest, c.Fields[0].Digest, "same bytes through a view hash the same")

	doc.Faces.Smooth = Inline{Data: []byte{0}, ComponentType: UnsignedByte, Type: Scalar, Count: 1}
	assert.NotEqual(t, a.Document, doc.Fingerprint(nil).Document)
	assert.Len(t, a.Document.String(), 64)
	assert.Len(t, a.Document.Short(), 16)
}

func TestSnapshotRoundTrip(t *testing.T) {
	doc := sampleDocument()
	doc.Loops = &Loops{Count: 0}

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, doc))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), snapshotMagic))

	back, err := ReadSnapshot(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc.Counts(), back.Counts())
	assert.Equal(t, doc.Fingerprint(nil), back.Fingerprint(nil))
	assert.Equal(t, ViewIndex(4), back.Faces.Offsets)
}

func TestReadSnapshot_Errors(t *testing.T) {
	_, err := ReadSnapshot(bytes.NewReader([]byte("not a snapshot")))
	assert.ErrorIs(t, err, ErrBadSnapshot)

	bad := append(append([]byte{}, snapshotMagic...), 1, 2, 3, 4)
	_, err = ReadSnapshot(bytes.NewReader(bad))
	assert.ErrorIs(t, err, ErrBadSnapshot)
}

func TestReadSnapshot_DecompressedLimit(t *testing.T) {
	doc := sampleDocument()
	doc.Vertices.Positions = Inline{Data: make([]byte, 4092), ComponentType: Float, Type: Vec3, Count: 341}

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, doc))
	stored := buf.Bytes()

	small, err := newSnapshotDecoder(1024)
	require.NoError(t, err)
	defer small.Close()

	_, err = readSnapshot(bytes.NewReader(stored), small)
	assert.ErrorIs(t, err, ErrBadSnapshot)

	back, err := ReadSnapshot(bytes.NewReader(stored))
	require.NoError(t, err)
	assert.Equal(t, doc.Fingerprint(nil), back.Fingerprint(nil))
}

func TestElementTypes(t *testing.T) {
	assert.Equal(t, 3, Vec3.Arity())
	assert.Equal(t, 0, ElementType("MAT4").Arity())
	assert.Equal(t, 4, Float.Size())
	assert.Equal(t, 0, ComponentType(5123).Size())
	assert.Equal(t, "UNSIGNED_BYTE", UnsignedByte.String())
	assert.True(t, (*Document)(nil).Empty())
	assert.True(t, (&Document{}).Empty())
}
