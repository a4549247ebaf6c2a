package extension

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
)

// Snapshot file layout: magic, then zstd-compressed CBOR.
var snapshotMagic = []byte("BMSNAP1\n")

const snapshotVersion = 1

// maxSnapshotSize bounds both the stored and the decompressed size of a
// snapshot.
const maxSnapshotSize = 256 << 20

// ErrBadSnapshot is returned for data that is not a readable snapshot.
var ErrBadSnapshot = errors.New("invalid snapshot")

type snapshot struct {
	Version int               `cbor:"1,keyasint"`
	Counts  map[string]uint32 `cbor:"2,keyasint"`
	Fields  []snapshotField   `cbor:"3,keyasint"`
}

type snapshotField struct {
	Path          string `cbor:"1,keyasint"`
	Data          []byte `cbor:"2,keyasint,omitempty"`
	Target        int    `cbor:"3,keyasint,omitempty"`
	ComponentType int    `cbor:"4,keyasint,omitempty"`
	Type          string `cbor:"5,keyasint,omitempty"`
	Count         int    `cbor:"6,keyasint,omitempty"`
	View          int    `cbor:"7,keyasint"` // -1 for inline payloads
}

var (
	snapEncMode cbor.EncMode
	snapDecMode cbor.DecMode
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	snapEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("extension: CBOR encoder initialization failed: " + err.Error())
	}
	snapDecMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("extension: CBOR decoder initialization failed: " + err.Error())
	}
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("extension: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = newSnapshotDecoder(maxSnapshotSize)
	if err != nil {
		panic("extension: zstd decoder initialization failed: " + err.Error())
	}
}

func newSnapshotDecoder(limit uint64) (*zstd.Decoder, error) {
	return zstd.NewReader(nil, zstd.WithDecoderMaxMemory(limit))
}

// WriteSnapshot stores doc so that ReadSnapshot returns an equivalent
// document. Inline payloads are stored with their bytes; view references
// are stored as indices.
func WriteSnapshot(w io.Writer, doc *Document) error {
	snap := snapshot{Version: snapshotVersion, Counts: doc.Counts()}
	for _, f := range doc.Fields() {
		sf := snapshotField{Path: f.Path, View: -1}
		switch s := f.Source.(type) {
		case Inline:
			sf.Data = s.Data
			sf.Target = int(s.Target)
			sf.ComponentType = int(s.ComponentType)
			sf.Type = string(s.Type)
			sf.Count = s.Count
		case ViewIndex:
			sf.View = int(s)
		}
		snap.Fields = append(snap.Fields, sf)
	}

	raw, err := snapEncMode.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if _, err := w.Write(snapshotMagic); err != nil {
		return err
	}
	_, err = w.Write(zstdEncoder.EncodeAll(raw, nil))
	return err
}

// ReadSnapshot reads a document written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*Document, error) {
	return readSnapshot(r, zstdDecoder)
}

func readSnapshot(r io.Reader, dec *zstd.Decoder) (*Document, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSnapshotSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxSnapshotSize {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrBadSnapshot, maxSnapshotSize)
	}
	if !bytes.HasPrefix(data, snapshotMagic) {
		return nil, fmt.Errorf("%w: missing magic", ErrBadSnapshot)
	}
	raw, err := dec.DecodeAll(data[len(snapshotMagic):], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}

	var snap snapshot
	if err := snapDecMode.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadSnapshot, snap.Version)
	}

	doc := &Document{}
	for name, count := range snap.Counts {
		switch name {
		case "vertices":
			doc.Vertices = &Vertices{Count: count}
		case "edges":
			doc.Edges = &Edges{Count: count}
		case "loops":
			doc.Loops = &Loops{Count: count}
		case "faces":
			doc.Faces = &Faces{Count: count}
		default:
			return nil, fmt.Errorf("%w: unknown section %q", ErrBadSnapshot, name)
		}
	}
	for _, sf := range snap.Fields {
		var s Source
		if sf.View >= 0 {
			s = ViewIndex(sf.View)
		} else {
			s = Inline{
				Data:          sf.Data,
				Target:        Target(sf.Target),
				ComponentType: ComponentType(sf.ComponentType),
				Type:          ElementType(sf.Type),
				Count:         sf.Count,
			}
		}
		if err := doc.setSource(sf.Path, s); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
		}
	}
	return doc, nil
}
