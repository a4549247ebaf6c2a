package extension

import (
	"encoding/binary"
	"encoding/hex"
	"strconv"

	"github.com/zeebo/blake3"
)

// Digest is a 32-byte BLAKE3 hash.
type Digest [32]byte

// String returns the digest in hex.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Short returns the first 8 bytes of the digest in hex.
func (d Digest) Short() string {
	return hex.EncodeToString(d[:8])
}

// documentKey separates document digests from plain payload digests.
var documentKey = [32]byte{
	'E', 'X', 'T', '_', 'b', 'm', 'e', 's', 'h', '_', 'e', 'n', 'c', 'o', 'd', 'i',
	'n', 'g', '.', 'd', 'o', 'c', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// FieldDigest is the digest of one buffer reference.
type FieldDigest struct {
	Path   string
	Length int
	Digest Digest
}

// Fingerprint holds per-field digests and a digest of the whole document.
type Fingerprint struct {
	Fields   []FieldDigest
	Document Digest
}

// Fingerprint hashes the payload of every field of d. View references are
// resolved against table; a view that cannot be resolved is hashed by its
// index. table may be nil for inline documents.
func (d *Document) Fingerprint(table *BufferTable) Fingerprint {
	hasher, err := blake3.NewKeyed(documentKey[:])
	if err != nil {
		panic("extension: BLAKE3 keyed hash initialization failed: " + err.Error())
	}

	var fp Fingerprint
	var scratch [4]byte
	counts := d.Counts()
	for _, name := range []string{"vertices", "edges", "loops", "faces"} {
		count, ok := counts[name]
		if !ok {
			continue
		}
		hasher.WriteString(name)
		binary.LittleEndian.PutUint32(scratch[:], count)
		hasher.Write(scratch[:])
	}
	for _, f := range d.Fields() {
		data := payload(f.Source, table)
		fd := FieldDigest{Path: f.Path, Length: len(data)}
		if data == nil {
			if v, ok := f.Source.(ViewIndex); ok {
				data = []byte("view:" + strconv.Itoa(int(v)))
			}
		}
		fd.Digest = blake3.Sum256(data)
		fp.Fields = append(fp.Fields, fd)

		hasher.WriteString(f.Path)
		hasher.Write(fd.Digest[:])
	}
	copy(fp.Document[:], hasher.Sum(nil))
	return fp
}

// payload returns the raw bytes behind s, or nil when a view cannot be
// resolved. No component type checks are made.
func payload(s Source, table *BufferTable) []byte {
	switch src := s.(type) {
	case Inline:
		return src.Data
	case ViewIndex:
		if table == nil || src < 0 || int(src) >= len(table.Views) {
			return nil
		}
		v := table.Views[src]
		if v.Buffer != 0 || !v.InBounds(len(table.Buffer)) {
			return nil
		}
		return table.Buffer[v.ByteOffset : v.ByteOffset+v.ByteLength]
	default:
		return nil
	}
}
