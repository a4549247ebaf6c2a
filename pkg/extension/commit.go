package extension

// BufferWriter registers a byte range in the enclosing file's binary buffer
// and returns the index of the new buffer view.
type BufferWriter interface {
	AddBufferView(data []byte, target Target) int
}

// Commit returns a copy of doc in which every inline payload has been
// written through w and replaced by its buffer view index. Inline payloads
// without data are dropped. References that are already view indices are
// kept as they are.
func Commit(doc *Document, w BufferWriter) *Document {
	out := doc.Clone()
	for _, f := range doc.Fields() {
		in, ok := f.Source.(Inline)
		if !ok {
			continue
		}
		var s Source
		if len(in.Data) > 0 {
			target := in.Target
			if target == 0 {
				target = ArrayBuffer
			}
			s = ViewIndex(w.AddBufferView(in.Data, target))
		}
		// paths come from Fields and are always valid
		_ = out.setSource(f.Path, s)
	}
	return out
}
