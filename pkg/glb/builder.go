package glb

import (
	"github.com/qmuntal/gltf"

	"github.com/Faultbox/bmesh-gltf/pkg/extension"
)

// Builder assembles a single-buffer GLB file. It implements
// extension.BufferWriter so extension documents can be committed into it.
// Accessors are written into Document with the gltf modeler package.
type Builder struct {
	doc *gltf.Document
}

var _ extension.BufferWriter = (*Builder)(nil)

// NewBuilder creates a builder for a glTF 2.0 document with one empty
// buffer and one scene.
func NewBuilder(generator string) *Builder {
	return &Builder{doc: &gltf.Document{
		Asset:   gltf.Asset{Version: "2.0", Generator: generator},
		Buffers: []*gltf.Buffer{{}},
		Scene:   gltf.Index(0),
		Scenes:  []*gltf.Scene{{}},
	}}
}

// Document returns the document being built.
func (b *Builder) Document() *gltf.Document {
	return b.doc
}

// AddBufferView appends data to buffer 0 at a 4-byte aligned offset and
// returns the new view index.
func (b *Builder) AddBufferView(data []byte, target extension.Target) int {
	buf := b.doc.Buffers[0]
	for len(buf.Data)%4 != 0 {
		buf.Data = append(buf.Data, 0)
	}
	b.doc.BufferViews = append(b.doc.BufferViews, &gltf.BufferView{
		Buffer:     0,
		ByteOffset: len(buf.Data),
		ByteLength: len(data),
		Target:     targetFromGL(target),
	})
	buf.Data = append(buf.Data, data...)
	buf.ByteLength = len(buf.Data)
	return len(b.doc.BufferViews) - 1
}

// AddMesh adds a mesh with one node referencing it to the scene and returns
// the mesh index.
func (b *Builder) AddMesh(name string, primitives ...*gltf.Primitive) int {
	mesh := len(b.doc.Meshes)
	b.doc.Meshes = append(b.doc.Meshes, &gltf.Mesh{Name: name, Primitives: primitives})

	node := len(b.doc.Nodes)
	b.doc.Nodes = append(b.doc.Nodes, &gltf.Node{Name: name, Mesh: gltf.Index(mesh)})
	b.doc.Scenes[0].Nodes = append(b.doc.Scenes[0].Nodes, node)
	return mesh
}

// UseExtension records name in extensionsUsed, and in extensionsRequired
// when required is set.
func (b *Builder) UseExtension(name string, required bool) {
	if !usesExtension(b.doc, name) {
		b.doc.ExtensionsUsed = append(b.doc.ExtensionsUsed, name)
	}
	if !required {
		return
	}
	for _, e := range b.doc.ExtensionsRequired {
		if e == name {
			return
		}
	}
	b.doc.ExtensionsRequired = append(b.doc.ExtensionsRequired, name)
}

// File returns the assembled container. The builder must not be used
// afterwards.
func (b *Builder) File() *File {
	buf := b.doc.Buffers[0]
	buf.ByteLength = len(buf.Data)
	if buf.ByteLength == 0 {
		b.doc.Buffers = nil
	}
	return &File{Document: b.doc}
}
