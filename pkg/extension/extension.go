// Package extension defines the EXT_bmesh_encoding document: the
// buffer-oriented wire model that carries polygon-mesh topology inside a
// glTF primitive.
package extension

import "fmt"

// Name is the glTF extension name.
const Name = "EXT_bmesh_encoding"

// ComponentType is a GL component type enumeration value.
type ComponentType int

// Supported component types.
const (
	UnsignedByte ComponentType = 5121
	UnsignedInt  ComponentType = 5125
	Float        ComponentType = 5126
)

// Size returns the byte size of one component, or 0 for unsupported types.
func (c ComponentType) Size() int {
	switch c {
	case UnsignedByte:
		return 1
	case UnsignedInt, Float:
		return 4
	default:
		return 0
	}
}

// String returns the GL name of the component type.
func (c ComponentType) String() string {
	switch c {
	case UnsignedByte:
		return "UNSIGNED_BYTE"
	case UnsignedInt:
		return "UNSIGNED_INT"
	case Float:
		return "FLOAT"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// Target is a GL buffer binding target.
type Target int

// Buffer view targets.
const (
	ArrayBuffer        Target = 34962
	ElementArrayBuffer Target = 34963
)

// ElementType is the glTF accessor type (arity of one element).
type ElementType string

// Element types.
const (
	Scalar ElementType = "SCALAR"
	Vec2   ElementType = "VEC2"
	Vec3   ElementType = "VEC3"
	Vec4   ElementType = "VEC4"
)

// Arity returns the number of components per element, or 0 if unknown.
func (e ElementType) Arity() int {
	switch e {
	case Scalar:
		return 1
	case Vec2:
		return 2
	case Vec3:
		return 3
	case Vec4:
		return 4
	default:
		return 0
	}
}

// Attribute names.
const (
	AttrNormal   = "NORMAL"
	AttrSmooth   = "_SMOOTH"
	AttrTexcoord = "TEXCOORD_"
	AttrColor    = "COLOR_"
)

// Manifold flag values stored per edge.
const (
	ManifoldNo      uint8 = 0
	ManifoldYes     uint8 = 1
	ManifoldUnknown uint8 = 255
)

// TopologyStride is the number of uint32 values stored per loop:
// vertex, edge, face, next, prev, radial_next, radial_prev.
const TopologyStride = 7

// Source locates the bytes of one attribute. It is either Inline (payload
// carried in the document, before the document is committed to a file) or
// ViewIndex (a buffer view in the enclosing glTF file).
type Source interface {
	isSource()
}

// Inline carries an attribute payload directly.
type Inline struct {
	Data          []byte
	Target        Target
	ComponentType ComponentType
	Type          ElementType
	Count         int // number of elements; 0 when the list length is implied
}

// ViewIndex refers to a glTF buffer view.
type ViewIndex int

func (Inline) isSource()    {}
func (ViewIndex) isSource() {}

// Document is the extension payload of one primitive. A nil section is absent.
type Document struct {
	Vertices *Vertices `json:"vertices,omitempty"`
	Edges    *Edges    `json:"edges,omitempty"`
	Loops    *Loops    `json:"loops,omitempty"`
	Faces    *Faces    `json:"faces,omitempty"`
}

// Empty reports whether the document has no sections.
func (d *Document) Empty() bool {
	return d == nil || (d.Vertices == nil && d.Edges == nil && d.Loops == nil && d.Faces == nil)
}

// Vertices is the vertex section.
type Vertices struct {
	Count      uint32
	Positions  Source            // VEC3 float
	Edges      Source            // SCALAR uint32 adjacency, optional
	Attributes map[string]Source // NORMAL, COLOR_n
}

// Edges is the edge section.
type Edges struct {
	Count      uint32
	Vertices   Source            // VEC2 uint32
	Faces      Source            // SCALAR uint32 adjacency, optional
	Manifold   Source            // SCALAR uint8, optional
	Attributes map[string]Source // _SMOOTH
}

// Faces is the face section. Smooth is a direct key, not an attribute.
type Faces struct {
	Count    uint32
	Vertices Source // SCALAR uint32, CSR values
	Offsets  Source // SCALAR uint32, Count+1 entries
	Edges    Source // SCALAR uint32, optional
	Loops    Source // SCALAR uint32, optional
	Normals  Source // VEC3 float, optional
	Smooth   Source // SCALAR uint8, optional
}

// Loops is the loop section.
type Loops struct {
	Count      uint32
	Topology   Source            // SCALAR uint32, TopologyStride per loop
	Attributes map[string]Source // TEXCOORD_n
}
