package extension

import (
	"fmt"
	"sort"
	"strings"
)

// Field is one buffer reference of a document, addressed by its wire path
// (for example "faces.offsets" or "loops.attributes.TEXCOORD_0").
type Field struct {
	Path   string
	Source Source
}

// Fields returns every non-nil buffer reference in d. Core keys come first
// in wire order, attributes follow sorted by name.
func (d *Document) Fields() []Field {
	if d == nil {
		return nil
	}
	var out []Field
	add := func(path string, s Source) {
		if s != nil {
			out = append(out, Field{Path: path, Source: s})
		}
	}
	addAttrs := func(section string, attrs map[string]Source) {
		names := make([]string, 0, len(attrs))
		for name := range attrs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			add(section+".attributes."+name, attrs[name])
		}
	}

	if v := d.Vertices; v != nil {
		add("vertices.positions", v.Positions)
		add("vertices.edges", v.Edges)
		addAttrs("vertices", v.Attributes)
	}
	if e := d.Edges; e != nil {
		add("edges.vertices", e.Vertices)
		add("edges.faces", e.Faces)
		add("edges.manifold", e.Manifold)
		addAttrs("edges", e.Attributes)
	}
	if l := d.Loops; l != nil {
		add("loops.topology", l.Topology)
		addAttrs("loops", l.Attributes)
	}
	if f := d.Faces; f != nil {
		add("faces.vertices", f.Vertices)
		add("faces.offsets", f.Offsets)
		add("faces.edges", f.Edges)
		add("faces.loops", f.Loops)
		add("faces.normals", f.Normals)
		add("faces.smooth", f.Smooth)
	}
	return out
}

// Counts returns the element count of every present section keyed by
// section name.
func (d *Document) Counts() map[string]uint32 {
	out := make(map[string]uint32, 4)
	if d == nil {
		return out
	}
	if d.Vertices != nil {
		out["vertices"] = d.Vertices.Count
	}
	if d.Edges != nil {
		out["edges"] = d.Edges.Count
	}
	if d.Loops != nil {
		out["loops"] = d.Loops.Count
	}
	if d.Faces != nil {
		out["faces"] = d.Faces.Count
	}
	return out
}

// Clone returns a copy of d whose sections and attribute maps can be
// modified independently. Payload bytes are shared.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{}
	if d.Vertices != nil {
		v := *d.Vertices
		v.Attributes = cloneAttrs(v.Attributes)
		out.Vertices = &v
	}
	if d.Edges != nil {
		e := *d.Edges
		e.Attributes = cloneAttrs(e.Attributes)
		out.Edges = &e
	}
	if d.Loops != nil {
		l := *d.Loops
		l.Attributes = cloneAttrs(l.Attributes)
		out.Loops = &l
	}
	if d.Faces != nil {
		f := *d.Faces
		out.Faces = &f
	}
	return out
}

func cloneAttrs(attrs map[string]Source) map[string]Source {
	if attrs == nil {
		return nil
	}
	out := make(map[string]Source, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}

// setSource stores s at path, creating the section if needed. A nil s
// removes the reference.
func (d *Document) setSource(path string, s Source) error {
	section, key, ok := strings.Cut(path, ".")
	if !ok {
		return fmt.Errorf("%w: bad field path %q", ErrInvalidSource, path)
	}
	attr, isAttr := strings.CutPrefix(key, "attributes.")

	switch section {
	case "vertices":
		if d.Vertices == nil {
			d.Vertices = &Vertices{}
		}
		v := d.Vertices
		switch {
		case isAttr:
			v.Attributes = setAttr(v.Attributes, attr, s)
		case key == "positions":
			v.Positions = s
		case key == "edges":
			v.Edges = s
		default:
			return fmt.Errorf("%w: unknown field %q", ErrInvalidSource, path)
		}
	case "edges":
		if d.Edges == nil {
			d.Edges = &Edges{}
		}
		e := d.Edges
		switch {
		case isAttr:
			e.Attributes = setAttr(e.Attributes, attr, s)
		case key == "vertices":
			e.Vertices = s
		case key == "faces":
			e.Faces = s
		case key == "manifold":
			e.Manifold = s
		default:
			return fmt.Errorf("%w: unknown field %q", ErrInvalidSource, path)
		}
	case "loops":
		if d.Loops == nil {
			d.Loops = &Loops{}
		}
		l := d.Loops
		switch {
		case isAttr:
			l.Attributes = setAttr(l.Attributes, attr, s)
		case key == "topology":
			l.Topology = s
		default:
			return fmt.Errorf("%w: unknown field %q", ErrInvalidSource, path)
		}
	case "faces":
		if d.Faces == nil {
			d.Faces = &Faces{}
		}
		f := d.Faces
		switch key {
		case "vertices":
			f.Vertices = s
		case "offsets":
			f.Offsets = s
		case "edges":
			f.Edges = s
		case "loops":
			f.Loops = s
		case "normals":
			f.Normals = s
		case "smooth":
			f.Smooth = s
		default:
			return fmt.Errorf("%w: unknown field %q", ErrInvalidSource, path)
		}
	default:
		return fmt.Errorf("%w: unknown section %q", ErrInvalidSource, section)
	}
	return nil
}

func setAttr(attrs map[string]Source, name string, s Source) map[string]Source {
	if s == nil {
		delete(attrs, name)
		if len(attrs) == 0 {
			return nil
		}
		return attrs
	}
	if attrs == nil {
		attrs = make(map[string]Source)
	}
	attrs[name] = s
	return attrs
}
