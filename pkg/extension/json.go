package extension

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidSource is returned when a buffer reference is neither a
// non-negative integer nor an inline payload object.
var ErrInvalidSource = errors.New("invalid buffer reference")

type wireInline struct {
	Data          []byte        `json:"data"`
	Target        Target        `json:"target,omitempty"`
	ComponentType ComponentType `json:"componentType"`
	Type          ElementType   `json:"type"`
	Count         int           `json:"count,omitempty"`
}

// MarshalJSON encodes the payload as an object with base64 data.
func (s Inline) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireInline(s))
}

// parseSource decodes one buffer reference. A missing or null value yields nil.
func parseSource(field string, raw json.RawMessage) (Source, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '{' {
		var w wireInline
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		return Inline(w), nil
	}
	idx, err := strconv.Atoi(string(raw))
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %s = %s", ErrInvalidSource, field, raw)
	}
	return ViewIndex(idx), nil
}

func parseAttributes(section string, raw map[string]json.RawMessage) (map[string]Source, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]Source, len(raw))
	for name, r := range raw {
		src, err := parseSource(section+".attributes."+name, r)
		if err != nil {
			return nil, err
		}
		if src != nil {
			out[name] = src
		}
	}
	return out, nil
}

// sourceParser collects the first error across a run of parseSource calls.
type sourceParser struct {
	section string
	err     error
}

func (p *sourceParser) parse(field string, raw json.RawMessage) Source {
	if p.err != nil {
		return nil
	}
	src, err := parseSource(p.section+"."+field, raw)
	p.err = err
	return src
}

func (p *sourceParser) attributes(raw map[string]json.RawMessage) map[string]Source {
	if p.err != nil {
		return nil
	}
	attrs, err := parseAttributes(p.section, raw)
	p.err = err
	return attrs
}

// --- vertices ---

type wireVertices struct {
	Count      uint32            `json:"count"`
	Positions  Source            `json:"positions,omitempty"`
	Edges      Source            `json:"edges,omitempty"`
	Attributes map[string]Source `json:"attributes,omitempty"`
}

type rawVertices struct {
	Count      uint32                     `json:"count"`
	Positions  json.RawMessage            `json:"positions"`
	Edges      json.RawMessage            `json:"edges"`
	Attributes map[string]json.RawMessage `json:"attributes"`
}

// MarshalJSON implements json.Marshaler.
func (v Vertices) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireVertices(v))
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Vertices) UnmarshalJSON(data []byte) error {
	var raw rawVertices
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("vertices: %w", err)
	}
	p := sourceParser{section: "vertices"}
	*v = Vertices{
		Count:      raw.Count,
		Positions:  p.parse("positions", raw.Positions),
		Edges:      p.parse("edges", raw.Edges),
		Attributes: p.attributes(raw.Attributes),
	}
	return p.err
}

// --- edges ---

type wireEdges struct {
	Count      uint32            `json:"count"`
	Vertices   Source            `json:"vertices,omitempty"`
	Faces      Source            `json:"faces,omitempty"`
	Manifold   Source            `json:"manifold,omitempty"`
	Attributes map[string]Source `json:"attributes,omitempty"`
}

type rawEdges struct {
	Count      uint32                     `json:"count"`
	Vertices   json.RawMessage            `json:"vertices"`
	Faces      json.RawMessage            `json:"faces"`
	Manifold   json.RawMessage            `json:"manifold"`
	Attributes map[string]json.RawMessage `json:"attributes"`
}

// MarshalJSON implements json.Marshaler.
func (e Edges) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireEdges(e))
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Edges) UnmarshalJSON(data []byte) error {
	var raw rawEdges
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("edges: %w", err)
	}
	p := sourceParser{section: "edges"}
	*e = Edges{
		Count:      raw.Count,
		Vertices:   p.parse("vertices", raw.Vertices),
		Faces:      p.parse("faces", raw.Faces),
		Manifold:   p.parse("manifold", raw.Manifold),
		Attributes: p.attributes(raw.Attributes),
	}
	return p.err
}

// --- faces ---

type wireFaces struct {
	Count    uint32 `json:"count"`
	Vertices Source `json:"vertices,omitempty"`
	Offsets  Source `json:"offsets,omitempty"`
	Edges    Source `json:"edges,omitempty"`
	Loops    Source `json:"loops,omitempty"`
	Normals  Source `json:"normals,omitempty"`
	Smooth   Source `json:"smooth,omitempty"`
}

type rawFaces struct {
	Count    uint32          `json:"count"`
	Vertices json.RawMessage `json:"vertices"`
	Offsets  json.RawMessage `json:"offsets"`
	Edges    json.RawMessage `json:"edges"`
	Loops    json.RawMessage `json:"loops"`
	Normals  json.RawMessage `json:"normals"`
	Smooth   json.RawMessage `json:"smooth"`
}

// MarshalJSON implements json.Marshaler.
func (f Faces) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireFaces(f))
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Faces) UnmarshalJSON(data []byte) error {
	var raw rawFaces
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("faces: %w", err)
	}
	p := sourceParser{section: "faces"}
	*f = Faces{
		Count:    raw.Count,
		Vertices: p.parse("vertices", raw.Vertices),
		Offsets:  p.parse("offsets", raw.Offsets),
		Edges:    p.parse("edges", raw.Edges),
		Loops:    p.parse("loops", raw.Loops),
		Normals:  p.parse("normals", raw.Normals),
		Smooth:   p.parse("smooth", raw.Smooth),
	}
	return p.err
}

// --- loops ---

type wireLoops struct {
	Count      uint32            `json:"count"`
	Topology   Source            `json:"topology,omitempty"`
	Attributes map[string]Source `json:"attributes,omitempty"`
}

type rawLoops struct {
	Count      uint32                     `json:"count"`
	Topology   json.RawMessage            `json:"topology"`
	Attributes map[string]json.RawMessage `json:"attributes"`
}

// MarshalJSON implements json.Marshaler.
func (l Loops) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireLoops(l))
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Loops) UnmarshalJSON(data []byte) error {
	var raw rawLoops
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("loops: %w", err)
	}
	p := sourceParser{section: "loops"}
	*l = Loops{
		Count:      raw.Count,
		Topology:   p.parse("topology", raw.Topology),
		Attributes: p.attributes(raw.Attributes),
	}
	return p.err
}

// Parse decodes an extension document from its JSON form.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", Name, err)
	}
	return &doc, nil
}
