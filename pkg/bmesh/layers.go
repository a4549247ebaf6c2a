package bmesh

import "github.com/Faultbox/bmesh-gltf/pkg/math"

var defaultColor = [4]float32{1, 1, 1, 1}

// AddUVLayer adds a per-loop UV layer initialised to (0, 0) and returns its index.
func (m *Mesh) AddUVLayer(name string) int {
	if m.freed {
		return -1
	}
	m.uvLayers = append(m.uvLayers, &uvLayer{name: name, uv: make([]math.Vec2, len(m.loops))})
	return len(m.uvLayers) - 1
}

// NumUVLayers returns the number of UV layers.
func (m *Mesh) NumUVLayers() int { return len(m.uvLayers) }

// UVLayerName returns the name of a UV layer.
func (m *Mesh) UVLayerName(layer int) string {
	if layer < 0 || layer >= len(m.uvLayers) {
		return ""
	}
	return m.uvLayers[layer].name
}

// UV returns the texture coordinate of loop l in layer.
func (m *Mesh) UV(layer int, l LoopID) math.Vec2 {
	if layer < 0 || layer >= len(m.uvLayers) || m.Loop(l) == nil {
		return math.Vec2{}
	}
	return m.uvLayers[layer].uv[l]
}

// SetUV sets the texture coordinate of loop l in layer. Invalid indices are ignored.
func (m *Mesh) SetUV(layer int, l LoopID, uv math.Vec2) {
	if layer < 0 || layer >= len(m.uvLayers) || m.Loop(l) == nil {
		return
	}
	m.uvLayers[layer].uv[l] = uv
}

// AddColorLayer adds a per-vertex RGBA layer initialised to opaque white.
func (m *Mesh) AddColorLayer(name string) int {
	if m.freed {
		return -1
	}
	colors := make([][4]float32, len(m.verts))
	for i := range colors {
		colors[i] = defaultColor
	}
	m.colorLayers = append(m.colorLayers, &colorLayer{name: name, colors: colors})
	return len(m.colorLayers) - 1
}

// NumColorLayers returns the number of color layers.
func (m *Mesh) NumColorLayers() int { return len(m.colorLayers) }

// ColorLayerName returns the name of a color layer.
func (m *Mesh) ColorLayerName(layer int) string {
	if layer < 0 || layer >= len(m.colorLayers) {
		return ""
	}
	return m.colorLayers[layer].name
}

// Color returns the color of vertex v in layer.
func (m *Mesh) Color(layer int, v VertID) [4]float32 {
	if layer < 0 || layer >= len(m.colorLayers) || m.Vert(v) == nil {
		return [4]float32{}
	}
	return m.colorLayers[layer].colors[v]
}

// SetColor sets the color of vertex v in layer. Invalid indices are ignored.
func (m *Mesh) SetColor(layer int, v VertID, c [4]float32) {
	if layer < 0 || layer >= len(m.colorLayers) || m.Vert(v) == nil {
		return
	}
	m.colorLayers[layer].colors[v] = c
}
