// Package formats reads and writes mesh interchange formats.
package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/bmesh-gltf/pkg/bmesh"
	"github.com/Faultbox/bmesh-gltf/pkg/encoding"
	"github.com/Faultbox/bmesh-gltf/pkg/math"
)

// OBJ format errors.
var (
	ErrInvalidOBJ  = errors.New("invalid OBJ data")
	ErrOBJIndex    = errors.New("OBJ index out of range")
	ErrOBJNoFaces  = errors.New("OBJ has no faces")
	ErrOBJTooSmall = errors.New("OBJ face has fewer than 3 corners")
)

// Layer names given to OBJ data, matching the glTF attribute keys the
// decoder produces.
const (
	OBJUVLayer    = "TEXCOORD_0"
	OBJColorLayer = "COLOR_0"
)

// objCorner is one v/vt/vn reference. Missing parts are -1.
type objCorner struct {
	v, vt, vn int
}

type objParser struct {
	positions []math.Vec3
	colors    [][4]float32
	hasColor  bool
	texcoords []math.Vec2
	normals   []math.Vec3

	name   string
	smooth bool

	faces       [][]objCorner
	smoothFlags []bool
}

// ParseOBJ parses Wavefront OBJ text into a polygon mesh. It understands
// v (with optional RGB), vt, vn, f with v, v/vt, v//vn and v/vt/vn corners,
// s and o. Other statements are ignored. All objects are merged into one
// mesh named after the first o statement.
func ParseOBJ(data []byte) (*bmesh.PolyMesh, error) {
	p := &objParser{}
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		if err := p.statement(fields); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOBJ, err)
	}
	if len(p.faces) == 0 {
		return nil, ErrOBJNoFaces
	}
	return p.mesh(), nil
}

// ParseOBJFile parses an OBJ file from disk.
func ParseOBJFile(path string) (*bmesh.PolyMesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return ParseOBJ(data)
}

func (p *objParser) statement(fields []string) error {
	args := fields[1:]
	switch fields[0] {
	case "v":
		if len(args) < 3 {
			return fmt.Errorf("%w: vertex needs 3 coordinates", ErrInvalidOBJ)
		}
		xyz, err := parseFloats(args[:3])
		if err != nil {
			return err
		}
		p.positions = append(p.positions, math.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]})
		color := [4]float32{1, 1, 1, 1}
		if len(args) >= 6 {
			rgb, err := parseFloats(args[3:6])
			if err != nil {
				return err
			}
			copy(color[:], rgb)
			p.hasColor = true
		}
		p.colors = append(p.colors, color)
	case "vt":
		if len(args) < 1 {
			return fmt.Errorf("%w: texture coordinate needs a value", ErrInvalidOBJ)
		}
		if len(args) > 2 {
			args = args[:2]
		}
		uv, err := parseFloats(args)
		if err != nil {
			return err
		}
		t := math.Vec2{X: uv[0]}
		if len(uv) > 1 {
			t.Y = uv[1]
		}
		p.texcoords = append(p.texcoords, t)
	case "vn":
		if len(args) < 3 {
			return fmt.Errorf("%w: normal needs 3 components", ErrInvalidOBJ)
		}
		n, err := parseFloats(args[:3])
		if err != nil {
			return err
		}
		p.normals = append(p.normals, math.Vec3{X: n[0], Y: n[1], Z: n[2]})
	case "f":
		if len(args) < 3 {
			return fmt.Errorf("%w: got %d", ErrOBJTooSmall, len(args))
		}
		face := make([]objCorner, len(args))
		for i, a := range args {
			c, err := p.corner(a)
			if err != nil {
				return err
			}
			face[i] = c
		}
		p.faces = append(p.faces, face)
		p.smoothFlags = append(p.smoothFlags, p.smooth)
	case "s":
		if len(args) > 0 {
			p.smooth = args[0] != "off" && args[0] != "0"
		}
	case "o":
		if p.name == "" && len(args) > 0 {
			p.name = encoding.NameString(strings.Join(args, " "))
		}
	}
	return nil
}

// corner resolves one face corner. Negative indices count back from the
// most recent element, as OBJ allows.
func (p *objParser) corner(s string) (objCorner, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return objCorner{}, fmt.Errorf("%w: corner %q", ErrInvalidOBJ, s)
	}
	c := objCorner{v: -1, vt: -1, vn: -1}
	counts := [3]int{len(p.positions), len(p.texcoords), len(p.normals)}
	dst := [3]*int{&c.v, &c.vt, &c.vn}
	for i, part := range parts {
		if part == "" {
			if i == 0 {
				return objCorner{}, fmt.Errorf("%w: corner %q has no vertex", ErrInvalidOBJ, s)
			}
			continue
		}
		idx, err := strconv.Atoi(part)
		if err != nil {
			return objCorner{}, fmt.Errorf("%w: corner %q", ErrInvalidOBJ, s)
		}
		switch {
		case idx > 0:
			idx--
		case idx < 0:
			idx += counts[i]
		default:
			return objCorner{}, fmt.Errorf("%w: zero index in %q", ErrOBJIndex, s)
		}
		if idx < 0 || idx >= counts[i] {
			return objCorner{}, fmt.Errorf("%w: %q", ErrOBJIndex, s)
		}
		*dst[i] = idx
	}
	return c, nil
}

func (p *objParser) mesh() *bmesh.PolyMesh {
	out := &bmesh.PolyMesh{
		Name:        p.name,
		Positions:   p.positions,
		FaceOffsets: []uint32{0},
		FaceSmooth:  p.smoothFlags,
	}

	allNormals := true
	normalSum := make([]math.Vec3, len(p.positions))
	hasNormal := make([]bool, len(p.positions))
	for _, face := range p.faces {
		for _, c := range face {
			out.FaceVerts = append(out.FaceVerts, uint32(c.v))
			if c.vn < 0 {
				allNormals = false
				continue
			}
			normalSum[c.v] = normalSum[c.v].Add(p.normals[c.vn])
			hasNormal[c.v] = true
		}
		out.FaceOffsets = append(out.FaceOffsets, uint32(len(out.FaceVerts)))
	}

	if len(p.texcoords) > 0 {
		layer := bmesh.UVLayer{Name: OBJUVLayer, UV: make([]math.Vec2, 0, len(out.FaceVerts))}
		for _, face := range p.faces {
			for _, c := range face {
				var uv math.Vec2
				if c.vt >= 0 {
					uv = p.texcoords[c.vt]
				}
				layer.UV = append(layer.UV, uv)
			}
		}
		out.UVLayers = []bmesh.UVLayer{layer}
	}

	if allNormals && len(p.normals) > 0 {
		out.Normals = make([]math.Vec3, len(p.positions))
		for i := range normalSum {
			if !hasNormal[i] {
				out.Normals = nil
				break
			}
			out.Normals[i] = normalSum[i].Normalize()
		}
	}

	if p.hasColor {
		out.ColorLayers = []bmesh.ColorLayer{{Name: OBJColorLayer, Colors: p.colors}}
	}
	return out
}

func parseFloats(args []string) ([]float32, error) {
	out := make([]float32, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidOBJ, a)
		}
		out[i] = float32(f)
	}
	return out, nil
}

// WriteOBJ writes p as Wavefront OBJ. Texture coordinates come from the
// first UV layer and are written per corner; vertex colors come from the
// first color layer. Floats are written with the shortest representation
// that parses back to the same float32.
func WriteOBJ(w io.Writer, p *bmesh.PolyMesh) error {
	if err := p.Validate(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "# bmesh-gltf")
	if p.Name != "" {
		fmt.Fprintf(bw, "o %s\n", p.Name)
	}

	var colors [][4]float32
	if len(p.ColorLayers) > 0 {
		colors = p.ColorLayers[0].Colors
	}
	for i, v := range p.Positions {
		fmt.Fprintf(bw, "v %s %s %s", ftoa(v.X), ftoa(v.Y), ftoa(v.Z))
		if colors != nil {
			c := colors[i]
			fmt.Fprintf(bw, " %s %s %s", ftoa(c[0]), ftoa(c[1]), ftoa(c[2]))
		}
		bw.WriteByte('\n')
	}

	var uvs []math.Vec2
	if len(p.UVLayers) > 0 {
		uvs = p.UVLayers[0].UV
		for _, t := range uvs {
			fmt.Fprintf(bw, "vt %s %s\n", ftoa(t.X), ftoa(t.Y))
		}
	}
	for _, n := range p.Normals {
		fmt.Fprintf(bw, "vn %s %s %s\n", ftoa(n.X), ftoa(n.Y), ftoa(n.Z))
	}

	smooth := false
	fmt.Fprintln(bw, "s off")
	for f := 0; f < p.NumFaces(); f++ {
		if p.FaceSmooth != nil && p.FaceSmooth[f] != smooth {
			smooth = p.FaceSmooth[f]
			if smooth {
				fmt.Fprintln(bw, "s 1")
			} else {
				fmt.Fprintln(bw, "s off")
			}
		}
		bw.WriteString("f")
		first := int(p.FaceOffsets[f])
		for k, v := range p.Face(f) {
			bw.WriteByte(' ')
			bw.WriteString(strconv.Itoa(int(v) + 1))
			switch {
			case uvs != nil && p.Normals != nil:
				fmt.Fprintf(bw, "/%d/%d", first+k+1, v+1)
			case uvs != nil:
				fmt.Fprintf(bw, "/%d", first+k+1)
			case p.Normals != nil:
				fmt.Fprintf(bw, "//%d", v+1)
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteOBJFile writes p to path as Wavefront OBJ.
func WriteOBJFile(path string, p *bmesh.PolyMesh) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteOBJ(f, p); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func ftoa(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}
