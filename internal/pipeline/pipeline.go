// Package pipeline moves polygon meshes in and out of GLB files.
//
// Export writes a triangulated baseline primitive that any glTF reader can
// display, and attaches the EXT_bmesh_encoding document to it so that
// readers aware of the extension can rebuild the original polygons. Import
// prefers the extension and falls back to recovering polygons from the
// baseline's triangle fans.
package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/bmesh-gltf/internal/logger"
	"github.com/Faultbox/bmesh-gltf/pkg/bmesh"
	"github.com/Faultbox/bmesh-gltf/pkg/codec"
	"github.com/Faultbox/bmesh-gltf/pkg/encoding"
	"github.com/Faultbox/bmesh-gltf/pkg/extension"
	"github.com/Faultbox/bmesh-gltf/pkg/glb"
)

// Pipeline errors.
var (
	ErrNoExtension = errors.New("no primitive carries " + extension.Name)
	ErrNoPrimitive = errors.New("GLB has no mesh primitive")
	ErrBadAccessor = glb.ErrBadAccessor
)

// Path names the route Import took to rebuild a mesh.
type Path string

const (
	PathExtension Path = "extension"
	PathTriangles Path = "triangles"
)

// DefaultGenerator is written to asset.generator when none is configured.
const DefaultGenerator = "bmesh-gltf"

// Options configures Export and Import.
type Options struct {
	Codec codec.Options

	// Generator is written to asset.generator.
	Generator string
	// RequireExtension also lists the extension in extensionsRequired.
	RequireExtension bool
	// FallbackToTriangles lets Import rebuild polygons from the baseline
	// when the extension is absent or cannot be decoded.
	FallbackToTriangles bool

	Logger *zap.Logger
}

// DefaultOptions returns options with every codec section enabled and the
// triangle fallback on.
func DefaultOptions() Options {
	return Options{
		Codec:               codec.DefaultOptions(),
		Generator:           DefaultGenerator,
		FallbackToTriangles: true,
	}
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return logger.Named("pipeline")
	}
	return o.Logger
}

func (o Options) codecOptions() codec.Options {
	c := o.Codec
	if c.Logger == nil {
		c.Logger = o.logger().Named("codec")
	}
	return c
}

// Imported is the result of Import.
type Imported struct {
	Mesh  *bmesh.PolyMesh
	Path  Path
	Stats codec.Stats
	// Cause is why the extension was not used, when Path is PathTriangles.
	Cause error
}

// Export encodes p into a GLB file holding one mesh with one primitive.
func Export(p *bmesh.PolyMesh, opts Options) ([]byte, error) {
	log := opts.logger()

	m, err := bmesh.FromPolyMesh(p)
	if err != nil {
		return nil, fmt.Errorf("building mesh: %w", err)
	}
	defer m.Free()

	doc := codec.NewEncoder(opts.codecOptions()).Encode(m)

	generator := opts.Generator
	if generator == "" {
		generator = DefaultGenerator
	}
	b := glb.NewBuilder(generator)
	prim := addBaseline(b.Document(), BuildTriangles(p))

	if !doc.Empty() {
		committed := extension.Commit(doc, b)
		raw, err := json.Marshal(committed)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", extension.Name, err)
		}
		prim.Extensions = gltf.Extensions{extension.Name: json.RawMessage(raw)}
		b.UseExtension(extension.Name, opts.RequireExtension)
	}

	name := encoding.MeshName(p.Name, "mesh")
	b.AddMesh(name, prim)

	data, err := b.File().Encode()
	if err != nil {
		return nil, err
	}
	log.Debug("exported mesh",
		zap.String("name", name),
		zap.Int("vertices", m.NumVerts()),
		zap.Int("faces", m.NumFaces()),
		zap.Bool("extension", !doc.Empty()),
		zap.Int("bytes", len(data)))
	return data, nil
}

func addBaseline(doc *gltf.Document, tri *TriMesh) *gltf.Primitive {
	prim := &gltf.Primitive{Attributes: map[string]int{}, Mode: gltf.PrimitiveTriangles}
	if len(tri.Vertices) == 0 {
		return prim
	}

	n := len(tri.Vertices)
	positions := make([][3]float32, n)
	normals := make([][3]float32, n)
	texcoords := make([][2]float32, n)
	for i, v := range tri.Vertices {
		positions[i] = v.Position
		normals[i] = v.Normal
		texcoords[i] = v.TexCoord
	}

	pos := modeler.WritePosition(doc, positions)
	acc := doc.Accessors[pos]
	acc.Min = []float64{float64(tri.Bounds.Min[0]), float64(tri.Bounds.Min[1]), float64(tri.Bounds.Min[2])}
	acc.Max = []float64{float64(tri.Bounds.Max[0]), float64(tri.Bounds.Max[1]), float64(tri.Bounds.Max[2])}
	prim.Attributes["POSITION"] = pos
	prim.Attributes["NORMAL"] = modeler.WriteNormal(doc, normals)
	if tri.HasUV {
		prim.Attributes["TEXCOORD_0"] = modeler.WriteTextureCoord(doc, texcoords)
	}
	prim.Indices = gltf.Index(modeler.WriteIndices(doc, tri.Indices))
	return prim
}

// Import rebuilds a polygon mesh from GLB data.
func Import(data []byte, opts Options) (*Imported, error) {
	log := opts.logger()

	f, err := glb.Parse(data)
	if err != nil {
		return nil, err
	}

	meshIdx, prim, raw := findPrimitive(f.Document)
	if prim == nil {
		return nil, ErrNoPrimitive
	}
	name := f.Document.Meshes[meshIdx].Name

	cause := ErrNoExtension
	if raw != nil {
		res, err := decodeExtension(f, raw, opts)
		if err == nil {
			res.Mesh.Name = name
			log.Debug("imported mesh", zap.String("path", string(PathExtension)), zap.Object("stats", res.Stats))
			return &Imported{Mesh: res.Mesh, Path: PathExtension, Stats: res.Stats}, nil
		}
		log.Warn("extension decode failed", zap.String("mesh", name), zap.Error(err))
		cause = err
	}

	if !opts.FallbackToTriangles {
		return nil, cause
	}

	p, stats, err := importTriangles(f, prim)
	if err != nil {
		return nil, fmt.Errorf("triangle fallback: %w", err)
	}
	p.Name = name
	log.Info("imported mesh from triangles",
		zap.String("mesh", name),
		zap.NamedError("cause", cause),
		zap.Object("stats", stats))
	return &Imported{Mesh: p, Path: PathTriangles, Stats: stats, Cause: cause}, nil
}

// findPrimitive returns the first primitive carrying the extension, or the
// first primitive at all when none does. raw is nil in the latter case.
func findPrimitive(doc *gltf.Document) (mesh int, prim *gltf.Primitive, raw json.RawMessage) {
	mesh = -1
	for mi, m := range doc.Meshes {
		if m == nil {
			continue
		}
		for _, p := range m.Primitives {
			if p == nil {
				continue
			}
			if ext, ok := glb.PrimitiveExtension(p, extension.Name); ok {
				return mi, p, ext
			}
			if prim == nil {
				mesh, prim = mi, p
			}
		}
	}
	return mesh, prim, nil
}

func decodeExtension(f *glb.File, raw json.RawMessage, opts Options) (*codec.Result, error) {
	doc, err := extension.Parse(raw)
	if err != nil {
		return nil, err
	}
	return codec.NewDecoder(opts.codecOptions()).DecodeBufferViews(doc, f.BufferTable())
}
