package main

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/bmesh-gltf/internal/logger"
	"github.com/Faultbox/bmesh-gltf/internal/pipeline"
	"github.com/Faultbox/bmesh-gltf/pkg/bmesh"
	"github.com/Faultbox/bmesh-gltf/pkg/codec"
	"github.com/Faultbox/bmesh-gltf/pkg/extension"
	"github.com/Faultbox/bmesh-gltf/pkg/formats"
	"github.com/Faultbox/bmesh-gltf/pkg/glb"
)

func cmdEncode(args []string) error {
	cfg, pos, err := setup("encode", args, 2, "encode <in.obj> <out.glb>")
	if err != nil {
		return err
	}

	p, err := formats.ParseOBJFile(pos[0])
	if err != nil {
		return err
	}
	data, err := pipeline.Export(p, cfg.PipelineOptions())
	if err != nil {
		return err
	}
	if err := os.WriteFile(pos[1], data, 0o644); err != nil {
		return err
	}

	fmt.Printf("Mesh:     %s\n", displayName(p.Name))
	fmt.Printf("Vertices: %d\n", len(p.Positions))
	fmt.Printf("Faces:    %d\n", p.NumFaces())
	fmt.Printf("Written:  %s (%d bytes)\n", pos[1], len(data))
	return nil
}

func cmdDecode(args []string) error {
	cfg, pos, err := setup("decode", args, 2, "decode <in.glb> <out.obj>")
	if err != nil {
		return err
	}

	data, err := os.ReadFile(pos[0])
	if err != nil {
		return err
	}
	imp, err := pipeline.Import(data, cfg.PipelineOptions())
	if err != nil {
		return err
	}
	if err := formats.WriteOBJFile(pos[1], imp.Mesh); err != nil {
		return err
	}

	fmt.Printf("Mesh:     %s\n", displayName(imp.Mesh.Name))
	fmt.Printf("Path:     %s\n", imp.Path)
	if imp.Cause != nil {
		fmt.Printf("Cause:    %v\n", imp.Cause)
	}
	printStats(imp.Stats)
	fmt.Printf("Written:  %s\n", pos[1])
	return nil
}

func cmdInspect(args []string) error {
	cfg, pos, err := setup("inspect", args, 1, "inspect <in.glb>")
	if err != nil {
		return err
	}

	f, err := glb.Open(pos[0])
	if err != nil {
		return err
	}
	doc := f.Document
	table := f.BufferTable()

	fmt.Printf("File:        %s\n", pos[0])
	fmt.Printf("Generator:   %s\n", doc.Asset.Generator)
	fmt.Printf("Buffer:      %d bytes in %d views\n", len(f.Bin()), len(doc.BufferViews))
	fmt.Printf("Extensions:  %v (required %v)\n", doc.ExtensionsUsed, doc.ExtensionsRequired)

	dec := codec.NewDecoder(cfg.CodecOptions())
	found := 0
	for mi, mesh := range doc.Meshes {
		if mesh == nil {
			continue
		}
		for pi, prim := range mesh.Primitives {
			if prim == nil {
				continue
			}
			raw, ok := glb.PrimitiveExtension(prim, extension.Name)
			if !ok {
				continue
			}
			found++
			fmt.Println()
			fmt.Printf("Mesh %d (%s) primitive %d:\n", mi, displayName(mesh.Name), pi)

			ext, err := extension.Parse(raw)
			if err != nil {
				fmt.Printf("  unreadable: %v\n", err)
				continue
			}
			printDocument(ext, table)

			res, err := dec.DecodeBufferViews(ext, table)
			if err != nil {
				fmt.Printf("  decode failed: %v\n", err)
				continue
			}
			printStats(res.Stats)
		}
	}
	if found == 0 {
		fmt.Println()
		fmt.Printf("No primitive carries %s\n", extension.Name)
	}
	return nil
}

func cmdRoundTrip(args []string) error {
	cfg, pos, err := setup("roundtrip", args, 1, "roundtrip <in.obj>")
	if err != nil {
		return err
	}

	src, err := formats.ParseOBJFile(pos[0])
	if err != nil {
		return err
	}
	m, err := bmesh.FromPolyMesh(src)
	if err != nil {
		return err
	}
	defer m.Free()

	opts := cfg.CodecOptions()
	doc := codec.NewEncoder(opts).Encode(m)
	if doc.Empty() {
		return fmt.Errorf("%s encodes to an empty document", pos[0])
	}
	dec := codec.NewDecoder(opts)

	inline, err := dec.DecodeInline(doc)
	if err != nil {
		return fmt.Errorf("inline decode: %w", err)
	}
	table := &extension.BufferTable{}
	committed := extension.Commit(doc, table)
	views, err := dec.DecodeBufferViews(committed, table)
	if err != nil {
		return fmt.Errorf("buffer view decode: %w", err)
	}

	// a re-encode of the same mesh must hash identically
	again := codec.NewEncoder(opts).Encode(m)

	checks := []struct {
		name     string
		problems []string
	}{
		{"inline", compareMeshes(src, inline.Mesh)},
		{"bufferViews", compareMeshes(src, views.Mesh)},
		{"modes", compareMeshes(inline.Mesh, views.Mesh)},
		{"fingerprint", compareFingerprints(doc.Fingerprint(nil), committed.Fingerprint(table), again.Fingerprint(nil))},
	}

	failed := 0
	for _, c := range checks {
		if len(c.problems) == 0 {
			fmt.Printf("  %-12s ok\n", c.name)
			continue
		}
		failed++
		fmt.Printf("  %-12s FAIL\n", c.name)
		for _, p := range c.problems {
			fmt.Printf("    %s\n", p)
		}
	}
	printStats(views.Stats)

	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(checks))
	}
	return nil
}

func cmdSnapshot(args []string) error {
	cfg, pos, err := setup("snapshot", args, 2, "snapshot <in.obj> <out.bmsnap>")
	if err != nil {
		return err
	}

	p, err := formats.ParseOBJFile(pos[0])
	if err != nil {
		return err
	}
	m, err := bmesh.FromPolyMesh(p)
	if err != nil {
		return err
	}
	defer m.Free()

	doc := codec.NewEncoder(cfg.CodecOptions()).Encode(m)
	var buf bytes.Buffer
	if err := extension.WriteSnapshot(&buf, doc); err != nil {
		return err
	}
	if err := os.WriteFile(pos[1], buf.Bytes(), 0o644); err != nil {
		return err
	}

	fp := doc.Fingerprint(nil)
	logger.Info("snapshot written", zap.String("path", pos[1]), zap.String("digest", fp.Document.String()))
	fmt.Printf("Digest:   %s\n", fp.Document.Short())
	fmt.Printf("Written:  %s (%d bytes)\n", pos[1], buf.Len())
	return nil
}

func cmdRestore(args []string) error {
	cfg, pos, err := setup("restore", args, 2, "restore <in.bmsnap> <out.obj>")
	if err != nil {
		return err
	}

	in, err := os.Open(pos[0])
	if err != nil {
		return err
	}
	defer in.Close()

	doc, err := extension.ReadSnapshot(in)
	if err != nil {
		return err
	}
	res, err := codec.NewDecoder(cfg.CodecOptions()).DecodeInline(doc)
	if err != nil {
		return err
	}
	if err := formats.WriteOBJFile(pos[1], res.Mesh); err != nil {
		return err
	}

	fmt.Printf("Digest:   %s\n", doc.Fingerprint(nil).Document.Short())
	printStats(res.Stats)
	fmt.Printf("Written:  %s\n", pos[1])
	return nil
}

func printDocument(doc *extension.Document, table *extension.BufferTable) {
	counts := doc.Counts()
	sections := make([]string, 0, len(counts))
	for s := range counts {
		sections = append(sections, s)
	}
	sort.Strings(sections)
	for _, s := range sections {
		fmt.Printf("  %-10s %d\n", s, counts[s])
	}

	fp := doc.Fingerprint(table)
	fmt.Printf("  digest     %s\n", fp.Document.Short())
	for _, fd := range fp.Fields {
		fmt.Printf("    %-36s %8d  %s\n", fd.Path, fd.Length, fd.Digest.Short())
	}
}

func printStats(s codec.Stats) {
	fmt.Printf("Vertices: %d  Edges: %d  Faces: %d  Loops: %d\n", s.Vertices, s.Edges, s.Faces, s.Loops)
	if s.UVLayers > 0 || s.ColorLayers > 0 {
		fmt.Printf("Layers:   %d uv, %d color\n", s.UVLayers, s.ColorLayers)
	}
	if s.DuplicateEdges > 0 || s.SkippedEdges > 0 || s.SkippedFaces > 0 {
		fmt.Printf("Skipped:  %d edges, %d faces (%d duplicate edges)\n", s.SkippedEdges, s.SkippedFaces, s.DuplicateEdges)
	}
	if s.TopologyMismatches > 0 || s.ManifoldMismatches > 0 {
		fmt.Printf("Checks:   %d topology, %d manifold mismatches\n", s.TopologyMismatches, s.ManifoldMismatches)
	}
	for _, u := range s.Unreadable {
		fmt.Printf("Unreadable: %s\n", u)
	}
	for _, st := range s.FailedStages {
		fmt.Printf("Failed stage: %s\n", st)
	}
}

func displayName(name string) string {
	if name == "" {
		return "(unnamed)"
	}
	return name
}
