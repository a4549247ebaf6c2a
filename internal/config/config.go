// Package config handles tool configuration loading and management.
package config

import (
	"github.com/Faultbox/bmesh-gltf/internal/pipeline"
	"github.com/Faultbox/bmesh-gltf/pkg/codec"
)

// Config holds all tool settings.
type Config struct {
	Codec   CodecConfig   `yaml:"codec"`
	Export  ExportConfig  `yaml:"export"`
	Import  ImportConfig  `yaml:"import"`
	Logging LoggingConfig `yaml:"logging"`
}

// CodecConfig selects the optional sections the encoder writes.
type CodecConfig struct {
	PreserveManifold bool `yaml:"preserve_manifold"`
	VertexAdjacency  bool `yaml:"vertex_adjacency"`
	FaceAdjacency    bool `yaml:"face_adjacency"`
}

// ExportConfig holds GLB export settings.
type ExportConfig struct {
	Generator        string `yaml:"generator"`
	RequireExtension bool   `yaml:"require_extension"`
}

// ImportConfig holds GLB import settings.
type ImportConfig struct {
	FallbackToTriangles bool `yaml:"fallback_to_triangles"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Codec: CodecConfig{
			PreserveManifold: true,
			VertexAdjacency:  true,
			FaceAdjacency:    true,
		},
		Export: ExportConfig{
			Generator:        pipeline.DefaultGenerator,
			RequireExtension: false,
		},
		Import: ImportConfig{
			FallbackToTriangles: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// CodecOptions returns the codec settings. The logger is left unset so the
// codec uses the global one.
func (c *Config) CodecOptions() codec.Options {
	return codec.Options{
		PreserveManifold: c.Codec.PreserveManifold,
		VertexAdjacency:  c.Codec.VertexAdjacency,
		FaceAdjacency:    c.Codec.FaceAdjacency,
	}
}

// PipelineOptions returns the export and import settings.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Codec:               c.CodecOptions(),
		Generator:           c.Export.Generator,
		RequireExtension:    c.Export.RequireExtension,
		FallbackToTriangles: c.Import.FallbackToTriangles,
	}
}
