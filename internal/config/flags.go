package config

import "github.com/spf13/pflag"

// Flags holds command-line overrides. Only flags that were set on the
// command line override the file.
type Flags struct {
	fs *pflag.FlagSet

	config    string
	debug     bool
	logLevel  string
	logFile   string
	manifold  bool
	adjacency bool
	require   bool
	fallback  bool
	generator string
}

// BindFlags registers the shared flags on fs. Call it before fs.Parse.
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVarP(&f.config, "config", "c", "", "Path to config file")
	fs.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&f.logFile, "log-file", "", "Also write logs to this file")
	fs.BoolVar(&f.manifold, "manifold", true, "Write per-edge manifold flags")
	fs.BoolVar(&f.adjacency, "adjacency", true, "Write vertex and face adjacency lists")
	fs.BoolVar(&f.require, "require-extension", false, "List the extension in extensionsRequired")
	fs.BoolVar(&f.fallback, "fallback", true, "Rebuild polygons from triangles when the extension is unusable")
	fs.StringVar(&f.generator, "generator", "", "asset.generator written on export")
	return f
}

// ConfigPath returns the explicit config path if provided via --config.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return f.config
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.fs.Changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if f.debug {
		cfg.Logging.Level = "debug"
	}
	if f.fs.Changed("log-file") {
		cfg.Logging.LogFile = f.logFile
	}
	if f.fs.Changed("manifold") {
		cfg.Codec.PreserveManifold = f.manifold
	}
	if f.fs.Changed("adjacency") {
		cfg.Codec.VertexAdjacency = f.adjacency
		cfg.Codec.FaceAdjacency = f.adjacency
	}
	if f.fs.Changed("require-extension") {
		cfg.Export.RequireExtension = f.require
	}
	if f.fs.Changed("fallback") {
		cfg.Import.FallbackToTriangles = f.fallback
	}
	if f.generator != "" {
		cfg.Export.Generator = f.generator
	}
}
