package openapiscan

import (
	"openapiscan/pkg/classindex"
	"openapiscan/pkg/instance"

	"go.uber.org/zap"
)

// scanConfig holds the resolved configuration for a scan.
type scanConfig struct {
	root              string
	directivePrefix   string
	includeUnexported bool
	index             classindex.Index
	factory           instance.Factory
	resourcePackages  []string
	schemaPackages    []string
	children          *bool
	logger            *zap.Logger
	observer          Observer
	skipApplication   bool
}

// Option configures a scan.
type Option func(*scanConfig)

func applyOpts(opts []Option) *scanConfig {
	cfg := &scanConfig{root: ".", factory: instance.Default}
	for _, o := range opts {
		o(cfg)
	}

	return cfg
}

// WithRoot sets the module directory to parse (default: current directory).
func WithRoot(dir string) Option {
	return func(c *scanConfig) {
		c.root = dir
	}
}

// WithDirectivePrefix sets the marker directive namespace (default: "openapi").
func WithDirectivePrefix(prefix string) Option {
	return func(c *scanConfig) {
		c.directivePrefix = prefix
	}
}

// WithUnexported also indexes unexported types.
func WithUnexported() Option {
	return func(c *scanConfig) {
		c.includeUnexported = true
	}
}

// WithIndex queries idx instead of parsing a module, e.g. a loaded manifest.
func WithIndex(idx classindex.Index) Option {
	return func(c *scanConfig) {
		c.index = idx
	}
}

// WithFactory sets how the application type is constructed
// (default: instance.Default).
func WithFactory(f instance.Factory) Option {
	return func(c *scanConfig) {
		c.factory = f
	}
}

// WithResourcePackages scopes application and marker discovery.
func WithResourcePackages(pkgs ...string) Option {
	return func(c *scanConfig) {
		c.resourcePackages = append(c.resourcePackages, pkgs...)
	}
}

// WithSchemaPackages adds packages whose types are all collected as schemas.
func WithSchemaPackages(pkgs ...string) Option {
	return func(c *scanConfig) {
		c.schemaPackages = append(c.schemaPackages, pkgs...)
	}
}

// WithResourcePackagesChildren lets nested packages match a resource package.
func WithResourcePackagesChildren(enabled bool) Option {
	return func(c *scanConfig) {
		c.children = &enabled
	}
}

// WithLogger sets the logger (default: the context logger).
func WithLogger(l *zap.Logger) Option {
	return func(c *scanConfig) {
		c.logger = l
	}
}

// WithObserver receives query durations and result sizes.
func WithObserver(o Observer) Option {
	return func(c *scanConfig) {
		c.observer = o
	}
}

// WithoutApplication skips constructing the application. Its type is still
// reported in Result.ApplicationType.
func WithoutApplication() Option {
	return func(c *scanConfig) {
		c.skipApplication = true
	}
}
