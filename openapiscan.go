// Package openapiscan discovers the types a documentation generator needs
// from a Go module: the single application registration point, the schema
// types under configured packages, and the path and definition marked types
// within the resource packages.
//
// This is the library entry point. For the CLI tool, see cmd/.
package openapiscan

import (
	"context"
	"fmt"

	"openapiscan/internal/scanner"
	"openapiscan/pkg/classindex"
	"openapiscan/pkg/classindex/goindex"
	"openapiscan/pkg/domain"
	"openapiscan/pkg/logger"
)

// Re-export core types so consumers don't need to import internal packages.
type (
	TypeRef     = domain.TypeRef
	TypeSet     = domain.TypeSet
	Marker      = domain.Marker
	Application = domain.Application
	Observer    = scanner.Observer
)

const (
	MarkerPath       = domain.MarkerPath
	MarkerDefinition = domain.MarkerDefinition
)

// Result holds the three result sets of a scan.
type Result struct {
	// ApplicationType is the application type, if exactly one was found.
	ApplicationType *TypeRef
	// Application is the constructed application, or nil when none or more
	// than one was found, or when construction was disabled.
	Application Application
	// Schemas are the types declared under the schema packages.
	Schemas TypeSet
	// Classes are the path and definition marked types.
	Classes TypeSet
}

// Scan runs the three queries against a module. By default the module at the
// current directory is parsed; use WithRoot or WithIndex to change that.
// Index and construction failures are returned; ambiguity is not an error.
func Scan(ctx context.Context, opts ...Option) (*Result, error) {
	cfg := applyOpts(opts)
	if cfg.logger != nil {
		ctx = logger.WithLogger(ctx, cfg.logger)
	}

	s := scanner.New(buildIndex(ctx, cfg), cfg.factory, scanner.Options{
		ResourcePackages:            cfg.resourcePackages,
		SchemaPackages:              cfg.schemaPackages,
		UseResourcePackagesChildren: cfg.children,
		Logger:                      cfg.logger,
		Observer:                    cfg.observer,
	})

	var res Result
	ref, ok, err := s.ApplicationType(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not find application: %w", err)
	}
	if ok {
		res.ApplicationType = &ref
		if !cfg.skipApplication {
			if res.Application, err = s.ApplicationInstance(ctx); err != nil {
				return nil, fmt.Errorf("could not construct application: %w", err)
			}
		}
	}
	if res.Schemas, err = s.Schemas(ctx); err != nil {
		return nil, fmt.Errorf("could not collect schemas: %w", err)
	}
	if res.Classes, err = s.Classes(ctx); err != nil {
		return nil, fmt.Errorf("could not collect classes: %w", err)
	}

	return &res, nil
}

// buildIndex returns the configured index or a source indexer over the root.
func buildIndex(ctx context.Context, cfg *scanConfig) classindex.Index {
	if cfg.index != nil {
		return cfg.index
	}

	return goindex.New(goindex.Options{
		Root:              cfg.root,
		DirectivePrefix:   cfg.directivePrefix,
		IncludeUnexported: cfg.includeUnexported,
		Logger:            logger.Slog(ctx),
	})
}
