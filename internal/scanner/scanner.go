package scanner

import (
	"context"
	"slices"
	"time"

	"openapiscan/internal/config"
	"openapiscan/pkg/classindex"
	"openapiscan/pkg/domain"
	"openapiscan/pkg/instance"
	"openapiscan/pkg/logger"
	"openapiscan/pkg/serrors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "openapiscan/internal/scanner"

// Query names used in traces and metrics.
const (
	QueryApplication     = "application"
	QueryApplicationType = "application_type"
	QuerySchemas     = "schemas"
	QueryClasses     = "classes"
)

// Observer is notified after every query. metrics.Recorder implements it.
type Observer interface {
	ObserveQuery(query string, elapsed time.Duration, found int)
}

// Options configure a scan. Nil package lists are treated as empty and a nil
// UseResourcePackagesChildren as false.
type Options struct {
	// ResourcePackages scope application and marker discovery. Empty means
	// every package.
	ResourcePackages []string
	// SchemaPackages are expanded into every type they contain.
	SchemaPackages []string
	// UseResourcePackagesChildren lets packages nested below a resource
	// package match it.
	UseResourcePackagesChildren *bool
	// Logger receives progress and warnings. Defaults to the context logger.
	Logger *zap.Logger
	// Observer, if set, is notified after every query.
	Observer Observer
	// TracerProvider creates the query spans. Defaults to the global provider.
	TracerProvider trace.TracerProvider
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	children := cfg.Scan.UseResourcePackagesChildren

	return Options{
		ResourcePackages:            cfg.Scan.ResourcePackages,
		SchemaPackages:              cfg.Scan.SchemaPackages,
		UseResourcePackagesChildren: &children,
	}
}

// scanner is the concrete implementation of the Scanner interface.
type scanner struct {
	index    classindex.Index
	factory  instance.Factory
	filter   ResourceFilter
	schemas  []string
	log      *zap.Logger
	observer Observer
	tracer   trace.Tracer
}

// New creates a Scanner over index. factory constructs the application type
// when exactly one is found.
func New(index classindex.Index, factory instance.Factory, opts Options) Scanner {
	s := &scanner{
		index:    index,
		factory:  factory,
		filter:   NewResourceFilter(opts.ResourcePackages, opts.UseResourcePackagesChildren != nil && *opts.UseResourcePackagesChildren),
		schemas:  dedupe(opts.SchemaPackages),
		log:      opts.Logger,
		observer: opts.Observer,
	}
	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	s.tracer = tp.Tracer(tracerName)
	s.logger(context.Background()).Info("parsing schema packages", zap.Int("count", len(s.schemas)))

	return s
}

func dedupe(in []string) []string {
	out := slices.Clone(in)
	slices.Sort(out)

	return slices.Compact(out)
}

func (s *scanner) logger(ctx context.Context) *zap.Logger {
	if s.log != nil {
		return s.log
	}

	return logger.Get(ctx)
}

// start opens a span for query and returns a func that ends it and notifies
// the observer.
func (s *scanner) start(ctx context.Context, query string) (context.Context, func(found int, err error)) {
	begin := time.Now()
	ctx, span := s.tracer.Start(ctx, "scanner."+query,
		trace.WithAttributes(attribute.StringSlice("resource_packages", s.filter.Packages())))

	return ctx, func(found int, err error) {
		span.SetAttributes(attribute.Int("found", found))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		if s.observer != nil {
			s.observer.ObserveQuery(query, time.Since(begin), found)
		}
	}
}

// keep returns the candidates passing the resource filter, unique by FQN.
func (s *scanner) keep(candidates []domain.TypeRef) domain.TypeSet {
	out := domain.NewTypeSet()
	for _, c := range candidates {
		if s.filter.Match(c.Package) {
			out.Add(c)
		}
	}

	return out
}

// findApplication returns the application type within the resource packages
// and how many candidates passed the filter. More than one is logged.
func (s *scanner) findApplication(ctx context.Context) (domain.TypeRef, int, error) {
	candidates, err := s.index.SubTypesOf(ctx, domain.ApplicationContract, s.filter.Packages())
	if err != nil {
		return domain.TypeRef{}, 0, serrors.Wrap(serrors.ErrIndex, err, "could not find application types")
	}

	apps := s.keep(candidates)
	if apps.Len() > 1 {
		s.logger(ctx).Warn("more than one application type found, skipping",
			zap.Strings("types", apps.Names()))
	}
	if apps.Len() != 1 {
		return domain.TypeRef{}, apps.Len(), nil
	}

	return apps.Sorted()[0], 1, nil
}

// ApplicationType reports the application type without constructing it. ok is
// false when there is none or more than one.
func (s *scanner) ApplicationType(ctx context.Context) (ref domain.TypeRef, ok bool, err error) {
	found := 0
	ctx, end := s.start(ctx, QueryApplicationType)
	defer func() { end(found, err) }()

	ref, found, err = s.findApplication(ctx)
	if err != nil || found != 1 {
		return domain.TypeRef{}, false, err
	}
	s.logger(ctx).Info("found application type", zap.String("type", ref.FQN()))

	return ref, true, nil
}

// ApplicationInstance finds the application types within the resource
// packages. None yields nil. More than one is logged and also yields nil.
// Exactly one is constructed through the factory, and a construction failure
// is returned as serrors.ErrInstantiation.
func (s *scanner) ApplicationInstance(ctx context.Context) (app domain.Application, err error) {
	found := 0
	ctx, end := s.start(ctx, QueryApplication)
	defer func() { end(found, err) }()

	var ref domain.TypeRef
	ref, found, err = s.findApplication(ctx)
	if err != nil || found != 1 {
		return nil, err
	}

	app, err = s.factory.New(ctx, ref)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrInstantiation, err, "could not construct application %s", ref.FQN())
	}
	s.logger(ctx).Info("found application", zap.String("type", ref.FQN()))

	return app, nil
}

// Schemas expands each schema package into the types declared in or below
// it. Resource packages do not apply here.
func (s *scanner) Schemas(ctx context.Context) (_ domain.TypeSet, err error) {
	out := domain.NewTypeSet()
	ctx, end := s.start(ctx, QuerySchemas)
	defer func() { end(out.Len(), err) }()

	for _, pkg := range s.schemas {
		types, err := s.index.TypesUnder(ctx, pkg)
		if err != nil {
			return nil, serrors.Wrap(serrors.ErrIndex, err, "could not list types of %s", pkg)
		}
		s.logger(ctx).Info("found schema types", zap.Int("count", len(types)), zap.String("package", pkg))
		out.Add(types...)
	}

	return out, nil
}

// Classes returns the union of the path marked and the definition marked
// types within the resource packages.
func (s *scanner) Classes(ctx context.Context) (_ domain.TypeSet, err error) {
	out := domain.NewTypeSet()
	ctx, end := s.start(ctx, QueryClasses)
	defer func() { end(out.Len(), err) }()

	for _, marker := range []domain.Marker{domain.MarkerPath, domain.MarkerDefinition} {
		types, err := s.index.AnnotatedWith(ctx, marker, s.filter.Packages())
		if err != nil {
			return nil, serrors.Wrap(serrors.ErrIndex, err, "could not find %s marked types", marker)
		}
		out.Union(s.keep(types))
	}

	return out, nil
}
