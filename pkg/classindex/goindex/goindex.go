// Package goindex builds a type index by statically parsing the Go sources of
// a module. Types are tagged from comment directives placed on their
// declarations:
//
//	//openapi:path /users
//	type UserResource struct{}
//
//	//openapi:definition
//	type API struct{}
//
// Method names declared on each type are recorded so contracts can be matched
// without type checking.
package goindex

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"openapiscan/pkg/classindex"
	"openapiscan/pkg/domain"
	"openapiscan/pkg/serrors"

	"github.com/go-faster/errors"
	"golang.org/x/mod/modfile"
)

// DefaultDirectivePrefix is the directive namespace used when none is configured.
const DefaultDirectivePrefix = "openapi"

// Options configure how a module is indexed.
type Options struct {
	// Root is the module root directory, the one holding go.mod.
	Root string
	// DirectivePrefix is the namespace of marker directives ("//<prefix>:path").
	DirectivePrefix string
	// IncludeUnexported also indexes unexported type declarations.
	IncludeUnexported bool
	// Logger receives diagnostics. Defaults to a discarding logger.
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Root == "" {
		o.Root = "."
	}
	if o.DirectivePrefix == "" {
		o.DirectivePrefix = DefaultDirectivePrefix
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}

	return o
}

// Indexer is a classindex.Index over a module's sources. The module is parsed
// once, on first use, and every query is answered from that snapshot.
type Indexer struct {
	opts Options

	mu       sync.Mutex
	snapshot *classindex.Snapshot
	err      error
}

var _ classindex.Index = (*Indexer)(nil)

// New returns an Indexer for the module described by opts.
func New(opts Options) *Indexer {
	return &Indexer{opts: opts.withDefaults()}
}

// Snapshot returns the module snapshot, building it on the first call. A build
// failure is returned by this and every later call. A build aborted by ctx is
// not kept, the next call builds again.
func (i *Indexer) Snapshot(ctx context.Context) (*classindex.Snapshot, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.snapshot != nil || i.err != nil {
		return i.snapshot, i.err
	}

	snap, err := Load(ctx, i.opts)
	if err != nil && ctx.Err() != nil {
		return nil, err
	}
	i.snapshot, i.err = snap, err

	return snap, err
}

// SubTypesOf implements classindex.Index.
func (i *Indexer) SubTypesOf(ctx context.Context, c domain.Contract, scope []string) ([]domain.TypeRef, error) {
	s, err := i.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return s.SubTypesOf(ctx, c, scope)
}

// AnnotatedWith implements classindex.Index.
func (i *Indexer) AnnotatedWith(ctx context.Context, m domain.Marker, scope []string) ([]domain.TypeRef, error) {
	s, err := i.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return s.AnnotatedWith(ctx, m, scope)
}

// TypesUnder implements classindex.Index.
func (i *Indexer) TypesUnder(ctx context.Context, pkg string) ([]domain.TypeRef, error) {
	s, err := i.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return s.TypesUnder(ctx, pkg)
}

// Load parses the module at opts.Root and returns its snapshot. Failures are
// reported as serrors.ErrIndex, except context cancellation which is returned
// as is.
func Load(ctx context.Context, opts Options) (*classindex.Snapshot, error) {
	opts = opts.withDefaults()

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrIndex, err, "could not resolve module root")
	}

	module, err := modulePath(root)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrIndex, err, "could not read module of %s", root)
	}

	w := &walker{
		root:    root,
		module:  module,
		opts:    opts,
		log:     opts.Logger.With("module", module),
		methods: make(map[string][]string),
		embeds:  make(map[string][]embed),
		names:   make(map[string]string),
	}
	if err := w.walk(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		return nil, serrors.Wrap(serrors.ErrIndex, err, "could not index %s", module)
	}

	snap := classindex.NewSnapshot(module, w.collect())
	w.log.Info("indexed module", "types", snap.Len(), "packages", len(snap.Packages()))

	return snap, nil
}

func modulePath(root string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, "go.mod"))
	if err != nil {
		return "", errors.Wrap(err, "read go.mod")
	}

	module := modfile.ModulePath(data)
	if module == "" {
		return "", errors.New("go.mod has no module directive")
	}

	return module, nil
}
