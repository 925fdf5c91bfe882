package instance

import (
	"context"
	"fmt"
	"sync"

	"openapiscan/pkg/domain"
	"openapiscan/pkg/logger"
	"openapiscan/pkg/serrors"

	"go.uber.org/zap"
)

// Registry is a Factory backed by constructors registered by type FQN.
// It is safe for concurrent use.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

var _ Factory = (*Registry)(nil)

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{constructors: make(map[string]Constructor)}
}

// Default is the process-wide registry used by Register.
var Default = NewRegistry() //nolint: gochecknoglobals

// Register adds a constructor to the Default registry and panics on failure,
// like other init-time registration helpers.
func Register(fqn string, ctor Constructor) {
	if err := Default.Register(fqn, ctor); err != nil {
		panic(err)
	}
}

// Register adds ctor under fqn. Empty names, nil constructors and duplicate
// names are rejected.
func (r *Registry) Register(fqn string, ctor Constructor) error {
	if fqn == "" {
		return serrors.With(serrors.ErrBadRequest, "constructor name must not be empty")
	}
	if ctor == nil {
		return serrors.With(serrors.ErrBadRequest, "constructor for %s must not be nil", fqn)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.constructors[fqn]; ok {
		return serrors.With(serrors.ErrBadRequest, "constructor for %s already registered", fqn)
	}
	r.constructors[fqn] = ctor

	return nil
}

// Registered reports whether a constructor exists for fqn.
func (r *Registry) Registered(fqn string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.constructors[fqn]

	return ok
}

// New implements Factory. A missing constructor, a nil result and a panicking
// constructor all fail with serrors.ErrInstantiation.
func (r *Registry) New(ctx context.Context, ref domain.TypeRef) (app domain.Application, err error) {
	r.mu.RLock()
	ctor, ok := r.constructors[ref.FQN()]
	r.mu.RUnlock()

	if !ok {
		return nil, serrors.Wrap(serrors.ErrInstantiation,
			serrors.KindOnly(serrors.ErrNotFound), "no constructor registered for %s", ref.FQN())
	}

	defer func() {
		if p := recover(); p != nil {
			app = nil
			err = serrors.Wrap(serrors.ErrInstantiation, fmt.Errorf("panic: %v", p), "could not construct %s", ref.FQN())
		}
	}()

	app = ctor()
	if app == nil {
		return nil, serrors.With(serrors.ErrInstantiation, "constructor for %s returned nil", ref.FQN())
	}
	logger.Debug(ctx, "constructed application", zap.String("type", ref.FQN()))

	return app, nil
}
