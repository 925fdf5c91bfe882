package scanner

import (
	"context"

	"openapiscan/pkg/domain"
)

// Scanner discovers the types a documentation generator introspects. Every
// call is a fresh read of the underlying index.
type Scanner interface {
	// ApplicationInstance returns the single application found within the
	// resource packages, or nil when there is none or more than one.
	ApplicationInstance(ctx context.Context) (domain.Application, error)
	// ApplicationType reports which type ApplicationInstance would construct,
	// without constructing it. ok is false when there is none or more than one.
	ApplicationType(ctx context.Context) (ref domain.TypeRef, ok bool, err error)
	// Schemas returns every type declared under the schema packages.
	Schemas(ctx context.Context) (domain.TypeSet, error)
	// Classes returns the path and definition marked types within the
	// resource packages.
	Classes(ctx context.Context) (domain.TypeSet, error)
}
