// Package instance turns an application type reference into a live value.
// Go has no reflective default construction, so every application type
// registers a zero-argument constructor under its fully qualified name,
// usually from an init function:
//
//	func init() {
//		instance.Register("example.com/acme/api.App", func() domain.Application { return &App{} })
//	}
//
//go:generate mockgen -package mockinstance -source=interface.go -destination=mock/mockinstance.go *
package instance

import (
	"context"

	"openapiscan/pkg/domain"
)

// Factory creates application values from type references.
type Factory interface {
	// New constructs the application type ref refers to. Any failure is
	// reported as serrors.ErrInstantiation.
	New(ctx context.Context, ref domain.TypeRef) (domain.Application, error)
}

// Constructor builds a fresh application value.
type Constructor func() domain.Application
