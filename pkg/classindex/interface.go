// Package classindex defines the type index the scanner queries. An index is
// built from a module by static analysis (see goindex) or loaded from a
// manifest written ahead of time (see manifest); the scanner only depends on
// the Index interface.
//
//go:generate mockgen -package mockclassindex -source=interface.go -destination=mock/mockclassindex.go *
package classindex

import (
	"context"

	"openapiscan/pkg/domain"
)

// Index answers the three queries the scanner needs. Scope arguments are
// package path prefixes; an empty scope covers the whole module.
type Index interface {
	// SubTypesOf returns the concrete types within scope satisfying contract.
	SubTypesOf(ctx context.Context, contract domain.Contract, scope []string) ([]domain.TypeRef, error)
	// AnnotatedWith returns the types within scope carrying marker.
	AnnotatedWith(ctx context.Context, marker domain.Marker, scope []string) ([]domain.TypeRef, error)
	// TypesUnder returns every type declared in pkg or in packages nested below it.
	TypesUnder(ctx context.Context, pkg string) ([]domain.TypeRef, error)
}
