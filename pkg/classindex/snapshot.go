package classindex

import (
	"context"
	"slices"
	"strings"

	"openapiscan/pkg/domain"
)

// Snapshot is an immutable, in-memory Index over a fixed list of types.
type Snapshot struct {
	// Module is the module path the types were collected from.
	Module string

	types []domain.TypeRef
}

var _ Index = (*Snapshot)(nil)

// NewSnapshot returns a snapshot of types ordered by FQN. Types sharing an FQN
// are collapsed to the first occurrence.
func NewSnapshot(module string, types []domain.TypeRef) *Snapshot {
	set := domain.NewTypeSet(types...)

	return &Snapshot{Module: module, types: set.Sorted()}
}

// Types returns a copy of the indexed types ordered by FQN.
func (s *Snapshot) Types() []domain.TypeRef {
	return slices.Clone(s.types)
}

// Len returns the number of indexed types.
func (s *Snapshot) Len() int { return len(s.types) }

// Packages returns the sorted, distinct package paths present in the snapshot.
func (s *Snapshot) Packages() []string {
	var pkgs []string
	for _, t := range s.types {
		pkgs = append(pkgs, t.Package)
	}
	slices.Sort(pkgs)

	return slices.Compact(pkgs)
}

// SubTypesOf implements Index.
func (s *Snapshot) SubTypesOf(_ context.Context, contract domain.Contract, scope []string) ([]domain.TypeRef, error) {
	return s.filter(func(t domain.TypeRef) bool {
		return t.InScope(scope) && contract.SatisfiedBy(t)
	}), nil
}

// AnnotatedWith implements Index.
func (s *Snapshot) AnnotatedWith(_ context.Context, marker domain.Marker, scope []string) ([]domain.TypeRef, error) {
	return s.filter(func(t domain.TypeRef) bool {
		return t.InScope(scope) && t.HasMarker(marker)
	}), nil
}

// TypesUnder implements Index.
func (s *Snapshot) TypesUnder(_ context.Context, pkg string) ([]domain.TypeRef, error) {
	pkg = strings.TrimSuffix(pkg, "/")

	return s.filter(func(t domain.TypeRef) bool {
		return t.InPackage(pkg)
	}), nil
}

func (s *Snapshot) filter(keep func(domain.TypeRef) bool) []domain.TypeRef {
	var out []domain.TypeRef
	for _, t := range s.types {
		if keep(t) {
			out = append(out, t)
		}
	}

	return out
}
