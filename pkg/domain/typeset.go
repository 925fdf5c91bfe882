package domain

import (
	"maps"
	"slices"
)

// TypeSet is a set of types keyed by fully qualified name.
type TypeSet map[string]TypeRef

// NewTypeSet returns a set holding the given types.
func NewTypeSet(types ...TypeRef) TypeSet {
	s := make(TypeSet, len(types))
	s.Add(types...)

	return s
}

// Add inserts types into the set. A type already present is kept as is.
func (s TypeSet) Add(types ...TypeRef) {
	for _, t := range types {
		if _, ok := s[t.FQN()]; !ok {
			s[t.FQN()] = t
		}
	}
}

// Union adds every member of other to the set.
func (s TypeSet) Union(other TypeSet) {
	for k, t := range other {
		if _, ok := s[k]; !ok {
			s[k] = t
		}
	}
}

// Has reports whether a type with the given FQN is in the set.
func (s TypeSet) Has(fqn string) bool {
	_, ok := s[fqn]

	return ok
}

// Len returns the number of types in the set.
func (s TypeSet) Len() int { return len(s) }

// Names returns the sorted FQNs of the set members.
func (s TypeSet) Names() []string {
	return slices.Sorted(maps.Keys(s))
}

// Sorted returns the set members ordered by FQN.
func (s TypeSet) Sorted() []TypeRef {
	names := s.Names()
	out := make([]TypeRef, len(names))
	for i, n := range names {
		out[i] = s[n]
	}

	return out
}
