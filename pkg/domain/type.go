package domain

import (
	"slices"
	"strings"
)

// TypeKind classifies the underlying declaration of a named type.
type TypeKind string

const (
	// TypeKindStruct is a struct type declaration.
	TypeKindStruct TypeKind = "struct"
	// TypeKindInterface is an interface type declaration.
	TypeKindInterface TypeKind = "interface"
	// TypeKindAlias is a type alias (type A = B).
	TypeKindAlias TypeKind = "alias"
	// TypeKindOther covers named types over any other underlying type.
	TypeKindOther TypeKind = "other"
)

// Marker is a tag attached to a type declaration through a comment directive.
type Marker string

const (
	// MarkerPath marks a web-service endpoint type. Its argument is the path.
	MarkerPath Marker = "path"
	// MarkerDefinition marks a type describing global API metadata.
	MarkerDefinition Marker = "definition"
)

// Markers lists every marker the indexers recognise.
func Markers() []Marker {
	return []Marker{MarkerPath, MarkerDefinition}
}

// TypeRef is a handle to a named type discovered in a module.
type TypeRef struct {
	// Package is the import path of the package declaring the type.
	Package string
	// Name is the declared type name.
	Name string
	// Kind is the kind of the underlying declaration.
	Kind TypeKind
	// File is the source file relative to the module root, if known.
	File string
	// Methods lists the method names declared on T or *T, sorted.
	Methods []string
	// Markers maps each marker found on the declaration to its argument.
	Markers map[Marker]string
}

// FQN returns the fully qualified name of the type, which is its identity.
func (t TypeRef) FQN() string {
	return t.Package + "." + t.Name
}

// HasMarker reports whether the type carries the given marker.
func (t TypeRef) HasMarker(m Marker) bool {
	_, ok := t.Markers[m]

	return ok
}

// HasMethods reports whether every name in methods is declared on the type.
func (t TypeRef) HasMethods(methods ...string) bool {
	for _, m := range methods {
		if !slices.Contains(t.Methods, m) {
			return false
		}
	}

	return true
}

// InPackage reports whether the type is declared in pkg or in a package nested
// below it.
func (t TypeRef) InPackage(pkg string) bool {
	return t.Package == pkg || strings.HasPrefix(t.Package, pkg+"/")
}

// InScope reports whether the type's package starts with one of the given
// prefixes. An empty scope contains every type.
func (t TypeRef) InScope(scope []string) bool {
	if len(scope) == 0 {
		return true
	}
	for _, s := range scope {
		if strings.HasPrefix(t.Package, s) {
			return true
		}
	}

	return false
}
