// Package domain contains the core types shared by the scanner, the index
// implementations and the report writer. A TypeRef describes a named Go type
// found in a module; it carries no reference to the index that produced it so
// it can be passed freely between packages.
package domain
