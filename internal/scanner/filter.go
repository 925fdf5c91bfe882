package scanner

import (
	"slices"
	"strings"
)

// ResourceFilter decides whether a package is within the configured resource
// packages. It is a pure function of its configuration.
type ResourceFilter struct {
	packages map[string]struct{}
	children bool
}

// NewResourceFilter returns a filter over packages. With children set, a
// package also matches when it starts with a configured package.
func NewResourceFilter(packages []string, children bool) ResourceFilter {
	set := make(map[string]struct{}, len(packages))
	for _, p := range packages {
		set[p] = struct{}{}
	}

	return ResourceFilter{packages: set, children: children}
}

// Match reports whether pkg passes the filter. An empty filter matches every
// package.
func (f ResourceFilter) Match(pkg string) bool {
	if len(f.packages) == 0 {
		return true
	}
	if _, ok := f.packages[pkg]; ok {
		return true
	}
	if !f.children {
		return false
	}
	for p := range f.packages {
		if strings.HasPrefix(pkg, p) {
			return true
		}
	}

	return false
}

// Packages returns the configured packages, sorted.
func (f ResourceFilter) Packages() []string {
	out := make([]string, 0, len(f.packages))
	for p := range f.packages {
		out = append(out, p)
	}
	slices.Sort(out)

	return out
}
