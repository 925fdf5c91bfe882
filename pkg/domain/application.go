package domain

// Application is the single root registration point of a web service. At most
// one application type is expected per module.
type Application interface {
	// Resources returns the fully qualified names of the resource types the
	// application registers explicitly.
	Resources() []string
	// Properties returns application wide settings made available to resources.
	Properties() map[string]any
}

// Contract describes a type contract by the method names a type must declare.
type Contract struct {
	// Name is a human readable name used in logs.
	Name string
	// Methods are the method names every implementation declares.
	Methods []string
}

// ApplicationContract is the contract application types satisfy.
var ApplicationContract = Contract{ //nolint: gochecknoglobals
	Name:    "Application",
	Methods: []string{"Resources", "Properties"},
}

// SatisfiedBy reports whether t is a concrete type declaring every method of
// the contract. Interfaces are never considered implementations.
func (c Contract) SatisfiedBy(t TypeRef) bool {
	if t.Kind == TypeKindInterface {
		return false
	}

	return t.HasMethods(c.Methods...)
}
