package vm

import (
	"fmt"

	"github.com/drift-lang/drift/internal/exception"
	"github.com/drift-lang/drift/internal/object"
)

// Registry is the single process-wide module table (spec.md §5: "the
// module registry is a single process-wide collection, written once per
// module definition and read by use").
type Registry struct {
	byName map[string][]*object.Module
}

// NewRegistry creates an empty module Registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string][]*object.Module)}
}

// Register adds mod to the registry. A duplicate registration that
// conflicts with an existing public name under the same module name is a
// defined error surfaced to the caller (spec.md §4.5).
func (r *Registry) Register(mod *object.Module) error {
	for _, existing := range r.byName[mod.Name] {
		for name := range mod.Pub {
			if _, clash := existing.Pub[name]; clash {
				return exception.New(exception.RuntimeError,
					fmt.Sprintf("module %q already publishes name %q", mod.Name, name), 0)
			}
		}
	}
	r.byName[mod.Name] = append(r.byName[mod.Name], mod)
	return nil
}

// Lookup returns every registered Module sharing name, in registration
// order (directory-listing order of std/ followed by the user entry
// point, per spec.md §5).
func (r *Registry) Lookup(name string) []*object.Module {
	return r.byName[name]
}
