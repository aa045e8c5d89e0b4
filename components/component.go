// Package components is the runtime binding page behaviour to elements.  Each
// element carrying the marker attribute (`data-component="name"` by default)
// is handed to the factory registered under that name; the resulting
// instances are kept in the App's instance registry.
package components

import (
	"cmp"
	"context"
	"fmt"
	"iter"
	"maps"
	"slices"

	"golang.org/x/net/html"
)

// Common interface for components; each component must implement this.
type Component interface {
	// Initialize the component, binding it to its element.  This is called
	// exactly once per instance.
	Initialize(ctx context.Context, element *html.Node) error
	// Whether at most one instance of the component may exist on a page.  The
	// answer must not change for a given component.
	IsSingleton() bool
}

// UI maps names to the cached element references of a component.  Other
// components may read another component's UI, but must not modify it.
type UI map[string][]*html.Node

// Components exposing their cached elements implement UIProvider.
type UIProvider interface {
	UI() UI
}

// Factory creates a component instance.  The load function decodes the
// element's resolved options into a configuration structure; the factory
// should fill that structure with its defaults before calling load.
type Factory func(ctx context.Context, app *App, load func(any) error) (Component, error)

// Factories maps component names to their factories.  It is populated at
// startup and only read afterwards.
type Factories struct {
	factories map[string]Factory
}

// NewFactories returns an empty factory registry.
func NewFactories() *Factories {
	return &Factories{factories: make(map[string]Factory)}
}

// Register a factory; registering the same name twice panics.
func (f *Factories) Register(name string, factory Factory) {
	if name == "" || factory == nil {
		panic("component registration requires a name and a factory")
	}
	if _, ok := f.factories[name]; ok {
		panic(fmt.Sprintf("component %q was registered twice", name))
	}
	f.factories[name] = factory
}

// Lookup the factory for the given name.
func (f *Factories) Lookup(name string) (Factory, bool) {
	factory, ok := f.factories[name]
	return factory, ok
}

// Enumerate the registered factories, sorted by name.
func (f *Factories) Enumerate() iter.Seq2[string, Factory] {
	return func(yield func(string, Factory) bool) {
		names := slices.SortedFunc(maps.Keys(f.factories), cmp.Compare[string])
		for _, name := range names {
			if !yield(name, f.factories[name]) {
				return
			}
		}
	}
}

var registry = NewFactories()

// Register a component factory into the default registry.  This should be
// called from the `init()` function of each component's package.
func Register(name string, factory Factory) {
	registry.Register(name, factory)
}

// Enumerate the factories in the default registry.
func Enumerate() iter.Seq2[string, Factory] {
	return registry.Enumerate()
}
