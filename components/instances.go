package components

import (
	"cmp"
	"maps"
	"slices"
)

// RegistrationResult is the outcome of [Instances.Register].
type RegistrationResult int

const (
	Accepted = RegistrationResult(iota)
	RejectedDuplicate
)

func (r RegistrationResult) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case RejectedDuplicate:
		return "rejected-duplicate"
	}
	return "unknown"
}

// Entry holds the instances of one component: either a single instance for
// singletons, or the instances in document order.
type Entry struct {
	singleton Component
	list      []Component
}

// IsSingleton reports whether the entry holds a singleton instance.
func (e Entry) IsSingleton() bool {
	return e.singleton != nil
}

// Singleton returns the singleton instance, or nil.
func (e Entry) Singleton() Component {
	return e.singleton
}

// List returns the instances of a non-singleton component, in document order.
func (e Entry) List() []Component {
	return slices.Clone(e.list)
}

// Instances is the registry of live component instances, keyed by component
// name.  It is written only during the initialization pass.
type Instances struct {
	entries map[string]*Entry
}

// NewInstances returns an empty instance registry.
func NewInstances() *Instances {
	return &Instances{entries: make(map[string]*Entry)}
}

// Register an instance under the component name.  A singleton is only
// accepted if nothing is registered under the name yet; other instances are
// appended in order.
func (i *Instances) Register(name string, instance Component) RegistrationResult {
	entry, exists := i.entries[name]
	if instance.IsSingleton() {
		if exists {
			return RejectedDuplicate
		}
		i.entries[name] = &Entry{singleton: instance}
		return Accepted
	}
	if !exists {
		entry = &Entry{}
		i.entries[name] = entry
	} else if entry.IsSingleton() {
		return RejectedDuplicate
	}
	entry.list = append(entry.list, instance)
	return Accepted
}

// Has reports whether anything is registered under the name.
func (i *Instances) Has(name string) bool {
	_, ok := i.entries[name]
	return ok
}

// Get the entry for the component name.
func (i *Instances) Get(name string) (Entry, bool) {
	entry, ok := i.entries[name]
	if !ok {
		return Entry{}, false
	}
	return *entry, true
}

// Singleton returns the singleton instance registered under the name.
func (i *Instances) Singleton(name string) (Component, bool) {
	entry, ok := i.entries[name]
	if !ok || !entry.IsSingleton() {
		return nil, false
	}
	return entry.singleton, true
}

// List returns the non-singleton instances registered under the name.
func (i *Instances) List(name string) []Component {
	entry, ok := i.entries[name]
	if !ok {
		return nil
	}
	return entry.List()
}

// Names of all registered components, sorted.
func (i *Instances) Names() []string {
	return slices.SortedFunc(maps.Keys(i.entries), cmp.Compare[string])
}

// SingletonOf returns the singleton registered under the name as a concrete
// type.
func SingletonOf[T Component](i *Instances, name string) (T, bool) {
	instance, ok := i.Singleton(name)
	if !ok {
		return *new(T), false
	}
	typed, ok := instance.(T)
	return typed, ok
}

// ListOf returns the instances registered under the name that have the
// concrete type T, in document order.
func ListOf[T Component](i *Instances, name string) []T {
	var result []T
	for _, instance := range i.List(name) {
		if typed, ok := instance.(T); ok {
			result = append(result, typed)
		}
	}
	return result
}
