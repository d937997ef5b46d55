// Package faker is the host side of the fake-data framework: a shared random
// source, the numerify template language and explicit provider registration.
// This is part of the platform layer and contains no business logic.
package faker

import (
	"fmt"
	"sort"
	"sync"
)

// Provider is implemented by every fake-data plugin.
type Provider interface {
	// Name returns the provider's registration key.
	Name() string
}

// Binder is implemented by providers that need the host's random source.
type Binder interface {
	Bind(src Source)
}

// Faker holds the registered providers and the random source they share.
type Faker struct {
	src Source

	mu        sync.RWMutex
	providers map[string]Provider
}

// New creates a Faker seeded with seed (0 = random seed).
func New(seed int64) *Faker {
	return NewWithSource(NewSource(seed))
}

// NewWithSource creates a Faker around an existing source.
func NewWithSource(src Source) *Faker {
	return &Faker{
		src:       src,
		providers: make(map[string]Provider),
	}
}

// AddProvider registers p under p.Name(). Providers implementing Binder
// receive the Faker's source.
func (f *Faker) AddProvider(p Provider) error {
	name := p.Name()
	if name == "" {
		return fmt.Errorf("faker: provider name is empty")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.providers[name]; exists {
		return fmt.Errorf("faker: provider %q already registered", name)
	}
	if b, ok := p.(Binder); ok {
		b.Bind(f.src)
	}
	f.providers[name] = p
	return nil
}

// Provider looks up a registered provider by name.
func (f *Faker) Provider(name string) (Provider, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	p, ok := f.providers[name]
	return p, ok
}

// Providers returns the registered names, sorted.
func (f *Faker) Providers() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.providers))
	for name := range f.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Source returns the shared random source.
func (f *Faker) Source() Source {
	return f.src
}

// Numerify expands pattern with the shared source.
func (f *Faker) Numerify(pattern string) string {
	return Compile(pattern).Expand(f.src)
}
