package linker

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gkf-project/gkf/backend/pkg/logger"
)

// Registry maps source keys to resolver factories and lazily built
// instances. Instances are constructed once per key on first lookup and
// cached for the registry's lifetime; the mutex doubles as the
// construct-once guard when concurrent callers race on the same key.
type Registry struct {
	mu        sync.Mutex
	factories map[string]Factory
	instances map[string]Linker
	configs   map[string]Config
}

// Info summarizes the registry state for discovery endpoints.
type Info struct {
	TotalLinkers        int      `json:"total_linkers"`
	InstantiatedLinkers int      `json:"instantiated_linkers"`
	AvailableLinkers    []string `json:"available_linkers"`
	ConfiguredLinkers   []string `json:"configured_linkers"`
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		instances: make(map[string]Linker),
		configs:   make(map[string]Config),
	}
}

// RegisterClass associates a key with a factory for lazy construction.
// Last write wins: re-registering a key drops any cached instance.
// A missing key or nil factory is a programmer error and fails fast.
func (r *Registry) RegisterClass(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("linker name must not be empty")
	}
	if factory == nil {
		return fmt.Errorf("linker factory for %q must not be nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
	delete(r.instances, name)
	logger.Debug("Registered linker class", "source", name)
	return nil
}

// RegisterInstance associates a key directly with a built resolver,
// bypassing lazy construction. Useful for tests and custom wiring.
func (r *Registry) RegisterInstance(name string, instance Linker) error {
	if name == "" {
		return fmt.Errorf("linker name must not be empty")
	}
	if instance == nil {
		return fmt.Errorf("linker instance for %q must not be nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances[name] = instance
	logger.Debug("Registered linker instance", "source", name)
	return nil
}

// SetConfig stores the configuration used when the key's factory runs.
// Setting a config does not rebuild an already cached instance.
func (r *Registry) SetConfig(name string, cfg Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[name] = cfg
}

// Get returns the resolver for a key, constructing and caching it on first
// access. Unknown keys and factory failures return nil; lookups never panic.
func (r *Registry) Get(name string) Linker {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getLocked(name)
}

func (r *Registry) getLocked(name string) Linker {
	if instance, ok := r.instances[name]; ok {
		return instance
	}

	factory, ok := r.factories[name]
	if !ok {
		logger.Warn("Linker not found", "source", name)
		return nil
	}

	instance, err := factory(r.configs[name])
	if err != nil {
		logger.Error("Failed to construct linker", "source", name, "err", err)
		return nil
	}
	r.instances[name] = instance
	logger.Debug("Instantiated linker", "source", name)
	return instance
}

// GetAll forces instantiation of every registered class and returns the full
// live set. Keys whose construction fails are omitted.
func (r *Registry) GetAll() map[string]Linker {
	r.mu.Lock()
	defer r.mu.Unlock()

	linkers := make(map[string]Linker, len(r.factories)+len(r.instances))
	for name := range r.factories {
		if instance := r.getLocked(name); instance != nil {
			linkers[name] = instance
		}
	}
	for name, instance := range r.instances {
		linkers[name] = instance
	}
	return linkers
}

// List returns the registered source keys, sorted, without forcing
// instantiation.
func (r *Registry) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, len(r.factories)+len(r.instances))
	for name := range r.factories {
		seen[name] = struct{}{}
	}
	for name := range r.instances {
		seen[name] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a key is registered as a class or an instance.
func (r *Registry) Has(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, hasFactory := r.factories[name]
	_, hasInstance := r.instances[name]
	return hasFactory || hasInstance
}

// Unregister removes a key, dropping both class and cached instance.
// Removing an unknown key is a no-op.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.factories, name)
	delete(r.instances, name)
	delete(r.configs, name)
	logger.Debug("Unregistered linker", "source", name)
}

// RegistryInfo returns counts and key lists describing the registry state.
func (r *Registry) RegistryInfo() Info {
	r.mu.Lock()
	defer r.mu.Unlock()

	configured := make([]string, 0, len(r.configs))
	for name := range r.configs {
		configured = append(configured, name)
	}
	sort.Strings(configured)

	seen := make(map[string]struct{}, len(r.factories)+len(r.instances))
	for name := range r.factories {
		seen[name] = struct{}{}
	}
	for name := range r.instances {
		seen[name] = struct{}{}
	}
	available := make([]string, 0, len(seen))
	for name := range seen {
		available = append(available, name)
	}
	sort.Strings(available)

	return Info{
		TotalLinkers:        len(available),
		InstantiatedLinkers: len(r.instances),
		AvailableLinkers:    available,
		ConfiguredLinkers:   configured,
	}
}
