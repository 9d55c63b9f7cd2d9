package activitypub

import (
	"maps"
	"slices"
	"sync"
)

// A Directory maps server names to the Server handling them.
type Directory interface {
	// Register makes server reachable as name, replacing any previous
	// registration.
	Register(name string, server Server)

	// Resolve returns the Server registered as name.
	Resolve(name string) (Server, bool)
}

// Registry is an in memory Directory shared by every server of a federation.
type Registry struct {
	mu      sync.RWMutex
	servers map[string]Server
}

// NewDirectory returns an empty Registry.
func NewDirectory() *Registry {
	return &Registry{
		servers: make(map[string]Server),
	}
}

func (r *Registry) Register(name string, server Server) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.servers[name] = server
}

func (r *Registry) Resolve(name string) (Server, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.servers[name]
	return s, ok
}

// Names returns the registered server names in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.servers))
}
