package platform

import (
	"fmt"
	"sync"
)

// Registry maps platform identifiers to adapter instances. It is an explicit
// value constructed at startup and passed to callers, not a package global.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register adds an adapter under its platform identifier. Registering the
// same platform twice is a configuration mistake and fails.
func (r *Registry) Register(adapter Adapter) error {
	if adapter == nil {
		return fmt.Errorf("adapter is nil")
	}
	id := adapter.Platform()
	if id == "" {
		return fmt.Errorf("adapter has no platform identifier")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.adapters[id]; ok {
		return fmt.Errorf("platform %q already registered", id)
	}
	r.adapters[id] = adapter
	return nil
}

// Adapter returns the adapter for a platform identifier, or
// UnknownPlatformError when none is registered.
func (r *Registry) Adapter(platform string) (Adapter, error) {
	r.mu.RLock()
	adapter, ok := r.adapters[platform]
	r.mu.RUnlock()
	if !ok {
		return nil, UnknownPlatformError{Platform: platform}
	}
	return adapter, nil
}

// AdaptersForChain returns every registered adapter bound to the chain.
func (r *Registry) AdaptersForChain(chainID uint64) []Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Adapter, 0, len(r.adapters))
	for _, adapter := range r.adapters {
		if adapter.ChainID() == chainID {
			out = append(out, adapter)
		}
	}
	return out
}
