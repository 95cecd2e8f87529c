// SPDX-License-Identifier: MPL-2.0

package activation

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/plugstack/plugstack/internal/artifact"
	"github.com/plugstack/plugstack/internal/composition"
)

// ErrDuplicateProvider is returned when an artifact id already has a provider.
var ErrDuplicateProvider = errors.New("activation provider already registered")

type (
	// Provider activates one composed module.
	Provider interface {
		Activate(ctx context.Context, m composition.Module) error
	}

	// ProviderFunc adapts a function to the Provider interface.
	ProviderFunc func(ctx context.Context, m composition.Module) error

	// Registry maps artifact ids to providers. It is safe for concurrent use.
	Registry struct {
		mu        sync.RWMutex
		providers map[artifact.ID]Provider
		fallback  Provider
	}
)

// Activate calls f(ctx, m).
func (f ProviderFunc) Activate(ctx context.Context, m composition.Module) error {
	return f(ctx, m)
}

// NewRegistry creates an empty registry without a fallback provider.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[artifact.ID]Provider)}
}

// Register binds a provider to an artifact id.
func (r *Registry) Register(id artifact.ID, p Provider) error {
	if ok, errs := id.IsValid(); !ok {
		return errors.Join(errs...)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateProvider, id)
	}
	r.providers[id] = p
	return nil
}

// SetFallback sets the provider used for modules without a registered one.
// A nil provider disables the fallback.
func (r *Registry) SetFallback(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = p
}

// Lookup returns the provider for an artifact id, falling back to the
// fallback provider.
func (r *Registry) Lookup(id artifact.ID) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.providers[id]; ok {
		return p, true
	}
	if r.fallback != nil {
		return r.fallback, true
	}
	return nil, false
}

// IDs returns the artifact ids with a registered provider, sorted.
func (r *Registry) IDs() []artifact.ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.providers))
}

// Activate runs the provider of every module in the given order. Modules
// without a provider are skipped. A failing provider does not stop the
// others; its error is returned as a module-scoped error. Cancelling ctx stops
// before the next module.
func (r *Registry) Activate(ctx context.Context, modules []composition.Module) (activated int, errs []*composition.ModuleError) {
	for _, m := range modules {
		if err := ctx.Err(); err != nil {
			errs = append(errs, &composition.ModuleError{ArtifactID: m.ID, Op: composition.OpActivate, Err: err})
			return activated, errs
		}

		p, ok := r.Lookup(m.ID)
		if !ok {
			continue
		}
		if err := p.Activate(ctx, m); err != nil {
			errs = append(errs, &composition.ModuleError{ArtifactID: m.ID, Op: composition.OpActivate, Err: err})
			continue
		}
		activated++
	}
	return activated, errs
}
