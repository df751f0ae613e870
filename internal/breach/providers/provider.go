package providers

import (
	"context"
	"fmt"
	"time"

	"cyphex/internal/breach/models"
)

// Result is a successful provider answer. An empty Breaches slice means the
// provider answered and had nothing on the address.
type Result struct {
	ProviderID string
	Breaches   []models.BreachRecord
	CheckedAt  time.Time
}

// Provider is the interface every breach database adapter implements.
//
// Lookup returns a *ProviderError on failure so the orchestrator can decide
// between falling back, reporting clean, or surfacing an error without
// inspecting transport details.
type Provider interface {
	// ID is the stable name used in BREACH_PROVIDERS, logs and metrics.
	ID() string

	Lookup(ctx context.Context, email string) (*Result, error)

	// Health reports whether the provider is reachable.
	Health(ctx context.Context) error
}

// Registry indexes providers by ID. Register everything during startup;
// it is not safe for concurrent mutation.
type Registry struct {
	providers map[string]Provider
	order     []string
}

func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider. Duplicate IDs are rejected.
func (r *Registry) Register(p Provider) error {
	id := p.ID()
	if _, exists := r.providers[id]; exists {
		return fmt.Errorf("provider %s already registered", id)
	}
	r.providers[id] = p
	r.order = append(r.order, id)
	return nil
}

func (r *Registry) Get(id string) (Provider, bool) {
	p, ok := r.providers[id]
	return p, ok
}

// Chain resolves ids to providers in order, failing on the first unknown id.
func (r *Registry) Chain(ids []string) ([]Provider, error) {
	chain := make([]Provider, 0, len(ids))
	for _, id := range ids {
		p, ok := r.providers[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, id)
		}
		chain = append(chain, p)
	}
	return chain, nil
}

// IDs lists registered provider IDs in registration order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}
