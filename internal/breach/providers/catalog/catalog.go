// Package catalog wires the known breach providers from configuration.
package catalog

import (
	"cyphex/internal/breach/providers"
	"cyphex/internal/breach/providers/adapters"
	"cyphex/internal/breach/providers/hibp"
	"cyphex/internal/breach/providers/leakcheck"
	"cyphex/internal/breach/providers/xposedornot"
	"cyphex/internal/platform/config"
)

// NewRegistry registers every supported provider. client may be nil, in which
// case each adapter builds its own instrumented client.
func NewRegistry(cfg config.Breach, client adapters.HTTPDoer) (*providers.Registry, error) {
	reg := providers.NewRegistry()
	all := []providers.Provider{
		xposedornot.New(xposedornot.Config{
			BaseURL:    cfg.XposedOrNotBaseURL,
			Timeout:    cfg.ProviderTimeout,
			HTTPClient: client,
		}),
		hibp.New(hibp.Config{
			BaseURL:    cfg.HIBPBaseURL,
			APIKey:     cfg.HIBPAPIKey,
			Timeout:    cfg.ProviderTimeout,
			HTTPClient: client,
		}),
		leakcheck.New(leakcheck.Config{
			BaseURL:    cfg.LeakCheckBaseURL,
			Timeout:    cfg.ProviderTimeout,
			HTTPClient: client,
		}),
	}
	for _, p := range all {
		if err := reg.Register(p); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Chain returns the configured lookup order.
func Chain(cfg config.Breach, client adapters.HTTPDoer) ([]providers.Provider, error) {
	reg, err := NewRegistry(cfg, client)
	if err != nil {
		return nil, err
	}
	return reg.Chain(cfg.Providers)
}
