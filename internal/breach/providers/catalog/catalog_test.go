package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyphex/internal/breach/providers"
	"cyphex/internal/platform/config"
)

func breachConfig(ids ...string) config.Breach {
	return config.Breach{
		Providers:          ids,
		ProviderTimeout:    time.Second,
		XposedOrNotBaseURL: "http://xon.test",
		HIBPBaseURL:        "http://hibp.test",
		LeakCheckBaseURL:   "http://leakcheck.test",
	}
}

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry(breachConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"xposedornot", "hibp", "leakcheck"}, reg.IDs())
}

func TestChain(t *testing.T) {
	chain, err := Chain(breachConfig("leakcheck", "xposedornot"), nil)
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.Equal(t, "leakcheck", chain[0].ID())
	assert.Equal(t, "xposedornot", chain[1].ID())

	_, err = Chain(breachConfig("xposedornot", "pwnedlist"), nil)
	assert.ErrorIs(t, err, providers.ErrProviderNotFound)
}
