package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-lifetime/framework/container"
)

func noop(container.Resolver) (any, error) { return nil, nil }

func TestRegistry_LookupPreservesRegistrationOrder(t *testing.T) {
	r := container.NewRegistry()
	first, err := r.Register("op", container.Transient, noop)
	require.NoError(t, err)
	second, err := r.Register("op", container.Scoped, noop)
	require.NoError(t, err)

	regs, err := r.Lookup("op")
	require.NoError(t, err)
	require.Len(t, regs, 2)
	assert.Same(t, first, regs[0])
	assert.Same(t, second, regs[1])
	assert.Equal(t, container.Scoped, regs[1].Lifetime)
}

func TestRegistry_LookupUnknownKey(t *testing.T) {
	r := container.NewRegistry()

	_, err := r.Lookup("missing")
	assert.ErrorIs(t, err, container.ErrUnregisteredService)

	assert.Empty(t, r.LookupAll("missing"))
	assert.False(t, r.Bound("missing"))
}

func TestRegistry_LookupReturnsCopy(t *testing.T) {
	r := container.NewRegistry()
	_, _ = r.Register("op", container.Transient, noop)

	regs := r.LookupAll("op")
	regs[0] = nil

	assert.NotNil(t, r.LookupAll("op")[0])
}

func TestRegistry_AliasResolvesToCanonicalKey(t *testing.T) {
	r := container.NewRegistry()
	r.Alias("cache", "cacheManager")

	reg, err := r.Register("cacheManager", container.Singleton, noop)
	require.NoError(t, err)
	assert.Equal(t, container.Key("cache"), reg.Key)
	assert.Equal(t, []container.Key{"cache"}, r.Keys())
}
