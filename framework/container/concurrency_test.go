package container_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-lifetime/framework/container"
)

func TestSingleton_ConcurrentFirstResolutionBuildsOnce(t *testing.T) {
	const workers = 64

	var built atomic.Int64
	c := container.New()
	c.Singleton("op", func(container.Resolver) (any, error) {
		built.Add(1)
		time.Sleep(10 * time.Millisecond) // widen the race window
		return newToken(), nil
	})

	start := make(chan struct{})
	ids := make([]uuid.UUID, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			scope := c.NewScope()
			defer scope.Dispose()

			<-start
			tok, err := container.Resolve[*token](scope, "op")
			errs[i] = err
			if err == nil {
				ids[i] = tok.id
			}
		}(i)
	}
	close(start)
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	assert.EqualValues(t, 1, built.Load(), "singleton factory must run exactly once")
}

func TestScopes_ConcurrentUnitsOfWorkAreIsolated(t *testing.T) {
	const workers = 32

	c := container.New()
	c.Scoped("op", tokenFactory(nil))

	var mu sync.Mutex
	seen := make(map[uuid.UUID]bool)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			scope := c.NewScope()
			defer scope.Dispose()

			a, errA := container.Resolve[*token](scope, "op")
			b, errB := container.Resolve[*token](scope, "op")
			if !assert.NoError(t, errA) || !assert.NoError(t, errB) {
				return
			}
			assert.Same(t, a, b)

			mu.Lock()
			seen[a.id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers, "every scope must get its own scoped instance")
}

func TestScope_ConcurrentScopedResolutionConvergesOnOneInstance(t *testing.T) {
	const workers = 16

	var released atomic.Int64
	c := container.New()
	c.Scoped("op", func(container.Resolver) (any, error) {
		time.Sleep(5 * time.Millisecond)
		return &countedRelease{n: &released}, nil
	})

	scope := c.NewScope()
	start := make(chan struct{})
	got := make([]any, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			<-start
			got[i], _ = scope.Resolve("op")
		}(i)
	}
	close(start)
	wg.Wait()

	for i := 1; i < workers; i++ {
		assert.Same(t, got[0], got[i])
	}
	losers := released.Load()

	require.NoError(t, scope.Dispose())
	assert.Equal(t, losers+1, released.Load(), "the cached instance is released on Dispose")
}

type countedRelease struct{ n *atomic.Int64 }

func (c *countedRelease) Release() error {
	c.n.Add(1)
	return nil
}
