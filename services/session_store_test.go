package services_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/sport-events/services"
)

func TestInMemorySessionStore(t *testing.T) {
	store := services.NewInMemorySessionStore()

	_, ok := store.Get("missing")
	assert.False(t, ok)

	store.Put("token-a", 1)
	store.Put("token-b", 2)

	userID, ok := store.Get("token-a")
	require.True(t, ok)
	assert.Equal(t, 1, userID)

	store.Evict("token-a")
	_, ok = store.Get("token-a")
	assert.False(t, ok)

	// Evict несуществующего токена безопасен.
	store.Evict("token-a")

	userID, ok = store.Get("token-b")
	require.True(t, ok)
	assert.Equal(t, 2, userID)
}

func TestInMemorySessionStoreConcurrent(t *testing.T) {
	store := services.NewInMemorySessionStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			token := fmt.Sprintf("token-%d", n)
			store.Put(token, n)
			if got, ok := store.Get(token); ok {
				assert.Equal(t, n, got)
			}
			store.Evict(token)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		_, ok := store.Get(fmt.Sprintf("token-%d", i))
		assert.False(t, ok)
	}
}
