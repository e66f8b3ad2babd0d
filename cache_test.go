package spectre

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCacheGetHitReturnsSameKey(t *testing.T) {
	cache := NewCache()

	first, err := cache.Get("name", "secretsecret", AlgorithmCurrent)
	require.NoError(t, err)

	second, err := cache.Get("name", "secretsecret", AlgorithmCurrent)
	require.NoError(t, err)

	require.Same(t, first, second)
}

func TestCacheGetMissEvictsPreviousKey(t *testing.T) {
	cache := NewCache()

	first, err := cache.Get("name-one", "secretsecret", AlgorithmCurrent)
	require.NoError(t, err)

	_, err = cache.Get("name-two", "secretsecret", AlgorithmCurrent)
	require.NoError(t, err)

	require.Nil(t, first.Bytes())
}

func TestCacheClearZeroesKey(t *testing.T) {
	cache := NewCache()

	key, err := cache.Get("name", "secretsecret", AlgorithmCurrent)
	require.NoError(t, err)

	cache.Clear()
	require.Nil(t, key.Bytes())
}

func TestCacheGetConcurrentSameKeyCollapsesIntoOneDerivation(t *testing.T) {
	cache := NewCache()

	const workers = 16
	results := make([]*UserKey, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			key, err := cache.Get("concurrent", "secretsecret", AlgorithmCurrent)
			require.NoError(t, err)
			results[i] = key
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		require.Same(t, results[0], results[i])
	}
}
