package rates

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStore_SetGetClear(t *testing.T) {
	store := NewMemoryStore()

	_, ok := store.Get("qfaf_moderate", 1)
	assert.False(t, ok)

	store.Set("qfaf_moderate", 1, d(0.11))
	rate, ok := store.Get("qfaf_moderate", 1)
	assert.True(t, ok)
	assertRate(t, d(0.11), rate)

	// Same strategy, different year is a different key.
	_, ok = store.Get("qfaf_moderate", 2)
	assert.False(t, ok)

	store.Clear("qfaf_moderate", 1)
	_, ok = store.Get("qfaf_moderate", 1)
	assert.False(t, ok)
}

func TestMemoryStore_SnapshotIsFrozen(t *testing.T) {
	store := NewMemoryStore()
	store.Set("qfaf_moderate", 1, d(0.11))

	snap := store.Snapshot()
	store.Set("qfaf_moderate", 1, d(0.05))
	store.Set("qfaf_moderate", 2, d(0.04))

	rate, ok := snap.Get("qfaf_moderate", 1)
	assert.True(t, ok)
	assertRate(t, d(0.11), rate)
	_, ok = snap.Get("qfaf_moderate", 2)
	assert.False(t, ok, "writes after the snapshot are invisible")
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(year int) {
			defer wg.Done()
			store.Set("qfaf_aggressive", year, d(0.10))
			store.Get("qfaf_aggressive", year)
			store.Snapshot()
		}(i)
	}
	wg.Wait()

	for i := 0; i < 8; i++ {
		_, ok := store.Get("qfaf_aggressive", i)
		assert.True(t, ok)
	}
}
