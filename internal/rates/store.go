package rates

import (
	"sync"

	"github.com/shopspring/decimal"
)

// OverrideStore is the external per-strategy, per-year base-rate store
// the resolver consults. Stored rates are base short-term loss rates;
// the resolver adds the strategy's long-term gain rate back to
// reconstruct the effective rate.
type OverrideStore interface {
	Get(strategyID string, year int) (decimal.Decimal, bool)
	Set(strategyID string, year int, rate decimal.Decimal)
	Clear(strategyID string, year int)

	// Snapshot returns a frozen view of the current contents. The
	// engine snapshots once per run and reads only the snapshot, so
	// concurrent writes to the live store cannot change rates mid-run.
	Snapshot() OverrideStore
}

type overrideKey struct {
	strategyID string
	year       int
}

// MemoryStore is an in-memory OverrideStore safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	rates map[overrideKey]decimal.Decimal
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rates: make(map[overrideKey]decimal.Decimal)}
}

func (m *MemoryStore) Get(strategyID string, year int) (decimal.Decimal, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rates[overrideKey{strategyID, year}]
	return r, ok
}

func (m *MemoryStore) Set(strategyID string, year int, rate decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rates[overrideKey{strategyID, year}] = rate
}

func (m *MemoryStore) Clear(strategyID string, year int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rates, overrideKey{strategyID, year})
}

// Snapshot copies the current contents into a frozen store, so a run
// sees one consistent view no matter what happens to the live store.
// A nil receiver snapshots to no store at all.
func (m *MemoryStore) Snapshot() OverrideStore {
	if m == nil {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	copied := make(map[overrideKey]decimal.Decimal, len(m.rates))
	for k, v := range m.rates {
		copied[k] = v
	}
	return &MemoryStore{rates: copied}
}
