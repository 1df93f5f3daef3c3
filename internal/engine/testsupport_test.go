package engine

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"blackledger.io/internal/catalog"
	"blackledger.io/internal/store"
)

// memStore is an in-memory store.Store with an optional injected save
// failure, for exercising rollback paths.
type memStore struct {
	mu      sync.Mutex
	records map[string][]byte

	failSave error
}

func newMemStore() *memStore {
	return &memStore{records: map[string][]byte{}}
}

func (m *memStore) Load(key string, v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.records[key]
	if !ok {
		return store.ErrNotFound
	}
	return json.Unmarshal(raw, v)
}

func (m *memStore) Save(key string, v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave != nil {
		return m.failSave
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.records[key] = raw
	return nil
}

func (m *memStore) Close() error { return nil }

func (m *memStore) setFailSave(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSave = err
}

func (m *memStore) savedBalance(t *testing.T) int64 {
	t.Helper()
	var rec store.BalanceRecord
	if err := m.Load(store.KeyBalance, &rec); err != nil {
		t.Fatalf("load saved balance: %v", err)
	}
	return rec.Balance
}

func (m *memStore) savedStock(t *testing.T) store.StockRecord {
	t.Helper()
	var rec store.StockRecord
	if err := m.Load(store.KeyStock, &rec); err != nil {
		t.Fatalf("load saved stock: %v", err)
	}
	return rec
}

var errDiskGone = errors.New("disk gone")

func testCatalog(t *testing.T, items map[string]int64) *catalog.Catalog {
	t.Helper()
	dir := t.TempDir()

	type entry struct {
		Name  string `json:"name"`
		Price int64  `json:"price"`
	}
	var defs []entry
	for name, price := range items {
		defs = append(defs, entry{Name: name, Price: price})
	}
	b, err := json.Marshal(defs)
	if err != nil {
		t.Fatalf("marshal items: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "items.json"), b, 0o644); err != nil {
		t.Fatalf("write items.json: %v", err)
	}

	cat, err := catalog.Load(dir)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return cat
}
