package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ppiankov/reformcast/internal/model"
)

// SimulationEntry is the cached form of a completed Monte Carlo run.
type SimulationEntry struct {
	Seed    int64                    `json:"seed"`
	Records []model.SimulationRecord `json:"records"`
}

// SimulationStore caches simulation runs keyed by everything that
// determines their output. Decoded runs stay in memory; the disk layer
// holds their JSON form across processes.
type SimulationStore struct {
	memory *MemoryCache
	disk   Cache
	ttl    time.Duration
}

// NewSimulationStore layers memory over disk. A zero ttl uses each
// layer's default expiry.
func NewSimulationStore(memory *MemoryCache, disk Cache, ttl time.Duration) *SimulationStore {
	return &SimulationStore{memory: memory, disk: disk, ttl: ttl}
}

// NewDefaultSimulationStore builds the memory and disk layers from cfg.
func NewDefaultSimulationStore(cfg model.CacheConfig) *SimulationStore {
	return NewSimulationStore(
		NewMemoryCache(cfg.MemoryTTL, 10*time.Minute),
		NewDiskCache(cfg.Dir, cfg.DiskTTL),
		0,
	)
}

// SimulationKey derives the key for a run. table must list all 32 entries in
// index order so that a change to any probability invalidates the entry.
func SimulationKey(table []model.TableEntry, marginals model.Marginals, trials int, seed int64, chunkSize int) string {
	parts := []any{"simulation", marginals.LegislativeMajority, marginals.JudicialChange,
		marginals.UnionCooperative, marginals.ConstitutionalChallenge, marginals.EconomicCrisis,
		trials, seed, chunkSize}
	for _, e := range table {
		parts = append(parts, e.Assignment.String(), e.Probability)
	}
	return Key(parts...)
}

// Get returns a cached run. Disk hits are promoted to memory; undecodable
// disk entries are removed.
func (s *SimulationStore) Get(key string) (*SimulationEntry, bool) {
	if entry, ok := s.memory.Get(key); ok {
		return entry, true
	}

	data, ok := s.disk.Get(key)
	if !ok {
		return nil, false
	}

	var entry SimulationEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		_ = s.disk.Delete(key)
		return nil, false
	}
	s.memory.Set(key, &entry, s.ttl)
	return &entry, true
}

// Put stores a run in both layers.
func (s *SimulationStore) Put(key string, entry *SimulationEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal simulation: %w", err)
	}
	s.memory.Set(key, entry, s.ttl)
	if err := s.disk.Set(key, data, s.ttl); err != nil {
		return fmt.Errorf("store simulation: %w", err)
	}
	return nil
}
