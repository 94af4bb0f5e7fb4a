package api

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"parcel-index/internal/commune"
	"parcel-index/internal/lookup"
)

// LookupService owns the in-memory lookup caches. The two lookup files are
// loaded lazily on the first request and stay cached for the process
// lifetime; Reload drops the cache so the next request reads from disk again.
type LookupService struct {
	dataDir  string
	registry *commune.Registry
	canon    *commune.Canonicalizer

	mu       sync.Mutex
	loaded   bool
	loadErr  error
	parcels  map[string]lookup.ParcelRecord
	communes map[string]lookup.CommuneAggregate
}

// NewLookupService creates a service reading lookups from dataDir. Commune
// name resolution uses the same registry and spelling variants as the indexer.
func NewLookupService(dataDir string, registry *commune.Registry, variants map[string]string) *LookupService {
	return &LookupService{
		dataDir:  dataDir,
		registry: registry,
		canon:    commune.NewCanonicalizer(variants),
	}
}

// loadLocked reads both lookup files on first use. A failed load is cached
// too: the indexer has to be re-run before requests can succeed.
// Callers must hold s.mu.
func (s *LookupService) loadLocked() error {
	if s.loaded {
		return s.loadErr
	}
	s.loaded = true

	s.loadErr = s.readLookups()
	return s.loadErr
}

func (s *LookupService) readLookups() error {
	parcels := make(map[string]lookup.ParcelRecord)
	if err := readJSON(filepath.Join(s.dataDir, lookup.ParcelLookupFile), &parcels); err != nil {
		return err
	}

	communes := make(map[string]lookup.CommuneAggregate)
	if err := readJSON(filepath.Join(s.dataDir, lookup.CommuneLookupFile), &communes); err != nil {
		return err
	}

	s.parcels = parcels
	s.communes = communes
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading lookup %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing lookup %s: %w", path, err)
	}
	return nil
}

// Reload drops the cached lookups.
func (s *LookupService) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
	s.loadErr = nil
	s.parcels = nil
	s.communes = nil
}

// Loaded reports whether the lookups are currently cached in memory.
func (s *LookupService) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded && s.loadErr == nil
}

// Parcel returns the record for a parcel identifier.
func (s *LookupService) Parcel(id string) (lookup.ParcelRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return lookup.ParcelRecord{}, false, err
	}
	rec, ok := s.parcels[id]
	return rec, ok, nil
}

// Commune resolves a requested name through the spelling-variant map and the
// official registry, then returns its aggregate. Names that do not resolve
// to a registry member are reported as not found.
func (s *LookupService) Commune(name string) (string, lookup.CommuneAggregate, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return "", lookup.CommuneAggregate{}, false, err
	}

	canonical := s.canon.Canonicalize(name)
	if canonical == "" || !s.registry.Contains(canonical) {
		return "", lookup.CommuneAggregate{}, false, nil
	}

	agg, ok := s.communes[canonical]
	if !ok {
		// Registry member missing from the lookup file: treat as zeroed,
		// matching the builder's guarantee of a complete response shape.
		agg = lookup.CommuneAggregate{Parcels: []string{}}
	}
	return canonical, agg, true, nil
}

// Communes returns all aggregates keyed by canonical name. The map is a
// copy; the cache stays private to the service.
func (s *LookupService) Communes() (map[string]lookup.CommuneAggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return nil, err
	}

	out := make(map[string]lookup.CommuneAggregate, len(s.communes))
	for name, agg := range s.communes {
		out[name] = agg
	}
	return out, nil
}
