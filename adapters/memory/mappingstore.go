// Package memory provides in-memory implementations of storage ports,
// used by tests and the CLI's ad-hoc mode.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/mapforge/mapforge/domain/mapping"
	"github.com/mapforge/mapforge/ports"
)

// Store errors.
var (
	ErrNotFound = errors.New("mapping config not found")
	ErrExists   = errors.New("mapping config already exists")
)

// MappingStore keeps mapping configurations in memory. Configurations are
// immutable once named: Save rejects an existing name.
type MappingStore struct {
	mu      sync.RWMutex
	configs map[string]mapping.Config
}

// NewMappingStore creates an empty store.
func NewMappingStore() *MappingStore {
	return &MappingStore{configs: make(map[string]mapping.Config)}
}

// Get retrieves a configuration by name.
func (s *MappingStore) Get(_ context.Context, name string) (mapping.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.configs[name]
	if !ok {
		return mapping.Config{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return cfg, nil
}

// Save stores a new configuration.
func (s *MappingStore) Save(_ context.Context, cfg mapping.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.configs[cfg.Name]; ok {
		return fmt.Errorf("%w: %s", ErrExists, cfg.Name)
	}
	s.configs[cfg.Name] = cfg
	return nil
}

// List returns all configuration names, sorted.
func (s *MappingStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.configs))
	for name := range s.configs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a configuration.
func (s *MappingStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.configs[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	delete(s.configs, name)
	return nil
}

// Ensure interface compliance.
var _ ports.MappingStore = (*MappingStore)(nil)
