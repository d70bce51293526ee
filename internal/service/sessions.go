package service

import (
	"context"
	"fmt"
	"sync"
)

// TableDirectory reports which table numbers are registered.
// Satisfied by *TableRegistry.
type TableDirectory interface {
	Exists(ctx context.Context, tableNumber int32) (bool, error)
}

// Sessions keeps one order builder per registered table for the life of the
// process.
type Sessions struct {
	mu       sync.RWMutex
	builders map[int32]*OrderBuilder
	catalog  Catalog
	orders   OrderWriter
	tables   TableDirectory
}

// NewSessions creates an empty session set.
func NewSessions(catalog Catalog, orders OrderWriter, tables TableDirectory) *Sessions {
	return &Sessions{
		builders: make(map[int32]*OrderBuilder),
		catalog:  catalog,
		orders:   orders,
		tables:   tables,
	}
}

// Open focuses a table: the table's builder is created if needed and
// (re)loaded from the catalog and order ledger. Only registered tables get a
// builder; a builder whose first load fails is dropped again.
func (s *Sessions) Open(ctx context.Context, tableNumber int32) (*OrderBuilder, error) {
	if tableNumber <= 0 {
		return nil, ErrPreconditionFailed
	}

	s.mu.RLock()
	b, ok := s.builders[tableNumber]
	s.mu.RUnlock()

	if !ok {
		exists, err := s.tables.Exists(ctx, tableNumber)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("table %d: %w", tableNumber, ErrNotFound)
		}

		s.mu.Lock()
		if b, ok = s.builders[tableNumber]; !ok {
			b, err = NewOrderBuilder(tableNumber, s.catalog, s.orders)
			if err != nil {
				s.mu.Unlock()
				return nil, err
			}
			s.builders[tableNumber] = b
		}
		s.mu.Unlock()
	}

	if err := b.Load(ctx); err != nil {
		if !ok {
			s.evict(tableNumber, b)
		}
		return nil, err
	}
	return b, nil
}

// evict drops b if it is still the builder registered for the table.
func (s *Sessions) evict(tableNumber int32, b *OrderBuilder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.builders[tableNumber] == b {
		delete(s.builders, tableNumber)
	}
}

// Len returns the number of open builders.
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.builders)
}

// Get returns the open builder for a table.
func (s *Sessions) Get(tableNumber int32) (*OrderBuilder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.builders[tableNumber]
	if !ok {
		return nil, fmt.Errorf("no builder open for table %d: %w", tableNumber, ErrNotFound)
	}
	return b, nil
}

// Close resets and drops a table's builder. Closing a table without a
// builder is a no-op.
func (s *Sessions) Close(tableNumber int32) {
	s.mu.Lock()
	b, ok := s.builders[tableNumber]
	delete(s.builders, tableNumber)
	s.mu.Unlock()

	if ok {
		b.Reset()
	}
}

// CloseAll resets and drops every builder. Used after bulk purges so no
// builder keeps a stale working set.
func (s *Sessions) CloseAll() {
	s.mu.Lock()
	builders := s.builders
	s.builders = make(map[int32]*OrderBuilder)
	s.mu.Unlock()

	for _, b := range builders {
		b.Reset()
	}
}
