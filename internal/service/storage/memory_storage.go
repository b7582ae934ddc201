package storage

import (
	"context"
	"sync"

	"avgspeed/internal/model"
)

// MemoryLog - universal in-memory append-only sequence
type MemoryLog[V any] struct {
	items []V
	mutex sync.RWMutex
}

// NewMemoryLog creates a new empty log
func NewMemoryLog[V any]() *MemoryLog[V] {
	return &MemoryLog[V]{}
}

// Append adds an item at the end
func (l *MemoryLog[V]) Append(item V) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.items = append(l.items, item)
}

// All returns a copy of every item in insertion order
func (l *MemoryLog[V]) All() []V {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	result := make([]V, len(l.items))
	copy(result, l.items)
	return result
}

// Reset drops every item
func (l *MemoryLog[V]) Reset() {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.items = nil
}

// Count returns the number of items
func (l *MemoryLog[V]) Count() int {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return len(l.items)
}

// MemoryReportStore keeps reports in process memory, nothing survives a restart
type MemoryReportStore struct {
	log *MemoryLog[model.Report]
}

func NewMemoryReportStore() *MemoryReportStore {
	return &MemoryReportStore{log: NewMemoryLog[model.Report]()}
}

func (s *MemoryReportStore) Append(_ context.Context, report model.Report) error {
	s.log.Append(report)
	return nil
}

func (s *MemoryReportStore) LoadAll(_ context.Context) ([]model.Report, error) {
	return s.log.All(), nil
}

func (s *MemoryReportStore) Clear(_ context.Context) error {
	s.log.Reset()
	return nil
}

func (s *MemoryReportStore) Close() error {
	return nil
}

// Count returns the number of stored reports
func (s *MemoryReportStore) Count() int {
	return s.log.Count()
}
