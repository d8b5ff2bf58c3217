package hazard

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNoRecord  = errors.New("hazard: record not found")
	ErrDuplicate = errors.New("hazard: duplicate record id")
)

// Repository is the record store contract.
//
// Implementations must return copies: callers never alias stored records.
type Repository interface {
	Insert(ctx context.Context, r Record) error
	FindByID(ctx context.Context, id string) (Record, error)
	// Remove deletes the record with id. When check is non-nil it runs against the stored
	// record under the same lock and a non-nil result aborts the removal.
	Remove(ctx context.Context, id string, check func(Record) error) (Record, error)
	All(ctx context.Context) ([]Record, error)
	Filter(ctx context.Context, p Predicate) ([]Record, error)
	// Update applies fn to the stored record atomically. If fn fails nothing is written.
	Update(ctx context.Context, id string, fn func(*Record) error) (Record, error)
}

// MemoryRepo keeps records in insertion order, in process memory only.
type MemoryRepo struct {
	mu      sync.RWMutex
	records []Record
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (m *MemoryRepo) Insert(ctx context.Context, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexOf(r.ID) >= 0 {
		return ErrDuplicate
	}
	m.records = append(m.records, r.clone())
	return nil
}

func (m *MemoryRepo) FindByID(ctx context.Context, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.indexOf(id)
	if i < 0 {
		return Record{}, ErrNoRecord
	}
	return m.records[i].clone(), nil
}

func (m *MemoryRepo) Remove(ctx context.Context, id string, check func(Record) error) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return Record{}, ErrNoRecord
	}
	removed := m.records[i]
	if check != nil {
		if err := check(removed.clone()); err != nil {
			return Record{}, err
		}
	}
	m.records = append(m.records[:i], m.records[i+1:]...)
	return removed, nil
}

func (m *MemoryRepo) All(ctx context.Context) ([]Record, error) {
	return m.Filter(ctx, nil)
}

func (m *MemoryRepo) Filter(ctx context.Context, p Predicate) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Record, 0, len(m.records))
	for _, r := range m.records {
		if p == nil || p(r) {
			out = append(out, r.clone())
		}
	}
	return out, nil
}

func (m *MemoryRepo) Update(ctx context.Context, id string, fn func(*Record) error) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return Record{}, ErrNoRecord
	}
	next := m.records[i].clone()
	if err := fn(&next); err != nil {
		return Record{}, err
	}
	m.records[i] = next
	return next.clone(), nil
}

func (m *MemoryRepo) indexOf(id string) int {
	for i := range m.records {
		if m.records[i].ID == id {
			return i
		}
	}
	return -1
}
