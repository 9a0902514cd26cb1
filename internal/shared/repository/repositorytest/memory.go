// Package repositorytest provides an in-memory repository for handler tests.
package repositorytest

import (
	"context"
	"slices"
	"sync"

	"bookstore-api/internal/shared/repository"
)

// Memory is a map-backed repository.Repository. Ids are assigned sequentially
// from 1. Writes counts successful and rejected mutations so tests can assert
// that a request never reached storage.
type Memory[T any, PT repository.RecordPtr[T]] struct {
	mu     sync.Mutex
	rows   map[int64]T
	nextID int64

	// Reject, when set, makes Create and Update report a constraint violation.
	Reject func(*T) bool
	// Err, when set, is returned by every call.
	Err error

	Writes int
}

func NewMemory[T any, PT repository.RecordPtr[T]](seed ...T) *Memory[T, PT] {
	m := &Memory[T, PT]{rows: make(map[int64]T)}
	for _, row := range seed {
		m.nextID++
		setID(PT(&row), m.nextID)
		m.rows[m.nextID] = row
	}
	return m
}

func setID(rec repository.Record, id int64) {
	*(rec.Fields()[0].(*int64)) = id
}

func (m *Memory[T, PT]) FindAll(_ context.Context) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	ids := make([]int64, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.rows[id])
	}
	return out, nil
}

func (m *Memory[T, PT]) FindByID(_ context.Context, id int64) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	row, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

func (m *Memory[T, PT]) IsExists(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}

	_, ok := m.rows[id]
	return ok, nil
}

func (m *Memory[T, PT]) Create(_ context.Context, entity *T) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes++
	if m.Err != nil {
		return false, m.Err
	}
	if m.Reject != nil && m.Reject(entity) {
		return false, nil
	}

	m.nextID++
	setID(PT(entity), m.nextID)
	m.rows[m.nextID] = *entity
	return true, nil
}

func (m *Memory[T, PT]) Update(_ context.Context, entity *T) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes++
	if m.Err != nil {
		return false, m.Err
	}

	id := PT(entity).Identifier()
	if _, ok := m.rows[id]; !ok {
		return false, repository.ErrNotFound
	}
	if m.Reject != nil && m.Reject(entity) {
		return false, nil
	}

	m.rows[id] = *entity
	return true, nil
}

func (m *Memory[T, PT]) Delete(_ context.Context, entity *T) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes++
	if m.Err != nil {
		return false, m.Err
	}

	id := PT(entity).Identifier()
	if _, ok := m.rows[id]; !ok {
		return false, repository.ErrNotFound
	}
	delete(m.rows, id)
	return true, nil
}

// Len returns the number of stored rows.
func (m *Memory[T, PT]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}
