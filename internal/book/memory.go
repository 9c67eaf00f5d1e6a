package book

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is a map-backed repository for dev and tests.
type Memory struct {
	mu    sync.RWMutex
	books map[string]Book
	order []string
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{books: make(map[string]Book)}
}

// Insert writes a new book.
func (m *Memory) Insert(_ context.Context, b Book) (Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.CreatedAt = time.Now().UTC()
	m.books[b.ID] = b
	m.order = append(m.order, b.ID)
	return b, nil
}

// Get returns a single book by id.
func (m *Memory) Get(_ context.Context, id string) (Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.books[id]
	if !ok {
		return Book{}, ErrNotFound
	}
	return b, nil
}

// Update overwrites an existing record.
func (m *Memory) Update(_ context.Context, b Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.books[b.ID]
	if !ok {
		return ErrNotFound
	}
	b.CreatedAt = stored.CreatedAt
	m.books[b.ID] = b
	return nil
}

// Delete removes a book record.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[id]; !ok {
		return ErrNotFound
	}
	delete(m.books, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns one page in insertion order plus the total count.
func (m *Memory) List(_ context.Context, limit, offset int) ([]Book, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	total := len(m.order)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	res := make([]Book, 0, end-offset)
	for _, id := range m.order[offset:end] {
		res = append(res, m.books[id])
	}
	return res, total, nil
}

// CompareAndSetStatus flips the status only when the current value matches.
// Loan creation uses it to claim an available book atomically.
func (m *Memory) CompareAndSetStatus(id string, from, to Status) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[id]
	if !ok || b.Status != from {
		return false
	}
	b.Status = to
	m.books[id] = b
	return true
}
