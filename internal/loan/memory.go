package loan

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"library/internal/book"
)

// Memory is a map-backed repository for dev and tests. It claims books
// through the book store's compare-and-set, mirroring the Postgres path.
type Memory struct {
	mu    sync.RWMutex
	books *book.Memory
	loans map[string]Loan
	order []string
}

// NewMemory creates an empty in-memory repository over a book store.
func NewMemory(books *book.Memory) *Memory {
	return &Memory{books: books, loans: make(map[string]Loan)}
}

// CreateOnLoan claims the book and inserts the loan.
func (m *Memory) CreateOnLoan(_ context.Context, ln Loan) (Loan, error) {
	if !m.books.CompareAndSetStatus(ln.Book.ID, book.StatusAvailable, book.StatusBorrowed) {
		return Loan{}, ErrBookUnavailable
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if ln.ID == "" {
		ln.ID = uuid.NewString()
	}
	ln.CreatedAt = time.Now().UTC()
	ln.Book.Status = book.StatusBorrowed
	m.loans[ln.ID] = ln
	m.order = append(m.order, ln.ID)
	return ln, nil
}

// Get returns a single loan by id.
func (m *Memory) Get(_ context.Context, id string) (Loan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ln, ok := m.loans[id]
	if !ok {
		return Loan{}, ErrNotFound
	}
	return ln, nil
}

// Update overwrites an existing record.
func (m *Memory) Update(_ context.Context, ln Loan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.loans[ln.ID]
	if !ok {
		return ErrNotFound
	}
	ln.CreatedAt = stored.CreatedAt
	m.loans[ln.ID] = ln
	return nil
}

// Delete removes a loan record. The referenced book is left untouched.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.loans[id]; !ok {
		return ErrNotFound
	}
	delete(m.loans, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns one page in insertion order plus the total count.
func (m *Memory) List(_ context.Context, limit, offset int) ([]Loan, int, error) {
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
	res := make([]Loan, 0, end-offset)
	for _, id := range m.order[offset:end] {
		res = append(res, m.loans[id])
	}
	return res, total, nil
}
