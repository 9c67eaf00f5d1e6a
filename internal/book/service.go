package book

import (
	"context"
	"errors"

	"library/internal/apperr"
)

const (
	bookNotFound       = "Book %s not found"
	cannotDeleteOnLoan = "Cannot delete a book with borrowed status"
)

// Service owns book lifecycle transitions.
type Service struct {
	repo Repository
}

// NewService creates a service backed by a repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new book; every book starts out available.
func (s *Service) Create(ctx context.Context, title, author string) (Book, error) {
	return s.repo.Insert(ctx, Book{Title: title, Author: author, Status: StatusAvailable})
}

// Get returns a single book.
func (s *Service) Get(ctx context.Context, id string) (Book, error) {
	b, err := s.repo.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Book{}, apperr.NotFound(bookNotFound, id)
	}
	return b, err
}

// List returns one page of books plus the total count.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Book, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// UpdateStatus overwrites the status only.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) error {
	b, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	b.Status = status
	return s.repo.Update(ctx, b)
}

// Update overwrites title and author; status is untouched.
func (s *Service) Update(ctx context.Context, id, title, author string) error {
	b, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	b.Title = title
	b.Author = author
	return s.repo.Update(ctx, b)
}

// Delete removes a book; borrowed books cannot be deleted.
func (s *Service) Delete(ctx context.Context, id string) error {
	b, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if b.Status == StatusBorrowed {
		return apperr.BadRequest(cannotDeleteOnLoan)
	}
	return s.repo.Delete(ctx, id)
}
