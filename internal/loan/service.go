package loan

import (
	"context"
	"errors"
	"log"
	"time"

	"library/internal/apperr"
	"library/internal/book"
	"library/internal/studentclient"
)

const (
	loanNotFound       = "Loan %s not found"
	studentNotFound    = "Student %s not found"
	studentIsInactive  = "Student %s is inactive"
	bookAlreadyOnLoan  = "This book is currently on loan."
	problemStudentsAPI = "There was a problem consuming the students external api"
)

// StudentFinder is the capability the engine needs from the student registry.
type StudentFinder interface {
	FindByID(ctx context.Context, id string) (studentclient.Student, error)
}

// Service orchestrates the loan lifecycle.
type Service struct {
	repo     Repository
	books    *book.Service
	students StudentFinder
	now      func() time.Time
}

// NewService creates the engine over its collaborators.
func NewService(repo Repository, books *book.Service, students StudentFinder) *Service {
	return &Service{repo: repo, books: books, students: students, now: time.Now}
}

// Create issues a loan. The book's availability is checked before the remote
// student lookup so the cheap local condition fails first; the book is only
// claimed after the student validates, so a rejected student never leaves a
// book marked borrowed.
func (s *Service) Create(ctx context.Context, bookID, studentID string) (Loan, error) {
	b, err := s.books.Get(ctx, bookID)
	if err != nil {
		return Loan{}, err
	}
	if b.Status == book.StatusBorrowed {
		return Loan{}, apperr.BadRequest(bookAlreadyOnLoan)
	}

	if err := s.validateActiveStudent(ctx, studentID); err != nil {
		return Loan{}, err
	}

	today := truncateDay(s.now())
	ln := Loan{
		Book:      b,
		StudentID: studentID,
		LoanDate:  today,
		DueDate:   today.AddDate(0, 0, LoanTermDays),
		Status:    StatusOnLoan,
	}

	created, err := s.repo.CreateOnLoan(ctx, ln)
	if errors.Is(err, ErrBookUnavailable) {
		// Lost the claim to a concurrent create between our availability
		// check and the status flip.
		return Loan{}, apperr.BadRequest(bookAlreadyOnLoan)
	}
	if err != nil {
		return Loan{}, err
	}
	loansCreated.Inc()
	return created, nil
}

// Return registers the return of a loan, assessing the fine, releasing the
// book and producing the receipt message.
func (s *Service) Return(ctx context.Context, id string) (Loan, string, error) {
	ln, err := s.Get(ctx, id)
	if err != nil {
		return Loan{}, "", err
	}

	today := truncateDay(s.now())
	late := daysLate(ln.DueDate, today)
	fine := fineFor(late)

	ln.FineAmount = &fine
	ln.ReturnDate = &today
	ln.Status = StatusReturned

	if err := s.books.UpdateStatus(ctx, ln.Book.ID, book.StatusAvailable); err != nil {
		return Loan{}, "", err
	}
	ln.Book.Status = book.StatusAvailable

	if err := s.repo.Update(ctx, ln); err != nil {
		return Loan{}, "", err
	}
	loansReturned.Inc()
	if late > 0 {
		lateReturns.Inc()
	}
	return ln, returnMessage(late, fine), nil
}

// UpdateStatus overwrites the loan status unconditionally. This is an
// administrative escape hatch; the value is not validated against the book.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) error {
	ln, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	ln.Status = status
	return s.repo.Update(ctx, ln)
}

// Update reassigns the loan's book and student. Unlike Create it does not
// re-validate availability or student activity, and dates and fines are kept.
func (s *Service) Update(ctx context.Context, id, bookID, studentID string) error {
	ln, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	b, err := s.books.Get(ctx, bookID)
	if err != nil {
		return err
	}
	ln.Book = b
	ln.StudentID = studentID
	return s.repo.Update(ctx, ln)
}

// Delete removes a loan record. The referenced book keeps whatever status it
// has, so deleting an open loan leaves the book borrowed.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Get returns a single loan.
func (s *Service) Get(ctx context.Context, id string) (Loan, error) {
	ln, err := s.repo.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Loan{}, apperr.NotFound(loanNotFound, id)
	}
	return ln, err
}

// List returns one page of loans plus the total count.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Loan, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) validateActiveStudent(ctx context.Context, studentID string) error {
	st, err := s.students.FindByID(ctx, studentID)
	if errors.Is(err, studentclient.ErrNotFound) {
		return apperr.NotFound(studentNotFound, studentID)
	}
	if err != nil {
		log.Printf("%s: %v", problemStudentsAPI, err)
		return apperr.Internal(problemStudentsAPI, err)
	}
	if !st.Active {
		return apperr.BadRequest(studentIsInactive, studentID)
	}
	return nil
}
