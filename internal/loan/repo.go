package loan

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"library/internal/book"
)

// ErrNotFound is returned by repositories when no loan has the given id.
var ErrNotFound = errors.New("loan not found")

// ErrBookUnavailable is returned by CreateOnLoan when the book could not be
// claimed because it is no longer available.
var ErrBookUnavailable = errors.New("book unavailable")

// Repository is the record store for loans.
type Repository interface {
	// CreateOnLoan claims the loan's book (AVAILABLE -> BORROWED) and inserts
	// the loan as one atomic unit. A lost claim yields ErrBookUnavailable.
	CreateOnLoan(ctx context.Context, ln Loan) (Loan, error)
	Get(ctx context.Context, id string) (Loan, error)
	Update(ctx context.Context, ln Loan) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]Loan, int, error)
}

// Postgres persists loans in Postgres.
type Postgres struct {
	db *sql.DB
}

// NewPostgres creates a Postgres-backed repository.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const loanColumns = `
	l.id, l.student_id, l.loan_date, l.due_date, l.return_date, l.status, l.fine_amount, l.created_at,
	b.id, b.title, b.author, b.status, b.created_at`

// CreateOnLoan flips the book row with a compare-and-set on its status and
// inserts the loan in the same transaction, so two concurrent creates for one
// book cannot both win and a failed insert never leaves the book borrowed.
func (r *Postgres) CreateOnLoan(ctx context.Context, ln Loan) (Loan, error) {
	if ln.ID == "" {
		ln.ID = uuid.NewString()
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Loan{}, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE books SET status = $2 WHERE id = $1 AND status = $3
	`, ln.Book.ID, book.StatusBorrowed, book.StatusAvailable)
	if err != nil {
		return Loan{}, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return Loan{}, err
	} else if n == 0 {
		return Loan{}, ErrBookUnavailable
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO loans (id, book_id, student_id, loan_date, due_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, ln.ID, ln.Book.ID, ln.StudentID, ln.LoanDate, ln.DueDate, ln.Status)
	if err := row.Scan(&ln.CreatedAt); err != nil {
		return Loan{}, err
	}
	if err := tx.Commit(); err != nil {
		return Loan{}, err
	}
	ln.Book.Status = book.StatusBorrowed
	return ln, nil
}

// Get returns a single loan with its book snapshot.
func (r *Postgres) Get(ctx context.Context, id string) (Loan, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+loanColumns+`
		FROM loans l JOIN books b ON b.id = l.book_id
		WHERE l.id = $1
	`, id)
	ln, err := scanLoan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Loan{}, ErrNotFound
	}
	return ln, err
}

// Update overwrites the mutable loan columns.
func (r *Postgres) Update(ctx context.Context, ln Loan) error {
	var fine decimal.NullDecimal
	if ln.FineAmount != nil {
		fine = decimal.NullDecimal{Decimal: *ln.FineAmount, Valid: true}
	}
	var returned sql.NullTime
	if ln.ReturnDate != nil {
		returned = sql.NullTime{Time: *ln.ReturnDate, Valid: true}
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE loans
		SET book_id = $2, student_id = $3, return_date = $4, status = $5, fine_amount = $6
		WHERE id = $1
	`, ln.ID, ln.Book.ID, ln.StudentID, returned, ln.Status, fine)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a loan record. The referenced book is left untouched.
func (r *Postgres) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM loans WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one page of loans plus the total count.
func (r *Postgres) List(ctx context.Context, limit, offset int) ([]Loan, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM loans`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+loanColumns+`
		FROM loans l JOIN books b ON b.id = l.book_id
		ORDER BY l.created_at, l.id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var res []Loan
	for rows.Next() {
		ln, err := scanLoan(rows)
		if err != nil {
			return nil, 0, err
		}
		res = append(res, ln)
	}
	return res, total, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoan(row rowScanner) (Loan, error) {
	var (
		ln       Loan
		returned sql.NullTime
		fine     decimal.NullDecimal
	)
	err := row.Scan(
		&ln.ID, &ln.StudentID, &ln.LoanDate, &ln.DueDate, &returned, &ln.Status, &fine, &ln.CreatedAt,
		&ln.Book.ID, &ln.Book.Title, &ln.Book.Author, &ln.Book.Status, &ln.Book.CreatedAt,
	)
	if err != nil {
		return Loan{}, err
	}
	if returned.Valid {
		t := returned.Time
		ln.ReturnDate = &t
	}
	if fine.Valid {
		d := fine.Decimal
		ln.FineAmount = &d
	}
	return ln, nil
}
