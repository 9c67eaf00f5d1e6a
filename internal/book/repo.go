package book

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by repositories when no book has the given id.
var ErrNotFound = errors.New("book not found")

// Repository is the record store for books.
type Repository interface {
	Insert(ctx context.Context, b Book) (Book, error)
	Get(ctx context.Context, id string) (Book, error)
	Update(ctx context.Context, b Book) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]Book, int, error)
}

// Postgres persists books in Postgres.
type Postgres struct {
	db *sql.DB
}

// NewPostgres creates a Postgres-backed repository.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Insert writes a new book.
func (r *Postgres) Insert(ctx context.Context, b Book) (Book, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO books (id, title, author, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, b.ID, b.Title, b.Author, b.Status)
	if err := row.Scan(&b.CreatedAt); err != nil {
		return Book{}, err
	}
	return b, nil
}

// Get returns a single book by id.
func (r *Postgres) Get(ctx context.Context, id string) (Book, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, author, status, created_at
		FROM books WHERE id = $1
	`, id)
	var b Book
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Status, &b.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

// Update overwrites title, author and status.
func (r *Postgres) Update(ctx context.Context, b Book) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE books SET title = $2, author = $3, status = $4 WHERE id = $1
	`, b.ID, b.Title, b.Author, b.Status)
	if err != nil {
		return err
	}
	return oneRowOr(res, ErrNotFound)
}

// Delete removes a book record.
func (r *Postgres) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return oneRowOr(res, ErrNotFound)
}

// List returns one page of books plus the total count.
func (r *Postgres) List(ctx context.Context, limit, offset int) ([]Book, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, author, status, created_at
		FROM books
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var res []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Status, &b.CreatedAt); err != nil {
			return nil, 0, err
		}
		res = append(res, b)
	}
	return res, total, rows.Err()
}

func oneRowOr(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return missing
	}
	return nil
}
