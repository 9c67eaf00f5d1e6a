package book

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a book.
type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusBorrowed  Status = "BORROWED"
)

// ParseStatus validates a raw status value.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusAvailable, StatusBorrowed:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown book status %q", s)
}

// Book is a catalogued title.
type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"-"`
}
