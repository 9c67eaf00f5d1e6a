package loan

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"library/internal/book"
)

// Loan statuses. UpdateStatus is an administrative override and accepts
// arbitrary values, so Status stays a plain string.
const (
	StatusOnLoan   = "ON_LOAN"
	StatusReturned = "RETURNED"
)

// LoanTermDays is the fixed loan term.
const LoanTermDays = 7

// dailyFineRate is charged per day past the due date.
var dailyFineRate = decimal.NewFromInt(2)

// Loan records a book lent to a student.
type Loan struct {
	ID         string           `json:"id"`
	Book       book.Book        `json:"book"`
	StudentID  string           `json:"studentId"`
	LoanDate   time.Time        `json:"loanDate"`
	DueDate    time.Time        `json:"dueDate"`
	ReturnDate *time.Time       `json:"returnDate,omitempty"`
	Status     string           `json:"status"`
	FineAmount *decimal.Decimal `json:"fineAmount,omitempty"`
	CreatedAt  time.Time        `json:"-"`
}

// fineFor computes the fine for a return that is daysLate past due.
// On-time and early returns owe nothing.
func fineFor(daysLate int) decimal.Decimal {
	if daysLate > 0 {
		return decimal.NewFromInt(int64(daysLate)).Mul(dailyFineRate)
	}
	return decimal.Zero
}

// returnMessage renders the human-readable return receipt.
func returnMessage(daysLate int, fine decimal.Decimal) string {
	if fine.IsZero() {
		return "Livro devolvido no prazo. Nenhuma multa foi aplicada."
	}
	plural := "s"
	if daysLate == 1 {
		plural = ""
	}
	return fmt.Sprintf("Livro devolvido com %d dia%s de atraso. Multa aplicada: R$ %s.",
		daysLate, plural, fine.StringFixed(2))
}

// daysLate counts whole days from due until today; negative when early.
// Both inputs are normalized to UTC midnight.
func daysLate(due, today time.Time) int {
	return int(truncateDay(today).Sub(truncateDay(due)).Hours() / 24)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
