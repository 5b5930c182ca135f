package loan

import (
	"errors"
	"time"

	"libraryapi/internal/book"
)

var (
	// ErrNotFound is returned when no loan with the given id exists.
	ErrNotFound = errors.New("loan not found")

	// ErrBookNotRegistered is returned when the requested ISBN is unknown.
	ErrBookNotRegistered = errors.New("book not registered")

	// ErrBookAlreadyOnLoan is returned when the book has an unreturned loan.
	ErrBookAlreadyOnLoan = errors.New("book already on loan")
)

// Loan records a book being borrowed by a customer. Book carries the joined
// catalog record so responses can embed it without a second query.
type Loan struct {
	ID        int64
	BookID    int64
	Customer  string
	LoanDate  time.Time
	Returned  bool
	CreatedAt time.Time

	Book book.Book
}

// Filter narrows listing results. Blank fields match everything; non-blank
// fields match case-insensitively anywhere in the corresponding column. ISBN
// filters on the joined book.
type Filter struct {
	ISBN     string
	Customer string
}
