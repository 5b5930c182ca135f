package loan

import (
	"context"

	"libraryapi/internal/pagination"
)

// Repository defines the contract for loan data storage. Create only inserts
// when the book has no active loan and reports ErrBookAlreadyOnLoan otherwise.
type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByID(ctx context.Context, id int64) (Loan, error)
	HasActiveLoan(ctx context.Context, bookID int64) (bool, error)
	List(ctx context.Context, f Filter, page pagination.Request) ([]Loan, int64, error)
	ListByBook(ctx context.Context, bookID int64, page pagination.Request) ([]Loan, int64, error)
	SetReturned(ctx context.Context, id int64, returned bool) error
}
