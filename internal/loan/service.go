package loan

import (
	"context"
	"errors"
	"time"

	"libraryapi/internal/book"
	"libraryapi/internal/pagination"
)

// Service provides loan-related business logic.
type Service struct {
	repo     Repository
	bookRepo book.Repository
}

// NewService creates a new loan service.
func NewService(repo Repository, bookRepo book.Repository) *Service {
	return &Service{repo: repo, bookRepo: bookRepo}
}

// CreateInput carries the fields accepted when lending a book.
type CreateInput struct {
	ISBN     string
	Customer string
}

// Create lends the book with the given ISBN. It fails with
// ErrBookNotRegistered when no such book exists and with ErrBookAlreadyOnLoan
// when the book has an unreturned loan; the conditional insert backs the
// availability check up under concurrency.
func (s *Service) Create(ctx context.Context, in CreateInput) (Loan, error) {
	b, err := s.bookRepo.GetByISBN(ctx, in.ISBN)
	if err != nil {
		if errors.Is(err, book.ErrNotFound) {
			return Loan{}, ErrBookNotRegistered
		}
		return Loan{}, err
	}

	active, err := s.repo.HasActiveLoan(ctx, b.ID)
	if err != nil {
		return Loan{}, err
	}
	if active {
		return Loan{}, ErrBookAlreadyOnLoan
	}

	l := Loan{
		BookID:   b.ID,
		Customer: in.Customer,
		LoanDate: time.Now(),
		Returned: false,
		Book:     b,
	}
	if err := s.repo.Create(ctx, &l); err != nil {
		return Loan{}, err
	}
	return l, nil
}

// FindByID returns a loan with its book by id.
func (s *Service) FindByID(ctx context.Context, id int64) (Loan, error) {
	return s.repo.GetByID(ctx, id)
}

// FindWithFilter returns one page of loans matching the filter.
func (s *Service) FindWithFilter(ctx context.Context, f Filter, page pagination.Request) (pagination.Page[Loan], error) {
	loans, total, err := s.repo.List(ctx, f, page)
	if err != nil {
		return pagination.Page[Loan]{}, err
	}
	return pagination.NewPage(loans, page, total), nil
}

// FindByBook returns one page of the loans of a single book. It fails with
// book.ErrNotFound when the book id is unknown.
func (s *Service) FindByBook(ctx context.Context, bookID int64, page pagination.Request) (pagination.Page[Loan], error) {
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		return pagination.Page[Loan]{}, err
	}

	loans, total, err := s.repo.ListByBook(ctx, bookID, page)
	if err != nil {
		return pagination.Page[Loan]{}, err
	}
	return pagination.NewPage(loans, page, total), nil
}

// Return sets the returned flag of a loan. Both directions are allowed so a
// mistaken return can be undone.
func (s *Service) Return(ctx context.Context, id int64, returned bool) (Loan, error) {
	if err := s.repo.SetReturned(ctx, id, returned); err != nil {
		return Loan{}, err
	}
	return s.repo.GetByID(ctx, id)
}
