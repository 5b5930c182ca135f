package book

import (
	"context"

	"libraryapi/internal/pagination"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput carries the fields accepted when registering a book.
type CreateInput struct {
	Title  string
	Author string
	ISBN   string
}

// UpdateInput carries the fields an update may change. The ISBN is immutable.
type UpdateInput struct {
	Title  string
	Author string
}

// Create registers a new book. It fails with ErrExistingISBN when the ISBN is
// already in use; the unique constraint backs the check up under concurrency.
func (s *Service) Create(ctx context.Context, in CreateInput) (Book, error) {
	taken, err := s.repo.ExistsByISBN(ctx, in.ISBN)
	if err != nil {
		return Book{}, err
	}
	if taken {
		return Book{}, ErrExistingISBN
	}

	b := Book{Title: in.Title, Author: in.Author, ISBN: in.ISBN}
	if err := s.repo.Create(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// FindByID returns a book by its id.
func (s *Service) FindByID(ctx context.Context, id int64) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

// FindByISBN returns a book by its ISBN. Loan creation resolves books through
// this lookup.
func (s *Service) FindByISBN(ctx context.Context, isbn string) (Book, error) {
	return s.repo.GetByISBN(ctx, isbn)
}

// Update changes the title and author of an existing book.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Book{}, err
	}

	b.Title = in.Title
	b.Author = in.Author
	if err := s.repo.Update(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// Delete removes a book. Books with loan history cannot be deleted and fail
// with ErrHasLoans.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// FindWithFilter returns one page of books matching the filter.
func (s *Service) FindWithFilter(ctx context.Context, f Filter, page pagination.Request) (pagination.Page[Book], error) {
	books, total, err := s.repo.List(ctx, f, page)
	if err != nil {
		return pagination.Page[Book]{}, err
	}
	return pagination.NewPage(books, page, total), nil
}
