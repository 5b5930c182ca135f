package book

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"libraryapi/internal/pagination"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, b *Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Book), args.Error(1)
}

func (m *mockRepo) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	args := m.Called(ctx, isbn)
	return args.Get(0).(Book), args.Error(1)
}

func (m *mockRepo) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	args := m.Called(ctx, isbn)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, f Filter, page pagination.Request) ([]Book, int64, error) {
	args := m.Called(ctx, f, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]Book), args.Get(1).(int64), args.Error(2)
}

func (m *mockRepo) Update(ctx context.Context, b *Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("registers a book and returns the assigned id", func(t *testing.T) {
		repo := new(mockRepo)
		s := NewService(repo)

		repo.On("ExistsByISBN", ctx, "9788578277154").Return(false, nil)
		repo.On("Create", ctx, mock.MatchedBy(func(b *Book) bool {
			return b.Title == "As Aventuras" && b.ISBN == "9788578277154"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*Book).ID = 11
		}).Return(nil)

		created, err := s.Create(ctx, CreateInput{Title: "As Aventuras", Author: "Fulano", ISBN: "9788578277154"})

		assert.NoError(t, err)
		assert.Equal(t, int64(11), created.ID)
		repo.AssertExpectations(t)
	})

	t.Run("rejects a taken isbn before touching the table", func(t *testing.T) {
		repo := new(mockRepo)
		s := NewService(repo)

		repo.On("ExistsByISBN", ctx, "9788578277154").Return(true, nil)

		_, err := s.Create(ctx, CreateInput{Title: "As Aventuras", Author: "Fulano", ISBN: "9788578277154"})

		assert.ErrorIs(t, err, ErrExistingISBN)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("surfaces the constraint violation when the check races", func(t *testing.T) {
		repo := new(mockRepo)
		s := NewService(repo)

		repo.On("ExistsByISBN", ctx, "9788578277154").Return(false, nil)
		repo.On("Create", ctx, mock.Anything).Return(ErrExistingISBN)

		_, err := s.Create(ctx, CreateInput{Title: "As Aventuras", Author: "Fulano", ISBN: "9788578277154"})

		assert.ErrorIs(t, err, ErrExistingISBN)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("changes title and author but never the isbn", func(t *testing.T) {
		repo := new(mockRepo)
		s := NewService(repo)

		existing := Book{ID: 1, Title: "Old", Author: "Old Author", ISBN: "9788578277154"}
		repo.On("GetByID", ctx, int64(1)).Return(existing, nil)
		repo.On("Update", ctx, mock.MatchedBy(func(b *Book) bool {
			return b.ID == 1 && b.Title == "New" && b.Author == "New Author" && b.ISBN == "9788578277154"
		})).Return(nil)

		updated, err := s.Update(ctx, 1, UpdateInput{Title: "New", Author: "New Author"})

		assert.NoError(t, err)
		assert.Equal(t, "New", updated.Title)
		assert.Equal(t, "9788578277154", updated.ISBN)
		repo.AssertExpectations(t)
	})

	t.Run("unknown id", func(t *testing.T) {
		repo := new(mockRepo)
		s := NewService(repo)

		repo.On("GetByID", ctx, int64(99)).Return(Book{}, ErrNotFound)

		_, err := s.Update(ctx, 99, UpdateInput{Title: "New", Author: "New Author"})

		assert.ErrorIs(t, err, ErrNotFound)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("propagates loan conflicts", func(t *testing.T) {
		repo := new(mockRepo)
		s := NewService(repo)

		repo.On("Delete", ctx, int64(1)).Return(ErrHasLoans)

		assert.ErrorIs(t, s.Delete(ctx, 1), ErrHasLoans)
	})
}

func TestService_FindWithFilter(t *testing.T) {
	ctx := context.Background()

	t.Run("wraps one matching record in a page envelope", func(t *testing.T) {
		repo := new(mockRepo)
		s := NewService(repo)

		page := pagination.Request{Page: 0, Size: 12}
		filter := Filter{Title: "Aventuras"}
		repo.On("List", ctx, filter, page).Return([]Book{{ID: 1, Title: "As Aventuras"}}, int64(1), nil)

		result, err := s.FindWithFilter(ctx, filter, page)

		assert.NoError(t, err)
		assert.Len(t, result.Content, 1)
		assert.Equal(t, int64(1), result.TotalElements)
		assert.Equal(t, 1, result.NumberOfElements)
		assert.Equal(t, 12, result.Pageable.PageSize)
		assert.Equal(t, 0, result.Pageable.PageNumber)
	})

	t.Run("repo failures propagate", func(t *testing.T) {
		repo := new(mockRepo)
		s := NewService(repo)

		repo.On("List", ctx, Filter{}, mock.Anything).Return(nil, int64(0), errors.New("db down"))

		_, err := s.FindWithFilter(ctx, Filter{}, pagination.Request{Page: 0, Size: 20})

		assert.Error(t, err)
	})
}
