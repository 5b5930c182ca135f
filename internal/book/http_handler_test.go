package book

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"libraryapi/internal/pagination"
)

func newTestHandler(repo Repository) *HTTPHandler {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewHTTPHandler(NewService(repo), logger)
}

func TestHTTPHandler_Create(t *testing.T) {
	t.Run("created with location header", func(t *testing.T) {
		repo := new(mockRepo)
		handler := newTestHandler(repo)

		repo.On("ExistsByISBN", mock.Anything, "9788578277154").Return(false, nil)
		repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*Book).ID = 1
		}).Return(nil)

		body := `{"title":"As Aventuras","author":"Fulano","isbn":"9788578277154"}`
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "http://localhost/api/books", strings.NewReader(body))

		handler.Create(w, r)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "http://localhost/api/books/1", w.Header().Get("Location"))
		assert.JSONEq(t, `{"id":1,"title":"As Aventuras","author":"Fulano","isbn":"9788578277154"}`, w.Body.String())
	})

	t.Run("blank body yields one message per field", func(t *testing.T) {
		repo := new(mockRepo)
		handler := newTestHandler(repo)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/books", strings.NewReader(`{}`))

		handler.Create(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"errors":["title is required","author is required","isbn is required"]}`, w.Body.String())
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate isbn", func(t *testing.T) {
		repo := new(mockRepo)
		handler := newTestHandler(repo)

		repo.On("ExistsByISBN", mock.Anything, "9788578277154").Return(true, nil)

		body := `{"title":"As Aventuras","author":"Fulano","isbn":"9788578277154"}`
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/books", strings.NewReader(body))

		handler.Create(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"errors":["ISBN: 9788578277154 already registered!"]}`, w.Body.String())
	})

	t.Run("malformed json", func(t *testing.T) {
		repo := new(mockRepo)
		handler := newTestHandler(repo)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/books", strings.NewReader(`{`))

		handler.Create(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHTTPHandler_Get(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		setupMock      func(repo *mockRepo)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "book found",
			id:   "1",
			setupMock: func(repo *mockRepo) {
				repo.On("GetByID", mock.Anything, int64(1)).
					Return(Book{ID: 1, Title: "As Aventuras", Author: "Fulano", ISBN: "9788578277154"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"id":1,"title":"As Aventuras","author":"Fulano","isbn":"9788578277154"}`,
		},
		{
			name:           "invalid id",
			id:             "abc",
			setupMock:      func(repo *mockRepo) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "not found",
			id:   "99",
			setupMock: func(repo *mockRepo) {
				repo.On("GetByID", mock.Anything, int64(99)).Return(Book{}, ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"errors":["Book 99 not found!"]}`,
		},
		{
			name: "server error",
			id:   "1",
			setupMock: func(repo *mockRepo) {
				repo.On("GetByID", mock.Anything, int64(1)).Return(Book{}, context.DeadlineExceeded)
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepo)
			tt.setupMock(repo)
			handler := newTestHandler(repo)

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/books/"+tt.id, nil)
			r.SetPathValue("id", tt.id)

			handler.Get(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}

func TestHTTPHandler_Update(t *testing.T) {
	t.Run("updates title and author", func(t *testing.T) {
		repo := new(mockRepo)
		handler := newTestHandler(repo)

		existing := Book{ID: 1, Title: "Old", Author: "Old Author", ISBN: "9788578277154"}
		repo.On("GetByID", mock.Anything, int64(1)).Return(existing, nil)
		repo.On("Update", mock.Anything, mock.Anything).Return(nil)

		body := `{"title":"New","author":"New Author"}`
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPut, "/api/books/1", strings.NewReader(body))
		r.SetPathValue("id", "1")

		handler.Update(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":1,"title":"New","author":"New Author","isbn":"9788578277154"}`, w.Body.String())
	})

	t.Run("blank body yields two messages", func(t *testing.T) {
		repo := new(mockRepo)
		handler := newTestHandler(repo)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPut, "/api/books/1", strings.NewReader(`{}`))
		r.SetPathValue("id", "1")

		handler.Update(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"errors":["title is required","author is required"]}`, w.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(mockRepo)
		handler := newTestHandler(repo)

		repo.On("GetByID", mock.Anything, int64(99)).Return(Book{}, ErrNotFound)

		body := `{"title":"New","author":"New Author"}`
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPut, "/api/books/99", strings.NewReader(body))
		r.SetPathValue("id", "99")

		handler.Update(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"errors":["Book 99 not found!"]}`, w.Body.String())
	})
}

func TestHTTPHandler_Delete(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		setupMock      func(repo *mockRepo)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "deleted",
			id:   "1",
			setupMock: func(repo *mockRepo) {
				repo.On("Delete", mock.Anything, int64(1)).Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name: "not found",
			id:   "99",
			setupMock: func(repo *mockRepo) {
				repo.On("Delete", mock.Anything, int64(99)).Return(ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"errors":["Book 99 not found!"]}`,
		},
		{
			name: "book with loans",
			id:   "1",
			setupMock: func(repo *mockRepo) {
				repo.On("Delete", mock.Anything, int64(1)).Return(ErrHasLoans)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"errors":["Book 1 has loans!"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepo)
			tt.setupMock(repo)
			handler := newTestHandler(repo)

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodDelete, "/api/books/"+tt.id, nil)
			r.SetPathValue("id", tt.id)

			handler.Delete(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}

func TestHTTPHandler_List(t *testing.T) {
	t.Run("single record on a page of twelve", func(t *testing.T) {
		repo := new(mockRepo)
		handler := newTestHandler(repo)

		repo.On("List", mock.Anything, Filter{Title: "Aventuras"}, pagination.Request{Page: 0, Size: 12}).
			Return([]Book{{ID: 1, Title: "As Aventuras", Author: "Fulano", ISBN: "9788578277154"}}, int64(1), nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/books?title=Aventuras&page=0&size=12", nil)

		handler.List(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{
			"content":[{"id":1,"title":"As Aventuras","author":"Fulano","isbn":"9788578277154"}],
			"pageable":{"pageNumber":0,"pageSize":12},
			"totalElements":1,
			"totalPages":1,
			"numberOfElements":1
		}`, w.Body.String())
	})

	t.Run("empty result keeps content as an array", func(t *testing.T) {
		repo := new(mockRepo)
		handler := newTestHandler(repo)

		repo.On("List", mock.Anything, Filter{}, mock.Anything).Return([]Book{}, int64(0), nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/books", nil)

		handler.List(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"content":[]`)
	})

	t.Run("server error", func(t *testing.T) {
		repo := new(mockRepo)
		handler := newTestHandler(repo)

		repo.On("List", mock.Anything, mock.Anything, mock.Anything).Return(nil, int64(0), context.DeadlineExceeded)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/books", nil)

		handler.List(w, r)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
