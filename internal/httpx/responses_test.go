package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteError_Body(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(w, http.StatusNotFound, "Book 1 not found!")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"errors":["Book 1 not found!"]}`, w.Body.String())
}

func TestWriteValidationErrors_OneMessagePerField(t *testing.T) {
	w := httptest.NewRecorder()

	WriteValidationErrors(w, []ValidationError{
		{Field: "title", Message: "title is required"},
		{Field: "isbn", Message: "isbn is required"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"errors":["title is required","isbn is required"]}`, w.Body.String())
}

func TestWriteCreated_SetsLocation(t *testing.T) {
	w := httptest.NewRecorder()

	WriteCreated(w, "http://example.com/api/books/1", map[string]int{"id": 1})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "http://example.com/api/books/1", w.Header().Get("Location"))
	assert.JSONEq(t, `{"id":1}`, w.Body.String())
}

func TestLocation_FromRequestHost(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "http://localhost/api/books", nil)

	assert.Equal(t, "http://localhost/api/books/7", Location(r, "/api/books/7"))
}
