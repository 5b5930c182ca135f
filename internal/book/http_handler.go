package book

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"libraryapi/internal/httpx"
	"libraryapi/internal/pagination"
)

type HTTPHandler struct {
	service *Service
	logger  *logrus.Logger
}

func NewHTTPHandler(service *Service, logger *logrus.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

type createBookReq struct {
	Title  string `json:"title" validate:"required,max=200"`
	Author string `json:"author" validate:"required,max=120"`
	ISBN   string `json:"isbn" validate:"required,isbn"`
}

type updateBookReq struct {
	Title  string `json:"title" validate:"required,max=200"`
	Author string `json:"author" validate:"required,max=120"`
}

// Response is the wire shape of a book.
type Response struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

// NewResponse maps a book to its wire shape.
func NewResponse(b Book) Response {
	return Response{ID: b.ID, Title: b.Title, Author: b.Author, ISBN: b.ISBN}
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// Create handles POST /api/books
// @Summary Register a new book
// @Tags books
// @Accept json
// @Produce json
// @Param request body createBookReq true "Book to register"
// @Success 201 {object} Response
// @Failure 400 {object} httpx.ErrorResponse
// @Router /books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)
	req.ISBN = strings.TrimSpace(req.ISBN)

	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.WriteValidationErrors(w, validationErrors)
		return
	}

	created, err := h.service.Create(r.Context(), CreateInput{
		Title:  req.Title,
		Author: req.Author,
		ISBN:   req.ISBN,
	})
	if err != nil {
		if errors.Is(err, ErrExistingISBN) {
			httpx.WriteError(w, http.StatusBadRequest, fmt.Sprintf("ISBN: %s already registered!", req.ISBN))
			return
		}
		h.logger.WithError(err).Error("create book failed")
		httpx.WriteInternalError(w)
		return
	}

	location := httpx.Location(r, fmt.Sprintf("/api/books/%d", created.ID))
	httpx.WriteCreated(w, location, NewResponse(created))
}

// Get handles GET /api/books/{id}
// @Summary Get a book by id
// @Tags books
// @Produce json
// @Param id path int true "Book id"
// @Success 200 {object} Response
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid book id")
		return
	}

	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, fmt.Sprintf("Book %d not found!", id))
			return
		}
		h.logger.WithError(err).Error("get book failed")
		httpx.WriteInternalError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, NewResponse(found))
}

// Update handles PUT /api/books/{id}
// @Summary Update a book's title and author
// @Tags books
// @Accept json
// @Produce json
// @Param id path int true "Book id"
// @Param request body updateBookReq true "New field values"
// @Success 200 {object} Response
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid book id")
		return
	}

	var req updateBookReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)

	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.WriteValidationErrors(w, validationErrors)
		return
	}

	updated, err := h.service.Update(r.Context(), id, UpdateInput{
		Title:  req.Title,
		Author: req.Author,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, fmt.Sprintf("Book %d not found!", id))
			return
		}
		h.logger.WithError(err).Error("update book failed")
		httpx.WriteInternalError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, NewResponse(updated))
}

// Delete handles DELETE /api/books/{id}
// @Summary Delete a book
// @Tags books
// @Param id path int true "Book id"
// @Success 204
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /books/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid book id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, fmt.Sprintf("Book %d not found!", id))
		case errors.Is(err, ErrHasLoans):
			httpx.WriteError(w, http.StatusConflict, fmt.Sprintf("Book %d has loans!", id))
		default:
			h.logger.WithError(err).Error("delete book failed")
			httpx.WriteInternalError(w)
		}
		return
	}

	httpx.WriteNoContent(w)
}

// List handles GET /api/books
// @Summary List books with optional title/author filters
// @Tags books
// @Produce json
// @Param title query string false "Filter by title (contains, case-insensitive)"
// @Param author query string false "Filter by author (contains, case-insensitive)"
// @Param page query int false "Zero-based page index"
// @Param size query int false "Page size (1-100)"
// @Success 200 {object} pagination.Page[Response]
// @Router /books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := Filter{
		Title:  strings.TrimSpace(query.Get("title")),
		Author: strings.TrimSpace(query.Get("author")),
	}
	page := pagination.ParseRequest(query)

	result, err := h.service.FindWithFilter(r.Context(), filter, page)
	if err != nil {
		h.logger.WithError(err).Error("list books failed")
		httpx.WriteInternalError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, pagination.Map(result, NewResponse))
}
