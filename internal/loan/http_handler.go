package loan

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"libraryapi/internal/book"
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

type createLoanReq struct {
	ISBN     string `json:"isbn" validate:"required,isbn"`
	Customer string `json:"customer" validate:"required,max=120"`
}

type returnLoanReq struct {
	Returned *bool `json:"returned" validate:"required"`
}

// Response is the wire shape of a loan; loanDate serializes as YYYY-MM-DD and
// the resolved book is embedded.
type Response struct {
	ID         int64         `json:"id"`
	Customer   string        `json:"customer"`
	LoanDate   string        `json:"loanDate"`
	Book       book.Response `json:"book"`
	IsReturned bool          `json:"isReturned"`
}

// NewResponse maps a loan to its wire shape.
func NewResponse(l Loan) Response {
	return Response{
		ID:         l.ID,
		Customer:   l.Customer,
		LoanDate:   l.LoanDate.Format("2006-01-02"),
		Book:       book.NewResponse(l.Book),
		IsReturned: l.Returned,
	}
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// Create handles POST /api/loans
// @Summary Lend a registered book to a customer
// @Tags loans
// @Accept json
// @Produce json
// @Param request body createLoanReq true "Loan to create"
// @Success 201 {object} Response
// @Failure 400 {object} httpx.ErrorResponse
// @Router /loans [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createLoanReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ISBN = strings.TrimSpace(req.ISBN)
	req.Customer = strings.TrimSpace(req.Customer)

	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.WriteValidationErrors(w, validationErrors)
		return
	}

	created, err := h.service.Create(r.Context(), CreateInput{ISBN: req.ISBN, Customer: req.Customer})
	if err != nil {
		switch {
		case errors.Is(err, ErrBookNotRegistered):
			httpx.WriteError(w, http.StatusBadRequest, fmt.Sprintf("Book not registered! ISBN: '%s'", req.ISBN))
		case errors.Is(err, ErrBookAlreadyOnLoan):
			httpx.WriteError(w, http.StatusBadRequest, fmt.Sprintf("Book already on loan! ISBN: '%s'", req.ISBN))
		default:
			h.logger.WithError(err).Error("create loan failed")
			httpx.WriteInternalError(w)
		}
		return
	}

	location := httpx.Location(r, fmt.Sprintf("/api/loans/%d", created.ID))
	httpx.WriteCreated(w, location, NewResponse(created))
}

// Get handles GET /api/loans/{id}
// @Summary Get a loan by id
// @Tags loans
// @Produce json
// @Param id path int true "Loan id"
// @Success 200 {object} Response
// @Failure 404 {object} httpx.ErrorResponse
// @Router /loans/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, fmt.Sprintf("Loan %d not found!", id))
			return
		}
		h.logger.WithError(err).Error("get loan failed")
		httpx.WriteInternalError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, NewResponse(found))
}

// Return handles PATCH /api/loans/{id}
// @Summary Set the returned flag of a loan
// @Tags loans
// @Accept json
// @Produce json
// @Param id path int true "Loan id"
// @Param request body returnLoanReq true "New returned flag"
// @Success 200 {object} Response
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /loans/{id} [patch]
func (h *HTTPHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	var req returnLoanReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.WriteValidationErrors(w, validationErrors)
		return
	}

	updated, err := h.service.Return(r.Context(), id, *req.Returned)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, fmt.Sprintf("Loan %d not found!", id))
			return
		}
		h.logger.WithError(err).Error("return loan failed")
		httpx.WriteInternalError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, NewResponse(updated))
}

// List handles GET /api/loans
// @Summary List loans with optional isbn/customer filters
// @Tags loans
// @Produce json
// @Param isbn query string false "Filter by book ISBN (contains, case-insensitive)"
// @Param customer query string false "Filter by customer (contains, case-insensitive)"
// @Param page query int false "Zero-based page index"
// @Param size query int false "Page size (1-100)"
// @Success 200 {object} pagination.Page[Response]
// @Router /loans [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := Filter{
		ISBN:     strings.TrimSpace(query.Get("isbn")),
		Customer: strings.TrimSpace(query.Get("customer")),
	}
	page := pagination.ParseRequest(query)

	result, err := h.service.FindWithFilter(r.Context(), filter, page)
	if err != nil {
		h.logger.WithError(err).Error("list loans failed")
		httpx.WriteInternalError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, pagination.Map(result, NewResponse))
}

// ListByBook handles GET /api/books/{id}/loans
// @Summary List the loans of one book
// @Tags loans
// @Produce json
// @Param id path int true "Book id"
// @Param page query int false "Zero-based page index"
// @Param size query int false "Page size (1-100)"
// @Success 200 {object} pagination.Page[Response]
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{id}/loans [get]
func (h *HTTPHandler) ListByBook(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid book id")
		return
	}
	page := pagination.ParseRequest(r.URL.Query())

	result, err := h.service.FindByBook(r.Context(), id, page)
	if err != nil {
		if errors.Is(err, book.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, fmt.Sprintf("Book %d not found!", id))
			return
		}
		h.logger.WithError(err).Error("list book loans failed")
		httpx.WriteInternalError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, pagination.Map(result, NewResponse))
}
