package httpx

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrorResponse is the body of every non-2xx response: a flat list of
// human-readable messages, one per failure.
type ErrorResponse struct {
	Errors []string `json:"errors"`
}

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteCreated writes v with a 201 status and a Location header pointing at
// the new resource.
func WriteCreated(w http.ResponseWriter, location string, v any) {
	w.Header().Set("Location", location)
	WriteJSON(w, http.StatusCreated, v)
}

// WriteNoContent writes an empty 204 response.
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteError writes the given messages as an error body.
func WriteError(w http.ResponseWriter, statusCode int, messages ...string) {
	WriteJSON(w, statusCode, ErrorResponse{Errors: messages})
}

// WriteValidationErrors writes a 400 with one message per failed field.
func WriteValidationErrors(w http.ResponseWriter, validationErrors []ValidationError) {
	messages := make([]string, len(validationErrors))
	for i, ve := range validationErrors {
		messages[i] = ve.Message
	}
	WriteError(w, http.StatusBadRequest, messages...)
}

// WriteInternalError writes the generic 500 body. The cause is expected to be
// logged by the caller, never leaked to the client.
func WriteInternalError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, "internal server error")
}

// DecodeJSON decodes a request body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// Location builds an absolute URL for path from the incoming request's host,
// e.g. http://localhost/api/books/1.
func Location(r *http.Request, path string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + path
}
