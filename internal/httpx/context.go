package httpx

import (
	"context"
	"net/http"
)

type contextKey string

const (
	librarianIDKey contextKey = "librarianID"
	requestIDKey   contextKey = "requestID"
)

// LibrarianIDFrom retrieves the authenticated librarian ID from the request
// context. It returns 0 when the request is unauthenticated.
func LibrarianIDFrom(r *http.Request) int64 {
	if v, ok := r.Context().Value(librarianIDKey).(int64); ok {
		return v
	}
	return 0
}

// ContextWithLibrarian returns a new context carrying the librarian ID.
func ContextWithLibrarian(ctx context.Context, librarianID int64) context.Context {
	return context.WithValue(ctx, librarianIDKey, librarianID)
}

// RequestIDFrom retrieves the request ID from the request context.
func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithRequestID returns a new context carrying the request ID.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
