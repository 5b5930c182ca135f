package book

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no book with the given id or ISBN exists.
	ErrNotFound = errors.New("book not found")

	// ErrExistingISBN is returned when registering a book whose ISBN is taken.
	ErrExistingISBN = errors.New("isbn already registered")

	// ErrHasLoans is returned when deleting a book that still has loan records.
	ErrHasLoans = errors.New("book has loans")
)

// Book is a catalog record. The ISBN is its natural key and never changes
// after creation; the id is assigned by the database on insert.
type Book struct {
	ID        int64
	Title     string
	Author    string
	ISBN      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Filter narrows listing results. Blank fields match everything; non-blank
// fields match case-insensitively anywhere in the corresponding column.
type Filter struct {
	Title  string
	Author string
}
