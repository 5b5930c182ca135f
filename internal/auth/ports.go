package auth

import (
	"context"
)

// Repository defines the contract for librarian account storage.
type Repository interface {
	Create(ctx context.Context, l *Librarian) error
	GetByEmail(ctx context.Context, email string) (Librarian, error)
	GetByID(ctx context.Context, id int64) (Librarian, error)
}
