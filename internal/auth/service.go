package auth

import (
	"context"
	"errors"
	"time"

	"libraryapi/internal/platform/crypto"
)

// Service provides librarian registration and credential checks.
type Service struct {
	repo     Repository
	secret   string
	tokenTTL time.Duration
}

// NewService creates a new auth service. Issued tokens are signed with secret
// and expire after tokenTTL.
func NewService(repo Repository, secret string, tokenTTL time.Duration) *Service {
	return &Service{repo: repo, secret: secret, tokenTTL: tokenTTL}
}

// RegisterInput carries the fields accepted when creating a librarian account.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// Register creates a librarian account with a bcrypt password hash. It fails
// with ErrEmailTaken when the email is already registered; the unique index on
// email backs the check up under concurrency.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Librarian, error) {
	_, err := s.repo.GetByEmail(ctx, in.Email)
	if err == nil {
		return Librarian{}, ErrEmailTaken
	}
	if !errors.Is(err, ErrNotFound) {
		return Librarian{}, err
	}

	hash, err := crypto.HashPassword(in.Password)
	if err != nil {
		return Librarian{}, err
	}

	l := Librarian{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, &l); err != nil {
		return Librarian{}, err
	}
	return l, nil
}

// Login verifies the credentials and issues a signed access token together
// with its lifetime in seconds. Unknown emails and wrong passwords both
// report ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (string, int, error) {
	l, err := s.repo.GetByEmail(ctx, email)
	if err != nil || !crypto.VerifyPassword(l.PasswordHash, password) {
		return "", 0, ErrInvalidCredentials
	}

	token, err := crypto.GenerateToken(s.secret, l.ID, s.tokenTTL)
	if err != nil {
		return "", 0, err
	}
	return token, int(s.tokenTTL.Seconds()), nil
}

// GetByID returns a librarian account by id.
func (s *Service) GetByID(ctx context.Context, id int64) (Librarian, error) {
	return s.repo.GetByID(ctx, id)
}
