package auth

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	librariansTable = "librarians"

	uniqueViolation = "23505"
)

var dialect = goqu.Dialect("postgres")

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func isSQLState(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func (r *PostgresRepo) Create(ctx context.Context, l *Librarian) error {
	sql, args, err := dialect.Insert(librariansTable).
		Rows(goqu.Record{
			"email":         l.Email,
			"name":          l.Name,
			"password_hash": l.PasswordHash,
		}).
		Returning("id", "created_at").
		Prepared(true).ToSQL()
	if err != nil {
		return err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, sql, args...).Scan(&l.ID, &l.CreatedAt); err != nil {
		if isSQLState(err, uniqueViolation) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *PostgresRepo) GetByEmail(ctx context.Context, email string) (Librarian, error) {
	return r.getOne(ctx, goqu.C("email").Eq(email))
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Librarian, error) {
	return r.getOne(ctx, goqu.C("id").Eq(id))
}

func (r *PostgresRepo) getOne(ctx context.Context, where goqu.Expression) (Librarian, error) {
	sql, args, err := dialect.From(librariansTable).
		Select("id", "email", "name", "password_hash", "created_at").
		Where(where).
		Limit(1).
		Prepared(true).ToSQL()
	if err != nil {
		return Librarian{}, err
	}

	var l Librarian
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err = r.db.QueryRow(timeoutCtx, sql, args...).
		Scan(&l.ID, &l.Email, &l.Name, &l.PasswordHash, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Librarian{}, ErrNotFound
		}
		return Librarian{}, err
	}
	return l, nil
}
