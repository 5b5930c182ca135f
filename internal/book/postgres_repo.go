package book

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"libraryapi/internal/pagination"
)

const (
	booksTable = "books"

	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
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

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	sql, args, err := dialect.Insert(booksTable).
		Rows(goqu.Record{"title": b.Title, "author": b.Author, "isbn": b.ISBN}).
		Returning("id", "created_at", "updated_at").
		Prepared(true).ToSQL()
	if err != nil {
		return err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err = r.db.QueryRow(timeoutCtx, sql, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if isSQLState(err, uniqueViolation) {
		return ErrExistingISBN
	}
	return err
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	sql, args, err := dialect.From(booksTable).
		Select("id", "title", "author", "isbn", "created_at", "updated_at").
		Where(goqu.C("id").Eq(id)).
		Prepared(true).ToSQL()
	if err != nil {
		return Book{}, err
	}

	return r.getOne(ctx, sql, args)
}

func (r *PostgresRepo) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	sql, args, err := dialect.From(booksTable).
		Select("id", "title", "author", "isbn", "created_at", "updated_at").
		Where(goqu.C("isbn").Eq(isbn)).
		Prepared(true).ToSQL()
	if err != nil {
		return Book{}, err
	}

	return r.getOne(ctx, sql, args)
}

func (r *PostgresRepo) getOne(ctx context.Context, sql string, args []any) (Book, error) {
	var b Book
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, sql, args...).Scan(
		&b.ID, &b.Title, &b.Author, &b.ISBN, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Book{}, ErrNotFound
	}
	if err != nil {
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	sql, args, err := dialect.From(booksTable).
		Select(goqu.COUNT("*")).
		Where(goqu.C("isbn").Eq(isbn)).
		Prepared(true).ToSQL()
	if err != nil {
		return false, err
	}

	var count int64
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, sql, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepo) List(ctx context.Context, f Filter, page pagination.Request) ([]Book, int64, error) {
	where := make([]goqu.Expression, 0, 2)
	if f.Title != "" {
		where = append(where, goqu.C("title").ILike("%"+f.Title+"%"))
	}
	if f.Author != "" {
		where = append(where, goqu.C("author").ILike("%"+f.Author+"%"))
	}

	countSQL, countArgs, err := dialect.From(booksTable).
		Select(goqu.COUNT("*")).
		Where(where...).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, 0, err
	}

	var total int64
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL, dataArgs, err := dialect.From(booksTable).
		Select("id", "title", "author", "isbn", "created_at", "updated_at").
		Where(where...).
		Order(goqu.I("id").Asc()).
		Limit(uint(page.Size)).
		Offset(uint(page.Offset())).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, 0, err
	}

	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, dataSQL, dataArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) Update(ctx context.Context, b *Book) error {
	sql, args, err := dialect.Update(booksTable).
		Set(goqu.Record{"title": b.Title, "author": b.Author, "updated_at": goqu.L("now()")}).
		Where(goqu.C("id").Eq(b.ID)).
		Returning("updated_at").
		Prepared(true).ToSQL()
	if err != nil {
		return err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err = r.db.QueryRow(timeoutCtx, sql, args...).Scan(&b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	sql, args, err := dialect.Delete(booksTable).
		Where(goqu.C("id").Eq(id)).
		Prepared(true).ToSQL()
	if err != nil {
		return err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, sql, args...)
	if isSQLState(err, foreignKeyViolation) {
		return ErrHasLoans
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
