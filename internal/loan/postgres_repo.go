package loan

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
	loansTable = "loans"
	booksTable = "books"

	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

var dialect = goqu.Dialect("postgres")

var loanColumns = []any{
	goqu.I("l.id"), goqu.I("l.customer"), goqu.I("l.loan_date"),
	goqu.I("l.returned"), goqu.I("l.created_at"),
	goqu.I("b.id"), goqu.I("b.title"), goqu.I("b.author"), goqu.I("b.isbn"),
}

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

// Create inserts the loan only while the book has no unreturned loan. The
// partial unique index on loans(book_id) backs the guard up, so a raced
// insert surfaces as ErrBookAlreadyOnLoan either way.
func (r *PostgresRepo) Create(ctx context.Context, l *Loan) error {
	activeLoan := dialect.From(loansTable).
		Select(goqu.V(1)).
		Where(goqu.C("book_id").Eq(l.BookID), goqu.C("returned").IsFalse())

	sql, args, err := dialect.Insert(loansTable).
		Cols("book_id", "customer", "loan_date", "returned").
		FromQuery(dialect.
			Select(goqu.V(l.BookID), goqu.V(l.Customer), goqu.L("?::date", l.LoanDate), goqu.V(l.Returned)).
			Where(goqu.L("NOT EXISTS ?", activeLoan))).
		Returning("id", "loan_date", "created_at").
		Prepared(true).ToSQL()
	if err != nil {
		return err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err = r.db.QueryRow(timeoutCtx, sql, args...).Scan(&l.ID, &l.LoanDate, &l.CreatedAt)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return ErrBookAlreadyOnLoan
	case isSQLState(err, uniqueViolation):
		return ErrBookAlreadyOnLoan
	case isSQLState(err, foreignKeyViolation):
		return ErrBookNotRegistered
	}
	return err
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Loan, error) {
	sql, args, err := r.joined().
		Select(loanColumns...).
		Where(goqu.I("l.id").Eq(id)).
		Prepared(true).ToSQL()
	if err != nil {
		return Loan{}, err
	}

	var l Loan
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err = r.db.QueryRow(timeoutCtx, sql, args...).Scan(
		&l.ID, &l.Customer, &l.LoanDate, &l.Returned, &l.CreatedAt,
		&l.Book.ID, &l.Book.Title, &l.Book.Author, &l.Book.ISBN,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Loan{}, ErrNotFound
	}
	if err != nil {
		return Loan{}, err
	}
	l.BookID = l.Book.ID
	return l, nil
}

func (r *PostgresRepo) HasActiveLoan(ctx context.Context, bookID int64) (bool, error) {
	sql, args, err := dialect.From(loansTable).
		Select(goqu.COUNT("*")).
		Where(goqu.C("book_id").Eq(bookID), goqu.C("returned").IsFalse()).
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

func (r *PostgresRepo) List(ctx context.Context, f Filter, page pagination.Request) ([]Loan, int64, error) {
	where := make([]goqu.Expression, 0, 2)
	if f.ISBN != "" {
		where = append(where, goqu.I("b.isbn").ILike("%"+f.ISBN+"%"))
	}
	if f.Customer != "" {
		where = append(where, goqu.I("l.customer").ILike("%"+f.Customer+"%"))
	}

	return r.listPage(ctx, where, page)
}

func (r *PostgresRepo) ListByBook(ctx context.Context, bookID int64, page pagination.Request) ([]Loan, int64, error) {
	return r.listPage(ctx, []goqu.Expression{goqu.I("l.book_id").Eq(bookID)}, page)
}

func (r *PostgresRepo) SetReturned(ctx context.Context, id int64, returned bool) error {
	sql, args, err := dialect.Update(loansTable).
		Set(goqu.Record{"returned": returned}).
		Where(goqu.C("id").Eq(id)).
		Prepared(true).ToSQL()
	if err != nil {
		return err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) joined() *goqu.SelectDataset {
	return dialect.From(goqu.T(loansTable).As("l")).
		Join(goqu.T(booksTable).As("b"), goqu.On(goqu.I("l.book_id").Eq(goqu.I("b.id"))))
}

func (r *PostgresRepo) listPage(ctx context.Context, where []goqu.Expression, page pagination.Request) ([]Loan, int64, error) {
	base := r.joined().Where(where...)

	countSQL, countArgs, err := base.Select(goqu.COUNT("*")).Prepared(true).ToSQL()
	if err != nil {
		return nil, 0, err
	}

	var total int64
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL, dataArgs, err := base.Select(loanColumns...).
		Order(goqu.I("l.id").Asc()).
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

	var out []Loan
	for rows.Next() {
		var l Loan
		if err := rows.Scan(
			&l.ID, &l.Customer, &l.LoanDate, &l.Returned, &l.CreatedAt,
			&l.Book.ID, &l.Book.Title, &l.Book.Author, &l.Book.ISBN,
		); err != nil {
			return nil, 0, err
		}
		l.BookID = l.Book.ID
		out = append(out, l)
	}
	return out, total, rows.Err()
}
