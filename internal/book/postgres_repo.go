package book

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

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

const bookColumns = "id, title, author, isbn, price, quantity, description, created_at, updated_at"

func scanBook(row pgx.Row, b *Book) error {
	return row.Scan(
		&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Price, &b.Quantity, &b.Description,
		&b.CreatedAt, &b.UpdatedAt,
	)
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	const query = `
		INSERT INTO books (id, title, author, isbn, price, quantity, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING created_at, updated_at`

	b.ID = uuid.NewString()
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		b.ID, b.Title, b.Author, b.ISBN, b.Price, b.Quantity, b.Description,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateISBN
		}
		return err
	}
	return nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Book, error) {
	const query = `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	var b Book
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := scanBook(r.db.QueryRow(timeoutCtx, query, id), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) GetByISBN(ctx context.Context, isbn string) (*Book, error) {
	const query = `SELECT ` + bookColumns + ` FROM books WHERE isbn = $1 LIMIT 1`

	var b Book
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := scanBook(r.db.QueryRow(timeoutCtx, query, isbn), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *PostgresRepo) ListAll(ctx context.Context) ([]Book, error) {
	const query = `SELECT ` + bookColumns + ` FROM books ORDER BY title`
	return r.list(ctx, query)
}

func (r *PostgresRepo) ListByAuthor(ctx context.Context, author string) ([]Book, error) {
	const query = `SELECT ` + bookColumns + ` FROM books WHERE author = $1 ORDER BY title`
	return r.list(ctx, query, author)
}

func (r *PostgresRepo) ListPricedAbove(ctx context.Context, price float64) ([]Book, error) {
	const query = `SELECT ` + bookColumns + ` FROM books WHERE price > $1 ORDER BY price DESC`
	return r.list(ctx, query, price)
}

func (r *PostgresRepo) ListStockBelow(ctx context.Context, threshold int) ([]Book, error) {
	const query = `SELECT ` + bookColumns + ` FROM books WHERE quantity < $1 ORDER BY quantity`
	return r.list(ctx, query, threshold)
}

func (r *PostgresRepo) list(ctx context.Context, query string, args ...any) ([]Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		var b Book
		if err := scanBook(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Update(ctx context.Context, b *Book) error {
	const query = `
		UPDATE books
		SET title = $2, author = $3, price = $4, quantity = $5, description = $6, updated_at = now()
		WHERE id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query,
		b.ID, b.Title, b.Author, b.Price, b.Quantity, b.Description,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	var exists bool
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, `SELECT EXISTS(SELECT 1 FROM books WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}
