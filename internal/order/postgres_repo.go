package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

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

func (r *PostgresRepo) Create(ctx context.Context, o *Order) error {
	const query = `
		INSERT INTO orders (id, customer_id, book_id, quantity, status, order_date)
		VALUES ($1, $2, $3, $4, $5, $6)`

	o.ID = uuid.NewString()
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, query,
		o.ID, o.CustomerID, o.BookID, o.Quantity, o.Status, o.OrderDate,
	)
	return err
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Order, error) {
	const query = `
		SELECT id, customer_id, book_id, quantity, status, order_date
		FROM orders
		WHERE id = $1`

	var o Order
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(
		&o.ID, &o.CustomerID, &o.BookID, &o.Quantity, &o.Status, &o.OrderDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	return o, nil
}

func (r *PostgresRepo) ListByCustomer(ctx context.Context, customerID string) ([]Order, error) {
	const query = `
		SELECT id, customer_id, book_id, quantity, status, order_date
		FROM orders
		WHERE customer_id = $1
		ORDER BY order_date DESC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Order{}
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.BookID, &o.Quantity, &o.Status, &o.OrderDate); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Update(ctx context.Context, o *Order) error {
	const query = `UPDATE orders SET status = $2 WHERE id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, o.ID, o.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
