package order

import (
	"context"

	"bookshop/internal/book"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=order

// Repository defines the contract for order data storage. Identifiers
// are issued by the repository on Create.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	// GetByID returns ErrNotFound when no order has the given id.
	GetByID(ctx context.Context, id string) (Order, error)
	// ListByCustomer returns an empty slice, not an error, when the
	// customer has no orders.
	ListByCustomer(ctx context.Context, customerID string) ([]Order, error)
	Update(ctx context.Context, o *Order) error
}

// Catalog is the slice of the book service the order workflow needs.
type Catalog interface {
	GetByID(ctx context.Context, id string) (book.Book, error)
	Update(ctx context.Context, id string, newValues book.Book) (book.Book, error)
}

// Publisher emits order lifecycle events. Implementations are
// fire-and-forget; a failed publish never fails the request.
type Publisher interface {
	PublishOrderCreated(o Order)
	PublishOrderStatusChanged(o Order)
}

// StatusCache caches the latest status per order id, best-effort.
type StatusCache interface {
	SetStatus(ctx context.Context, orderID, status string) error
}
