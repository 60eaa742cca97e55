package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book data storage. Identifiers
// are issued by the repository on Create, not by callers.
type Repository interface {
	Create(ctx context.Context, b *Book) error
	// GetByID returns ErrNotFound when no book has the given id.
	GetByID(ctx context.Context, id string) (Book, error)
	// GetByISBN returns (nil, nil) when no book has the given ISBN.
	GetByISBN(ctx context.Context, isbn string) (*Book, error)
	ListAll(ctx context.Context) ([]Book, error)
	ListByAuthor(ctx context.Context, author string) ([]Book, error)
	ListPricedAbove(ctx context.Context, price float64) ([]Book, error)
	ListStockBelow(ctx context.Context, threshold int) ([]Book, error)
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id string) error
	ExistsByID(ctx context.Context, id string) (bool, error)
}
