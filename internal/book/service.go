package book

import (
	"context"
)

// Service provides catalog business logic on top of a Repository. It
// owns the two ISBN invariants: uniqueness on create and immutability
// on update.
type Service struct {
	repo Repository
}

// NewService creates a new catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Add persists a new book. It fails with ErrDuplicateISBN when a book
// with the same ISBN already exists.
func (s *Service) Add(ctx context.Context, b Book) (Book, error) {
	existing, err := s.repo.GetByISBN(ctx, b.ISBN)
	if err != nil {
		return Book{}, err
	}
	if existing != nil {
		return Book{}, ErrDuplicateISBN
	}
	if err := s.repo.Create(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// GetByID returns a book by its identifier.
func (s *Service) GetByID(ctx context.Context, id string) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByISBN returns the book with the given ISBN, or nil when none
// exists. Absence is not an error here, unlike GetByID.
func (s *Service) GetByISBN(ctx context.Context, isbn string) (*Book, error) {
	return s.repo.GetByISBN(ctx, isbn)
}

// ListAll returns every book in the catalog.
func (s *Service) ListAll(ctx context.Context) ([]Book, error) {
	return s.repo.ListAll(ctx)
}

// ListByAuthor returns all books whose author field matches exactly.
func (s *Service) ListByAuthor(ctx context.Context, author string) ([]Book, error) {
	return s.repo.ListByAuthor(ctx, author)
}

// ListPricedAbove returns all books priced strictly above the given price.
func (s *Service) ListPricedAbove(ctx context.Context, price float64) ([]Book, error) {
	return s.repo.ListPricedAbove(ctx, price)
}

// ListStockBelow returns all books with stock strictly below threshold.
func (s *Service) ListStockBelow(ctx context.Context, threshold int) ([]Book, error) {
	return s.repo.ListStockBelow(ctx, threshold)
}

// Update replaces the mutable fields of the book with the given id.
// The stored ISBN is never touched; any mismatch between the stored
// and the submitted ISBN fails with ErrISBNImmutable before anything
// is persisted.
func (s *Service) Update(ctx context.Context, id string, newValues Book) (Book, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Book{}, err
	}
	if newValues.ISBN != existing.ISBN {
		return Book{}, ErrISBNImmutable
	}

	existing.Title = newValues.Title
	existing.Author = newValues.Author
	existing.Price = newValues.Price
	existing.Quantity = newValues.Quantity
	existing.Description = newValues.Description

	if err := s.repo.Update(ctx, &existing); err != nil {
		return Book{}, err
	}
	return existing, nil
}

// Delete removes the book with the given id.
func (s *Service) Delete(ctx context.Context, id string) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}
