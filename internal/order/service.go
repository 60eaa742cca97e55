package order

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"bookshop/internal/metrics"
)

// Service implements the order workflow: stock check, stock decrement,
// order creation. Placement for a given book is serialized through a
// per-book mutex, so two concurrent orders cannot both pass the stock
// check before either writes.
type Service struct {
	repo      Repository
	catalog   Catalog
	publisher Publisher
	cache     StatusCache
	metrics   *metrics.Metrics
	log       *logrus.Logger

	mu        sync.Mutex
	bookLocks map[string]*sync.Mutex
}

// NewService creates a new order service. publisher, cache and m may
// be nil; the corresponding side effects are then skipped.
func NewService(repo Repository, catalog Catalog, publisher Publisher, cache StatusCache, m *metrics.Metrics, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		repo:      repo,
		catalog:   catalog,
		publisher: publisher,
		cache:     cache,
		metrics:   m,
		log:       log,
		bookLocks: make(map[string]*sync.Mutex),
	}
}

func (s *Service) lockBook(bookID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.bookLocks[bookID]
	if !ok {
		l = &sync.Mutex{}
		s.bookLocks[bookID] = l
	}
	return l
}

// Create places an order for quantity units of the given book. It
// fails with book.ErrNotFound when the book does not exist and with
// ErrInsufficientStock when stock is too low; neither failure mutates
// anything. On success the book's stock is decremented by exactly the
// ordered quantity and the returned order has status "processing".
func (s *Service) Create(ctx context.Context, customerID, bookID string, quantity int) (Order, error) {
	l := s.lockBook(bookID)
	l.Lock()
	defer l.Unlock()

	b, err := s.catalog.GetByID(ctx, bookID)
	if err != nil {
		s.metrics.OrderRejected("book_not_found")
		return Order{}, err
	}

	if b.Quantity < quantity {
		s.metrics.OrderRejected("insufficient_stock")
		return Order{}, ErrInsufficientStock
	}

	// Full book update with only the quantity changed; the ISBN it
	// carries is the stored one, so the immutability rule holds.
	b.Quantity -= quantity
	if _, err := s.catalog.Update(ctx, bookID, b); err != nil {
		return Order{}, err
	}

	o := Order{
		CustomerID: customerID,
		BookID:     bookID,
		Quantity:   quantity,
		Status:     StatusProcessing,
		OrderDate:  time.Now(),
	}
	if err := s.repo.Create(ctx, &o); err != nil {
		return Order{}, err
	}

	s.metrics.OrderCreated()
	if s.publisher != nil {
		s.publisher.PublishOrderCreated(o)
	}
	s.cacheStatus(ctx, o)

	return o, nil
}

// UpdateStatus overwrites the order's status with the given string.
// Any status is accepted; there is no transition validation.
func (s *Service) UpdateStatus(ctx context.Context, orderID, status string) (Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return Order{}, err
	}

	o.Status = status
	if err := s.repo.Update(ctx, &o); err != nil {
		return Order{}, err
	}

	if s.publisher != nil {
		s.publisher.PublishOrderStatusChanged(o)
	}
	s.cacheStatus(ctx, o)

	return o, nil
}

// GetByID returns an order by its identifier.
func (s *Service) GetByID(ctx context.Context, orderID string) (Order, error) {
	return s.repo.GetByID(ctx, orderID)
}

// ListByCustomer returns all orders placed by the given customer.
func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]Order, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *Service) cacheStatus(ctx context.Context, o Order) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetStatus(ctx, o.ID, o.Status); err != nil {
		s.log.WithFields(logrus.Fields{
			"order_id": o.ID,
			"error":    err,
		}).Warn("status cache write failed")
	}
}
