package order

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"bookshop/internal/book"
)

type serviceMocks struct {
	repo      *MockRepository
	catalog   *MockCatalog
	publisher *MockPublisher
	cache     *MockStatusCache
}

func newServiceWithMocks(t *testing.T) (*Service, serviceMocks) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	m := serviceMocks{
		repo:      NewMockRepository(ctrl),
		catalog:   NewMockCatalog(ctrl),
		publisher: NewMockPublisher(ctrl),
		cache:     NewMockStatusCache(ctrl),
	}
	return NewService(m.repo, m.catalog, m.publisher, m.cache, nil, nil), m
}

func TestService_Create(t *testing.T) {
	stored := book.Book{
		ID:       "book-1",
		Title:    "Kindred",
		Author:   "Octavia Butler",
		ISBN:     "978-0807083697",
		Price:    12.5,
		Quantity: 10,
	}

	t.Run("decrements stock and creates processing order", func(t *testing.T) {
		service, m := newServiceWithMocks(t)
		m.catalog.EXPECT().GetByID(gomock.Any(), "book-1").Return(stored, nil)

		var updated book.Book
		m.catalog.EXPECT().Update(gomock.Any(), "book-1", gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, b book.Book) (book.Book, error) {
				updated = b
				return b, nil
			})
		m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, o *Order) error {
				o.ID = "order-1"
				return nil
			})
		m.publisher.EXPECT().PublishOrderCreated(gomock.Any())
		m.cache.EXPECT().SetStatus(gomock.Any(), "order-1", StatusProcessing).Return(nil)

		o, err := service.Create(context.Background(), "customer-1", "book-1", 3)

		assert.NoError(t, err)
		assert.Equal(t, 7, updated.Quantity)
		assert.Equal(t, stored.ISBN, updated.ISBN)
		assert.Equal(t, "order-1", o.ID)
		assert.Equal(t, "customer-1", o.CustomerID)
		assert.Equal(t, "book-1", o.BookID)
		assert.Equal(t, 3, o.Quantity)
		assert.Equal(t, StatusProcessing, o.Status)
		assert.WithinDuration(t, time.Now(), o.OrderDate, time.Second)
	})

	t.Run("insufficient stock leaves everything untouched", func(t *testing.T) {
		service, m := newServiceWithMocks(t)
		// No Update, Create or publish expectations: nothing may happen.
		m.catalog.EXPECT().GetByID(gomock.Any(), "book-1").Return(stored, nil)

		_, err := service.Create(context.Background(), "customer-1", "book-1", 11)

		assert.ErrorIs(t, err, ErrInsufficientStock)
	})

	t.Run("exact stock is allowed", func(t *testing.T) {
		service, m := newServiceWithMocks(t)
		m.catalog.EXPECT().GetByID(gomock.Any(), "book-1").Return(stored, nil)

		var updated book.Book
		m.catalog.EXPECT().Update(gomock.Any(), "book-1", gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, b book.Book) (book.Book, error) {
				updated = b
				return b, nil
			})
		m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, o *Order) error {
				o.ID = "order-2"
				return nil
			})
		m.publisher.EXPECT().PublishOrderCreated(gomock.Any())
		m.cache.EXPECT().SetStatus(gomock.Any(), "order-2", StatusProcessing).Return(nil)

		_, err := service.Create(context.Background(), "customer-1", "book-1", 10)

		assert.NoError(t, err)
		assert.Equal(t, 0, updated.Quantity)
	})

	t.Run("unknown book", func(t *testing.T) {
		service, m := newServiceWithMocks(t)
		m.catalog.EXPECT().GetByID(gomock.Any(), "missing").Return(book.Book{}, book.ErrNotFound)

		_, err := service.Create(context.Background(), "customer-1", "missing", 1)

		assert.ErrorIs(t, err, book.ErrNotFound)
	})

	t.Run("cache failure does not fail the order", func(t *testing.T) {
		service, m := newServiceWithMocks(t)
		m.catalog.EXPECT().GetByID(gomock.Any(), "book-1").Return(stored, nil)
		m.catalog.EXPECT().Update(gomock.Any(), "book-1", gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, b book.Book) (book.Book, error) {
				return b, nil
			})
		m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, o *Order) error {
				o.ID = "order-3"
				return nil
			})
		m.publisher.EXPECT().PublishOrderCreated(gomock.Any())
		m.cache.EXPECT().SetStatus(gomock.Any(), "order-3", StatusProcessing).Return(context.DeadlineExceeded)

		_, err := service.Create(context.Background(), "customer-1", "book-1", 1)

		assert.NoError(t, err)
	})
}

func TestService_Create_SerializesPerBook(t *testing.T) {
	service, m := newServiceWithMocks(t)

	// A stock of 1 and two concurrent orders for 1 unit each: exactly
	// one must succeed. The catalog mock tracks the stock the way a
	// real store would.
	var mu sync.Mutex
	stock := 1

	m.catalog.EXPECT().GetByID(gomock.Any(), "book-1").DoAndReturn(
		func(context.Context, string) (book.Book, error) {
			mu.Lock()
			defer mu.Unlock()
			return book.Book{ID: "book-1", ISBN: "978-1", Quantity: stock}, nil
		}).Times(2)
	m.catalog.EXPECT().Update(gomock.Any(), "book-1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, b book.Book) (book.Book, error) {
			mu.Lock()
			defer mu.Unlock()
			stock = b.Quantity
			return b, nil
		})
	m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, o *Order) error {
			o.ID = "order-1"
			return nil
		})
	m.publisher.EXPECT().PublishOrderCreated(gomock.Any())
	m.cache.EXPECT().SetStatus(gomock.Any(), "order-1", StatusProcessing).Return(nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.Create(context.Background(), "customer-1", "book-1", 1)
		}(i)
	}
	wg.Wait()

	var rejected int
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ErrInsufficientStock)
			rejected++
		}
	}
	assert.Equal(t, 1, rejected)
	assert.Equal(t, 0, stock)
}

func TestService_UpdateStatus(t *testing.T) {
	existing := Order{
		ID:         "order-1",
		CustomerID: "customer-1",
		BookID:     "book-1",
		Quantity:   3,
		Status:     StatusProcessing,
		OrderDate:  time.Now(),
	}

	t.Run("overwrites any status", func(t *testing.T) {
		service, m := newServiceWithMocks(t)
		m.repo.EXPECT().GetByID(gomock.Any(), "order-1").Return(existing, nil)

		var saved Order
		m.repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, o *Order) error {
				saved = *o
				return nil
			})
		m.publisher.EXPECT().PublishOrderStatusChanged(gomock.Any())
		m.cache.EXPECT().SetStatus(gomock.Any(), "order-1", "sent").Return(nil)

		o, err := service.UpdateStatus(context.Background(), "order-1", "sent")

		assert.NoError(t, err)
		assert.Equal(t, "sent", o.Status)
		assert.Equal(t, "sent", saved.Status)
	})

	t.Run("not found", func(t *testing.T) {
		service, m := newServiceWithMocks(t)
		m.repo.EXPECT().GetByID(gomock.Any(), "missing").Return(Order{}, ErrNotFound)

		_, err := service.UpdateStatus(context.Background(), "missing", "sent")

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestService_GetByID(t *testing.T) {
	service, m := newServiceWithMocks(t)
	m.repo.EXPECT().GetByID(gomock.Any(), "missing").Return(Order{}, ErrNotFound)

	_, err := service.GetByID(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_ListByCustomer(t *testing.T) {
	service, m := newServiceWithMocks(t)
	m.repo.EXPECT().ListByCustomer(gomock.Any(), "customer-1").Return([]Order{}, nil)

	orders, err := service.ListByCustomer(context.Background(), "customer-1")

	assert.NoError(t, err)
	assert.Empty(t, orders)
	assert.NotNil(t, orders)
}
