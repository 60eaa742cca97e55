package order

import (
	"errors"
	"time"
)

// ErrNotFound is returned when an order is not found.
var ErrNotFound = errors.New("order not found")

// ErrInsufficientStock is returned when an order asks for more units
// than the book has in stock.
var ErrInsufficientStock = errors.New("not enough stock")

// StatusProcessing is the status every order starts in. Later statuses
// are free-form strings set through UpdateStatus.
const StatusProcessing = "processing"

// Order represents a placed order. Orders are never deleted.
type Order struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customerId"`
	BookID     string    `json:"bookId"`
	Quantity   int       `json:"quantity"`
	Status     string    `json:"status"`
	OrderDate  time.Time `json:"orderDate"`
}
