package book

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// ErrDuplicateISBN is returned when creating a book whose ISBN already exists.
var ErrDuplicateISBN = errors.New("book with this isbn already exists")

// ErrISBNImmutable is returned when an update tries to change a book's ISBN.
var ErrISBNImmutable = errors.New("isbn cannot be changed")

// Book represents a book in the shop inventory.
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	ISBN        string    `json:"isbn"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
