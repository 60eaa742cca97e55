package book

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"bookshop/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Create handles POST /api/books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req Book
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body")
		return
	}
	if req.Title == "" || req.Author == "" || req.ISBN == "" {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "title, author and isbn are required")
		return
	}
	if req.Price < 0 || req.Quantity < 0 {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "price and quantity must not be negative")
		return
	}

	created, err := h.service.Add(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrDuplicateISBN) {
			httpx.JSONError(w, http.StatusConflict, "DUPLICATE_ISBN", "A book with this ISBN already exists")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

// List handles GET /api/books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.ListAll(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}
	httpx.JSON(w, http.StatusOK, books)
}

// GetByID handles GET /api/books/{id}
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	b, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Book not found")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

// Update handles PUT /api/books/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req Book
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body")
		return
	}
	if req.Price < 0 || req.Quantity < 0 {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "price and quantity must not be negative")
		return
	}

	updated, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Book not found")
		case errors.Is(err, ErrISBNImmutable):
			httpx.JSONError(w, http.StatusBadRequest, "ISBN_IMMUTABLE", "ISBN cannot be changed")
		default:
			httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		}
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Book not found")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}
	httpx.NoContent(w)
}

// GetByISBN handles GET /api/books/isbn/{isbn}
func (h *HTTPHandler) GetByISBN(w http.ResponseWriter, r *http.Request) {
	isbn := r.PathValue("isbn")

	b, err := h.service.GetByISBN(r.Context(), isbn)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}
	if b == nil {
		httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Book not found")
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

// ListByAuthor handles GET /api/books/author/{author}
func (h *HTTPHandler) ListByAuthor(w http.ResponseWriter, r *http.Request) {
	author := r.PathValue("author")

	books, err := h.service.ListByAuthor(r.Context(), author)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}
	httpx.JSON(w, http.StatusOK, books)
}

// ListPricedAbove handles GET /api/books/priced-above?price=
func (h *HTTPHandler) ListPricedAbove(w http.ResponseWriter, r *http.Request) {
	price, err := strconv.ParseFloat(r.URL.Query().Get("price"), 64)
	if err != nil || price < 0 {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "price must be a non-negative number")
		return
	}

	books, err := h.service.ListPricedAbove(r.Context(), price)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}
	httpx.JSON(w, http.StatusOK, books)
}

// ListLowStock handles GET /api/books/low-stock?threshold=
func (h *HTTPHandler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	threshold, err := strconv.Atoi(r.URL.Query().Get("threshold"))
	if err != nil || threshold < 0 {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "threshold must be a non-negative integer")
		return
	}

	books, err := h.service.ListStockBelow(r.Context(), threshold)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}
	httpx.JSON(w, http.StatusOK, books)
}
