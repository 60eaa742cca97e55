package order

import (
	"encoding/json"
	"errors"
	"net/http"

	"bookshop/internal/book"
	"bookshop/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type createRequest struct {
	CustomerID string `json:"customerId"`
	BookID     string `json:"bookId"`
	Quantity   int    `json:"quantity"`
}

// Create handles POST /api/orders
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body")
		return
	}
	if req.CustomerID == "" || req.BookID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "customerId and bookId are required")
		return
	}
	if req.Quantity <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "quantity must be positive")
		return
	}

	o, err := h.service.Create(r.Context(), req.CustomerID, req.BookID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, book.ErrNotFound):
			httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Book not found")
		case errors.Is(err, ErrInsufficientStock):
			httpx.JSONError(w, http.StatusBadRequest, "INSUFFICIENT_STOCK", "Not enough stock")
		default:
			httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, o)
}

// UpdateStatus handles PUT /api/orders/{orderId}/status?status=
func (h *HTTPHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("orderId")
	status := r.URL.Query().Get("status")
	if status == "" {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "status query parameter is required")
		return
	}

	o, err := h.service.UpdateStatus(r.Context(), orderID, status)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Order not found")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

// GetByID handles GET /api/orders/{orderId}
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("orderId")

	o, err := h.service.GetByID(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Order not found")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

// ListByCustomer handles GET /api/orders/customer/{customerId}
func (h *HTTPHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID := r.PathValue("customerId")

	orders, err := h.service.ListByCustomer(r.Context(), customerID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}
	httpx.JSON(w, http.StatusOK, orders)
}
