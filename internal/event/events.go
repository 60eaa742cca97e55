package event

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"bookshop/internal/order"
)

const (
	TypeOrderCreated       = "OrderCreated"
	TypeOrderStatusChanged = "OrderStatusChanged"
)

const (
	TopicOrderCreated       = "order.created"
	TopicOrderStatusChanged = "order.status_changed"
)

// PartitionKey keys messages by order id so all events for one order
// stay in partition order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }

// Envelope wraps every published event.
type Envelope struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Producer   string          `json:"producer"`
	Payload    json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	BookID     string    `json:"book_id"`
	Quantity   int       `json:"quantity"`
	Status     string    `json:"status"`
	OrderDate  time.Time `json:"order_date"`
}

type OrderStatusChangedPayload struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// NewEnvelope builds an envelope around the given payload.
func NewEnvelope(eventType, producer string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		OccurredAt: time.Now(),
		Producer:   producer,
		Payload:    raw,
	}, nil
}

func orderCreatedPayload(o order.Order) OrderCreatedPayload {
	return OrderCreatedPayload{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		BookID:     o.BookID,
		Quantity:   o.Quantity,
		Status:     o.Status,
		OrderDate:  o.OrderDate,
	}
}
