// Package events publishes order lifecycle events to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventOrderPlaced = "OrderPlaced"

	eventVersion = 1
)

// Envelope wraps every published payload
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type OrderLine struct {
	ProductID int             `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type OrderPlacedPayload struct {
	OrderID       string          `json:"order_id"`
	Date          string          `json:"date"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	Total         decimal.Decimal `json:"total"`
	Items         []OrderLine     `json:"items"`
}

// Publisher hands events to a transport. Implementations must not block on delivery.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, order domain.Order) error
	Close() error
}

// NewOrderPlacedEnvelope builds the envelope for a freshly placed order
func NewOrderPlacedEnvelope(producer string, order domain.Order, now time.Time) (Envelope, error) {
	lines := make([]OrderLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, OrderLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.EffectivePrice(),
		})
	}

	payload, err := json.Marshal(OrderPlacedPayload{
		OrderID:       order.ID,
		Date:          order.Date,
		Status:        string(order.Status),
		PaymentMethod: order.PaymentMethod,
		Total:         order.Total,
		Items:         lines,
	})
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to encode order placed payload: %w", err)
	}

	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderPlaced,
		EventVersion:  eventVersion,
		OccurredAt:    now.UTC(),
		Producer:      producer,
		CorrelationID: order.ID,
		Payload:       payload,
	}, nil
}

// UnwrapPayload decodes an envelope payload into T
func UnwrapPayload[T any](payload json.RawMessage) (T, error) {
	var t T
	if err := json.Unmarshal(payload, &t); err != nil {
		return t, fmt.Errorf("failed to decode payload: %w", err)
	}
	return t, nil
}

// NoopPublisher drops every event
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderPlaced(ctx context.Context, order domain.Order) error { return nil }
func (NoopPublisher) Close() error                                                  { return nil }
