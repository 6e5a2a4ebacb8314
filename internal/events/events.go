// Package events defines the messages the shop publishes when orders change.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"moda/internal/models"
)

// Event types, also used as routing keys.
const (
	// EventOrderPlaced is published after checkout stores a new order.
	EventOrderPlaced = "order.placed"
	// EventOrderStatusChanged is published when an order moves to a new status.
	EventOrderStatusChanged = "order.status_changed"
)

// Version of the envelope layout.
const Version = 1

// Publisher delivers an encoded event under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// Envelope wraps every published event.
type Envelope struct {
	EventID      string          `json:"eventId"`
	EventType    string          `json:"eventType"`
	EventVersion int             `json:"eventVersion"`
	OccurredAt   time.Time       `json:"occurredAt"`
	Producer     string          `json:"producer"`
	Payload      json.RawMessage `json:"payload"`
}

// OrderPlacedPayload is the payload of EventOrderPlaced.
type OrderPlacedPayload struct {
	OrderID       string               `json:"orderId"`
	Total         int64                `json:"total"`
	ItemCount     int                  `json:"itemCount"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// OrderStatusChangedPayload is the payload of EventOrderStatusChanged.
type OrderStatusChangedPayload struct {
	OrderID string             `json:"orderId"`
	From    models.OrderStatus `json:"from"`
	To      models.OrderStatus `json:"to"`
}

// New wraps payload in an envelope with a fresh event id.
func New(eventType, producer string, payload any) (Envelope, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return Envelope{
		EventID:      uuid.NewString(),
		EventType:    eventType,
		EventVersion: Version,
		OccurredAt:   time.Now().UTC(),
		Producer:     producer,
		Payload:      b,
	}, nil
}

// Encode marshals the envelope.
func (e Envelope) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Decode parses an encoded envelope. Bodies without an event id or type are
// rejected.
func Decode(body []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(body, &e); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if e.EventID == "" || e.EventType == "" {
		return Envelope{}, fmt.Errorf("decode envelope: missing event id or type")
	}
	return e, nil
}

// UnwrapPayload decodes the envelope payload into T.
func UnwrapPayload[T any](e Envelope) (T, error) {
	var t T
	if err := json.Unmarshal(e.Payload, &t); err != nil {
		return t, fmt.Errorf("decode payload: %w", err)
	}
	return t, nil
}

// Emit builds and publishes an event. It is a no-op when p is nil.
func Emit(ctx context.Context, p Publisher, eventType, producer string, payload any) error {
	if p == nil {
		return nil
	}
	env, err := New(eventType, producer, payload)
	if err != nil {
		return err
	}
	body, err := env.Encode()
	if err != nil {
		return fmt.Errorf("encode %s envelope: %w", eventType, err)
	}
	return p.Publish(ctx, eventType, body)
}
