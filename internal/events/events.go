// Package events publishes order lifecycle events for downstream consumers.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
)

// OrderEvent describes a change to an order.
type OrderEvent struct {
	Type           string          `json:"type"`
	OrderID        uuid.UUID       `json:"order_id"`
	UserID         uuid.UUID       `json:"user_id"`
	Status         string          `json:"status"`
	PreviousStatus string          `json:"previous_status,omitempty"`
	RiderID        *uuid.UUID      `json:"rider_id,omitempty"`
	Total          decimal.Decimal `json:"total"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

// Publisher delivers events keyed by aggregate id.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }
func (NopPublisher) Close() error                               { return nil }
