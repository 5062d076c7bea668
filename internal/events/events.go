// Package events publishes domain events to Kafka after the owning
// transaction has committed. Delivery is best effort.
package events

import (
	"context"
	"time"
)

const (
	OrderPlaced        = "order_placed"
	OrderAssigned      = "order_assigned"
	OrderStatusChanged = "order_status_changed"
	OrderDeleted       = "order_deleted"

	MenuItemCreated = "menu_item_created"
	MenuItemUpdated = "menu_item_updated"
	MenuItemDeleted = "menu_item_deleted"
)

type Event struct {
	Type string    `json:"type"`
	Key  string    `json:"key"`
	At   time.Time `json:"at"`
	Data any       `json:"data"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Nop drops every event. It is used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

func (Nop) Close() error { return nil }
