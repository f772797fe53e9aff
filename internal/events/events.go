package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	ReservationCreated   = "reservation_created"
	ReservationCancelled = "reservation_cancelled"
	OrderItemAdded       = "order_item_added"
	OrderItemRemoved     = "order_item_removed"
	OrderStatusChanged   = "order_status_changed"
	StockUpdated         = "stock_updated"
	TableAvailabilitySet = "table_availability_set"
)

type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Entity     string         `json:"entity"`
	EntityID   uint           `json:"entity_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data,omitempty"`
}

func New(typ, entity string, id uint, data map[string]any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		Entity:     entity,
		EntityID:   id,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

// Key groups events of one entity onto the same partition.
func (e Event) Key() string {
	return fmt.Sprintf("%s:%d", e.Entity, e.EntityID)
}
