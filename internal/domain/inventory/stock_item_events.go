package inventory

import (
	"github.com/google/uuid"

	"github.com/sprayshop/backend/internal/domain/shared"
)

// StockItemCreatedEvent is raised when a new stock item is created
type StockItemCreatedEvent struct {
	shared.BaseDomainEvent
	ItemID   uuid.UUID `json:"item_id"`
	Name     string    `json:"name"`
	Quantity int       `json:"quantity"`
	Category string    `json:"category"`
}

// EventType returns the event type name
func (e *StockItemCreatedEvent) EventType() string {
	return "StockItemCreated"
}

// NewStockItemCreatedEvent creates a new StockItemCreatedEvent
func NewStockItemCreatedEvent(item *StockItem) *StockItemCreatedEvent {
	return &StockItemCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("StockItemCreated", "StockItem", item.ID),
		ItemID:          item.ID,
		Name:            item.Name,
		Quantity:        item.Quantity,
		Category:        item.Category,
	}
}

// StockItemUpdatedEvent is raised when a stock item's attributes or
// quantity change
type StockItemUpdatedEvent struct {
	shared.BaseDomainEvent
	ItemID   uuid.UUID `json:"item_id"`
	Name     string    `json:"name"`
	Quantity int       `json:"quantity"`
	Category string    `json:"category"`
}

// EventType returns the event type name
func (e *StockItemUpdatedEvent) EventType() string {
	return "StockItemUpdated"
}

// NewStockItemUpdatedEvent creates a new StockItemUpdatedEvent
func NewStockItemUpdatedEvent(item *StockItem) *StockItemUpdatedEvent {
	return &StockItemUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("StockItemUpdated", "StockItem", item.ID),
		ItemID:          item.ID,
		Name:            item.Name,
		Quantity:        item.Quantity,
		Category:        item.Category,
	}
}

// StockItemLowEvent is raised when an item's quantity crosses down to
// or below its reorder threshold
type StockItemLowEvent struct {
	shared.BaseDomainEvent
	ItemID    uuid.UUID `json:"item_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Threshold int       `json:"threshold"`
}

// EventType returns the event type name
func (e *StockItemLowEvent) EventType() string {
	return "StockItemLow"
}

// NewStockItemLowEvent creates a new StockItemLowEvent
func NewStockItemLowEvent(item *StockItem) *StockItemLowEvent {
	return &StockItemLowEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("StockItemLow", "StockItem", item.ID),
		ItemID:          item.ID,
		Name:            item.Name,
		Quantity:        item.Quantity,
		Threshold:       item.Threshold,
	}
}
