package realtime

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ChangeAction describes what happened to an entity.
type ChangeAction string

const (
	ActionCreated ChangeAction = "created"
	ActionUpdated ChangeAction = "updated"
	ActionDeleted ChangeAction = "deleted"
)

// Entity names carried on the change feed. They match the table names so
// clients can route events without a separate mapping.
const (
	EntityCustomer  = "customers"
	EntityStockItem = "stock_items"
	EntityInvoice   = "invoices"
	EntityPayment   = "payments"
)

// ChangeEvent is one mutation on the change feed. Row carries the changed
// entity's API representation; for deletes it is only the id.
type ChangeEvent struct {
	Entity     string          `json:"entity"`
	Action     ChangeAction    `json:"action"`
	EntityID   uuid.UUID       `json:"entity_id"`
	Row        json.RawMessage `json:"row,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewChangeEvent builds a change event, marshalling row to JSON. A nil row
// is allowed for deletes.
func NewChangeEvent(entity string, action ChangeAction, entityID uuid.UUID, row any) (ChangeEvent, error) {
	event := ChangeEvent{
		Entity:     entity,
		Action:     action,
		EntityID:   entityID,
		OccurredAt: time.Now(),
	}
	if row != nil {
		data, err := json.Marshal(row)
		if err != nil {
			return ChangeEvent{}, err
		}
		event.Row = data
	}
	return event, nil
}
