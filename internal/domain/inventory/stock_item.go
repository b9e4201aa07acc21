package inventory

import (
	"strings"
	"time"

	"github.com/sprayshop/backend/internal/domain/shared"
)

// StockItem represents a consumable material tracked by the shop:
// paints, thinners, fillers, abrasives and the like. Quantities are
// whole units; the unit field records what a unit means for the item.
type StockItem struct {
	shared.BaseAggregateRoot
	Name      string `gorm:"type:varchar(200);not null;index"`
	Quantity  int    `gorm:"not null;default:0"`
	Unit      string `gorm:"type:varchar(50);not null"`
	Category  string `gorm:"type:varchar(100);not null;index"`
	Threshold int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (StockItem) TableName() string {
	return "stock_items"
}

// NewStockItem creates a new stock item
func NewStockItem(name string, quantity int, unit, category string, threshold int) (*StockItem, error) {
	if err := validateItemName(name); err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if strings.TrimSpace(unit) == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if strings.TrimSpace(category) == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category cannot be empty")
	}
	if threshold < 0 {
		return nil, shared.NewDomainError("INVALID_THRESHOLD", "Threshold cannot be negative")
	}

	item := &StockItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Quantity:          quantity,
		Unit:              strings.TrimSpace(unit),
		Category:          strings.TrimSpace(category),
		Threshold:         threshold,
	}

	item.AddDomainEvent(NewStockItemCreatedEvent(item))

	return item, nil
}

// Update replaces the item's attributes
func (i *StockItem) Update(name string, quantity int, unit, category string, threshold int) error {
	if err := validateItemName(name); err != nil {
		return err
	}
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if strings.TrimSpace(unit) == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if strings.TrimSpace(category) == "" {
		return shared.NewDomainError("INVALID_CATEGORY", "Category cannot be empty")
	}
	if threshold < 0 {
		return shared.NewDomainError("INVALID_THRESHOLD", "Threshold cannot be negative")
	}

	wasLow := i.IsLowStock()

	i.Name = strings.TrimSpace(name)
	i.Quantity = quantity
	i.Unit = strings.TrimSpace(unit)
	i.Category = strings.TrimSpace(category)
	i.Threshold = threshold
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewStockItemUpdatedEvent(i))
	if !wasLow && i.IsLowStock() {
		i.AddDomainEvent(NewStockItemLowEvent(i))
	}

	return nil
}

// AdjustQuantity adds delta to the quantity (negative delta consumes
// stock). The quantity can never go below zero.
func (i *StockItem) AdjustQuantity(delta int) error {
	next := i.Quantity + delta
	if next < 0 {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Adjustment would make quantity negative")
	}

	wasLow := i.IsLowStock()

	i.Quantity = next
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewStockItemUpdatedEvent(i))
	if !wasLow && i.IsLowStock() {
		i.AddDomainEvent(NewStockItemLowEvent(i))
	}

	return nil
}

// IsLowStock returns true when the quantity has fallen below the
// reorder threshold. Items with a zero threshold never report low.
func (i *StockItem) IsLowStock() bool {
	return i.Threshold > 0 && i.Quantity < i.Threshold
}

func validateItemName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Item name cannot exceed 200 characters")
	}
	return nil
}
