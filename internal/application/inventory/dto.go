package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/sprayshop/backend/internal/domain/inventory"
)

// CreateStockItemRequest is the input for adding a stock item.
type CreateStockItemRequest struct {
	Name      string `json:"name" binding:"required,max=200"`
	Quantity  int    `json:"quantity" binding:"min=0"`
	Unit      string `json:"unit" binding:"required,max=50"`
	Category  string `json:"category" binding:"required,max=100"`
	Threshold int    `json:"threshold" binding:"min=0"`
}

// UpdateStockItemRequest replaces a stock item's attributes.
type UpdateStockItemRequest struct {
	Name      string `json:"name" binding:"required,max=200"`
	Quantity  int    `json:"quantity" binding:"min=0"`
	Unit      string `json:"unit" binding:"required,max=50"`
	Category  string `json:"category" binding:"required,max=100"`
	Threshold int    `json:"threshold" binding:"min=0"`
}

// AdjustQuantityRequest changes a stock item's quantity by a delta.
type AdjustQuantityRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// StockItemListFilter carries list query parameters.
type StockItemListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
	Category string `form:"category"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// StockItemResponse is the API representation of a stock item.
type StockItemResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Unit      string    `json:"unit"`
	Category  string    `json:"category"`
	Threshold int       `json:"threshold"`
	LowStock  bool      `json:"low_stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToStockItemResponse maps a domain stock item to its API representation.
func ToStockItemResponse(item *inventory.StockItem) StockItemResponse {
	return StockItemResponse{
		ID:        item.ID,
		Name:      item.Name,
		Quantity:  item.Quantity,
		Unit:      item.Unit,
		Category:  item.Category,
		Threshold: item.Threshold,
		LowStock:  item.IsLowStock(),
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

// ToStockItemResponses maps a list of stock items.
func ToStockItemResponses(items []*inventory.StockItem) []StockItemResponse {
	responses := make([]StockItemResponse, len(items))
	for i, item := range items {
		responses[i] = ToStockItemResponse(item)
	}
	return responses
}
