package inventory

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sprayshop/backend/internal/domain/inventory"
	"github.com/sprayshop/backend/internal/domain/shared"
	"github.com/sprayshop/backend/internal/infrastructure/realtime"
)

// StockItemService handles inventory use cases.
type StockItemService struct {
	itemRepo  inventory.StockItemRepository
	publisher realtime.Publisher
	logger    *zap.Logger
}

// NewStockItemService creates a new StockItemService.
func NewStockItemService(itemRepo inventory.StockItemRepository, publisher realtime.Publisher, logger *zap.Logger) *StockItemService {
	if publisher == nil {
		publisher = realtime.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockItemService{
		itemRepo:  itemRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// Create adds a stock item.
func (s *StockItemService) Create(ctx context.Context, req CreateStockItemRequest) (*StockItemResponse, error) {
	item, err := inventory.NewStockItem(req.Name, req.Quantity, req.Unit, req.Category, req.Threshold)
	if err != nil {
		return nil, err
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	s.publishItemEvents(ctx, item)
	response := ToStockItemResponse(item)
	return &response, nil
}

// GetByID retrieves a stock item by ID.
func (s *StockItemService) GetByID(ctx context.Context, itemID uuid.UUID) (*StockItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	response := ToStockItemResponse(item)
	return &response, nil
}

// List retrieves stock items with filtering, category restriction, and
// name/quantity ordering.
func (s *StockItemService) List(ctx context.Context, filter StockItemListFilter) (*shared.Paginated[StockItemResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search
	domainFilter.OrderBy = filter.OrderBy
	domainFilter.OrderDir = filter.OrderDir
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}

	page, err := s.itemRepo.List(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToStockItemResponses(page.Items), page.Total, page.Page, page.PageSize)
	return &result, nil
}

// LowStock returns the items below their reorder threshold.
func (s *StockItemService) LowStock(ctx context.Context) ([]StockItemResponse, error) {
	items, err := s.itemRepo.FindLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return ToStockItemResponses(items), nil
}

// Categories returns the distinct categories in use.
func (s *StockItemService) Categories(ctx context.Context) ([]string, error) {
	return s.itemRepo.Categories(ctx)
}

// Update replaces a stock item's attributes.
func (s *StockItemService) Update(ctx context.Context, itemID uuid.UUID, req UpdateStockItemRequest) (*StockItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if err := item.Update(req.Name, req.Quantity, req.Unit, req.Category, req.Threshold); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	s.publishItemEvents(ctx, item)
	response := ToStockItemResponse(item)
	return &response, nil
}

// AdjustQuantity adds a delta to a stock item's quantity. Negative deltas
// consume stock and can never take the quantity below zero.
func (s *StockItemService) AdjustQuantity(ctx context.Context, itemID uuid.UUID, delta int) (*StockItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if err := item.AdjustQuantity(delta); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	s.publishItemEvents(ctx, item)
	response := ToStockItemResponse(item)
	return &response, nil
}

// Delete removes a stock item.
func (s *StockItemService) Delete(ctx context.Context, itemID uuid.UUID) error {
	if err := s.itemRepo.Delete(ctx, itemID); err != nil {
		return err
	}

	s.publishChange(ctx, realtime.ActionDeleted, itemID, nil)
	return nil
}

// Count returns the total number of stock items.
func (s *StockItemService) Count(ctx context.Context) (int64, error) {
	return s.itemRepo.Count(ctx)
}

// publishItemEvents drains the item's buffered domain events. Row
// changes go on the feed; a low-stock crossing additionally raises an
// operational warning so a reorder is not missed between dashboard
// visits.
func (s *StockItemService) publishItemEvents(ctx context.Context, item *inventory.StockItem) {
	for _, event := range item.GetDomainEvents() {
		switch e := event.(type) {
		case *inventory.StockItemCreatedEvent:
			s.publishChange(ctx, realtime.ActionCreated, item.ID, ToStockItemResponse(item))
		case *inventory.StockItemUpdatedEvent:
			s.publishChange(ctx, realtime.ActionUpdated, item.ID, ToStockItemResponse(item))
		case *inventory.StockItemLowEvent:
			s.logger.Warn("Stock below reorder threshold",
				zap.String("item", e.Name),
				zap.Int("quantity", e.Quantity),
				zap.Int("threshold", e.Threshold))
		}
	}
	item.ClearDomainEvents()
}

func (s *StockItemService) publishChange(ctx context.Context, action realtime.ChangeAction, id uuid.UUID, row any) {
	event, err := realtime.NewChangeEvent(realtime.EntityStockItem, action, id, row)
	if err != nil {
		s.logger.Warn("Failed to build change event", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish change event",
			zap.String("entity", realtime.EntityStockItem),
			zap.Error(err))
	}
}
