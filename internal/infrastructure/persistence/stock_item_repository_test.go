package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sprayshop/backend/internal/domain/inventory"
	"github.com/sprayshop/backend/internal/domain/shared"
)

func TestGormStockItemRepository_FindByID(t *testing.T) {
	t.Run("returns not found for missing item", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockItemRepository(db)

		itemID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "stock_items" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(itemID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		item, err := repo.FindByID(context.Background(), itemID)

		assert.Nil(t, item)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockItemRepository_FindLowStock(t *testing.T) {
	t.Run("only considers items with a threshold", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockItemRepository(db)

		rows := sqlmock.NewRows([]string{"id", "name", "quantity", "threshold", "version"}).
			AddRow(uuid.New(), "2K Clear Coat", 2, 5, 1).
			AddRow(uuid.New(), "Masking Tape", 0, 10, 1)

		mock.ExpectQuery(`SELECT \* FROM "stock_items" WHERE threshold > 0 AND quantity < threshold ORDER BY name ASC`).
			WillReturnRows(rows)

		items, err := repo.FindLowStock(context.Background())

		assert.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "2K Clear Coat", items[0].Name)
		assert.True(t, items[0].IsLowStock())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockItemRepository_Categories(t *testing.T) {
	t.Run("returns distinct non-empty categories", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockItemRepository(db)

		rows := sqlmock.NewRows([]string{"category"}).
			AddRow("Abrasives").
			AddRow("Paint")

		mock.ExpectQuery(`SELECT DISTINCT "category" FROM "stock_items" WHERE category <> '' ORDER BY category ASC`).
			WillReturnRows(rows)

		categories, err := repo.Categories(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, []string{"Abrasives", "Paint"}, categories)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockItemRepository_Update(t *testing.T) {
	t.Run("returns conflict when version is stale", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockItemRepository(db)

		item, err := inventory.NewStockItem("2K Clear Coat", 10, "litre", "Paint", 5)
		require.NoError(t, err)
		require.NoError(t, item.AdjustQuantity(-3))

		mock.ExpectExec(`UPDATE "stock_items" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.Update(context.Background(), item)

		assert.Equal(t, shared.ErrConcurrencyConflict, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
