package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/easyretail/shop-backend/internal/inventory"
	"github.com/easyretail/shop-backend/internal/models"
)

var productRowColumns = []string{
	"id", "created_at", "updated_at", "name", "description", "category",
	"price", "quantity", "status", "is_active", "sales", "sku", "image",
}

var rowTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// widgetRows is one stored product with 12 in stock.
func widgetRows() *sqlmock.Rows {
	return sqlmock.NewRows(productRowColumns).AddRow(
		"PROD-001", rowTime, rowTime, "Widget", "", "Clothing",
		"9.99", int64(12), "in-stock", true, int64(0), "SKU-1", "📦",
	)
}

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	return db, mock
}

func sell(qty int) MutateFunc {
	return func(p *models.Product) error {
		stock, sales := inventory.ApplySale(p.Stock, p.Sales, qty)
		p.SetStock(stock)
		p.Sales = sales
		return nil
	}
}

func TestGormProducts_Create(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewGormProductRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "products"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p := newProduct("PROD-001", "Widget", 12)
	require.NoError(t, repo.Create(context.Background(), &p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProducts_UniqueViolationIsDuplicate(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewGormProductRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "products"`).WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})
	mock.ExpectRollback()

	p := newProduct("PROD-001", "Widget", 12)
	assert.ErrorIs(t, repo.Create(context.Background(), &p), ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProducts_CreateManyRollsBack(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewGormProductRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "products"`).WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	err := repo.CreateMany(context.Background(), []models.Product{
		newProduct("PROD-001", "Widget", 1),
		newProduct("PROD-001", "Widget again", 2),
	})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProducts_MutateLocksAndKeepsStatus(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewGormProductRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1.*FOR UPDATE`).WillReturnRows(widgetRows())
	mock.ExpectExec(`UPDATE "products" SET .*"quantity"=\$\d+,"status"=\$\d+`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	updated, err := repo.Mutate(context.Background(), "PROD-001", sell(3))
	require.NoError(t, err)
	assert.Equal(t, 9, updated.Stock)
	assert.Equal(t, inventory.StatusLowStock, updated.Status)
	assert.Equal(t, 3, updated.Sales)
	assert.True(t, decimal.RequireFromString("9.99").Equal(updated.Price))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProducts_MutateNotFoundAndAbort(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1.*FOR UPDATE`).WillReturnRows(sqlmock.NewRows(productRowColumns))
	mock.ExpectRollback()

	_, err := repo.Mutate(ctx, "ghost", sell(1))
	assert.ErrorIs(t, err, ErrNotFound)

	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1.*FOR UPDATE`).WillReturnRows(widgetRows())
	mock.ExpectRollback()

	_, err = repo.Mutate(ctx, "PROD-001", func(p *models.Product) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProducts_DeleteNotFound(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewGormProductRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "products" WHERE id = \$1`).WithArgs("ghost").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	assert.ErrorIs(t, repo.Delete(context.Background(), "ghost"), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOrders_DeleteRemovesItemsInOneTransaction(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewGormOrderRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "order_items" WHERE order_id = \$1`).WithArgs("ORD-1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "orders" WHERE id = \$1`).WithArgs("ORD-1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.Delete(context.Background(), "ORD-1"), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
