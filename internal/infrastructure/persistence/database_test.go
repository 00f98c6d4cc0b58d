package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/hellcat/store/internal/domain/catalog"
	"github.com/hellcat/store/internal/domain/order"
	"github.com/hellcat/store/internal/infrastructure/config"
)

// newMockDatabase creates a gorm DB over a mocked postgres connection
func newMockDatabase(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormRepositories_ErrorMapping(t *testing.T) {
	ctx := context.Background()

	t.Run("product not found maps to domain error", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).
			WithArgs(int64(42), 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := NewGormProductRepository(db).FindByID(ctx, 42)
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver failure is wrapped", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		boom := errors.New("connection reset")
		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1`).
			WithArgs("ORD-1", 1).
			WillReturnError(boom)

		_, err := NewGormOrderRepository(db).FindByID(ctx, "ORD-1")
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, order.ErrOrderNotFound)
		assert.Contains(t, err.Error(), "find order ORD-1")
	})

	t.Run("delete with no rows is not found", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectExec(`DELETE FROM "products" WHERE id = \$1`).
			WithArgs(int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewGormProductRepository(db).Delete(ctx, 7)
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("completed orders filter by status", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE status = \$1 ORDER BY created_at DESC, id DESC LIMIT \$2`).
			WithArgs("completed", 5).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow("ORD-001", "completed"))

		orders, err := NewGormOrderRepository(db).FindCompleted(ctx, 5)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, "ORD-001", orders[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNewDatabase_UnknownDriver(t *testing.T) {
	_, err := NewDatabase(config.StorageConfig{Driver: config.DriverMemory})
	assert.Error(t, err)
}
