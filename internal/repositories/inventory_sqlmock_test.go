package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"toko/internal/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, mock
}

var decrementSQL = regexp.QuoteMeta(`UPDATE "products" SET "stock"=stock - $1 WHERE id = $2 AND stock >= $3`)

func TestDecrement_IssuesSingleConditionalUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewGORMInventoryLedger(db)

	mock.ExpectExec(decrementSQL).
		WithArgs(2, "prod-1", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, ledger.Decrement(context.Background(), "prod-1", 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrement_NoRowAffected(t *testing.T) {
	t.Run("InsufficientStock", func(t *testing.T) {
		db, mock := newMockDB(t)
		ledger := NewGORMInventoryLedger(db)

		mock.ExpectExec(decrementSQL).
			WithArgs(5, "prod-1", 5).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT "id","name" FROM "products" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("prod-1", "Laptop"))

		err := ledger.Decrement(context.Background(), "prod-1", 5)
		assert.ErrorIs(t, err, apperror.ErrInsufficientStock)
		assert.ErrorContains(t, err, "Laptop")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ProductMissing", func(t *testing.T) {
		db, mock := newMockDB(t)
		ledger := NewGORMInventoryLedger(db)

		mock.ExpectExec(decrementSQL).
			WithArgs(1, "ghost", 1).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT "id","name" FROM "products" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

		err := ledger.Decrement(context.Background(), "ghost", 1)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDecrement_DatabaseError(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewGORMInventoryLedger(db)

	mock.ExpectExec(decrementSQL).
		WithArgs(1, "prod-1", 1).
		WillReturnError(errors.New("connection reset"))

	err := ledger.Decrement(context.Background(), "prod-1", 1)
	assert.ErrorContains(t, err, "connection reset")
	assert.Equal(t, apperror.KindUnknown, apperror.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrement_RejectsNonPositiveWithoutQuery(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewGORMInventoryLedger(db)

	err := ledger.Decrement(context.Background(), "prod-1", 0)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrement_IssuesRelativeUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewGORMInventoryLedger(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products" SET "stock"=stock + $1 WHERE id = $2`)).
		WithArgs(3, "prod-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, ledger.Increment(context.Background(), "prod-1", 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductGetForUpdate_LocksRowOnPostgres(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGORMProductRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "seller_id", "name", "price", "stock"}).
			AddRow("prod-1", "seller-a", "Laptop", "1200.00", 3))

	p, err := repo.GetForUpdate(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.Equal(t, "Laptop", p.Name)
	assert.Equal(t, 3, p.Stock)
	assert.NoError(t, mock.ExpectationsWereMet())
}
