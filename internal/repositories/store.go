package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"toko/internal/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store groups the repositories that a transaction spans.
type Store interface {
	Products() ProductRepository
	Inventory() InventoryLedger
	Carts() CartRepository
	Orders() OrderRepository
	// WithinTx runs fn inside one database transaction. The transaction commits when fn
	// returns nil and rolls back on error or panic. Nested calls join the outer transaction.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}

// GORMStore is the GORM-backed Store.
type GORMStore struct {
	db   *gorm.DB
	inTx bool
}

func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{db: db}
}

func (s *GORMStore) Products() ProductRepository { return NewGORMProductRepository(s.db) }
func (s *GORMStore) Inventory() InventoryLedger  { return NewGORMInventoryLedger(s.db) }
func (s *GORMStore) Carts() CartRepository       { return NewGORMCartRepository(s.db) }
func (s *GORMStore) Orders() OrderRepository     { return NewGORMOrderRepository(s.db) }

func (s *GORMStore) WithinTx(ctx context.Context, fn func(tx Store) error) (err error) {
	if s.inTx {
		return fn(s)
	}

	var tx *gorm.DB
	if opts := txOptions(s.db); opts != nil {
		tx = s.db.WithContext(ctx).Begin(opts)
	} else {
		tx = s.db.WithContext(ctx).Begin()
	}
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback().Error; rbErr != nil {
				logger.FromCtx(ctx).Warn("rollback failed", zap.Error(rbErr))
			}
			return
		}
		if cErr := tx.Commit().Error; cErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	return fn(&GORMStore{db: tx, inTx: true})
}

// txOptions returns READ COMMITTED for postgres. sqlite transactions are serializable already.
func txOptions(db *gorm.DB) *sql.TxOptions {
	if db.Dialector.Name() == "postgres" {
		return &sql.TxOptions{Isolation: sql.LevelReadCommitted}
	}
	return nil
}

// forUpdate adds SELECT ... FOR UPDATE on dialects that support row locks.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
