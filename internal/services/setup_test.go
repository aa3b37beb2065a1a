package services_test

import (
	"context"
	"fmt"
	"testing"

	"toko/internal/models"
	"toko/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	buyer   = models.Actor{UserID: "buyer-1", Role: models.RoleBuyer}
	buyer2  = models.Actor{UserID: "buyer-2", Role: models.RoleBuyer}
	sellerA = models.Actor{UserID: "seller-a", Role: models.RoleSeller}
	sellerB = models.Actor{UserID: "seller-b", Role: models.RoleSeller}
	admin   = models.Actor{UserID: "admin-1", Role: models.RoleAdmin}
)

func setupStore(t *testing.T) (*gorm.DB, *repositories.GORMStore) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", uuid.NewString())
	db, err := repositories.Open("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, repositories.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db, repositories.NewGORMStore(db)
}

func seedProduct(t *testing.T, store repositories.Store, seller models.Actor, name, price string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		SellerID: seller.UserID,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
	}
	require.NoError(t, store.Products().Create(context.Background(), p))
	return p
}

// putInCart writes a cart line directly, bypassing the stock check of CartService.Add.
func putInCart(t *testing.T, store repositories.Store, actor models.Actor, p *models.Product, qty int) {
	t.Helper()
	require.NoError(t, store.Carts().Create(context.Background(), &models.CartLine{
		UserID:    actor.UserID,
		ProductID: p.ID,
		Quantity:  qty,
	}))
}

func stockOf(t *testing.T, store repositories.Store, p *models.Product) int {
	t.Helper()
	n, err := store.Inventory().Stock(context.Background(), p.ID)
	require.NoError(t, err)
	return n
}

func countOrders(t *testing.T, db *gorm.DB) (orders, lines int64) {
	t.Helper()
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.OrderLine{}).Count(&lines).Error)
	return orders, lines
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

// MockReplayCache is a mock implementation of services.ReplayCache
type MockReplayCache struct {
	mock.Mock
}

func (m *MockReplayCache) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockReplayCache) Put(ctx context.Context, key, orderID string) error {
	args := m.Called(ctx, key, orderID)
	return args.Error(0)
}
