package services_test

import (
	"context"
	"math"
	"sync"
	"testing"

	"toko/internal/apperror"
	"toko/internal/models"
	"toko/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_Add(t *testing.T) {
	ctx := context.Background()
	_, store := setupStore(t)
	svc := services.NewCartService(store)
	laptop := seedProduct(t, store, sellerA, "Laptop", "1200.00", 5)

	t.Run("CreatesLine", func(t *testing.T) {
		line, err := svc.Add(ctx, buyer, models.AddToCartInput{ProductID: laptop.ID, Quantity: 2})
		require.NoError(t, err)
		assert.Equal(t, 2, line.Quantity)
		require.NotNil(t, line.Product)
		assert.Equal(t, "Laptop", line.Product.Name)
	})

	t.Run("MergesIntoExistingLine", func(t *testing.T) {
		line, err := svc.Add(ctx, buyer, models.AddToCartInput{ProductID: laptop.ID, Quantity: 3})
		require.NoError(t, err)
		assert.Equal(t, 5, line.Quantity)

		n, err := svc.Count(ctx, buyer)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
	})

	t.Run("ResultExceedsStock", func(t *testing.T) {
		_, err := svc.Add(ctx, buyer, models.AddToCartInput{ProductID: laptop.ID, Quantity: 1})
		assert.ErrorIs(t, err, apperror.ErrExceedsStock)

		lines, err := svc.List(ctx, buyer)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, 5, lines[0].Quantity)
	})

	t.Run("SelfPurchase", func(t *testing.T) {
		_, err := svc.Add(ctx, sellerA, models.AddToCartInput{ProductID: laptop.ID, Quantity: 1})
		assert.ErrorIs(t, err, apperror.ErrValidation)
		assert.ErrorContains(t, err, "your own product")
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		_, err := svc.Add(ctx, buyer, models.AddToCartInput{ProductID: "missing", Quantity: 1})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("InvalidInput", func(t *testing.T) {
		_, err := svc.Add(ctx, buyer, models.AddToCartInput{Quantity: 0})
		require.ErrorIs(t, err, apperror.ErrValidation)

		var appErr *apperror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Contains(t, appErr.Fields, "product_id")
		assert.Contains(t, appErr.Fields, "quantity")
	})
}

func TestCartService_AddHugeQuantityKeepsLinePositive(t *testing.T) {
	ctx := context.Background()
	_, store := setupStore(t)
	svc := services.NewCartService(store)
	cable := seedProduct(t, store, sellerA, "Cable", "5.00", 5)

	_, err := svc.Add(ctx, buyer, models.AddToCartInput{ProductID: cable.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = svc.Add(ctx, buyer, models.AddToCartInput{ProductID: cable.ID, Quantity: math.MaxInt})
	require.ErrorIs(t, err, apperror.ErrValidation)
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "quantity")

	_, err = svc.Add(ctx, buyer, models.AddToCartInput{ProductID: cable.ID, Quantity: 10000})
	assert.ErrorIs(t, err, apperror.ErrExceedsStock)

	lines, err := svc.List(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestCartService_ConcurrentAddsMergeIntoOneLine(t *testing.T) {
	ctx := context.Background()
	_, store := setupStore(t)
	svc := services.NewCartService(store)
	pen := seedProduct(t, store, sellerA, "Pen", "1.00", 10)

	const adds = 4
	var wg sync.WaitGroup
	errs := make(chan error, adds)
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Add(ctx, buyer, models.AddToCartInput{ProductID: pen.ID, Quantity: 1})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	lines, err := svc.List(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, adds, lines[0].Quantity)
}

func TestCartService_SetQuantity(t *testing.T) {
	ctx := context.Background()
	_, store := setupStore(t)
	svc := services.NewCartService(store)
	mouse := seedProduct(t, store, sellerA, "Mouse", "25.00", 4)

	line, err := svc.Add(ctx, buyer, models.AddToCartInput{ProductID: mouse.ID, Quantity: 1})
	require.NoError(t, err)

	t.Run("Absolute", func(t *testing.T) {
		updated, err := svc.SetQuantity(ctx, buyer, line.ID, models.UpdateCartInput{Quantity: 4})
		require.NoError(t, err)
		assert.Equal(t, 4, updated.Quantity)
	})

	t.Run("AboveStock", func(t *testing.T) {
		_, err := svc.SetQuantity(ctx, buyer, line.ID, models.UpdateCartInput{Quantity: 5})
		assert.ErrorIs(t, err, apperror.ErrExceedsStock)
	})

	t.Run("OtherUsersLine", func(t *testing.T) {
		_, err := svc.SetQuantity(ctx, buyer2, line.ID, models.UpdateCartInput{Quantity: 1})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("ZeroQuantity", func(t *testing.T) {
		_, err := svc.SetQuantity(ctx, buyer, line.ID, models.UpdateCartInput{Quantity: 0})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})
}

func TestCartService_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	_, store := setupStore(t)
	svc := services.NewCartService(store)
	laptop := seedProduct(t, store, sellerA, "Laptop", "1200.00", 5)
	mouse := seedProduct(t, store, sellerB, "Mouse", "25.00", 5)

	line, err := svc.Add(ctx, buyer, models.AddToCartInput{ProductID: laptop.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.Add(ctx, buyer, models.AddToCartInput{ProductID: mouse.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.Add(ctx, buyer2, models.AddToCartInput{ProductID: mouse.ID, Quantity: 1})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Remove(ctx, buyer2, line.ID), apperror.ErrNotFound)
	require.NoError(t, svc.Remove(ctx, buyer, line.ID))
	assert.ErrorIs(t, svc.Remove(ctx, buyer, line.ID), apperror.ErrNotFound)

	n, err := svc.Clear(ctx, buyer)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = svc.Clear(ctx, buyer)
	require.NoError(t, err)
	assert.Zero(t, n)

	other, err := svc.Count(ctx, buyer2)
	require.NoError(t, err)
	assert.EqualValues(t, 1, other)
}
