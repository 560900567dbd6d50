package database

import (
	"context"
	"testing"
	"time"

	"onhostel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarTransactionCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	tx := &models.BarTransaction{
		ID:              "t-1",
		Type:            models.TransactionIncome,
		Quantity:        3,
		Amount:          450,
		Description:     "Cerveza",
		Date:            day("2024-03-10"),
		CreatedAt:       time.Now(),
		IsFromInventory: true,
		InventoryItemID: "i-1",
	}
	require.NoError(t, db.CreateBarTransaction(ctx, tx))

	got, err := db.GetBarTransaction(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)
	assert.True(t, got.IsFromInventory)
	assert.Equal(t, "i-1", got.InventoryItemID)

	// Смена типа снимает связь с инвентарем
	tx.Type = models.TransactionExpense
	tx.IsFromInventory = false
	tx.InventoryItemID = ""
	require.NoError(t, db.UpdateBarTransaction(ctx, tx))

	got, err = db.GetBarTransaction(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionExpense, got.Type)
	assert.False(t, got.IsFromInventory)

	require.NoError(t, db.DeleteBarTransaction(ctx, "t-1"))
	_, err = db.GetBarTransaction(ctx, "t-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBarInventoryCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	item := &models.BarInventoryItem{
		ID:           "i-1",
		Name:         "Cerveza",
		Category:     "Bebidas",
		InitialStock: 24,
		CurrentStock: 24,
		Price:        150,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, db.CreateBarInventoryItem(ctx, item))

	item.CurrentStock = 20
	require.NoError(t, db.UpdateBarInventoryItem(ctx, item))

	got, err := db.GetBarInventoryItem(ctx, "i-1")
	require.NoError(t, err)
	assert.Equal(t, 20, got.CurrentStock)
	assert.Equal(t, 24, got.InitialStock)

	_, err = db.GetBarInventoryItem(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, db.DeleteBarInventoryItem(ctx, "i-1"))
	items, err := db.GetBarInventory(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestBarInventorySortedByName(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"Vino", "agua", "Cerveza"} {
		require.NoError(t, db.CreateBarInventoryItem(ctx, &models.BarInventoryItem{
			ID:        "i-" + name,
			Name:      name,
			CreatedAt: time.Now(),
		}))
	}

	items, err := db.GetBarInventory(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "agua", items[0].Name)
	assert.Equal(t, "Cerveza", items[1].Name)
	assert.Equal(t, "Vino", items[2].Name)
}

func TestReplaceBarCollections(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.CreateBarTransaction(ctx, &models.BarTransaction{
		ID: "stale", Type: models.TransactionIncome, Amount: 1, Date: day("2024-01-01"), CreatedAt: time.Now(),
	}))

	require.NoError(t, db.ReplaceBarTransactions(ctx, []models.BarTransaction{
		{ID: "fresh", Type: models.TransactionExpense, Amount: 2, Date: day("2024-02-01"), CreatedAt: time.Now()},
	}))
	txs, err := db.GetBarTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "fresh", txs[0].ID)

	require.NoError(t, db.ReplaceBarInventory(ctx, []models.BarInventoryItem{
		{ID: "i-9", Name: "Fernet", CurrentStock: 5, CreatedAt: time.Now()},
	}))
	items, err := db.GetBarInventory(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Fernet", items[0].Name)
}
