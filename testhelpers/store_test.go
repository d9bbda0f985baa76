package testhelpers

import (
	"context"
	"testing"
	"time"

	"stocky/internal/models"
	"stocky/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := SetupTestDB(t, "")
	defer testDB.Cleanup()

	ctx := context.Background()
	store := repositories.NewPostgresStore(testDB.Pool)
	require.NoError(t, store.Ping(ctx))

	snapshot, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Inventory)
	assert.Empty(t, snapshot.History)

	now := time.Now()
	seeded := SetupTestSnapshot(now)
	// Sub-cent prices keep their full precision in the history table.
	fractional := NewTransaction(now, "gum", models.DirectionIn, 8, 0)
	fractional.Price = decimal.RequireFromString("0.125")
	seeded.AppendTransaction(fractional)
	require.NoError(t, store.Commit(ctx, seeded))
	assert.Empty(t, seeded.PendingTransactions())

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, seeded.Inventory, loaded.Inventory)
	assert.Equal(t, seeded.MinLevels, loaded.MinLevels)
	assert.Equal(t, seeded.Categories, loaded.Categories)
	assert.Equal(t, seeded.Suppliers, loaded.Suppliers)
	require.Len(t, loaded.History, len(seeded.History))
	for i, tx := range loaded.History {
		assert.Equal(t, seeded.History[i].ID, tx.ID)
		assert.Equal(t, seeded.History[i].Item, tx.Item)
		assert.Equal(t, seeded.History[i].Quantity, tx.Quantity)
		assert.True(t, seeded.History[i].Price.Equal(tx.Price), "price %s != %s", seeded.History[i].Price, tx.Price)
	}

	// A second commit without new records leaves the history alone.
	loaded.Inventory["coke"] = 40
	require.NoError(t, store.Commit(ctx, loaded))

	reloaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40, reloaded.Inventory["coke"])
	assert.Len(t, reloaded.History, len(seeded.History))
}
