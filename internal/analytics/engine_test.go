package analytics

import (
	"testing"
	"time"

	"stocky/internal/models"
	"stocky/testhelpers"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.Local)

func TestProfit_EmptyHistoryIsZero(t *testing.T) {
	assert.True(t, Profit(models.NewSnapshot()).IsZero())
}

func TestProfit_UsesCurrentBuyPrice(t *testing.T) {
	snapshot := models.NewSnapshot()
	snapshot.History = []models.Transaction{
		{Time: "2024-05-01 10:00:00", Item: "coke", Direction: models.DirectionOut, Quantity: 3, Price: decimal.NewFromInt(20)},
	}
	snapshot.Prices["coke"] = models.Price{Buy: decimal.NewFromInt(15)}

	assert.Equal(t, "15", Profit(snapshot).String())
	assert.Equal(t, "15", ProfitByItem(snapshot)["coke"].String())
}

func TestLowStock_DefaultMinimum(t *testing.T) {
	snapshot := models.NewSnapshot()
	snapshot.Inventory["coke"] = 2

	low := LowStock(snapshot)
	require.Len(t, low, 1)
	assert.Equal(t, LowStockItem{Item: "coke", Quantity: 2, Minimum: models.DefaultMinimumLevel}, low[0])
}

func TestLowStock_MatchesThresholds(t *testing.T) {
	snapshot := models.NewSnapshot()
	snapshot.Inventory = map[string]int{"a": 5, "b": 6, "c": 10, "d": -2, "e": 0}
	snapshot.MinLevels = map[string]int{"c": 10, "e": 0, "b": 3}

	var names []string
	for _, item := range LowStock(snapshot) {
		names = append(names, item.Item)
	}
	assert.Equal(t, []string{"a", "c", "d", "e"}, names)
}

func TestSmartReorder(t *testing.T) {
	snapshot := testhelpers.SetupTestSnapshot(fixedNow)

	suggestions := SmartReorder(snapshot)
	require.Len(t, suggestions, 1)
	assert.Equal(t, ReorderSuggestion{Item: "coke", OnHand: 2, TotalSold: 8, Quantity: 11}, suggestions[0])
}

func TestSmartReorder_NeverSoldItemsGetNoSuggestion(t *testing.T) {
	snapshot := models.NewSnapshot()
	snapshot.Inventory["chips"] = 0
	snapshot.History = []models.Transaction{
		{Time: "2024-05-01 10:00:00", Item: "chips", Direction: models.DirectionIn, Quantity: 4},
	}
	assert.Empty(t, SmartReorder(snapshot))
}

func TestReorderQuantity(t *testing.T) {
	assert.Equal(t, 5, ReorderQuantity(0))
	assert.Equal(t, 5, ReorderQuantity(3))
	assert.Equal(t, 10, ReorderQuantity(7))
	assert.Equal(t, 11, ReorderQuantity(8))
	assert.Equal(t, 142, ReorderQuantity(100))
}

func TestTurnoverAndCount(t *testing.T) {
	snapshot := testhelpers.SetupTestSnapshot(fixedNow)
	assert.Equal(t, 12, Turnover(snapshot))
	assert.Equal(t, 5, TransactionCount(snapshot))
}

func TestTopSold_TiesKeepFirstSeenOrder(t *testing.T) {
	history := []models.Transaction{
		{Item: "b", Direction: models.DirectionOut, Quantity: 2},
		{Item: "a", Direction: models.DirectionOut, Quantity: 2},
		{Item: "c", Direction: models.DirectionIn, Quantity: 50},
		{Item: "d", Direction: models.DirectionOut, Quantity: 5},
	}

	assert.Equal(t, []ItemCount{{"d", 5}, {"b", 2}, {"a", 2}}, TopSold(history, 5))
	assert.Equal(t, []ItemCount{{"d", 5}}, TopSold(history, 1))
}

func TestInventoryRows(t *testing.T) {
	rows := InventoryRows(testhelpers.SetupTestSnapshot(fixedNow))
	require.Len(t, rows, 3)
	assert.Equal(t, "chips", rows[0].Item)
	assert.True(t, rows[0].Low)
	assert.Equal(t, "ABC Corp", rows[1].Supplier.Name)
	assert.Equal(t, "sprite", rows[2].Item)
	assert.Equal(t, 10, rows[2].Minimum)
	assert.False(t, rows[2].Low)
}
