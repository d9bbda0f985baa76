package analytics

import (
	"testing"

	"stocky/internal/models"
	"stocky/testhelpers"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSummary_DailyAndWeekly(t *testing.T) {
	snapshot := testhelpers.SetupTestSnapshot(fixedNow)

	daily := Summary(snapshot, 1, fixedNow)
	assert.Equal(t, "Daily", daily.Label)
	assert.Equal(t, 7, daily.UnitsSold)
	assert.Equal(t, 24, daily.UnitsReceived)
	assert.Equal(t, "132", daily.Revenue.String())
	assert.Equal(t, "39", daily.Profit.String())
	assert.Equal(t, 3, daily.Transactions)
	assert.Equal(t, []ItemCount{{"sprite", 4}, {"coke", 3}}, daily.TopItems)

	weekly := Summary(snapshot, 7, fixedNow)
	assert.Equal(t, "Weekly", weekly.Label)
	assert.Equal(t, 12, weekly.UnitsSold)
	assert.Equal(t, 24, weekly.UnitsReceived)
	assert.Equal(t, "232", weekly.Revenue.String())
	assert.Equal(t, "64", weekly.Profit.String())
	assert.Equal(t, 4, weekly.Transactions)
}

func TestSummary_SkipsMalformedTimestamps(t *testing.T) {
	snapshot := models.NewSnapshot()
	snapshot.History = []models.Transaction{
		{Time: "yesterday-ish", Item: "coke", Direction: models.DirectionOut, Quantity: 9, Price: decimal.NewFromInt(20)},
		testhelpers.NewTransaction(fixedNow, "coke", models.DirectionOut, 2, 20),
	}

	daily := Summary(snapshot, 1, fixedNow)
	assert.Equal(t, 1, daily.Skipped)
	assert.Equal(t, 2, daily.UnitsSold)
	assert.Equal(t, 1, daily.Transactions)
}

func TestSummary_EmptyHistory(t *testing.T) {
	weekly := Summary(models.NewSnapshot(), 7, fixedNow)
	assert.Zero(t, weekly.Transactions)
	assert.True(t, weekly.Revenue.IsZero())
	assert.Empty(t, weekly.TopItems)
}

func TestBuildDashboard(t *testing.T) {
	dashboard := BuildDashboard(testhelpers.SetupTestSnapshot(fixedNow), fixedNow)

	assert.Equal(t, []ItemCount{{"coke", 8}, {"sprite", 4}}, dashboard.TopSold)
	assert.Equal(t, 5, dashboard.TransactionCount)
	assert.Equal(t, 12, dashboard.Turnover)
	assert.Equal(t, "64", dashboard.Profit.String())
	assert.Len(t, dashboard.LowStock, 2)
	assert.Len(t, dashboard.Reorder, 1)
	assert.Equal(t, fixedNow, dashboard.GeneratedAt)
}
