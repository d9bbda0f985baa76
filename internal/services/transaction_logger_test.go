package services

import (
	"testing"
	"time"

	"stocky/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionLogger_Log(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 30, 0, 123456000, time.Local)
	logger := &transactionLogger{
		now:   func() time.Time { return at },
		newID: func() string { return "tx-1" },
	}
	snapshot := models.NewSnapshot()

	tx := logger.Log(snapshot, "coke", models.DirectionOut, 3, decimal.NewFromInt(20))

	assert.Equal(t, models.Transaction{
		ID:        "tx-1",
		Time:      "2024-05-01 09:30:00.123456",
		Item:      "coke",
		Direction: models.DirectionOut,
		Quantity:  3,
		Price:     decimal.NewFromInt(20),
	}, tx)
	require.Len(t, snapshot.History, 1)
	assert.Equal(t, tx, snapshot.PendingTransactions()[0])

	parsed, err := tx.Timestamp()
	require.NoError(t, err)
	assert.True(t, parsed.Equal(at))
}

func TestTransactionLogger_UniqueIDs(t *testing.T) {
	logger := NewTransactionLogger()
	snapshot := models.NewSnapshot()

	first := logger.Log(snapshot, "coke", models.DirectionIn, 1, decimal.Zero)
	second := logger.Log(snapshot, "coke", models.DirectionIn, 1, decimal.Zero)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, snapshot.History, 2)
}
