package services

import (
	"time"

	"stocky/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionLogger appends IN/OUT records to a snapshot's history. The
// records become durable when the snapshot is committed.
type TransactionLogger interface {
	Log(snapshot *models.Snapshot, item string, direction models.Direction, qty int, price decimal.Decimal) models.Transaction
}

type transactionLogger struct {
	now   func() time.Time
	newID func() string
}

func NewTransactionLogger() TransactionLogger {
	return &transactionLogger{now: time.Now, newID: uuid.NewString}
}

func (l *transactionLogger) Log(snapshot *models.Snapshot, item string, direction models.Direction, qty int, price decimal.Decimal) models.Transaction {
	tx := models.Transaction{
		ID:        l.newID(),
		Time:      l.now().Format(models.TimestampLayout),
		Item:      item,
		Direction: direction,
		Quantity:  qty,
		Price:     price,
	}
	snapshot.AppendTransaction(tx)
	return tx
}
