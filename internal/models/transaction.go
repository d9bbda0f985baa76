package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// TimestampLayout is how transaction times are written to the history.
const TimestampLayout = "2006-01-02 15:04:05.000000"

var timestampLayouts = []string{
	TimestampLayout,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
}

// Transaction is one immutable history record.
type Transaction struct {
	ID        string          `json:"id,omitempty"`
	Time      string          `json:"time"`
	Item      string          `json:"item"`
	Direction Direction       `json:"action"`
	Quantity  int             `json:"qty"`
	Price     decimal.Decimal `json:"price"`
}

// Timestamp parses the stored time. History written by older versions used
// slightly different layouts, all of them timezone-unaware.
func (t Transaction) Timestamp() (time.Time, error) {
	raw := strings.TrimSpace(t.Time)
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", t.Time)
}

// Total is quantity times unit price.
func (t Transaction) Total() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(int64(t.Quantity)))
}
