package models

import (
	"sort"

	"github.com/shopspring/decimal"
)

// DefaultMinimumLevel applies to every item without an explicit threshold.
const DefaultMinimumLevel = 5

func init() {
	// Prices are persisted as plain JSON numbers, the same shape the
	// documents have always had on disk.
	decimal.MarshalJSONWithoutQuotes = true
}

// Supplier is the contact recorded for an item.
type Supplier struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// Price holds the last purchase and last sale price of an item.
type Price struct {
	Buy  decimal.Decimal `json:"buy"`
	Sell decimal.Decimal `json:"sell"`
}

// Snapshot is every store loaded for one request. Mutations happen on the
// snapshot and become durable when the repository commits it.
type Snapshot struct {
	Inventory  map[string]int      `json:"inventory"`
	MinLevels  map[string]int      `json:"min_levels"`
	Categories map[string]string   `json:"categories"`
	Suppliers  map[string]Supplier `json:"suppliers"`
	Prices     map[string]Price    `json:"prices"`
	History    []Transaction       `json:"history"`

	pending []Transaction
}

// NewSnapshot returns a snapshot with every store initialised and empty.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Inventory:  map[string]int{},
		MinLevels:  map[string]int{},
		Categories: map[string]string{},
		Suppliers:  map[string]Supplier{},
		Prices:     map[string]Price{},
		History:    []Transaction{},
	}
}

// Normalize replaces nil stores with empty ones. Repositories call it after
// decoding so callers never have to nil-check.
func (s *Snapshot) Normalize() {
	if s.Inventory == nil {
		s.Inventory = map[string]int{}
	}
	if s.MinLevels == nil {
		s.MinLevels = map[string]int{}
	}
	if s.Categories == nil {
		s.Categories = map[string]string{}
	}
	if s.Suppliers == nil {
		s.Suppliers = map[string]Supplier{}
	}
	if s.Prices == nil {
		s.Prices = map[string]Price{}
	}
	if s.History == nil {
		s.History = []Transaction{}
	}
}

// MinimumFor returns the low-stock threshold for item.
func (s *Snapshot) MinimumFor(item string) int {
	if min, ok := s.MinLevels[item]; ok {
		return min
	}
	return DefaultMinimumLevel
}

// Items returns the inventory keys in sorted order.
func (s *Snapshot) Items() []string {
	return SortedKeys(s.Inventory)
}

// AppendTransaction adds a record to the history and marks it pending until
// the next commit.
func (s *Snapshot) AppendTransaction(tx Transaction) {
	s.History = append(s.History, tx)
	s.pending = append(s.pending, tx)
}

// PendingTransactions returns the records appended since the snapshot was loaded.
func (s *Snapshot) PendingTransactions() []Transaction {
	return s.pending
}

// MarkCommitted clears the pending list after a successful commit.
func (s *Snapshot) MarkCommitted() {
	s.pending = nil
}

// LastTransactions returns at most n of the newest history records, oldest first.
func (s *Snapshot) LastTransactions(n int) []Transaction {
	if n <= 0 || len(s.History) <= n {
		return s.History
	}
	return s.History[len(s.History)-n:]
}

// SortedKeys returns the keys of any string-keyed map in sorted order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
