package repositories

import (
	"context"
	"errors"

	"stocky/internal/models"
)

// Document names shared by every backend.
const (
	DocInventory  = "inventory"
	DocMinLevels  = "min_levels"
	DocCategories = "categories"
	DocSuppliers  = "suppliers"
	DocPrices     = "prices"
	DocHistory    = "stock_history"
)

// ErrCorruptDocument is returned when a stored document exists but cannot be
// decoded. Callers must not treat it as an empty store.
var ErrCorruptDocument = errors.New("corrupt store document")

// StoreRepository loads every store for a request and commits them back.
type StoreRepository interface {
	// Load reads all documents; missing documents come back empty.
	Load(ctx context.Context) (*models.Snapshot, error)
	// Commit rewrites every mapping store and persists pending transactions.
	Commit(ctx context.Context, snapshot *models.Snapshot) error
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}

// mappingDocuments pairs each mapping store with its document name, in the
// order they are written.
func mappingDocuments(s *models.Snapshot) []struct {
	name  string
	value interface{}
} {
	return []struct {
		name  string
		value interface{}
	}{
		{DocInventory, s.Inventory},
		{DocMinLevels, s.MinLevels},
		{DocCategories, s.Categories},
		{DocSuppliers, s.Suppliers},
		{DocPrices, s.Prices},
	}
}

// mappingTargets returns decode targets for each mapping document.
func mappingTargets(s *models.Snapshot) map[string]interface{} {
	return map[string]interface{}{
		DocInventory:  &s.Inventory,
		DocMinLevels:  &s.MinLevels,
		DocCategories: &s.Categories,
		DocSuppliers:  &s.Suppliers,
		DocPrices:     &s.Prices,
	}
}
