package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"stocky/internal/models"
	"stocky/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TestDB holds the database connection for integration tests
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB connects to TEST_DATABASE_URL and skips the test when it is unset.
// The schema is expected to be migrated already.
func SetupTestDB(t *testing.T, connString string) *TestDB {
	t.Helper()

	if connString == "" {
		connString = os.Getenv("TEST_DATABASE_URL")
		if connString == "" {
			t.Skip("TEST_DATABASE_URL not set")
		}
	}

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	ctx := context.Background()
	if _, err := pool.Exec(ctx, "TRUNCATE store_documents, stock_transactions"); err != nil {
		pool.Close()
		t.Fatalf("Failed to reset test database: %v", err)
	}

	return &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
}

// SetupTestStore returns a file store rooted in a fresh temporary directory.
func SetupTestStore(t *testing.T) repositories.StoreRepository {
	t.Helper()

	store, err := repositories.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create file store: %v", err)
	}
	return store
}

// SeedStore commits snapshot into store.
func SeedStore(t *testing.T, store repositories.StoreRepository, snapshot *models.Snapshot) {
	t.Helper()

	if err := store.Commit(context.Background(), snapshot); err != nil {
		t.Fatalf("Failed to seed store: %v", err)
	}
}

// SetupTestSnapshot returns a small, fully populated snapshot: coke is low
// and has sales, sprite is healthy, chips is low and has never sold.
func SetupTestSnapshot(now time.Time) *models.Snapshot {
	snapshot := models.NewSnapshot()

	snapshot.Inventory["coke"] = 2
	snapshot.Inventory["sprite"] = 20
	snapshot.Inventory["chips"] = 1
	snapshot.MinLevels["sprite"] = 10
	snapshot.Categories["coke"] = "Drinks"
	snapshot.Categories["sprite"] = "Drinks"
	snapshot.Categories["chips"] = "Snacks"
	snapshot.Suppliers["coke"] = models.Supplier{Name: "ABC Corp", Contact: "09171234567"}
	snapshot.Prices["coke"] = models.Price{Buy: decimal.NewFromInt(15), Sell: decimal.NewFromInt(20)}
	snapshot.Prices["sprite"] = models.Price{Buy: decimal.NewFromInt(12), Sell: decimal.NewFromInt(18)}

	snapshot.AppendTransaction(NewTransaction(now.Add(-10*24*time.Hour), "coke", models.DirectionIn, 10, 15))
	snapshot.AppendTransaction(NewTransaction(now.Add(-3*24*time.Hour), "coke", models.DirectionOut, 5, 20))
	snapshot.AppendTransaction(NewTransaction(now.Add(-2*time.Hour), "coke", models.DirectionOut, 3, 20))
	snapshot.AppendTransaction(NewTransaction(now.Add(-1*time.Hour), "sprite", models.DirectionOut, 4, 18))
	snapshot.AppendTransaction(NewTransaction(now.Add(-30*time.Minute), "sprite", models.DirectionIn, 24, 12))

	return snapshot
}

// NewTransaction builds a history record at the given time.
func NewTransaction(at time.Time, item string, direction models.Direction, qty int, price int64) models.Transaction {
	return models.Transaction{
		ID:        uuid.NewString(),
		Time:      at.Format(models.TimestampLayout),
		Item:      item,
		Direction: direction,
		Quantity:  qty,
		Price:     decimal.NewFromInt(price),
	}
}
