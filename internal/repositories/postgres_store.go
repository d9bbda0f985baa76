package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"stocky/internal/models"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // register postgres dialect
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const historyTable = "stock_transactions"

// DBPool is the part of *pgxpool.Pool the store needs.
type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
}

type postgresStore struct {
	db      DBPool
	dialect goqu.DialectWrapper
}

// NewPostgresStore keeps mapping stores as JSONB documents and the history
// as rows; a commit is a single database transaction.
func NewPostgresStore(db DBPool) StoreRepository {
	return &postgresStore{db: db, dialect: goqu.Dialect("postgres")}
}

func (r *postgresStore) Load(ctx context.Context) (*models.Snapshot, error) {
	snapshot := models.NewSnapshot()

	query := `SELECT name, body FROM store_documents`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load store documents: %w", err)
	}
	defer rows.Close()

	targets := mappingTargets(snapshot)
	for rows.Next() {
		var name string
		var body []byte
		if err := rows.Scan(&name, &body); err != nil {
			return nil, err
		}
		target, ok := targets[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(body, target); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorruptDocument, name, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	history, err := r.loadHistory(ctx)
	if err != nil {
		return nil, err
	}
	snapshot.History = history
	snapshot.Normalize()
	return snapshot, nil
}

func (r *postgresStore) loadHistory(ctx context.Context) ([]models.Transaction, error) {
	query, args, err := r.dialect.From(historyTable).
		Select(goqu.L("id::text"), goqu.C("occurred_at"), goqu.C("item"), goqu.C("direction"), goqu.C("quantity"), goqu.L("unit_price::text")).
		Order(goqu.C("seq").Asc()).
		ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	history := []models.Transaction{}
	for rows.Next() {
		var tx models.Transaction
		var direction, price string
		if err := rows.Scan(&tx.ID, &tx.Time, &tx.Item, &direction, &tx.Quantity, &price); err != nil {
			return nil, err
		}
		tx.Direction = models.Direction(direction)
		tx.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("%w: history price %q", ErrCorruptDocument, price)
		}
		history = append(history, tx)
	}
	return history, rows.Err()
}

func (r *postgresStore) Commit(ctx context.Context, snapshot *models.Snapshot) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin commit: %w", err)
	}

	if err := r.writeDocuments(ctx, tx, snapshot); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := r.insertTransactions(ctx, tx, snapshot.PendingTransactions()); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit stores: %w", err)
	}
	snapshot.MarkCommitted()
	return nil
}

func (r *postgresStore) writeDocuments(ctx context.Context, tx pgx.Tx, snapshot *models.Snapshot) error {
	query := `
		INSERT INTO store_documents (name, body, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()
	`
	for _, doc := range mappingDocuments(snapshot) {
		body, err := json.Marshal(doc.value)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", doc.name, err)
		}
		if _, err := tx.Exec(ctx, query, doc.name, body); err != nil {
			return fmt.Errorf("failed to write %s: %w", doc.name, err)
		}
	}
	return nil
}

func (r *postgresStore) insertTransactions(ctx context.Context, tx pgx.Tx, pending []models.Transaction) error {
	if len(pending) == 0 {
		return nil
	}

	records := make([]interface{}, 0, len(pending))
	for _, t := range pending {
		records = append(records, goqu.Record{
			"id":          t.ID,
			"occurred_at": t.Time,
			"item":        t.Item,
			"direction":   string(t.Direction),
			"quantity":    t.Quantity,
			"unit_price":  t.Price.String(),
		})
	}

	query, args, err := r.dialect.Insert(historyTable).Rows(records...).Prepared(true).ToSQL()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

func (r *postgresStore) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
