package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"stocky/internal/models"
)

var fileNames = map[string]string{
	DocInventory:  "inventory.json",
	DocMinLevels:  "min_levels.json",
	DocCategories: "categories.json",
	DocSuppliers:  "suppliers.json",
	DocPrices:     "prices.json",
	DocHistory:    "stock_history.json",
}

type fileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore keeps one JSON document per store inside dir.
func NewFileStore(dir string) (StoreRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &fileStore{dir: dir}, nil
}

func (r *fileStore) Load(ctx context.Context) (*models.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := models.NewSnapshot()
	for name, target := range mappingTargets(snapshot) {
		if err := r.read(name, target); err != nil {
			return nil, err
		}
	}
	if err := r.read(DocHistory, &snapshot.History); err != nil {
		return nil, err
	}
	snapshot.Normalize()
	return snapshot, nil
}

func (r *fileStore) Commit(ctx context.Context, snapshot *models.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, doc := range mappingDocuments(snapshot) {
		if err := r.write(doc.name, doc.value); err != nil {
			return err
		}
	}
	if len(snapshot.PendingTransactions()) > 0 {
		if err := r.write(DocHistory, snapshot.History); err != nil {
			return err
		}
	}
	snapshot.MarkCommitted()
	return nil
}

func (r *fileStore) Ping(ctx context.Context) error {
	_, err := os.Stat(r.dir)
	return err
}

func (r *fileStore) read(name string, target interface{}) error {
	data, err := os.ReadFile(filepath.Join(r.dir, fileNames[name]))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorruptDocument, name, err)
	}
	return nil
}

// write replaces the document through a temp file so a crash never leaves a
// half-written store behind.
func (r *fileStore) write(name string, value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(r.dir, fileNames[name]+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(r.dir, fileNames[name])); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}
