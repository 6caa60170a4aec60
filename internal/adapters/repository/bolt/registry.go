package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/xid"
	"go.etcd.io/bbolt"

	"github.com/trebuchet-org/raffle-cli/internal/domain/config"
	"github.com/trebuchet-org/raffle-cli/internal/domain/models"
	"github.com/trebuchet-org/raffle-cli/internal/usecase"
)

// RegistryFile is the bolt database holding the deployment history and the
// transaction journal
const RegistryFile = "registry.db"

var (
	bucketDeployments  = []byte("deployments")
	bucketTransactions = []byte("transactions")
)

// Registry implements DeploymentHistory and TransactionJournal on top of bbolt.
// Keys are xids, which sort by creation time, so cursor order is chronological.
//
// The database is opened per call so that concurrent raffle processes only
// contend for the file lock while actually reading or writing.
type Registry struct {
	path    string
	timeout time.Duration
}

// NewRegistry creates a registry stored in the project's data directory
func NewRegistry(cfg *config.RuntimeConfig) *Registry {
	return &Registry{
		path:    filepath.Join(cfg.DataDir, RegistryFile),
		timeout: time.Second,
	}
}

// GetPath returns the path to the database file
func (r *Registry) GetPath() string {
	return r.path
}

// AppendDeployment stores a history entry
func (r *Registry) AppendDeployment(ctx context.Context, entry *models.HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = xid.New().String()
	}
	return r.put(ctx, bucketDeployments, entry.ID, entry)
}

// ListDeployments returns all history entries, oldest first
func (r *Registry) ListDeployments(ctx context.Context) ([]*models.HistoryEntry, error) {
	var entries []*models.HistoryEntry
	err := r.view(ctx, bucketDeployments, func(b *bbolt.Bucket) error {
		return b.ForEach(func(k, v []byte) error {
			var entry models.HistoryEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("failed to decode deployment %s: %w", k, err)
			}
			entries = append(entries, &entry)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// RecordTransaction stores a journal entry
func (r *Registry) RecordTransaction(ctx context.Context, tx *models.Transaction) error {
	if tx.ID == "" {
		tx.ID = xid.New().String()
	}
	return r.put(ctx, bucketTransactions, tx.ID, tx)
}

// ListTransactions returns up to limit journal entries, newest first.
// limit <= 0 returns everything.
func (r *Registry) ListTransactions(ctx context.Context, limit int) ([]*models.Transaction, error) {
	var txs []*models.Transaction
	err := r.view(ctx, bucketTransactions, func(b *bbolt.Bucket) error {
		cursor := b.Cursor()
		for k, v := cursor.Last(); k != nil; k, v = cursor.Prev() {
			if limit > 0 && len(txs) >= limit {
				break
			}
			var tx models.Transaction
			if err := json.Unmarshal(v, &tx); err != nil {
				return fmt.Errorf("failed to decode transaction %s: %w", k, err)
			}
			txs = append(txs, &tx)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *Registry) put(ctx context.Context, bucket []byte, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s entry: %w", bucket, err)
	}

	return r.update(ctx, bucket, func(b *bbolt.Bucket) error {
		return b.Put([]byte(key), data)
	})
}

// update opens a read-write transaction on bucket, creating it if needed
func (r *Registry) update(ctx context.Context, bucket []byte, fn func(*bbolt.Bucket) error) error {
	db, err := r.open(ctx, false)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Update(func(txn *bbolt.Tx) error {
		b, err := txn.CreateBucketIfNotExists(bucket)
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		return fn(b)
	})
}

// view opens a read-only transaction. A missing database or bucket reads as empty.
func (r *Registry) view(ctx context.Context, bucket []byte, fn func(*bbolt.Bucket) error) error {
	if _, err := os.Stat(r.path); os.IsNotExist(err) {
		return nil
	}

	db, err := r.open(ctx, true)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.View(func(txn *bbolt.Tx) error {
		b := txn.Bucket(bucket)
		if b == nil {
			return nil
		}
		return fn(b)
	})
}

func (r *Registry) open(ctx context.Context, readOnly bool) (*bbolt.DB, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !readOnly {
		if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := bbolt.Open(r.path, 0644, &bbolt.Options{
		Timeout:  r.timeout,
		ReadOnly: readOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open registry %s: %w", r.path, err)
	}
	return db, nil
}

var (
	_ usecase.DeploymentHistory  = (*Registry)(nil)
	_ usecase.TransactionJournal = (*Registry)(nil)
)
