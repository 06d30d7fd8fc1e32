// Package sqlitekv backs the storage.KV boundary with a local SQLite file,
// standing in for the device key-value store.
package sqlitekv

import (
	"database/sql"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/notagain-app/notagain-core/storage"
)

var _ storage.KV = (*KV)(nil)

// KV is a SQLite-backed key-value store.
type KV struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and initializes the schema.
func New(dbPath string) (*KV, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "[sqlitekv.New] open database")
	}

	schema := `
	CREATE TABLE IF NOT EXISTS kv_store (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, errors.Wrap(err, "[sqlitekv.New] initialize schema")
	}

	return &KV{db: db}, nil
}

// Close closes the database connection.
func (kv *KV) Close() error {
	return kv.db.Close()
}

// DB returns the underlying connection for collaborators sharing the file.
func (kv *KV) DB() *sql.DB {
	return kv.db
}

func (kv *KV) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := kv.db.QueryRow(`SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "[sqlitekv.Get] query")
	}
	return value, true, nil
}

func (kv *KV) Set(key string, value []byte) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := kv.db.Exec(query, key, value); err != nil {
		return errors.Wrap(err, "[sqlitekv.Set] exec")
	}
	return nil
}

func (kv *KV) Delete(key string) error {
	if _, err := kv.db.Exec(`DELETE FROM kv_store WHERE key = ?`, key); err != nil {
		return errors.Wrap(err, "[sqlitekv.Delete] exec")
	}
	return nil
}
