// Package sqliterepo implements the blocking rule store on the local
// SQLite file shared with the key-value store.
package sqliterepo

import (
	"database/sql"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	apperrors "github.com/notagain-app/notagain-core/internal/errors"

	"github.com/notagain-app/notagain-core/blocking"
)

var _ blocking.Repo = (*RuleRepo)(nil)

// RuleRepo is a SQLite-backed rule store.
type RuleRepo struct {
	db *sql.DB
}

// New initializes the rule table on an open connection.
func New(db *sql.DB) (*RuleRepo, error) {
	if db == nil {
		return nil, errors.New("[sqliterepo.New] db is required")
	}

	schema := `
	CREATE TABLE IF NOT EXISTS block_rules (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		app_id TEXT NOT NULL,
		start_hour INTEGER NOT NULL,
		end_hour INTEGER NOT NULL,
		enabled INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_block_rules_user ON block_rules(user_id);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, errors.Wrap(err, "[sqliterepo.New] initialize schema")
	}
	return &RuleRepo{db: db}, nil
}

func (r *RuleRepo) Upsert(rule *blocking.Rule) error {
	query := `
		INSERT INTO block_rules (id, user_id, app_id, start_hour, end_hour, enabled, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			app_id = excluded.app_id,
			start_hour = excluded.start_hour,
			end_hour = excluded.end_hour,
			enabled = excluded.enabled
	`
	_, err := r.db.Exec(query,
		rule.ID,
		rule.UserID,
		rule.AppID,
		rule.StartHour,
		rule.EndHour,
		rule.Enabled,
		rule.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "[RuleRepo.Upsert] exec")
	}
	return nil
}

func (r *RuleRepo) GetByID(id string) (*blocking.Rule, error) {
	query := `
		SELECT id, user_id, app_id, start_hour, end_hour, enabled, created_at
		FROM block_rules
		WHERE id = ?
	`
	rule := &blocking.Rule{}
	err := r.db.QueryRow(query, id).Scan(
		&rule.ID,
		&rule.UserID,
		&rule.AppID,
		&rule.StartHour,
		&rule.EndHour,
		&rule.Enabled,
		&rule.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[RuleRepo.GetByID] query")
	}
	return rule, nil
}

func (r *RuleRepo) ListByUser(userID string) ([]*blocking.Rule, error) {
	query := `
		SELECT id, user_id, app_id, start_hour, end_hour, enabled, created_at
		FROM block_rules
		WHERE user_id = ?
		ORDER BY created_at, id
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, errors.Wrap(err, "[RuleRepo.ListByUser] query")
	}
	defer rows.Close()

	var rules []*blocking.Rule
	for rows.Next() {
		rule := &blocking.Rule{}
		err := rows.Scan(
			&rule.ID,
			&rule.UserID,
			&rule.AppID,
			&rule.StartHour,
			&rule.EndHour,
			&rule.Enabled,
			&rule.CreatedAt,
		)
		if err != nil {
			return nil, errors.Wrap(err, "[RuleRepo.ListByUser] scan")
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (r *RuleRepo) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM block_rules WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "[RuleRepo.Delete] exec")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "[RuleRepo.Delete] rows affected")
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
