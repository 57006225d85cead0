package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies every schema statement. Statements are idempotent, so
// Migrate is safe to run on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN is re-run on every open.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id          TEXT PRIMARY KEY,
		short_id    TEXT NOT NULL DEFAULT '',
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'active'
		            CHECK(status IN ('active','archived')),
		archived_at TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_products_short_id ON products(short_id) WHERE short_id != ''`,

	`CREATE TABLE IF NOT EXISTS product_sequences (
		product_id TEXT PRIMARY KEY REFERENCES products(id) ON DELETE CASCADE,
		next_seq   INTEGER NOT NULL CHECK(next_seq > 0)
	)`,

	`CREATE TABLE IF NOT EXISTS features (
		id              TEXT PRIMARY KEY,
		product_id      TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		seq             INTEGER NOT NULL DEFAULT 0,
		title           TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		status          TEXT NOT NULL DEFAULT 'backlog'
		                CHECK(status IN ('backlog','doing','blocked','done')),
		priority        TEXT NOT NULL DEFAULT 'should'
		                CHECK(priority IN ('must','should','could','wont')),
		start_date      TEXT NOT NULL,
		end_date        TEXT NOT NULL,
		rice_reach      INTEGER NOT NULL DEFAULT 1 CHECK(rice_reach BETWEEN 1 AND 10),
		rice_impact     INTEGER NOT NULL DEFAULT 1 CHECK(rice_impact BETWEEN 1 AND 10),
		rice_confidence INTEGER NOT NULL DEFAULT 1 CHECK(rice_confidence BETWEEN 1 AND 10),
		rice_effort     INTEGER NOT NULL DEFAULT 1 CHECK(rice_effort BETWEEN 1 AND 10),
		rice_score      REAL NOT NULL DEFAULT 0,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_features_product ON features(product_id)`,
	`CREATE INDEX IF NOT EXISTS idx_features_status ON features(status)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_features_product_seq ON features(product_id, seq) WHERE seq > 0`,

	`CREATE TABLE IF NOT EXISTS feature_dependencies (
		feature_id    TEXT NOT NULL REFERENCES features(id) ON DELETE CASCADE,
		depends_on_id TEXT NOT NULL REFERENCES features(id) ON DELETE CASCADE,
		PRIMARY KEY (feature_id, depends_on_id),
		CHECK(feature_id != depends_on_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_feature_dependencies_target ON feature_dependencies(depends_on_id)`,

	`CREATE TABLE IF NOT EXISTS feature_history (
		id         TEXT PRIMARY KEY,
		feature_id TEXT NOT NULL REFERENCES features(id) ON DELETE CASCADE,
		field      TEXT NOT NULL,
		old_value  TEXT NOT NULL DEFAULT '',
		new_value  TEXT NOT NULL DEFAULT '',
		note       TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_feature_history_feature ON feature_history(feature_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS feedback (
		id         TEXT PRIMARY KEY,
		product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		feature_id TEXT REFERENCES features(id) ON DELETE SET NULL,
		author     TEXT NOT NULL DEFAULT '',
		content    TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_feedback_product ON feedback(product_id)`,
	`CREATE INDEX IF NOT EXISTS idx_feedback_feature ON feedback(feature_id)`,

	// Append-only audit: history rows are never rewritten.
	`CREATE TRIGGER IF NOT EXISTS feature_history_no_update
		BEFORE UPDATE ON feature_history
		BEGIN
			SELECT RAISE(ABORT, 'feature_history is append-only');
		END`,
}
