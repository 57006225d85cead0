package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/prodboard/internal/db"
	"github.com/alexanderramin/prodboard/internal/domain"
)

// SQLiteDependencyRepo implements DependencyRepo using a SQLite database.
type SQLiteDependencyRepo struct {
	db db.DBTX
}

func NewSQLiteDependencyRepo(conn db.DBTX) *SQLiteDependencyRepo {
	return &SQLiteDependencyRepo{db: conn}
}

// Replace sets the full outgoing edge set of featureID. Run it inside a
// transaction so the delete and inserts land together.
func (r *SQLiteDependencyRepo) Replace(ctx context.Context, featureID string, dependsOn []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM feature_dependencies WHERE feature_id = ?`, featureID); err != nil {
		return fmt.Errorf("clearing dependencies: %w", err)
	}
	for _, dep := range dependsOn {
		_, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO feature_dependencies (feature_id, depends_on_id) VALUES (?, ?)`, featureID, dep)
		if err != nil {
			return fmt.Errorf("inserting dependency %s -> %s: %w", featureID, dep, err)
		}
	}
	return nil
}

func (r *SQLiteDependencyRepo) ListByFeature(ctx context.Context, featureID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT depends_on_id FROM feature_dependencies WHERE feature_id = ? ORDER BY depends_on_id`, featureID)
	if err != nil {
		return nil, fmt.Errorf("listing dependencies: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// ListDependents returns the features that depend on featureID.
func (r *SQLiteDependencyRepo) ListDependents(ctx context.Context, featureID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT feature_id FROM feature_dependencies WHERE depends_on_id = ? ORDER BY feature_id`, featureID)
	if err != nil {
		return nil, fmt.Errorf("listing dependents: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

func (r *SQLiteDependencyRepo) ListByProduct(ctx context.Context, productID string) ([]domain.Dependency, error) {
	query := `SELECT d.feature_id, d.depends_on_id
		FROM feature_dependencies d
		JOIN features f ON d.feature_id = f.id
		WHERE f.product_id = ?
		ORDER BY d.feature_id, d.depends_on_id`
	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("listing product dependencies: %w", err)
	}
	defer rows.Close()

	var deps []domain.Dependency
	for rows.Next() {
		var d domain.Dependency
		if err := rows.Scan(&d.FeatureID, &d.DependsOnID); err != nil {
			return nil, fmt.Errorf("scanning dependency: %w", err)
		}
		deps = append(deps, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dependencies: %w", err)
	}
	return deps, nil
}

func scanIDs(rows *sql.Rows) ([]string, error) {
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ids: %w", err)
	}
	return ids, nil
}
