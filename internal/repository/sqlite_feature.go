package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/prodboard/internal/db"
	"github.com/alexanderramin/prodboard/internal/domain"
)

// featureColumns is the canonical column list for features.
const featureColumns = `id, product_id, seq, title, description, status, priority,
		start_date, end_date,
		rice_reach, rice_impact, rice_confidence, rice_effort, rice_score,
		created_at, updated_at`

// SQLiteFeatureRepo implements FeatureRepo using a SQLite database.
type SQLiteFeatureRepo struct {
	db db.DBTX
}

func NewSQLiteFeatureRepo(conn db.DBTX) *SQLiteFeatureRepo {
	return &SQLiteFeatureRepo{db: conn}
}

func featureArgs(f *domain.Feature) []any {
	return []any{
		f.ID,
		f.ProductID,
		f.Seq,
		f.Title,
		f.Description,
		string(f.Status),
		string(f.Priority),
		f.StartDate.Format(dateLayout),
		f.EndDate.Format(dateLayout),
		f.RICE.Reach,
		f.RICE.Impact,
		f.RICE.Confidence,
		f.RICE.Effort,
		f.RICEScore,
		f.CreatedAt.Format(time.RFC3339),
		f.UpdatedAt.Format(time.RFC3339),
	}
}

func (r *SQLiteFeatureRepo) Create(ctx context.Context, f *domain.Feature) error {
	query := `INSERT INTO features (` + featureColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, featureArgs(f)...); err != nil {
		return fmt.Errorf("inserting feature: %w", err)
	}
	return nil
}

// Upsert inserts the feature or overwrites every mutable column of the row
// with the same id. product_id and created_at of an existing row are kept.
func (r *SQLiteFeatureRepo) Upsert(ctx context.Context, f *domain.Feature) error {
	query := `INSERT INTO features (` + featureColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			seq = excluded.seq,
			title = excluded.title,
			description = excluded.description,
			status = excluded.status,
			priority = excluded.priority,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			rice_reach = excluded.rice_reach,
			rice_impact = excluded.rice_impact,
			rice_confidence = excluded.rice_confidence,
			rice_effort = excluded.rice_effort,
			rice_score = excluded.rice_score,
			updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, featureArgs(f)...); err != nil {
		return fmt.Errorf("upserting feature: %w", err)
	}
	return nil
}

func (r *SQLiteFeatureRepo) GetByID(ctx context.Context, id string) (*domain.Feature, error) {
	query := `SELECT ` + featureColumns + ` FROM features WHERE id = ?`
	f, err := r.scanFeature(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	deps, err := NewSQLiteDependencyRepo(r.db).ListByFeature(ctx, id)
	if err != nil {
		return nil, err
	}
	f.Dependencies = deps
	return f, nil
}

// ListByProduct returns every feature of a product ordered by seq, with
// dependencies hydrated from a single edge query.
func (r *SQLiteFeatureRepo) ListByProduct(ctx context.Context, productID string) ([]*domain.Feature, error) {
	query := `SELECT ` + featureColumns + ` FROM features WHERE product_id = ? ORDER BY seq, created_at`
	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("listing features by product: %w", err)
	}
	var features []*domain.Feature
	byID := make(map[string]*domain.Feature)
	for rows.Next() {
		f, err := r.scanFeature(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		features = append(features, f)
		byID[f.ID] = f
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating features: %w", err)
	}
	rows.Close()

	edges, err := NewSQLiteDependencyRepo(r.db).ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	for _, e := range edges {
		if f, ok := byID[e.FeatureID]; ok {
			f.Dependencies = append(f.Dependencies, e.DependsOnID)
		}
	}
	return features, nil
}

func (r *SQLiteFeatureRepo) Update(ctx context.Context, f *domain.Feature) error {
	query := `UPDATE features SET
			title = ?, description = ?, status = ?, priority = ?,
			start_date = ?, end_date = ?,
			rice_reach = ?, rice_impact = ?, rice_confidence = ?, rice_effort = ?, rice_score = ?,
			updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		f.Title,
		f.Description,
		string(f.Status),
		string(f.Priority),
		f.StartDate.Format(dateLayout),
		f.EndDate.Format(dateLayout),
		f.RICE.Reach,
		f.RICE.Impact,
		f.RICE.Confidence,
		f.RICE.Effort,
		f.RICEScore,
		f.UpdatedAt.Format(time.RFC3339),
		f.ID,
	)
	if err != nil {
		return fmt.Errorf("updating feature: %w", err)
	}
	return requireAffected(res, "feature")
}

func (r *SQLiteFeatureRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM features WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting feature: %w", err)
	}
	return requireAffected(res, "feature")
}

func (r *SQLiteFeatureRepo) scanFeature(row rowScanner) (*domain.Feature, error) {
	var f domain.Feature
	var statusStr, priorityStr, startStr, endStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&f.ID, &f.ProductID, &f.Seq, &f.Title, &f.Description, &statusStr, &priorityStr,
		&startStr, &endStr,
		&f.RICE.Reach, &f.RICE.Impact, &f.RICE.Confidence, &f.RICE.Effort, &f.RICEScore,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, notFound(err, "feature")
	}

	f.Status = domain.FeatureStatus(statusStr)
	f.Priority = domain.MoSCoW(priorityStr)

	if f.StartDate, err = time.Parse(dateLayout, startStr); err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}
	if f.EndDate, err = time.Parse(dateLayout, endStr); err != nil {
		return nil, fmt.Errorf("parsing end_date: %w", err)
	}
	f.CreatedAt, f.UpdatedAt, err = parseTimestamps(createdAtStr, updatedAtStr)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
