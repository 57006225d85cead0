package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/prodboard/internal/db"
	"github.com/alexanderramin/prodboard/internal/domain"
)

const feedbackColumns = `id, product_id, feature_id, author, content, created_at`

// SQLiteFeedbackRepo implements FeedbackRepo using a SQLite database.
type SQLiteFeedbackRepo struct {
	db db.DBTX
}

func NewSQLiteFeedbackRepo(conn db.DBTX) *SQLiteFeedbackRepo {
	return &SQLiteFeedbackRepo{db: conn}
}

func (r *SQLiteFeedbackRepo) Create(ctx context.Context, f *domain.Feedback) error {
	query := `INSERT INTO feedback (` + feedbackColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		f.ID, f.ProductID, nullableString(f.FeatureID), f.Author, f.Content,
		f.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting feedback: %w", err)
	}
	return nil
}

func (r *SQLiteFeedbackRepo) GetByID(ctx context.Context, id string) (*domain.Feedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback WHERE id = ?`
	return r.scanFeedback(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteFeedbackRepo) ListByProduct(ctx context.Context, productID string) ([]*domain.Feedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback WHERE product_id = ? ORDER BY created_at DESC, id`
	return r.list(ctx, query, productID)
}

func (r *SQLiteFeedbackRepo) ListByFeature(ctx context.Context, featureID string) ([]*domain.Feedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback WHERE feature_id = ? ORDER BY created_at DESC, id`
	return r.list(ctx, query, featureID)
}

// LinkFeature attaches feedback to a feature, or detaches it when featureID is nil.
func (r *SQLiteFeedbackRepo) LinkFeature(ctx context.Context, id string, featureID *string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE feedback SET feature_id = ? WHERE id = ?`, nullableString(featureID), id)
	if err != nil {
		return fmt.Errorf("linking feedback: %w", err)
	}
	return requireAffected(res, "feedback")
}

func (r *SQLiteFeedbackRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM feedback WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting feedback: %w", err)
	}
	return requireAffected(res, "feedback")
}

func (r *SQLiteFeedbackRepo) list(ctx context.Context, query string, arg string) ([]*domain.Feedback, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("listing feedback: %w", err)
	}
	defer rows.Close()

	var out []*domain.Feedback
	for rows.Next() {
		f, err := r.scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating feedback: %w", err)
	}
	return out, nil
}

func (r *SQLiteFeedbackRepo) scanFeedback(row rowScanner) (*domain.Feedback, error) {
	var f domain.Feedback
	var featureID sql.NullString
	var createdAtStr string
	if err := row.Scan(&f.ID, &f.ProductID, &featureID, &f.Author, &f.Content, &createdAtStr); err != nil {
		return nil, notFound(err, "feedback")
	}
	f.FeatureID = stringPtr(featureID)

	var err error
	if f.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &f, nil
}
