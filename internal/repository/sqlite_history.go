package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/prodboard/internal/db"
	"github.com/alexanderramin/prodboard/internal/domain"
)

// historyTimeLayout is fixed-width so created_at sorts correctly as text.
const historyTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteHistoryRepo implements HistoryRepo. There is deliberately no update
// or delete; rows only leave with their feature.
type SQLiteHistoryRepo struct {
	db db.DBTX
}

func NewSQLiteHistoryRepo(conn db.DBTX) *SQLiteHistoryRepo {
	return &SQLiteHistoryRepo{db: conn}
}

func (r *SQLiteHistoryRepo) Append(ctx context.Context, h *domain.FeatureHistory) error {
	query := `INSERT INTO feature_history (id, feature_id, field, old_value, new_value, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		h.ID, h.FeatureID, h.Field, h.OldValue, h.NewValue, h.Note,
		h.CreatedAt.UTC().Format(historyTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("appending feature history: %w", err)
	}
	return nil
}

// ListByFeature returns history oldest first.
func (r *SQLiteHistoryRepo) ListByFeature(ctx context.Context, featureID string) ([]*domain.FeatureHistory, error) {
	query := `SELECT id, feature_id, field, old_value, new_value, note, created_at
		FROM feature_history WHERE feature_id = ? ORDER BY created_at, rowid`
	rows, err := r.db.QueryContext(ctx, query, featureID)
	if err != nil {
		return nil, fmt.Errorf("listing feature history: %w", err)
	}
	defer rows.Close()

	var entries []*domain.FeatureHistory
	for rows.Next() {
		var h domain.FeatureHistory
		var createdAtStr string
		if err := rows.Scan(&h.ID, &h.FeatureID, &h.Field, &h.OldValue, &h.NewValue, &h.Note, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning feature history: %w", err)
		}
		h.CreatedAt, err = time.Parse(historyTimeLayout, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		entries = append(entries, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating feature history: %w", err)
	}
	return entries, nil
}
