package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/prodboard/internal/db"
)

// SQLiteSequenceRepo allocates product-scoped feature numbers atomically
// using the product_sequences table.
type SQLiteSequenceRepo struct {
	db db.DBTX
}

func NewSQLiteSequenceRepo(conn db.DBTX) *SQLiteSequenceRepo {
	return &SQLiteSequenceRepo{db: conn}
}

// NextSeq returns the next feature number for a product. The counter never
// falls behind the highest seq already stored, so features imported with
// explicit seqs are never shadowed by a later allocation.
func (r *SQLiteSequenceRepo) NextSeq(ctx context.Context, productID string) (int, error) {
	seedQuery := `INSERT OR IGNORE INTO product_sequences (product_id, next_seq)
		SELECT ?, COALESCE(MAX(seq), 0) + 1 FROM features WHERE product_id = ?`
	if _, err := r.db.ExecContext(ctx, seedQuery, productID, productID); err != nil {
		return 0, fmt.Errorf("seeding sequence for product %s: %w", productID, err)
	}

	var next int
	allocQuery := `UPDATE product_sequences
		SET next_seq = MAX(next_seq, (SELECT COALESCE(MAX(seq), 0) + 1 FROM features WHERE product_id = ?)) + 1
		WHERE product_id = ?
		RETURNING next_seq - 1`
	if err := r.db.QueryRowContext(ctx, allocQuery, productID, productID).Scan(&next); err != nil {
		return 0, fmt.Errorf("allocating next seq for product %s: %w", productID, err)
	}
	return next, nil
}
