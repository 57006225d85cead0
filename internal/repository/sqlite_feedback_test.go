package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/prodboard/internal/domain"
	"github.com/alexanderramin/prodboard/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeedback(productID, content string, at time.Time) *domain.Feedback {
	return &domain.Feedback{
		ID:        uuid.NewString(),
		ProductID: productID,
		Author:    "support",
		Content:   content,
		CreatedAt: at,
	}
}

func TestFeedbackRepo_CreateListNewestFirst(t *testing.T) {
	db, _, _, productID := featureTestSetup(t)
	ctx := context.Background()
	repo := NewSQLiteFeedbackRepo(db)

	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, newFeedback(productID, "first", base)))
	require.NoError(t, repo.Create(ctx, newFeedback(productID, "second", base.Add(time.Hour))))

	list, err := repo.ListByProduct(ctx, productID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Content)
	assert.Nil(t, list[0].FeatureID)
}

func TestFeedbackRepo_LinkAndUnlink(t *testing.T) {
	db, features, _, productID := featureTestSetup(t)
	ctx := context.Background()
	repo := NewSQLiteFeedbackRepo(db)

	f := testutil.NewTestFeature(productID, "Linked")
	require.NoError(t, features.Create(ctx, f))
	fb := newFeedback(productID, "please add SSO", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, fb))

	require.NoError(t, repo.LinkFeature(ctx, fb.ID, &f.ID))
	linked, err := repo.ListByFeature(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, linked, 1)
	require.NotNil(t, linked[0].FeatureID)
	assert.Equal(t, f.ID, *linked[0].FeatureID)

	require.NoError(t, repo.LinkFeature(ctx, fb.ID, nil))
	got, err := repo.GetByID(ctx, fb.ID)
	require.NoError(t, err)
	assert.Nil(t, got.FeatureID)

	assert.ErrorIs(t, repo.LinkFeature(ctx, "missing", nil), ErrNotFound)
}

func TestFeedbackRepo_FeatureDeleteDetaches(t *testing.T) {
	db, features, _, productID := featureTestSetup(t)
	ctx := context.Background()
	repo := NewSQLiteFeedbackRepo(db)

	f := testutil.NewTestFeature(productID, "Doomed")
	require.NoError(t, features.Create(ctx, f))
	fb := newFeedback(productID, "keep me", time.Now().UTC())
	fb.FeatureID = &f.ID
	require.NoError(t, repo.Create(ctx, fb))

	require.NoError(t, features.Delete(ctx, f.ID))

	got, err := repo.GetByID(ctx, fb.ID)
	require.NoError(t, err)
	assert.Nil(t, got.FeatureID)
}

func TestFeedbackRepo_Delete(t *testing.T) {
	db, _, _, productID := featureTestSetup(t)
	ctx := context.Background()
	repo := NewSQLiteFeedbackRepo(db)

	fb := newFeedback(productID, "gone soon", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, fb))
	require.NoError(t, repo.Delete(ctx, fb.ID))

	_, err := repo.GetByID(ctx, fb.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
