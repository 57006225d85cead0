package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/prodboard/internal/domain"
)

// ErrNotFound is returned (wrapped) when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type ProductRepo interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Product, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// FeatureRepo persists features. Reads hydrate Feature.Dependencies; writes
// never touch the dependency table (see DependencyRepo).
type FeatureRepo interface {
	Create(ctx context.Context, f *domain.Feature) error
	Upsert(ctx context.Context, f *domain.Feature) error
	GetByID(ctx context.Context, id string) (*domain.Feature, error)
	ListByProduct(ctx context.Context, productID string) ([]*domain.Feature, error)
	Update(ctx context.Context, f *domain.Feature) error
	Delete(ctx context.Context, id string) error
}

type DependencyRepo interface {
	Replace(ctx context.Context, featureID string, dependsOn []string) error
	ListByFeature(ctx context.Context, featureID string) ([]string, error)
	ListDependents(ctx context.Context, featureID string) ([]string, error)
	ListByProduct(ctx context.Context, productID string) ([]domain.Dependency, error)
}

// HistoryRepo is append-only.
type HistoryRepo interface {
	Append(ctx context.Context, h *domain.FeatureHistory) error
	ListByFeature(ctx context.Context, featureID string) ([]*domain.FeatureHistory, error)
}

type FeedbackRepo interface {
	Create(ctx context.Context, f *domain.Feedback) error
	GetByID(ctx context.Context, id string) (*domain.Feedback, error)
	ListByProduct(ctx context.Context, productID string) ([]*domain.Feedback, error)
	ListByFeature(ctx context.Context, featureID string) ([]*domain.Feedback, error)
	LinkFeature(ctx context.Context, id string, featureID *string) error
	Delete(ctx context.Context, id string) error
}

type SequenceRepo interface {
	NextSeq(ctx context.Context, productID string) (int, error)
}
