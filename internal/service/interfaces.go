package service

import (
	"context"
	"io"
	"time"

	"github.com/alexanderramin/prodboard/internal/domain"
	"github.com/alexanderramin/prodboard/internal/importer"
)

type ProductService interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Product, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string, force bool) error
}

type FeatureService interface {
	Create(ctx context.Context, f *domain.Feature) error
	GetByID(ctx context.Context, id string) (*domain.Feature, error)
	ListByProduct(ctx context.Context, productID string) ([]*domain.Feature, error)
	// Update edits title, description and dates. Status, priority, RICE and
	// dependencies have their own use cases.
	Update(ctx context.Context, f *domain.Feature) error
	SetStatus(ctx context.Context, id string, status domain.FeatureStatus) (*domain.Feature, error)
	SetPriority(ctx context.Context, id string, priority domain.MoSCoW) (*domain.Feature, error)
	UpdateRICE(ctx context.Context, id string, in domain.RICEInput, note string) (*domain.Feature, error)
	SetDependencies(ctx context.Context, id string, depIDs []string) (*domain.Feature, error)
	Prioritized(ctx context.Context, productID string) ([]*domain.Feature, error)
	Roadmap(ctx context.Context, productID string) ([]RoadmapMonth, error)
	History(ctx context.Context, id string) ([]*domain.FeatureHistory, error)
	Delete(ctx context.Context, id string) error
}

// RoadmapMonth groups features by the month they start in.
type RoadmapMonth struct {
	Month    time.Time // first day of the month, UTC
	Features []*domain.Feature
}

type FeedbackService interface {
	Submit(ctx context.Context, fb *domain.Feedback) error
	GetByID(ctx context.Context, id string) (*domain.Feedback, error)
	ListByProduct(ctx context.Context, productID string) ([]*domain.Feedback, error)
	ListByFeature(ctx context.Context, featureID string) ([]*domain.Feedback, error)
	// LinkToFeature attaches feedback to a feature; nil detaches it.
	LinkToFeature(ctx context.Context, id string, featureID *string) error
	Delete(ctx context.Context, id string) error
}

// ImportResult holds the outcome of a backlog import.
type ImportResult struct {
	Product         *domain.Product
	ProductCreated  bool
	Created         int
	Updated         int
	DependencyCount int
}

type ImportService interface {
	// ImportBacklog loads a YAML or JSON backlog file. productID, when set,
	// overrides the product named in the file.
	ImportBacklog(ctx context.Context, filePath, productID string) (*ImportResult, error)
	ImportBacklogFromSchema(ctx context.Context, schema *importer.BacklogSchema, productID string) (*ImportResult, error)
}

type ExportService interface {
	ExportBacklog(ctx context.Context, productID string) (*importer.BacklogSchema, error)
	WriteBacklog(ctx context.Context, productID string, w io.Writer, format importer.Format) error
}
