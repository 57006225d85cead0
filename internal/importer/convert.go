package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/prodboard/internal/domain"
	"github.com/alexanderramin/prodboard/internal/prioritization"
	"github.com/google/uuid"
)

// Backlog is a converted backlog file ready for persistence.
type Backlog struct {
	Product  *domain.Product
	Features []*domain.Feature
}

// Convert transforms a validated BacklogSchema into domain objects.
// Call ValidateBacklogSchema first; Convert assumes the schema is valid.
// Features keep their file order; Seq is 0 unless the file sets it.
func Convert(schema *BacklogSchema) (*Backlog, error) {
	now := time.Now().UTC()

	product := &domain.Product{
		ID:          uuid.New().String(),
		ShortID:     strings.ToUpper(schema.Product.ShortID),
		Name:        strings.TrimSpace(schema.Product.Name),
		Description: schema.Product.Description,
		Status:      domain.ProductActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	refMap := make(map[string]string, len(schema.Features)) // ref -> UUID
	for _, f := range schema.Features {
		refMap[f.Ref] = domain.CoalesceStr(f.ID, uuid.New().String())
	}

	features := make([]*domain.Feature, 0, len(schema.Features))
	for _, f := range schema.Features {
		start, err := time.Parse(dateLayout, f.StartDate)
		if err != nil {
			return nil, fmt.Errorf("parsing start_date of %q: %w", f.Ref, err)
		}
		end, err := time.Parse(dateLayout, f.EndDate)
		if err != nil {
			return nil, fmt.Errorf("parsing end_date of %q: %w", f.Ref, err)
		}

		deps := make([]string, 0, len(f.DependsOn))
		for _, ref := range f.DependsOn {
			id, ok := refMap[ref]
			if !ok {
				return nil, fmt.Errorf("depends_on ref %q not found for feature %q", ref, f.Ref)
			}
			deps = append(deps, id)
		}

		feature := &domain.Feature{
			ID:           refMap[f.Ref],
			ProductID:    product.ID,
			Seq:          domain.IntFromPtrWithDefault(0, f.Seq),
			Title:        strings.TrimSpace(f.Title),
			Description:  strings.TrimSpace(f.Description),
			Status:       domain.FeatureStatus(domain.CoalesceStr(f.Status, string(domain.StatusBacklog))),
			Priority:     domain.MoSCoW(domain.CoalesceStr(f.Priority, string(domain.PriorityShould))),
			StartDate:    start,
			EndDate:      end,
			Dependencies: deps,
			RICE:         riceInput(f.RICE),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		feature.RICEScore = prioritization.Score(feature.RICE)
		features = append(features, feature)
	}

	return &Backlog{Product: product, Features: features}, nil
}

// FromDomain builds the file representation of a product's backlog. Refs
// are derived from sequence numbers and IDs are included, so re-importing
// the result updates the same features.
func FromDomain(p *domain.Product, features []*domain.Feature) *BacklogSchema {
	refs := make(map[string]string, len(features))
	for _, f := range features {
		refs[f.ID] = exportRef(f)
	}

	schema := &BacklogSchema{
		Product: ProductImport{
			ShortID:     p.ShortID,
			Name:        p.Name,
			Description: p.Description,
		},
		Features: make([]FeatureImport, 0, len(features)),
	}
	for _, f := range features {
		seq := f.Seq
		rice := f.RICE
		fi := FeatureImport{
			Ref:         refs[f.ID],
			ID:          f.ID,
			Title:       f.Title,
			Description: f.Description,
			Status:      string(f.Status),
			Priority:    string(f.Priority),
			StartDate:   f.StartDate.Format(dateLayout),
			EndDate:     f.EndDate.Format(dateLayout),
			RICE: &RICEImport{
				Reach:      &rice.Reach,
				Impact:     &rice.Impact,
				Confidence: &rice.Confidence,
				Effort:     &rice.Effort,
			},
		}
		if seq > 0 {
			fi.Seq = &seq
		}
		for _, dep := range f.Dependencies {
			if ref, ok := refs[dep]; ok {
				fi.DependsOn = append(fi.DependsOn, ref)
			}
		}
		schema.Features = append(schema.Features, fi)
	}
	return schema
}

func exportRef(f *domain.Feature) string {
	if f.Seq > 0 {
		return fmt.Sprintf("f%d", f.Seq)
	}
	return f.ID
}
