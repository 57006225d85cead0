package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/prodboard/internal/domain"
	"github.com/alexanderramin/prodboard/internal/prioritization"
	"github.com/google/uuid"
)

var testShortIDCounter atomic.Int64

// Product options
type ProductOption func(*domain.Product)

func WithShortID(id string) ProductOption {
	return func(p *domain.Product) {
		p.ShortID = id
	}
}

func WithProductStatus(s domain.ProductStatus) ProductOption {
	return func(p *domain.Product) {
		p.Status = s
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n%10000)
}

func NewTestProduct(name string, opts ...ProductOption) *domain.Product {
	now := time.Now().UTC()
	p := &domain.Product{
		ID:          uuid.New().String(),
		ShortID:     defaultShortID(name),
		Name:        name,
		Description: "test product",
		Status:      domain.ProductActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Feature options
type FeatureOption func(*domain.Feature)

func WithDates(start, end time.Time) FeatureOption {
	return func(f *domain.Feature) {
		f.StartDate = start
		f.EndDate = end
	}
}

func WithRICE(reach, impact, confidence, effort int) FeatureOption {
	return func(f *domain.Feature) {
		f.RICE = domain.RICEInput{Reach: reach, Impact: impact, Confidence: confidence, Effort: effort}
		f.RICEScore = prioritization.Score(f.RICE)
	}
}

func WithPriority(p domain.MoSCoW) FeatureOption {
	return func(f *domain.Feature) {
		f.Priority = p
	}
}

func WithStatus(s domain.FeatureStatus) FeatureOption {
	return func(f *domain.Feature) {
		f.Status = s
	}
}

func WithSeq(seq int) FeatureOption {
	return func(f *domain.Feature) {
		f.Seq = seq
	}
}

func WithDependencies(ids ...string) FeatureOption {
	return func(f *domain.Feature) {
		f.Dependencies = ids
	}
}

func WithDescription(d string) FeatureOption {
	return func(f *domain.Feature) {
		f.Description = d
	}
}

// Day returns midnight UTC of today plus offset days.
func Day(offset int) time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d+offset, 0, 0, 0, 0, time.UTC)
}

// NewTestFeature returns a valid feature starting tomorrow and lasting two
// weeks, with RICE 1/1/1/1 and score already derived.
func NewTestFeature(productID, title string, opts ...FeatureOption) *domain.Feature {
	now := time.Now().UTC()
	f := &domain.Feature{
		ID:          uuid.New().String(),
		ProductID:   productID,
		Title:       title,
		Description: "Description for " + title,
		Status:      domain.StatusBacklog,
		Priority:    domain.PriorityShould,
		StartDate:   Day(1),
		EndDate:     Day(15),
		RICE:        domain.DefaultRICEInput,
		RICEScore:   prioritization.Score(domain.DefaultRICEInput),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}
