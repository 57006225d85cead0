package domain

import (
	"fmt"
	"slices"
	"time"
)

// RICEInput holds the four 1-10 inputs of the RICE formula.
type RICEInput struct {
	Reach      int
	Impact     int
	Confidence int
	Effort     int
}

// DefaultRICEInput is applied to features created without explicit inputs.
var DefaultRICEInput = RICEInput{Reach: 1, Impact: 1, Confidence: 1, Effort: 1}

func (in RICEInput) IsZero() bool {
	return in == RICEInput{}
}

type Feature struct {
	ID          string
	ProductID   string
	Seq         int // product-scoped display number
	Title       string
	Description string
	Status      FeatureStatus
	Priority    MoSCoW

	StartDate time.Time
	EndDate   time.Time

	// IDs of features this feature depends on.
	Dependencies []string

	RICE RICEInput
	// RICEScore is derived from RICE and only written by the scorer.
	RICEScore float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayID returns "#<seq>", or a truncated UUID when no seq is assigned.
func (f *Feature) DisplayID() string {
	if f.Seq > 0 {
		return fmt.Sprintf("#%d", f.Seq)
	}
	if len(f.ID) >= 8 {
		return f.ID[:8]
	}
	return f.ID
}

// DependsOn reports whether id is one of the feature's direct dependencies.
func (f *Feature) DependsOn(id string) bool {
	return slices.Contains(f.Dependencies, id)
}

// SpanDays is the number of whole days between start and end.
func (f *Feature) SpanDays() int {
	return int(f.EndDate.Sub(f.StartDate).Hours() / 24)
}

// IsTerminal returns true when the feature no longer needs work.
func (f *Feature) IsTerminal() bool {
	return f.Status == StatusDone
}

// Clone returns a deep copy, so callers can compare before/after states.
func (f *Feature) Clone() *Feature {
	c := *f
	c.Dependencies = slices.Clone(f.Dependencies)
	return &c
}
