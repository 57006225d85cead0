package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/prodboard/internal/domain"
	"github.com/alexanderramin/prodboard/internal/prioritization"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// ValidateBacklogSchema checks the backlog file for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateBacklogSchema(schema *BacklogSchema) []error {
	var errs []error

	errs = append(errs, validateProduct(&schema.Product)...)

	refs := make(map[string]bool, len(schema.Features))
	ids := make(map[string]bool, len(schema.Features))
	errs = append(errs, validateFeatures(schema.Features, refs, ids)...)
	errs = append(errs, validateDependsOn(schema.Features, refs)...)

	return errs
}

func validateProduct(p *ProductImport) []error {
	var errs []error

	if p.ShortID == "" {
		errs = append(errs, fmt.Errorf("product.short_id is required"))
	} else {
		probe := domain.Product{ShortID: strings.ToUpper(p.ShortID)}
		if err := probe.ValidateShortID(); err != nil {
			errs = append(errs, fmt.Errorf("product.short_id: %w", err))
		}
	}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, fmt.Errorf("product.name is required"))
	}

	return errs
}

func validateFeatures(features []FeatureImport, refs, ids map[string]bool) []error {
	var errs []error

	for i, f := range features {
		prefix := fmt.Sprintf("features[%d]", i)

		if f.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if refs[f.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, f.Ref))
		} else {
			refs[f.Ref] = true
		}

		if f.ID != "" {
			if _, err := uuid.Parse(f.ID); err != nil {
				errs = append(errs, fmt.Errorf("%s.id: invalid UUID %q", prefix, f.ID))
			} else if ids[f.ID] {
				errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, f.ID))
			} else {
				ids[f.ID] = true
			}
		}
		if f.Seq != nil && *f.Seq <= 0 {
			errs = append(errs, fmt.Errorf("%s.seq must be positive", prefix))
		}

		if strings.TrimSpace(f.Title) == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		if strings.TrimSpace(f.Description) == "" {
			errs = append(errs, fmt.Errorf("%s.description is required", prefix))
		}
		if f.Status != "" && !domain.FeatureStatus(f.Status).Valid() {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, f.Status))
		}
		if f.Priority != "" && !domain.MoSCoW(f.Priority).Valid() {
			errs = append(errs, fmt.Errorf("%s.priority: invalid value %q", prefix, f.Priority))
		}

		errs = append(errs, validateDateRange(prefix, f.StartDate, f.EndDate)...)

		if f.RICE != nil {
			if err := prioritization.ValidateInput(riceInput(f.RICE)); err != nil {
				errs = append(errs, fmt.Errorf("%s.rice: %w", prefix, err))
			}
		}
	}

	return errs
}

func validateDateRange(prefix, startStr, endStr string) []error {
	var errs []error
	start, startErr := parseRequiredDate(prefix+".start_date", startStr)
	if startErr != nil {
		errs = append(errs, startErr)
	}
	end, endErr := parseRequiredDate(prefix+".end_date", endStr)
	if endErr != nil {
		errs = append(errs, endErr)
	}
	if startErr == nil && endErr == nil && end.Before(start) {
		errs = append(errs, fmt.Errorf("%s.end_date %q must be on or after start_date %q", prefix, endStr, startStr))
	}
	return errs
}

func parseRequiredDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%s is required", field)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, s)
	}
	return t, nil
}

func validateDependsOn(features []FeatureImport, refs map[string]bool) []error {
	var errs []error

	for i, f := range features {
		prefix := fmt.Sprintf("features[%d].depends_on", i)
		for _, dep := range f.DependsOn {
			switch {
			case dep == "":
				errs = append(errs, fmt.Errorf("%s: empty ref", prefix))
			case dep == f.Ref:
				errs = append(errs, fmt.Errorf("%s: self-dependency on %q", prefix, dep))
			case !refs[dep]:
				errs = append(errs, fmt.Errorf("%s: ref %q not found in features", prefix, dep))
			}
		}
	}

	if len(errs) == 0 {
		errs = append(errs, detectCycles(features)...)
	}
	return errs
}

// detectCycles runs a three-colour DFS over the ref graph (feature ->
// dependency). Diamonds are not cycles.
func detectCycles(features []FeatureImport) []error {
	graph := make(map[string][]string, len(features))
	order := make([]string, 0, len(features))
	for _, f := range features {
		if f.Ref == "" {
			continue
		}
		if _, seen := graph[f.Ref]; !seen {
			order = append(order, f.Ref)
		}
		graph[f.Ref] = append(graph[f.Ref], f.DependsOn...)
	}

	const (
		white = 0 // unvisited
		gray  = 1 // in current path
		black = 2 // fully processed
	)

	color := make(map[string]int, len(graph))
	var path []string
	var errs []error

	var visit func(ref string) bool
	visit = func(ref string) bool {
		color[ref] = gray
		path = append(path, ref)
		for _, next := range graph[ref] {
			if color[next] == gray {
				errs = append(errs, fmt.Errorf("circular dependency detected: %s", cycleString(path, next)))
				return true
			}
			if color[next] == white && visit(next) {
				return true
			}
		}
		path = path[:len(path)-1]
		color[ref] = black
		return false
	}

	for _, ref := range order {
		if color[ref] == white && visit(ref) {
			break
		}
	}

	return errs
}

func cycleString(path []string, target string) string {
	var start int
	for i, ref := range path {
		if ref == target {
			start = i
			break
		}
	}
	cycle := append(append([]string{}, path[start:]...), target)
	return strings.Join(cycle, " -> ")
}

func riceInput(r *RICEImport) domain.RICEInput {
	if r == nil {
		return domain.DefaultRICEInput
	}
	return domain.RICEInput{
		Reach:      domain.IntFromPtrWithDefault(domain.DefaultRICEInput.Reach, r.Reach),
		Impact:     domain.IntFromPtrWithDefault(domain.DefaultRICEInput.Impact, r.Impact),
		Confidence: domain.IntFromPtrWithDefault(domain.DefaultRICEInput.Confidence, r.Confidence),
		Effort:     domain.IntFromPtrWithDefault(domain.DefaultRICEInput.Effort, r.Effort),
	}
}
