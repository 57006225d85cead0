// Package validation checks feature fields and the feature dependency graph
// against the features already present in a product.
//
// Every check returns the first failure it finds, or nil. Validators do no
// I/O: the caller passes in the full feature list.
package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alexanderramin/prodboard/internal/domain"
)

const (
	MinTitleLen       = 3
	MaxTitleLen       = 100
	MinDescriptionLen = 10
	MaxDescriptionLen = 1000
	DefaultMaxSpan    = 365
)

const dateLayout = "2006-01-02"

// Validator validates candidate features against an existing feature set.
type Validator struct {
	features       []*domain.Feature
	byID           map[string]*domain.Feature
	now            func() time.Time
	allowPastStart bool
	maxSpanDays    int
}

type Option func(*Validator)

// WithNow overrides the clock used for the past-start check.
func WithNow(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// WithPastStartAllowed disables the start-in-the-past rule.
func WithPastStartAllowed() Option {
	return func(v *Validator) { v.allowPastStart = true }
}

// WithPastStartPolicy sets the start-in-the-past rule explicitly.
func WithPastStartPolicy(allow bool) Option {
	return func(v *Validator) { v.allowPastStart = allow }
}

// WithMaxSpanDays sets the longest allowed start-to-end span. Values <= 0
// keep the default.
func WithMaxSpanDays(days int) Option {
	return func(v *Validator) {
		if days > 0 {
			v.maxSpanDays = days
		}
	}
}

// New creates a Validator over the existing features of one product.
func New(existing []*domain.Feature, opts ...Option) *Validator {
	v := &Validator{
		features:    existing,
		byID:        make(map[string]*domain.Feature, len(existing)),
		now:         time.Now,
		maxSpanDays: DefaultMaxSpan,
	}
	for _, f := range existing {
		v.byID[f.ID] = f
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateTitle checks length bounds and case-insensitive uniqueness.
// currentID is excluded from the uniqueness check when editing.
func (v *Validator) ValidateTitle(title, currentID string) error {
	trimmed := strings.TrimSpace(title)
	n := utf8.RuneCountInString(trimmed)
	switch {
	case n == 0:
		return newError("title", CodeRequired, "Title is required")
	case n < MinTitleLen:
		return newError("title", CodeTooShort, fmt.Sprintf("Title must be at least %d characters", MinTitleLen))
	case n > MaxTitleLen:
		return newError("title", CodeTooLong, fmt.Sprintf("Title must be at most %d characters", MaxTitleLen))
	}

	for _, f := range v.features {
		if currentID != "" && f.ID == currentID {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(f.Title), trimmed) {
			return newError("title", CodeDuplicate, "A feature with this title already exists")
		}
	}
	return nil
}

// ValidateDescription checks description length bounds.
func (v *Validator) ValidateDescription(text string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(text))
	switch {
	case n < MinDescriptionLen:
		return newError("description", CodeTooShort, fmt.Sprintf("Description must be at least %d characters", MinDescriptionLen))
	case n > MaxDescriptionLen:
		return newError("description", CodeTooLong, fmt.Sprintf("Description must be at most %d characters", MaxDescriptionLen))
	}
	return nil
}

// ValidateDates checks the start/end pair. Dates are compared at day
// granularity.
func (v *Validator) ValidateDates(start, end time.Time) error {
	if start.IsZero() {
		return newError("start_date", CodeRequired, "Start date is required")
	}
	if end.IsZero() {
		return newError("end_date", CodeRequired, "End date is required")
	}

	startDay, endDay := day(start), day(end)
	if !v.allowPastStart && startDay.Before(day(v.now())) {
		return newError("start_date", CodeStartInPast, "Start date cannot be in the past")
	}
	if endDay.Before(startDay) {
		return newError("end_date", CodeEndBeforeStart, "End date must be on or after the start date")
	}
	if endDay.Sub(startDay) > time.Duration(v.maxSpanDays)*24*time.Hour {
		return newError("end_date", CodeSpanTooLong, fmt.Sprintf("Feature duration cannot exceed %d days", v.maxSpanDays))
	}
	return nil
}

// ValidateDependencies checks that every dependency exists, that the graph
// stays acyclic once f's dependencies are replaced by depIDs, and that no
// dependency ends after f starts.
func (v *Validator) ValidateDependencies(depIDs []string, f *domain.Feature) error {
	for _, id := range depIDs {
		if id == f.ID {
			continue // reported as a cycle below
		}
		if _, ok := v.byID[id]; !ok {
			return newError("dependencies", CodeUnknownDependency, fmt.Sprintf("Dependency %q not found", id))
		}
	}

	if path := v.findCycle(f, depIDs); path != nil {
		return newError("dependencies", CodeCyclicDependency,
			fmt.Sprintf("Circular dependency detected: %s", strings.Join(v.titles(f, path), " -> ")))
	}

	return v.checkOrdering(f, depIDs)
}

// ValidateOrdering checks only that none of f's dependencies end after f
// starts. Unknown dependency ids are ignored.
func (v *Validator) ValidateOrdering(f *domain.Feature) error {
	return v.checkOrdering(f, f.Dependencies)
}

// ValidateDependents checks that f, with its dates as given, still ends
// before every feature in the list that depends on it starts.
func (v *Validator) ValidateDependents(f *domain.Feature) error {
	for _, other := range v.features {
		if other.ID == f.ID || !other.DependsOn(f.ID) {
			continue
		}
		if day(f.EndDate).After(day(other.StartDate)) {
			return newError("end_date", CodeDependencyNotFinish,
				fmt.Sprintf("Feature must end before dependent %q starts (%s)", other.Title, other.StartDate.Format(dateLayout)))
		}
	}
	return nil
}

func (v *Validator) checkOrdering(f *domain.Feature, depIDs []string) error {
	for _, id := range depIDs {
		dep, ok := v.byID[id]
		if !ok || id == f.ID {
			continue
		}
		if day(dep.EndDate).After(day(f.StartDate)) {
			return newError("dependencies", CodeDependencyNotFinish,
				fmt.Sprintf("Feature cannot start before dependency %q ends (%s)", dep.Title, dep.EndDate.Format(dateLayout)))
		}
	}
	return nil
}

// ValidateFeature runs every validator and returns all failures. Dependencies
// are validated against f.Dependencies.
func (v *Validator) ValidateFeature(f *domain.Feature) []error {
	var errs []error
	if err := v.ValidateTitle(f.Title, f.ID); err != nil {
		errs = append(errs, err)
	}
	if err := v.ValidateDescription(f.Description); err != nil {
		errs = append(errs, err)
	}
	if err := v.ValidateDates(f.StartDate, f.EndDate); err != nil {
		errs = append(errs, err)
	}
	if err := v.ValidateDependencies(f.Dependencies, f); err != nil {
		errs = append(errs, err)
	}
	return errs
}

func (v *Validator) titles(f *domain.Feature, path []string) []string {
	out := make([]string, len(path))
	for i, id := range path {
		switch {
		case id == f.ID:
			out[i] = f.Title
		case v.byID[id] != nil:
			out[i] = v.byID[id].Title
		default:
			out[i] = id
		}
	}
	return out
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
