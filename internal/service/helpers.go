package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/prodboard/internal/domain"
	"github.com/alexanderramin/prodboard/internal/validation"
)

var (
	// ErrProductArchived is returned when writing into an archived product.
	ErrProductArchived = errors.New("product is archived")
	// ErrFeatureHasDependents blocks deleting a feature others depend on.
	ErrFeatureHasDependents = errors.New("feature has dependents")
)

// ValidationPolicy carries the configurable parts of feature validation.
type ValidationPolicy struct {
	AllowPastStart bool
	MaxSpanDays    int
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

func (p ValidationPolicy) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p ValidationPolicy) validator(features []*domain.Feature, opts ...validation.Option) *validation.Validator {
	base := []validation.Option{
		validation.WithNow(p.now),
		validation.WithPastStartPolicy(p.AllowPastStart),
		validation.WithMaxSpanDays(p.MaxSpanDays),
	}
	return validation.New(features, append(base, opts...)...)
}

// invalid marks err as a validation failure without changing its message.
func invalid(err error) error {
	if err == nil || errors.Is(err, validation.ErrInvalid) {
		return err
	}
	return &invalidInput{err: err}
}

type invalidInput struct{ err error }

func (e *invalidInput) Error() string   { return e.err.Error() }
func (e *invalidInput) Unwrap() []error { return []error{e.err, validation.ErrInvalid} }

func findFeature(features []*domain.Feature, id string) *domain.Feature {
	for _, f := range features {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// dedupe drops empty and repeated ids, keeping first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func formatScore(score float64) string {
	return fmt.Sprintf("%.2f", score)
}

func formatDates(f *domain.Feature) string {
	return f.StartDate.Format("2006-01-02") + ".." + f.EndDate.Format("2006-01-02")
}

// dependencyLabels renders dependency ids as display ids, falling back to
// the raw id for features outside the list.
func dependencyLabels(features []*domain.Feature, ids []string) string {
	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		if f := findFeature(features, id); f != nil {
			labels = append(labels, f.DisplayID())
		} else {
			labels = append(labels, id)
		}
	}
	return strings.Join(labels, ",")
}

func monthOf(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}
