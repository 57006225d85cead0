package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/prodboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testNow = time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)

func date(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func feature(id, title string, start, end string, deps ...string) *domain.Feature {
	return &domain.Feature{
		ID:           id,
		Title:        title,
		Description:  "A sufficiently long description",
		StartDate:    date(start),
		EndDate:      date(end),
		Dependencies: deps,
	}
}

func newTestValidator(existing ...*domain.Feature) *Validator {
	return New(existing, WithNow(func() time.Time { return testNow }))
}

func requireCode(t *testing.T, err error, code Code) {
	t.Helper()
	require.Error(t, err)
	var vErr *Error
	require.True(t, errors.As(err, &vErr), "expected *validation.Error, got %T", err)
	assert.Equal(t, code, vErr.Code)
	assert.ErrorIs(t, err, ErrInvalid)
}

// --- Title ---

func TestValidateTitle_TooShort(t *testing.T) {
	err := newTestValidator().ValidateTitle("ab", "")
	requireCode(t, err, CodeTooShort)
	assert.Contains(t, err.Error(), "at least 3")
}

func TestValidateTitle_Valid(t *testing.T) {
	assert.NoError(t, newTestValidator().ValidateTitle("Valid Title", ""))
}

func TestValidateTitle_Empty(t *testing.T) {
	requireCode(t, newTestValidator().ValidateTitle("   ", ""), CodeRequired)
}

func TestValidateTitle_TooLong(t *testing.T) {
	requireCode(t, newTestValidator().ValidateTitle(strings.Repeat("x", 101), ""), CodeTooLong)
	assert.NoError(t, newTestValidator().ValidateTitle(strings.Repeat("x", 100), ""))
}

func TestValidateTitle_CountsRunes(t *testing.T) {
	// three runes, more than three bytes
	assert.NoError(t, newTestValidator().ValidateTitle("äöü", ""))
}

func TestValidateTitle_DuplicateCaseInsensitive(t *testing.T) {
	v := newTestValidator(feature("a", "Single Sign-On", "2024-06-01", "2024-06-10"))
	err := v.ValidateTitle("single sign-on", "")
	requireCode(t, err, CodeDuplicate)
	assert.Equal(t, "title", err.(*Error).Field)
}

func TestValidateTitle_DuplicateIgnoresCurrent(t *testing.T) {
	v := newTestValidator(feature("a", "Single Sign-On", "2024-06-01", "2024-06-10"))
	assert.NoError(t, v.ValidateTitle("SINGLE SIGN-ON", "a"))
}

// --- Description ---

func TestValidateDescription_Bounds(t *testing.T) {
	v := newTestValidator()
	requireCode(t, v.ValidateDescription("too short"), CodeTooShort)
	assert.NoError(t, v.ValidateDescription("ten chars!"))
	assert.NoError(t, v.ValidateDescription(strings.Repeat("d", 1000)))
	requireCode(t, v.ValidateDescription(strings.Repeat("d", 1001)), CodeTooLong)
}

// --- Dates ---

func TestValidateDates_TodayIsNotPast(t *testing.T) {
	assert.NoError(t, newTestValidator().ValidateDates(date("2024-06-01"), date("2024-06-02")))
}

func TestValidateDates_StartInPast(t *testing.T) {
	err := newTestValidator().ValidateDates(date("2024-05-31"), date("2024-06-02"))
	requireCode(t, err, CodeStartInPast)
}

func TestValidateDates_PastAllowedByPolicy(t *testing.T) {
	v := New(nil, WithNow(func() time.Time { return testNow }), WithPastStartAllowed())
	assert.NoError(t, v.ValidateDates(date("2024-01-01"), date("2024-02-01")))
}

func TestValidateDates_EndBeforeStart(t *testing.T) {
	requireCode(t, newTestValidator().ValidateDates(date("2024-06-10"), date("2024-06-09")), CodeEndBeforeStart)
}

func TestValidateDates_SameDayAllowed(t *testing.T) {
	assert.NoError(t, newTestValidator().ValidateDates(date("2024-06-10"), date("2024-06-10")))
}

func TestValidateDates_SpanLimit(t *testing.T) {
	v := newTestValidator()
	start := date("2024-07-01")
	assert.NoError(t, v.ValidateDates(start, start.AddDate(0, 0, 365)))
	requireCode(t, v.ValidateDates(start, start.AddDate(0, 0, 366)), CodeSpanTooLong)
}

func TestValidateDates_CustomSpan(t *testing.T) {
	v := New(nil, WithNow(func() time.Time { return testNow }), WithMaxSpanDays(30))
	start := date("2024-07-01")
	requireCode(t, v.ValidateDates(start, start.AddDate(0, 0, 31)), CodeSpanTooLong)
}

func TestValidateDates_Missing(t *testing.T) {
	requireCode(t, newTestValidator().ValidateDates(time.Time{}, date("2024-06-10")), CodeRequired)
	requireCode(t, newTestValidator().ValidateDates(date("2024-06-10"), time.Time{}), CodeRequired)
}

// --- Dependencies ---

func TestValidateDependencies_MutualCycle(t *testing.T) {
	a := feature("A", "Feature A", "2024-06-20", "2024-06-30", "B")
	b := feature("B", "Feature B", "2024-06-01", "2024-06-10", "A")
	v := newTestValidator(a, b)

	err := v.ValidateDependencies([]string{"B"}, a)
	requireCode(t, err, CodeCyclicDependency)
	assert.Contains(t, err.Error(), "Feature A -> Feature B -> Feature A")
}

func TestValidateDependencies_SelfDependency(t *testing.T) {
	a := feature("A", "Feature A", "2024-06-20", "2024-06-30")
	err := newTestValidator(a).ValidateDependencies([]string{"A"}, a)
	requireCode(t, err, CodeCyclicDependency)
}

func TestValidateDependencies_TransitiveCycle(t *testing.T) {
	a := feature("A", "Feature A", "2024-07-01", "2024-07-10")
	b := feature("B", "Feature B", "2024-06-20", "2024-06-25", "C")
	c := feature("C", "Feature C", "2024-06-10", "2024-06-15", "A")
	err := newTestValidator(a, b, c).ValidateDependencies([]string{"B"}, a)
	requireCode(t, err, CodeCyclicDependency)
	assert.Contains(t, err.Error(), "Feature A -> Feature B -> Feature C -> Feature A")
}

func TestValidateDependencies_DiamondIsNotACycle(t *testing.T) {
	// A -> B -> D, A -> C -> D
	d := feature("D", "Feature D", "2024-06-01", "2024-06-05")
	b := feature("B", "Feature B", "2024-06-06", "2024-06-10", "D")
	c := feature("C", "Feature C", "2024-06-06", "2024-06-12", "D")
	a := feature("A", "Feature A", "2024-06-15", "2024-06-30")
	assert.NoError(t, newTestValidator(a, b, c, d).ValidateDependencies([]string{"B", "C"}, a))
}

func TestValidateDependencies_ReplacesExistingEdges(t *testing.T) {
	// A currently depends on B, B depends on A. Dropping B from A's deps
	// breaks the cycle.
	a := feature("A", "Feature A", "2024-06-20", "2024-06-30", "B")
	b := feature("B", "Feature B", "2024-06-01", "2024-06-10", "A")
	c := feature("C", "Feature C", "2024-06-01", "2024-06-10")
	assert.NoError(t, newTestValidator(a, b, c).ValidateDependencies([]string{"C"}, a))
}

func TestValidateDependencies_TemporalOrdering(t *testing.T) {
	b := feature("B", "Feature B", "2024-06-01", "2024-06-10")
	a := feature("A", "Feature A", "2024-06-05", "2024-06-20")
	err := newTestValidator(a, b).ValidateDependencies([]string{"B"}, a)
	requireCode(t, err, CodeDependencyNotFinish)
	assert.Contains(t, err.Error(), `"Feature B"`)
	assert.Contains(t, err.Error(), "2024-06-10")
}

func TestValidateDependencies_StartOnDependencyEndIsAllowed(t *testing.T) {
	b := feature("B", "Feature B", "2024-06-01", "2024-06-10")
	a := feature("A", "Feature A", "2024-06-10", "2024-06-20")
	assert.NoError(t, newTestValidator(a, b).ValidateDependencies([]string{"B"}, a))
}

func TestValidateDependencies_FirstTemporalViolationReported(t *testing.T) {
	b := feature("B", "Feature B", "2024-06-01", "2024-06-12")
	c := feature("C", "Feature C", "2024-06-01", "2024-06-15")
	a := feature("A", "Feature A", "2024-06-10", "2024-06-20")
	err := newTestValidator(a, b, c).ValidateDependencies([]string{"C", "B"}, a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Feature C")
}

func TestValidateDependents_EndMovedPastDependentStart(t *testing.T) {
	b := feature("B", "Feature B", "2024-06-01", "2024-06-05")
	a := feature("A", "Feature A", "2024-06-06", "2024-06-10", "B")
	v := newTestValidator(a, b)

	moved := feature("B", "Feature B", "2024-06-01", "2024-06-20")
	err := v.ValidateDependents(moved)
	requireCode(t, err, CodeDependencyNotFinish)
	assert.Contains(t, err.Error(), `"Feature A"`)
	assert.Contains(t, err.Error(), "2024-06-06")

	assert.NoError(t, v.ValidateDependents(feature("B", "Feature B", "2024-06-01", "2024-06-06")))
}

func TestValidateDependents_IgnoresUnrelatedFeatures(t *testing.T) {
	b := feature("B", "Feature B", "2024-06-01", "2024-06-05")
	c := feature("C", "Feature C", "2024-06-02", "2024-06-03")
	assert.NoError(t, newTestValidator(b, c).ValidateDependents(feature("B", "Feature B", "2024-06-01", "2024-06-30")))
}

func TestValidateOrdering_UsesStoredDependencies(t *testing.T) {
	b := feature("B", "Feature B", "2024-06-01", "2024-06-12")
	a := feature("A", "Feature A", "2024-06-10", "2024-06-20", "B", "ghost")
	requireCode(t, newTestValidator(a, b).ValidateOrdering(a), CodeDependencyNotFinish)
}

func TestValidateDependencies_Unknown(t *testing.T) {
	a := feature("A", "Feature A", "2024-06-10", "2024-06-20")
	requireCode(t, newTestValidator(a).ValidateDependencies([]string{"missing"}, a), CodeUnknownDependency)
}

func TestValidateDependencies_NewFeatureNotInList(t *testing.T) {
	b := feature("B", "Feature B", "2024-06-01", "2024-06-05")
	candidate := feature("new", "New Feature", "2024-06-10", "2024-06-20")
	assert.NoError(t, newTestValidator(b).ValidateDependencies([]string{"B"}, candidate))
}

func TestValidateDependencies_Empty(t *testing.T) {
	a := feature("A", "Feature A", "2024-06-10", "2024-06-20")
	assert.NoError(t, newTestValidator(a).ValidateDependencies(nil, a))
}

// --- Aggregate ---

func TestValidateFeature_CollectsAll(t *testing.T) {
	f := &domain.Feature{ID: "x", Title: "ab", Description: "short", StartDate: date("2024-05-01"), EndDate: date("2024-05-02"), Dependencies: []string{"nope"}}
	errs := newTestValidator().ValidateFeature(f)
	require.Len(t, errs, 4)
	for _, err := range errs {
		assert.ErrorIs(t, err, ErrInvalid)
	}
}

func TestValidateFeature_Valid(t *testing.T) {
	f := feature("x", "Good Feature", "2024-06-02", "2024-06-30")
	assert.Empty(t, newTestValidator().ValidateFeature(f))
}
