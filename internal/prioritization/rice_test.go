package prioritization

import (
	"testing"

	"github.com/alexanderramin/prodboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCalculateRICE_Examples(t *testing.T) {
	cases := []struct {
		name                              string
		reach, impact, confidence, effort int
		want                              float64
	}{
		{"high reach full impact", 5, 10, 8, 2, 2000.00},
		{"minimum inputs max effort", 1, 1, 1, 10, 1.00},
		{"all max", 10, 10, 10, 1, 10000.00},
		{"repeating decimal rounds to two places", 1, 1, 1, 3, 3.33},
		{"exact quarter kept", 1, 5, 1, 8, 6.25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CalculateRICE(tc.reach, tc.impact, tc.confidence, tc.effort)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestCalculateRICE_TwoDecimalPlaces(t *testing.T) {
	got := CalculateRICE(7, 3, 9, 7)
	// 7000 * 0.3 * 0.9 / 7 = 270
	assert.InDelta(t, 270.0, got, 1e-9)

	got = CalculateRICE(2, 7, 3, 9)
	// 2000 * 0.7 * 0.3 / 9 = 46.666...
	assert.InDelta(t, 46.67, got, 1e-9)
}

func TestCalculateRICE_Deterministic(t *testing.T) {
	first := CalculateRICE(3, 6, 7, 4)
	for i := 0; i < 100; i++ {
		require.Equal(t, first, CalculateRICE(3, 6, 7, 4))
	}
}

func TestCalculateRICE_Monotonic(t *testing.T) {
	for base := MinInput; base <= MaxInput; base++ {
		for v := MinInput; v < MaxInput; v++ {
			assert.LessOrEqual(t, CalculateRICE(v, base, base, base), CalculateRICE(v+1, base, base, base), "reach")
			assert.LessOrEqual(t, CalculateRICE(base, v, base, base), CalculateRICE(base, v+1, base, base), "impact")
			assert.LessOrEqual(t, CalculateRICE(base, base, v, base), CalculateRICE(base, base, v+1, base), "confidence")
			assert.GreaterOrEqual(t, CalculateRICE(base, base, base, v), CalculateRICE(base, base, base, v+1), "effort")
		}
	}
}

func TestScore_IdempotentUnderReapplication(t *testing.T) {
	in := domain.RICEInput{Reach: 4, Impact: 7, Confidence: 6, Effort: 3}
	f := &domain.Feature{RICE: in}

	assert.True(t, Rescore(f))
	persisted := f.RICEScore

	reread := &domain.Feature{RICE: in, RICEScore: persisted}
	assert.False(t, Rescore(reread), "recomputing from persisted inputs must not change the score")
	assert.Equal(t, persisted, reread.RICEScore)
}

func TestValidateInput(t *testing.T) {
	require.NoError(t, ValidateInput(domain.RICEInput{Reach: 1, Impact: 10, Confidence: 5, Effort: 1}))

	err := ValidateInput(domain.RICEInput{Reach: 1, Impact: 1, Confidence: 1, Effort: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "effort")

	err = ValidateInput(domain.RICEInput{Reach: 11, Impact: 1, Confidence: 1, Effort: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reach")
}
