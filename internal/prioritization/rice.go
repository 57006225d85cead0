// Package prioritization scores and orders features. RICE scoring is pure
// and deterministic; callers validate inputs before scoring.
package prioritization

import (
	"fmt"
	"math"

	"github.com/alexanderramin/prodboard/internal/domain"
)

// Input bounds accepted by the RICE formula.
const (
	MinInput = 1
	MaxInput = 10
)

// reachUnit interprets a 1-10 reach input as tens of thousands of users.
const reachUnit = 1000

// CalculateRICE returns (reach*1000 * impact/10 * confidence/10) / effort,
// rounded half-up to two decimals. effort must be >= 1.
func CalculateRICE(reach, impact, confidence, effort int) float64 {
	reachScaled := float64(reach * reachUnit)
	impactScaled := float64(impact) / 10
	confidenceScaled := float64(confidence) / 10

	score := (reachScaled * impactScaled * confidenceScaled) / float64(effort)
	return roundHalfUp(score, 2)
}

// Score applies CalculateRICE to a RICE input value.
func Score(in domain.RICEInput) float64 {
	return CalculateRICE(in.Reach, in.Impact, in.Confidence, in.Effort)
}

// ValidateInput checks that all four inputs are within [1,10].
func ValidateInput(in domain.RICEInput) error {
	fields := []struct {
		name  string
		value int
	}{
		{"reach", in.Reach},
		{"impact", in.Impact},
		{"confidence", in.Confidence},
		{"effort", in.Effort},
	}
	for _, f := range fields {
		if f.value < MinInput || f.value > MaxInput {
			return fmt.Errorf("rice %s must be between %d and %d, got %d", f.name, MinInput, MaxInput, f.value)
		}
	}
	return nil
}

func roundHalfUp(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Floor(v*pow+0.5) / pow
}
