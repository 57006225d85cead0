package domain

import "time"

// FeatureHistory is one append-only audit entry for a feature change.
type FeatureHistory struct {
	ID        string
	FeatureID string
	Field     string
	OldValue  string
	NewValue  string
	Note      string
	CreatedAt time.Time
}
