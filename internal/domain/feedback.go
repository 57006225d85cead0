package domain

import "time"

type Feedback struct {
	ID        string
	ProductID string
	FeatureID *string
	Author    string
	Content   string
	CreatedAt time.Time
}
