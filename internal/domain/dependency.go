package domain

// Dependency is a directed edge: FeatureID cannot start before DependsOnID ends.
type Dependency struct {
	FeatureID   string
	DependsOnID string
}
