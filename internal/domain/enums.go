package domain

type ProductStatus string

const (
	ProductActive   ProductStatus = "active"
	ProductArchived ProductStatus = "archived"
)

// FeatureStatus is the lifecycle state of a feature on the board.
type FeatureStatus string

const (
	StatusBacklog FeatureStatus = "backlog"
	StatusDoing   FeatureStatus = "doing"
	StatusBlocked FeatureStatus = "blocked"
	StatusDone    FeatureStatus = "done"
)

// FeatureStatuses lists every status in board column order.
var FeatureStatuses = []FeatureStatus{StatusBacklog, StatusDoing, StatusBlocked, StatusDone}

func (s FeatureStatus) Valid() bool {
	switch s {
	case StatusBacklog, StatusDoing, StatusBlocked, StatusDone:
		return true
	}
	return false
}

// Next returns the following status in board order, wrapping after done.
func (s FeatureStatus) Next() FeatureStatus {
	for i, st := range FeatureStatuses {
		if st == s {
			return FeatureStatuses[(i+1)%len(FeatureStatuses)]
		}
	}
	return StatusBacklog
}

// MoSCoW is the categorical priority of a feature. It is independent of the
// RICE score.
type MoSCoW string

const (
	PriorityMust   MoSCoW = "must"
	PriorityShould MoSCoW = "should"
	PriorityCould  MoSCoW = "could"
	PriorityWont   MoSCoW = "wont"
)

// Priorities lists every MoSCoW category from most to least important.
var Priorities = []MoSCoW{PriorityMust, PriorityShould, PriorityCould, PriorityWont}

func (p MoSCoW) Valid() bool {
	switch p {
	case PriorityMust, PriorityShould, PriorityCould, PriorityWont:
		return true
	}
	return false
}

// Rank returns the sort rank of the category (lower = more important).
// Unknown values sort after wont.
func (p MoSCoW) Rank() int {
	switch p {
	case PriorityMust:
		return 0
	case PriorityShould:
		return 1
	case PriorityCould:
		return 2
	case PriorityWont:
		return 3
	default:
		return 4
	}
}

// Next returns the following category, wrapping after wont.
func (p MoSCoW) Next() MoSCoW {
	return Priorities[(p.Rank()+1)%len(Priorities)]
}

// History field names recorded in the audit trail.
const (
	HistoryCreated      = "created"
	HistoryRICEScore    = "rice_score"
	HistoryStatus       = "status"
	HistoryPriority     = "priority"
	HistoryDates        = "dates"
	HistoryDependencies = "dependencies"
)
