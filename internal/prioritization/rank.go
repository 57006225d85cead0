package prioritization

import (
	"sort"

	"github.com/alexanderramin/prodboard/internal/domain"
)

// Rank sorts features in place by the canonical backlog order:
// 1. MoSCoW: must > should > could > wont
// 2. RICE score: higher first
// 3. Seq: lower first
// 4. ID: lexical ascending
func Rank(features []*domain.Feature) {
	sort.SliceStable(features, func(i, j int) bool {
		a, b := features[i], features[j]

		if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
			return ra < rb
		}
		if a.RICEScore != b.RICEScore {
			return a.RICEScore > b.RICEScore
		}
		if a.Seq != b.Seq {
			return a.Seq < b.Seq
		}
		return a.ID < b.ID
	})
}

// Rescore recomputes the derived score from the feature's inputs and reports
// whether it changed.
func Rescore(f *domain.Feature) bool {
	score := Score(f.RICE)
	changed := score != f.RICEScore
	f.RICEScore = score
	return changed
}
