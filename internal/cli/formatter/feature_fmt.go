package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/prodboard/internal/domain"
)

// FeatureInspectData holds everything the feature inspect card shows.
type FeatureInspectData struct {
	Product  *domain.Product
	Feature  *domain.Feature
	Features []*domain.Feature // whole product, for dependency titles
	Feedback []*domain.Feedback
}

// FormatFeatureList renders features in the order given, one row each.
func FormatFeatureList(product *domain.Product, features []*domain.Feature) string {
	headers := []string{"#", "TITLE", "STATUS", "PRIORITY", "RICE", "DATES"}
	rows := make([][]string, 0, len(features))
	for _, f := range features {
		rows = append(rows, []string{
			Dim(f.DisplayID()),
			Truncate(f.Title, 40),
			StatusMeta(f.Status).Render(),
			PriorityMeta(f.Priority).Render(),
			Score(f.RICEScore),
			DateRange(f),
		})
	}
	title := "Features"
	if product != nil {
		title = product.DisplayID() + " features"
	}
	return RenderBox(title, RenderTableOrEmpty(headers, rows, "No features yet."))
}

// FormatFeatureInspect renders a feature card with its RICE breakdown,
// dependency tree and linked feedback.
func FormatFeatureInspect(data FeatureInspectData) string {
	f := data.Feature
	var b strings.Builder

	b.WriteString(StyleDim.Render(f.DisplayID()+" ") + StyleBold.Render(f.Title) + "\n")
	b.WriteString(Dim(f.Description) + "\n\n")

	if data.Product != nil {
		b.WriteString(Field("PRODUCT", data.Product.DisplayID()+" "+Dim(data.Product.Name)))
	}
	b.WriteString(Field("STATUS", StatusMeta(f.Status).Render()))
	b.WriteString(Field("PRIORITY", PriorityMeta(f.Priority).Render()))
	b.WriteString(Field("DATES", DateRange(f)))
	b.WriteString(Field("RICE", fmt.Sprintf("%s  %s", Score(f.RICEScore), Dim(RICEBreakdown(f.RICE)))))
	b.WriteString(Field("UUID", TruncID(f.ID)))
	b.WriteString(Field("UPDATED", HumanTimestamp(f.UpdatedAt)))

	if len(f.Dependencies) > 0 {
		byID := make(map[string]*domain.Feature, len(data.Features))
		for _, other := range data.Features {
			byID[other.ID] = other
		}
		b.WriteString("\n" + StyleHeader.Render("DEPENDS ON") + "\n")
		b.WriteString(RenderTree(DependencyTree(f, byID)))
	}

	if len(data.Feedback) > 0 {
		b.WriteString("\n" + StyleHeader.Render("FEEDBACK") + "\n")
		for _, fb := range data.Feedback {
			b.WriteString(fmt.Sprintf("%s %s\n", StylePurple.Render(fb.Author+":"), Truncate(fb.Content, 70)))
		}
	}

	return RenderBox("", strings.TrimRight(b.String(), "\n"))
}

// RICEBreakdown renders "R5 I8 C7 E3".
func RICEBreakdown(in domain.RICEInput) string {
	return fmt.Sprintf("R%d I%d C%d E%d", in.Reach, in.Impact, in.Confidence, in.Effort)
}

// FormatFeatureSummary is the one-line confirmation printed after a write.
func FormatFeatureSummary(verb string, f *domain.Feature) string {
	return fmt.Sprintf("%s %s %s  %s  %s  RICE %s\n",
		StyleGreen.Render(verb),
		Dim(f.DisplayID()),
		Bold(f.Title),
		StatusMeta(f.Status).Render(),
		PriorityMeta(f.Priority).Render(),
		Score(f.RICEScore),
	)
}
