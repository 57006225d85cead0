package formatter

import (
	"strings"

	"github.com/alexanderramin/prodboard/internal/domain"
)

// FormatFeedbackList renders feedback newest first. features resolves linked
// feature ids to display ids; unknown links show a truncated id.
func FormatFeedbackList(product *domain.Product, items []*domain.Feedback, features []*domain.Feature) string {
	labels := make(map[string]string, len(features))
	for _, f := range features {
		labels[f.ID] = f.DisplayID()
	}

	headers := []string{"ID", "AUTHOR", "FEATURE", "RECEIVED", "FEEDBACK"}
	rows := make([][]string, 0, len(items))
	for _, fb := range items {
		linked := Dim("--")
		if fb.FeatureID != nil {
			if label, ok := labels[*fb.FeatureID]; ok {
				linked = StyleBlue.Render(label)
			} else {
				linked = TruncID(*fb.FeatureID)
			}
		}
		rows = append(rows, []string{
			TruncID(fb.ID),
			StylePurple.Render(fb.Author),
			linked,
			Dim(HumanTimestamp(fb.CreatedAt)),
			Truncate(fb.Content, 60),
		})
	}

	return RenderBox(product.DisplayID()+" feedback", strings.TrimRight(RenderTableOrEmpty(headers, rows, "No feedback yet."), "\n"))
}
