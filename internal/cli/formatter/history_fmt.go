package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/prodboard/internal/domain"
)

// FormatHistory renders a feature's audit trail, oldest first.
func FormatHistory(f *domain.Feature, entries []*domain.FeatureHistory) string {
	title := fmt.Sprintf("history %s", f.DisplayID())
	if len(entries) == 0 {
		return RenderBox(title, Dim("No changes recorded."))
	}

	headers := []string{"WHEN", "FIELD", "CHANGE", "NOTE"}
	rows := make([][]string, 0, len(entries))
	for _, h := range entries {
		rows = append(rows, []string{
			Dim(h.CreatedAt.Local().Format("2006-01-02 15:04")),
			StyleBlue.Render(h.Field),
			formatChange(h.OldValue, h.NewValue),
			h.Note,
		})
	}
	return RenderBox(title, strings.TrimRight(RenderTable(headers, rows), "\n"))
}

func formatChange(oldValue, newValue string) string {
	if oldValue == "" {
		return StyleGreen.Render(newValue)
	}
	return Dim(oldValue) + " → " + StyleGreen.Render(newValue)
}
