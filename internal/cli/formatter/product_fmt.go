package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/prodboard/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// ProductInspectData holds all data needed to render a product inspect view.
type ProductInspectData struct {
	Product       *domain.Product
	Features      []*domain.Feature
	FeedbackCount int
}

// FormatProductList renders a styled product list inside a bordered box.
func FormatProductList(products []*domain.Product) string {
	headers := []string{"ID", "NAME", "STATUS", "UPDATED"}
	rows := make([][]string, 0, len(products))

	for _, p := range products {
		id := p.DisplayID()
		if strings.TrimSpace(id) == "" {
			id = "--"
		}
		rows = append(rows, []string{
			id,
			Bold(p.Name),
			ProductStatusMeta(p.Status).Render(),
			Dim(HumanTimestamp(p.UpdatedAt)),
		})
	}

	return RenderBox("Products", RenderTableOrEmpty(headers, rows, "No products yet. Create one with 'prodboard product add'."))
}

// FormatProductInspect renders the product card next to a per-status breakdown.
func FormatProductInspect(data ProductInspectData) string {
	left := buildProductPanel(data.Product)
	right := buildStatusBreakdown(data.Features, data.FeedbackCount)
	return RenderBox("", lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right))
}

func buildProductPanel(p *domain.Product) string {
	var b strings.Builder

	b.WriteString(StyleBold.Render(p.Name) + "\n")
	if p.Description != "" {
		b.WriteString(Dim(p.Description) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(Field("STATUS", ProductStatusMeta(p.Status).Render()))
	b.WriteString(Field("ID", Dim(p.ShortID)))
	b.WriteString(Field("UUID", TruncID(p.ID)))
	b.WriteString(Field("CREATED", StyleFg.Render(p.CreatedAt.Format("Jan 2, 2006"))))
	if p.ArchivedAt != nil {
		b.WriteString(Field("ARCHIVED", HumanTimestamp(*p.ArchivedAt)))
	}
	b.WriteString(Field("UPDATED", HumanTimestamp(p.UpdatedAt)))

	return lipgloss.NewStyle().Width(45).Render(b.String())
}

func buildStatusBreakdown(features []*domain.Feature, feedbackCount int) string {
	var b strings.Builder
	b.WriteString(StyleHeader.Render("FEATURES") + "\n")

	if len(features) == 0 {
		b.WriteString(Dim("No features") + "\n")
	} else {
		counts := make(map[domain.FeatureStatus]int)
		for _, f := range features {
			counts[f.Status]++
		}
		label := lipgloss.NewStyle().Width(14)
		for _, st := range domain.FeatureStatuses {
			b.WriteString(fmt.Sprintf("%s %d\n", label.Render(StatusMeta(st).Render()), counts[st]))
		}
		b.WriteString("\n" + RenderProgress(counts[domain.StatusDone], len(features), 16) + "\n")
	}

	b.WriteString("\n" + Field("FEEDBACK", fmt.Sprintf("%d", feedbackCount)))
	return b.String()
}
