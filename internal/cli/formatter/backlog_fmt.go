package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/prodboard/internal/domain"
	"github.com/alexanderramin/prodboard/internal/service"
)

// FormatBacklog renders an already ranked backlog, with a divider wherever
// the MoSCoW category changes.
func FormatBacklog(product *domain.Product, ranked []*domain.Feature) string {
	if len(ranked) == 0 {
		return RenderBox(product.DisplayID()+" backlog", Dim("Backlog is empty."))
	}

	headers := []string{"RANK", "#", "TITLE", "PRIORITY", "RICE", "INPUTS", "STATUS"}
	rows := make([][]string, 0, len(ranked)+len(domain.Priorities))
	var current domain.MoSCoW
	for i, f := range ranked {
		if i > 0 && f.Priority != current {
			rows = append(rows, []string{""})
		}
		current = f.Priority
		rows = append(rows, []string{
			StyleFg.Render(fmt.Sprintf("%d", i+1)),
			Dim(f.DisplayID()),
			Truncate(f.Title, 40),
			PriorityMeta(f.Priority).Render(),
			Score(f.RICEScore),
			Dim(RICEBreakdown(f.RICE)),
			StatusMeta(f.Status).Render(),
		})
	}

	return RenderBox(product.DisplayID()+" backlog", strings.TrimRight(RenderTable(headers, rows), "\n"))
}

// FormatRoadmap renders month-grouped features as a timeline.
func FormatRoadmap(product *domain.Product, months []service.RoadmapMonth) string {
	if len(months) == 0 {
		return RenderBox(product.DisplayID()+" roadmap", Dim("Nothing scheduled."))
	}

	var b strings.Builder
	for i, m := range months {
		if i > 0 {
			b.WriteString("\n")
		}
		done := 0
		for _, f := range m.Features {
			if f.IsTerminal() {
				done++
			}
		}
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleHeader.Render(strings.ToUpper(m.Month.Format("January 2006"))), RenderProgress(done, len(m.Features), 10)))
		for j, f := range m.Features {
			connector := treeBranch
			if j == len(m.Features)-1 {
				connector = treeCorner
			}
			meta := StatusMeta(f.Status)
			b.WriteString(fmt.Sprintf("%s%s %s %s  %s  %s\n",
				StyleDim.Render(connector),
				meta.Style.Render(meta.Icon),
				Dim(f.DisplayID()),
				Truncate(f.Title, 40),
				DateRange(f),
				PriorityMeta(f.Priority).Render(),
			))
		}
	}
	return RenderBox(product.DisplayID()+" roadmap", strings.TrimRight(b.String(), "\n"))
}
