package formatter

import (
	"strings"

	"github.com/alexanderramin/prodboard/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// TreeItem represents a single node in a tree display.
type TreeItem struct {
	Title  string
	Label  string // display id such as "#4"; empty means don't display
	Level  int
	IsLast bool
	Status domain.FeatureStatus
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderTree renders TreeItems as an indented tree with box-drawing
// connectors. Detail badges are right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type lineInfo struct {
		content string
		badge   string
	}

	lines := make([]lineInfo, len(items))
	maxContentWidth := 0

	for idx, item := range items {
		var prefix string
		if item.Level > 0 {
			prefix = strings.Repeat(treePipe, item.Level-1)
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		title := item.Title
		if item.Label != "" {
			title = StyleDim.Render(item.Label+" ") + title
		}
		if item.Status == domain.StatusDone {
			title = Dim(title)
		}
		meta := StatusMeta(item.Status)
		content := prefix + meta.Style.Render(meta.Icon) + " " + title
		lines[idx].content = content

		if item.Detail != "" {
			lines[idx].badge = StyleBlue.Render("[ " + item.Detail + " ]")
		}
		maxContentWidth = max(maxContentWidth, lipgloss.Width(content))
	}

	var b strings.Builder
	for _, li := range lines {
		b.WriteString(li.content)
		if li.badge != "" {
			pad := max(maxContentWidth-lipgloss.Width(li.content), 0)
			b.WriteString(strings.Repeat(" ", pad) + "  " + li.badge)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// DependencyTree flattens the transitive dependencies of root into tree
// items. A feature already on the current path is shown once and not
// expanded again, so cyclic data cannot recurse forever.
func DependencyTree(root *domain.Feature, byID map[string]*domain.Feature) []TreeItem {
	items := []TreeItem{{Title: root.Title, Label: root.DisplayID(), Status: root.Status, Detail: root.EndDate.Format(dateLayout)}}
	onPath := map[string]bool{root.ID: true}

	var walk func(f *domain.Feature, level int)
	walk = func(f *domain.Feature, level int) {
		for i, depID := range f.Dependencies {
			dep, ok := byID[depID]
			if !ok {
				items = append(items, TreeItem{Title: "(missing " + depID + ")", Level: level, IsLast: i == len(f.Dependencies)-1})
				continue
			}
			items = append(items, TreeItem{
				Title:  dep.Title,
				Label:  dep.DisplayID(),
				Level:  level,
				IsLast: i == len(f.Dependencies)-1,
				Status: dep.Status,
				Detail: "ends " + dep.EndDate.Format(dateLayout),
			})
			if onPath[dep.ID] {
				continue
			}
			onPath[dep.ID] = true
			walk(dep, level+1)
			delete(onPath, dep.ID)
		}
	}
	walk(root, 1)
	return items
}
