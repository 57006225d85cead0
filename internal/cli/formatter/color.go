package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/prodboard/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// Meta describes how an enum value is shown on screen.
type Meta struct {
	Label string
	Icon  string
	Style lipgloss.Style
}

// Render returns "<icon> <label>" in the value's style.
func (m Meta) Render() string {
	return m.Style.Render(m.Icon + " " + m.Label)
}

// StatusMeta maps a feature status to its label, icon and colour.
func StatusMeta(status domain.FeatureStatus) Meta {
	switch status {
	case domain.StatusBacklog:
		return Meta{Label: "Backlog", Icon: "○", Style: StyleBlue}
	case domain.StatusDoing:
		return Meta{Label: "Doing", Icon: "●", Style: StyleGreen}
	case domain.StatusBlocked:
		return Meta{Label: "Blocked", Icon: "⊘", Style: StyleRed}
	case domain.StatusDone:
		return Meta{Label: "Done", Icon: "✔", Style: StyleDim}
	default:
		return Meta{Label: unknownLabel(string(status)), Icon: "?", Style: StyleDim}
	}
}

// PriorityMeta maps a MoSCoW category to its label, icon and colour.
func PriorityMeta(p domain.MoSCoW) Meta {
	switch p {
	case domain.PriorityMust:
		return Meta{Label: "Must", Icon: "▲", Style: StyleRed}
	case domain.PriorityShould:
		return Meta{Label: "Should", Icon: "◆", Style: StyleYellow}
	case domain.PriorityCould:
		return Meta{Label: "Could", Icon: "◇", Style: StyleBlue}
	case domain.PriorityWont:
		return Meta{Label: "Won't", Icon: "▽", Style: StyleDim}
	default:
		return Meta{Label: unknownLabel(string(p)), Icon: "?", Style: StyleDim}
	}
}

// ProductStatusMeta maps a product status to its label, icon and colour.
func ProductStatusMeta(s domain.ProductStatus) Meta {
	switch s {
	case domain.ProductActive:
		return Meta{Label: "Active", Icon: "●", Style: StyleGreen}
	case domain.ProductArchived:
		return Meta{Label: "Archived", Icon: "✖", Style: StyleDim}
	default:
		return Meta{Label: unknownLabel(string(s)), Icon: "?", Style: StyleDim}
	}
}

func unknownLabel(v string) string {
	if v == "" {
		return "Unknown"
	}
	return v
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
