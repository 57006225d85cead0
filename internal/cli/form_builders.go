package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/prodboard/internal/cli/formatter"
	"github.com/alexanderramin/prodboard/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const dateLayout = "2006-01-02"

// prodboardHuhTheme returns a huh theme using the Gruvbox palette.
func prodboardHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// featureFormValues is the string-typed state behind the feature form.
type featureFormValues struct {
	Title       string
	Description string
	Start       string
	End         string
	Priority    string
	Reach       string
	Impact      string
	Confidence  string
	Effort      string
}

// featureForm collects the fields of a new feature. Values already set act
// as defaults.
func featureForm(v *featureFormValues) *huh.Form {
	priorities := make([]huh.Option[string], 0, len(domain.Priorities))
	for _, p := range domain.Priorities {
		priorities = append(priorities, huh.NewOption(formatter.PriorityMeta(p).Label, string(p)))
	}
	if v.Priority == "" {
		v.Priority = string(domain.PriorityShould)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("Single sign-on").
				Value(&v.Title).
				Validate(validateRequired("title")),
			huh.NewText().
				Title("Description").
				Value(&v.Description).
				Validate(validateRequired("description")),
		),
		huh.NewGroup(
			dateInput("Start Date (YYYY-MM-DD)", time.Now().AddDate(0, 0, 7).Format(dateLayout), &v.Start),
			dateInput("End Date (YYYY-MM-DD)", time.Now().AddDate(0, 0, 21).Format(dateLayout), &v.End),
			huh.NewSelect[string]().
				Title("Priority").
				Options(priorities...).
				Value(&v.Priority),
		),
		huh.NewGroup(
			riceInput("Reach", &v.Reach),
			riceInput("Impact", &v.Impact),
			riceInput("Confidence", &v.Confidence),
			riceInput("Effort", &v.Effort),
		).Description("RICE inputs, 1-10. Blank means 1."),
	).WithTheme(prodboardHuhTheme()).WithShowHelp(false)
}

// dateInput returns a huh.Input for a required YYYY-MM-DD date.
func dateInput(title, placeholder string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(value).
		Validate(validateRequiredDate)
}

// riceInput returns a huh.Input for one RICE factor.
func riceInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder("1").
		Value(value).
		Validate(validateRICEValue)
}

// confirmForm creates a huh form for a yes/no confirmation.
func confirmForm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(prodboardHuhTheme()).WithShowHelp(false)
}

func validateRequired(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

// validateRequiredDate accepts a YYYY-MM-DD date string.
func validateRequiredDate(s string) error {
	if _, err := time.Parse(dateLayout, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

// validateRICEValue accepts empty or an integer in 1..10.
func validateRICEValue(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 1 || v > 10 {
		return fmt.Errorf("enter a number from 1 to 10")
	}
	return nil
}

// parseFormInt parses a validated form value, treating blank as fallback.
func parseFormInt(s string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return v
}

func parseDate(flag, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date %q (use YYYY-MM-DD)", flag, value)
	}
	return t, nil
}
