package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/alexanderramin/prodboard/internal/cli/formatter"
	"github.com/alexanderramin/prodboard/internal/domain"
	"github.com/alexanderramin/prodboard/internal/service"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

type boardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Status   key.Binding
	Priority key.Binding
	Filter   key.Binding
	Refresh  key.Binding
	Quit     key.Binding
}

func defaultBoardKeys() boardKeyMap {
	return boardKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Status:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle status")),
		Priority: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "cycle priority")),
		Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k boardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Status, k.Priority, k.Filter, k.Refresh, k.Quit}
}

func (k boardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, k.ShortHelp()}
}

type (
	boardLoadedMsg  struct{ features []*domain.Feature }
	boardUpdatedMsg struct{ feature *domain.Feature }
	boardErrMsg     struct{ err error }
)

// boardModel is an interactive view over the prioritized backlog of one
// product. Edits go straight to the feature service and trigger a reload,
// so the ranking on screen always matches the stored data.
type boardModel struct {
	ctx      context.Context
	features service.FeatureService
	product  *domain.Product

	all     []*domain.Feature // ranked
	visible []*domain.Feature

	table     table.Model
	filter    textinput.Model
	filtering bool
	help      help.Model
	keys      boardKeyMap

	flash string
	err   error
}

func newBoardModel(ctx context.Context, features service.FeatureService, product *domain.Product) boardModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "RANK", Width: 4},
			{Title: "#", Width: 5},
			{Title: "TITLE", Width: 36},
			{Title: "PRIORITY", Width: 10},
			{Title: "RICE", Width: 9},
			{Title: "STATUS", Width: 11},
			{Title: "END", Width: 10},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(formatter.ColorHeader).Bold(true)
	styles.Selected = styles.Selected.Foreground(formatter.ColorFg).Background(formatter.ColorDim)
	t.SetStyles(styles)

	fi := textinput.New()
	fi.Placeholder = "Filter by title..."
	fi.CharLimit = 100
	fi.Width = 40

	return boardModel{
		ctx:      ctx,
		features: features,
		product:  product,
		table:    t,
		filter:   fi,
		help:     help.New(),
		keys:     defaultBoardKeys(),
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.reload()
}

func (m boardModel) reload() tea.Cmd {
	return func() tea.Msg {
		ranked, err := m.features.Prioritized(m.ctx, m.product.ID)
		if err != nil {
			return boardErrMsg{err}
		}
		return boardLoadedMsg{ranked}
	}
}

func (m boardModel) setStatus(f *domain.Feature) tea.Cmd {
	next := f.Status.Next()
	return func() tea.Msg {
		updated, err := m.features.SetStatus(m.ctx, f.ID, next)
		if err != nil {
			return boardErrMsg{err}
		}
		return boardUpdatedMsg{updated}
	}
}

func (m boardModel) setPriority(f *domain.Feature) tea.Cmd {
	next := f.Priority.Next()
	return func() tea.Msg {
		updated, err := m.features.SetPriority(m.ctx, f.ID, next)
		if err != nil {
			return boardErrMsg{err}
		}
		return boardUpdatedMsg{updated}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-8, 3))
		m.help.Width = msg.Width
		return m, nil

	case boardLoadedMsg:
		m.all = msg.features
		m.applyFilter()
		return m, nil

	case boardUpdatedMsg:
		m.err = nil
		f := msg.feature
		m.flash = fmt.Sprintf("%s → %s, %s", f.DisplayID(), f.Status, f.Priority)
		return m, m.reload()

	case boardErrMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Status):
			if f := m.selected(); f != nil {
				return m, m.setStatus(f)
			}
			return m, nil
		case key.Matches(msg, m.keys.Priority):
			if f := m.selected(); f != nil {
				return m, m.setPriority(f)
			}
			return m, nil
		case key.Matches(msg, m.keys.Filter):
			m.filtering = true
			cmd := m.filter.Focus()
			return m, cmd
		case key.Matches(msg, m.keys.Refresh):
			return m, m.reload()
		}
	}

	var cmd tea.Cmd
	if m.filtering {
		m.filter, cmd = m.filter.Update(msg)
		return m, cmd
	}
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m boardModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.applyFilter()
		return m, nil
	case tea.KeyEnter:
		m.filtering = false
		m.filter.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

// featureTitles adapts a feature slice to fuzzy.Source.
type featureTitles []*domain.Feature

func (s featureTitles) String(i int) string { return s[i].Title }
func (s featureTitles) Len() int            { return len(s) }

// applyFilter narrows the rows to fuzzy title matches while keeping rank
// order, and keeps the cursor on the same feature when it is still shown.
func (m *boardModel) applyFilter() {
	var selectedID string
	if f := m.selected(); f != nil {
		selectedID = f.ID
	}

	pattern := strings.TrimSpace(m.filter.Value())
	if pattern == "" {
		m.visible = m.all
	} else {
		matches := fuzzy.FindFrom(pattern, featureTitles(m.all))
		idx := make([]int, 0, len(matches))
		for _, match := range matches {
			idx = append(idx, match.Index)
		}
		slices.Sort(idx)
		m.visible = make([]*domain.Feature, 0, len(idx))
		for _, i := range idx {
			m.visible = append(m.visible, m.all[i])
		}
	}

	rank := make(map[string]int, len(m.all))
	for i, f := range m.all {
		rank[f.ID] = i + 1
	}
	rows := make([]table.Row, 0, len(m.visible))
	cursor := 0
	for i, f := range m.visible {
		if f.ID == selectedID {
			cursor = i
		}
		status := formatter.StatusMeta(f.Status)
		priority := formatter.PriorityMeta(f.Priority)
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", rank[f.ID]),
			f.DisplayID(),
			f.Title,
			priority.Icon + " " + priority.Label,
			fmt.Sprintf("%.2f", f.RICEScore),
			status.Icon + " " + status.Label,
			f.EndDate.Format(dateLayout),
		})
	}
	m.table.SetRows(rows)
	if len(rows) > 0 {
		m.table.SetCursor(cursor)
	}
}

func (m boardModel) selected() *domain.Feature {
	if len(m.visible) == 0 {
		return nil
	}
	i := m.table.Cursor()
	if i < 0 || i >= len(m.visible) {
		return nil
	}
	return m.visible[i]
}

func (m boardModel) View() string {
	var b strings.Builder

	b.WriteString(formatter.StyleHeader.Render(m.product.DisplayID()+" board") + "  " + formatter.Dim(m.product.Name) + "\n\n")
	if len(m.all) == 0 {
		b.WriteString(formatter.Dim("Backlog is empty.") + "\n")
	} else {
		b.WriteString(lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(formatter.ColorDim).
			Render(m.table.View()) + "\n")
	}

	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View() + "\n")
	}
	switch {
	case m.err != nil:
		b.WriteString(formatter.StyleRed.Render(m.err.Error()) + "\n")
	case m.flash != "":
		b.WriteString(formatter.StyleGreen.Render(m.flash) + "\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
