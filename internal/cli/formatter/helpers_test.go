package formatter

import (
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/prodboard/internal/domain"
	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// stripANSI removes ANSI escape codes so assertions are terminal-independent.
func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestRelativeDateFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"today", now, "Today"},
		{"tomorrow", now.Add(24 * time.Hour), "Tomorrow"},
		{"yesterday", now.Add(-24 * time.Hour), "Yesterday"},
		{"3 days future", now.Add(3 * 24 * time.Hour), "In 3d"},
		{"3 days past", now.Add(-3 * 24 * time.Hour), "3d ago"},
		{"3 weeks future", now.Add(21 * 24 * time.Hour), "In 3w"},
		{"3 months future", now.Add(90 * 24 * time.Hour), "In 3mo"},
		{"2 weeks past", now.Add(-14 * 24 * time.Hour), "2w ago"},
		{"3 months past", now.Add(-90 * 24 * time.Hour), "3mo ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDateFrom(tt.input, now))
		})
	}
}

func TestHumanTimestampFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "Just now", HumanTimestampFrom(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", HumanTimestampFrom(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", HumanTimestampFrom(now.Add(-3*time.Hour), now))
	assert.Equal(t, "Jan 15, 2026", HumanTimestampFrom(time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC), now))
	assert.Equal(t, "Mar 1, 2026", HumanTimestampFrom(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), now))
}

func TestStatusMeta(t *testing.T) {
	for _, st := range domain.FeatureStatuses {
		m := StatusMeta(st)
		assert.NotEqual(t, "?", m.Icon, "status %s should have an icon", st)
	}
	assert.Equal(t, "Blocked", StatusMeta(domain.StatusBlocked).Label)

	unknown := StatusMeta("shipped")
	assert.Equal(t, "shipped", unknown.Label)
	assert.Equal(t, "?", unknown.Icon)
	assert.Equal(t, "Unknown", StatusMeta("").Label)
}

func TestPriorityMeta(t *testing.T) {
	assert.Equal(t, "Must", PriorityMeta(domain.PriorityMust).Label)
	assert.Equal(t, "Should", PriorityMeta(domain.PriorityShould).Label)
	assert.Equal(t, "Could", PriorityMeta(domain.PriorityCould).Label)
	assert.Equal(t, "Won't", PriorityMeta(domain.PriorityWont).Label)
	assert.Equal(t, "?", PriorityMeta("urgent").Icon)
	assert.Contains(t, stripANSI(PriorityMeta(domain.PriorityMust).Render()), "▲ Must")
}

func TestProductStatusMeta(t *testing.T) {
	assert.Equal(t, "Active", ProductStatusMeta(domain.ProductActive).Label)
	assert.Equal(t, "Archived", ProductStatusMeta(domain.ProductArchived).Label)
	assert.Equal(t, "?", ProductStatusMeta("deleted").Icon)
}

func TestTruncID(t *testing.T) {
	assert.Equal(t, "abcdef12", stripANSI(TruncID("abcdef12-3456-7890")))
	assert.Equal(t, "abc", stripANSI(TruncID("abc")))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd…", Truncate("abcdefgh", 5))
	assert.Equal(t, "héll…", Truncate("héllo wörld", 5))
}

func TestScore(t *testing.T) {
	assert.Equal(t, "2000.00", stripANSI(Score(2000)))
	assert.Equal(t, "0.10", stripANSI(Score(0.1)))
}

func TestDateRange(t *testing.T) {
	f := &domain.Feature{
		StartDate: time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, "2026-11-01 → 2026-11-20 (19d)", stripANSI(DateRange(f)))
}

func TestRenderBox(t *testing.T) {
	out := stripANSI(RenderBox("Title", "content"))
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "content")
	assert.Contains(t, out, "╭")
}

func TestRenderBoxWithoutTitle(t *testing.T) {
	out := stripANSI(RenderBox("", "just content"))
	assert.Contains(t, out, "just content")
	assert.NotContains(t, out, "TITLE")
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := stripANSI(RenderTable([]string{"A", "B"}, [][]string{{"long cell", "x"}, {"s", "y"}}))
	lines := splitLines(out)
	assert.Len(t, lines, 4)
	assert.Equal(t, "A          B", lines[0])
	assert.Equal(t, "long cell  x", lines[2])
	assert.Equal(t, "s          y", lines[3])
}

func TestRenderTableOrEmpty(t *testing.T) {
	assert.Equal(t, "nothing", stripANSI(RenderTableOrEmpty([]string{"A"}, nil, "nothing")))
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
