package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/prodboard/internal/domain"
	"github.com/alexanderramin/prodboard/internal/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boardDriver(t *testing.T) (*App, *teatest.Driver) {
	t.Helper()
	app := testApp(t)
	p := seedProduct(t, app)
	d := teatest.New(t, newBoardModel(context.Background(), app.Features, p), teatest.WithSize(120, 30))
	require.Len(t, board(d).visible, 2)
	return app, d
}

func board(d *teatest.Driver) boardModel {
	return d.Model.(boardModel)
}

func TestBoardModel_LoadsRankedBacklog(t *testing.T) {
	_, d := boardDriver(t)

	m := board(d)
	assert.Equal(t, "Single sign-on", m.visible[0].Title)
	assert.Equal(t, "Audit log", m.visible[1].Title)

	view := d.PlainView()
	assert.Contains(t, view, "CRM01 board")
	assert.Contains(t, view, "2000.00")
	assert.Contains(t, view, "cycle status")
}

func TestBoardModel_SCyclesStatus(t *testing.T) {
	app, d := boardDriver(t)

	d.Press("s")

	m := board(d)
	f, err := app.Features.GetByID(context.Background(), m.visible[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDoing, f.Status)
	assert.Equal(t, domain.StatusDoing, m.visible[0].Status)
	assert.Contains(t, m.flash, "#1")

	history, err := app.Features.History(context.Background(), f.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.HistoryStatus, history[len(history)-1].Field)
}

func TestBoardModel_StatusWrapsAfterDone(t *testing.T) {
	app, d := boardDriver(t)

	d.Press("down", "s", "s", "s", "s")

	f, err := app.Features.GetByID(context.Background(), board(d).selected().ID)
	require.NoError(t, err)
	assert.Equal(t, "Audit log", f.Title)
	assert.Equal(t, domain.StatusBacklog, f.Status)
}

func TestBoardModel_PCyclesPriorityAndReranks(t *testing.T) {
	app, d := boardDriver(t)

	// must -> should; the tie on priority falls back to RICE, so #1 stays first.
	d.Press("p")
	m := board(d)
	f, err := app.Features.GetByID(context.Background(), m.visible[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityShould, f.Priority)

	// should -> could drops #1 below #2.
	d.Press("p")
	m = board(d)
	assert.Equal(t, "Audit log", m.visible[0].Title)
	assert.Equal(t, "Single sign-on", m.visible[1].Title)
	// The cursor follows the edited feature.
	assert.Equal(t, "Single sign-on", m.selected().Title)
}

func TestBoardModel_FilterNarrowsRows(t *testing.T) {
	app, d := boardDriver(t)

	d.Press("/")
	assert.True(t, board(d).filtering)
	d.Type("audit")
	m := board(d)
	require.Len(t, m.visible, 1)
	assert.Equal(t, "Audit log", m.visible[0].Title)
	auditID := m.visible[0].ID

	// Keys typed while filtering go to the filter, not to the features.
	d.Type("s")
	m = board(d)
	assert.Equal(t, "audits", m.filter.Value())
	assert.Empty(t, m.visible)
	f, err := app.Features.GetByID(context.Background(), auditID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBacklog, f.Status)

	d.Press("esc")
	m = board(d)
	assert.False(t, m.filtering)
	assert.Len(t, m.visible, 2)
}

func TestBoardModel_EnterKeepsFilter(t *testing.T) {
	_, d := boardDriver(t)

	d.Press("/")
	d.Type("sign")
	d.Press("enter", "s")

	m := board(d)
	assert.False(t, m.filtering)
	require.Len(t, m.visible, 1)
	assert.Equal(t, domain.StatusDoing, m.visible[0].Status)
}

func TestBoardModel_ShowsServiceErrors(t *testing.T) {
	_, d := boardDriver(t)

	d.Send(boardErrMsg{errors.New("database is locked")})
	assert.Contains(t, d.PlainView(), "database is locked")
}

func TestBoardModel_QuitKey(t *testing.T) {
	_, d := boardDriver(t)

	d.Press("q")
	assert.True(t, d.Quitting)
}
