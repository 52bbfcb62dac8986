package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelgraph/internal/driver"
)

func TestTable_Render(t *testing.T) {
	var buf bytes.Buffer
	table := &Table{
		Header: []string{"slug", "identity"},
		Rows: [][]string{
			{"Widget", "a.b.Widget"},
			{"d_Widget", "c.d.Widget"},
			{"Ярлык", "ru.Ярлык"},
		},
	}
	require.NoError(t, table.Render(&buf))
	assert.Equal(t,
		"slug      identity\n"+
			"Widget    a.b.Widget\n"+
			"d_Widget  c.d.Widget\n"+
			"Ярлык     ru.Ярлык\n",
		buf.String())
}

func TestTable_MaxWidth(t *testing.T) {
	var buf bytes.Buffer
	table := &Table{Rows: [][]string{{"x", "github.com/acme/api/v2.Widget"}}, MaxWidth: 10}
	require.NoError(t, table.Render(&buf))
	assert.Equal(t, "x  github....\n", buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abcdef", Truncate("abcdef", 0))
	assert.Equal(t, "abcdef", Truncate("abcdef", 6))
	assert.Equal(t, "ab...", Truncate("abcdef", 5))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
	assert.Equal(t, "plain", Title("plain", false))
}

func TestProgressModel(t *testing.T) {
	events := make(chan driver.PhaseEvent, 4)
	m := NewProgressModel("modelgraph scan", []string{driver.PhaseLoad, driver.PhaseTraverse}, events)

	m, _ = m.Update(eventMsg{Name: driver.PhaseLoad, Status: driver.PhaseStart})
	m, _ = m.Update(eventMsg{Name: driver.PhaseLoad, Status: driver.PhaseEnd, Elapsed: 2 * time.Millisecond})
	m, _ = m.Update(eventMsg{Name: driver.PhaseTraverse, Status: driver.PhaseStart})
	m, _ = m.Update(eventMsg{Name: "unknown", Status: driver.PhaseStart})

	view := m.View()
	lines := strings.Split(view, "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Contains(t, lines[0], "modelgraph scan")
	assert.Contains(t, lines[2], "done")
	assert.Contains(t, lines[2], "2.0 ms")
	assert.Contains(t, lines[3], "running")

	close(events)
	msg := m.(*progressModel).listenForEvent()()
	_, cmd := m.Update(msg)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Contains(t, m.View(), "done: modelgraph scan")
}
