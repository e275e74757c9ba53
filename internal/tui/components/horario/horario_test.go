package horario

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/avaldiviar/colegio/internal/schedule"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func typeTime(t *testing.T, m Model, value string) Model {
	t.Helper()
	for _, r := range value {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestToggleAndTimeEntry(t *testing.T) {
	m := New(false)
	m.SetRequired(4)

	// Activate Monday and fill 08:00–10:00.
	m, _ = m.Update(key("space"))
	if !m.Matrix().Active(schedule.Lunes) {
		t.Fatal("Monday not activated")
	}
	m, _ = m.Update(key("tab")) // focus start
	m = typeTime(t, m, "08:00")
	m, _ = m.Update(key("tab")) // focus end
	m = typeTime(t, m, "10:00")
	m, _ = m.Update(key("tab")) // leave

	got := m.Matrix()[schedule.Lunes]
	if got.Start != "08:00" || got.End != "10:00" {
		t.Fatalf("block = %+v", got)
	}

	s := m.Summary()
	if s.AssignedHours != 2 || s.Classification != schedule.Incompleto {
		t.Errorf("summary = %+v", s)
	}
}

func TestToggleOffDiscardsTimes(t *testing.T) {
	m := New(false)
	m, _ = m.Update(key("space"))
	m, _ = m.Update(key("tab"))
	m = typeTime(t, m, "08:00")
	m, _ = m.Update(key("tab"))
	m, _ = m.Update(key("tab"))

	m, _ = m.Update(key("space")) // off
	m, _ = m.Update(key("space")) // back on

	got := m.Matrix()[schedule.Lunes]
	if got.Start != "" || got.End != "" {
		t.Errorf("reactivated day retained times: %+v", got)
	}
	if strings.Contains(m.View(), "08:00") {
		t.Error("view still shows discarded time")
	}
}

func TestBadgeFollowsClassification(t *testing.T) {
	m := New(false)
	m.SetRequired(2)
	m, _ = m.Update(key("space"))
	m, _ = m.Update(key("tab"))
	m = typeTime(t, m, "08:00")
	m, _ = m.Update(key("tab"))
	m = typeTime(t, m, "10:00")

	if view := m.View(); !strings.Contains(view, "completo") {
		t.Errorf("view lacks completo badge:\n%s", view)
	}

	m.SetRequired(0)
	if view := m.View(); strings.Contains(view, "completo") || strings.Contains(view, "incompleto") {
		t.Errorf("neutral badge expected with no requirement:\n%s", view)
	}
}

func TestSingleRowModeSkipsBadge(t *testing.T) {
	m := New(true)
	m.SetRequired(4)
	m, _ = m.Update(key("space"))

	if view := m.View(); strings.Contains(view, "incompleto") {
		t.Errorf("single-row mode must not render hour totals:\n%s", view)
	}
}

func TestChangedMsgCarriesSummary(t *testing.T) {
	m := New(false)
	m.SetRequired(4)
	m, cmd := m.Update(key("space"))
	if cmd == nil {
		t.Fatal("toggle emitted no change")
	}
	msg, ok := cmd().(ChangedMsg)
	if !ok {
		t.Fatalf("cmd produced %T, want ChangedMsg", cmd())
	}
	if !msg.Matrix.Active(schedule.Lunes) {
		t.Error("matrix snapshot missing toggled day")
	}
	if msg.Summary.Classification != schedule.Incompleto {
		t.Errorf("summary = %+v", msg.Summary)
	}

	// The snapshot must not alias the live matrix.
	m, _ = m.Update(key("space"))
	if !msg.Matrix.Active(schedule.Lunes) {
		t.Error("snapshot mutated by later edits")
	}
}
