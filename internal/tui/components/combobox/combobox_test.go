package combobox

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/avaldiviar/colegio/internal/api"
	"github.com/avaldiviar/colegio/internal/models"
)

// recordingFetch counts calls and remembers the queries it was asked for.
type recordingFetch struct {
	mu      sync.Mutex
	queries []string
	filters []api.Filters
	cands   []models.Candidate
}

func (f *recordingFetch) fn(_ context.Context, query string, filters api.Filters) ([]models.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	f.filters = append(f.filters, filters)
	return f.cands, nil
}

func (f *recordingFetch) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

// collect executes a command tree synchronously and returns every message it
// produces. Timers run for real, so tests use a short debounce.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// drain pumps messages back through the model until the queue empties,
// mimicking the Bubble Tea runtime.
func drain(m Model, cmd tea.Cmd) (Model, []tea.Msg) {
	var seen []tea.Msg
	queue := collect(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		seen = append(seen, msg)
		var next tea.Cmd
		m, next = m.Update(msg)
		queue = append(queue, collect(next)...)
	}
	return m, seen
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newFocused(t *testing.T, fetch *recordingFetch, opts ...Option) Model {
	t.Helper()
	opts = append(opts, WithDebounce(time.Millisecond))
	m := New("alumno", "Buscar alumno", fetch.fn, opts...)
	// Preload the browse cache so focusing does not issue a fetch and the
	// tests count only what they trigger.
	m.Preload([]models.Candidate{{ID: "0", Label: "precargado"}})
	m, cmd := m.Focus()
	drain(m, cmd)
	return m
}

func TestTypingCoalescesIntoOneFetch(t *testing.T) {
	fetch := &recordingFetch{}
	m := newFocused(t, fetch)

	// Three keystrokes inside the quiet window: collect the timer
	// commands first, deliver them all afterwards.
	var pending []tea.Msg
	for _, r := range []string{"a", "n", "a"} {
		var cmd tea.Cmd
		m, cmd = m.Update(keyRunes(r))
		pending = append(pending, collect(cmd)...)
	}

	for len(pending) > 0 {
		msg := pending[0]
		pending = pending[1:]
		var next tea.Cmd
		m, next = m.Update(msg)
		pending = append(pending, collect(next)...)
	}

	calls := fetch.calls()
	if len(calls) != 1 {
		t.Fatalf("issued %d fetches (%v), want exactly 1", len(calls), calls)
	}
	if calls[0] != "ana" {
		t.Errorf("fetched query %q, want %q", calls[0], "ana")
	}
}

func TestTypingClearsSelectionImmediately(t *testing.T) {
	fetch := &recordingFetch{}
	m := newFocused(t, fetch, WithInitial(models.Ref{ID: "5", Label: "Juan Pérez"}))

	if m.Selected().ID != "5" {
		t.Fatalf("initial selection missing: %+v", m.Selected())
	}

	// One keystroke; no fetch has resolved yet.
	m, _ = m.Update(keyRunes("z"))

	if got := m.Selected(); got.ID != "" || got.Label != "" {
		t.Errorf("selection survived an edit: %+v", got)
	}
}

func TestEnterChoosesHighlightedCandidate(t *testing.T) {
	fetch := &recordingFetch{}
	m := New("alumno", "Buscar alumno", fetch.fn, WithDebounce(time.Millisecond))
	m.Preload([]models.Candidate{
		{ID: "1", Label: "Quispe, Ana", Meta: map[string]string{"dni": "44556677"}},
		{ID: "2", Label: "Rojas, Luis"},
	})
	m, cmd := m.Focus()
	m, _ = drain(m, cmd)

	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = drain(m, cmd)
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	_, msgs := drain(m, cmd)

	var chosen *ChosenMsg
	for _, msg := range msgs {
		if c, ok := msg.(ChosenMsg); ok {
			chosen = &c
		}
	}
	if chosen == nil {
		t.Fatal("no ChosenMsg emitted")
	}
	if chosen.ID != "alumno" || chosen.Candidate.ID != "2" {
		t.Errorf("chosen = %+v", chosen)
	}
}

func TestInertCandidateIgnoresEnter(t *testing.T) {
	fetch := &recordingFetch{}
	m := New("anio", "Buscar año", fetch.fn, WithDebounce(time.Millisecond))
	m.Preload([]models.Candidate{{ID: "9", Label: "2023 (cerrado)", Disabled: true}})
	m, cmd := m.Focus()
	m, _ = drain(m, cmd)

	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, msgs := drain(m, cmd)

	for _, msg := range msgs {
		if _, ok := msg.(ChosenMsg); ok {
			t.Fatal("ChosenMsg emitted for inert candidate")
		}
	}
	if got := m.Selected(); got.ID != "" {
		t.Errorf("selection changed: %+v", got)
	}
}

func TestSetParentIDResetsDependentField(t *testing.T) {
	fetch := &recordingFetch{}
	m := New("seccion", "Buscar sección", fetch.fn,
		WithDebounce(time.Millisecond),
		WithParent("grado_id", "Seleccione un grado primero"))

	if !m.Locked() {
		t.Fatal("field with unset parent should be locked")
	}
	if !strings.Contains(m.View(), "Seleccione un grado primero") {
		t.Errorf("locked view missing hint: %q", m.View())
	}

	m.SetParentID("3")
	if m.Locked() {
		t.Fatal("field still locked after parent set")
	}

	fetch.cands = []models.Candidate{{ID: "1", Label: "Sección A"}}
	m, cmd := m.Focus()
	m, _ = drain(m, cmd)
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = drain(m, cmd)
	if m.Selected().ID != "1" {
		t.Fatalf("setup selection failed: %+v", m.Selected())
	}

	// Grade changes: selection, cache, and visibility must all reset.
	m.SetParentID("4")
	if got := m.Selected(); got.ID != "" || got.Label != "" {
		t.Errorf("selection survived parent change: %+v", got)
	}
	if m.sel.Suggestions != nil {
		t.Error("cached suggestions survived parent change")
	}
	if m.sel.Open {
		t.Error("list still open after parent change")
	}
}

func TestParentFilterSentWithFetch(t *testing.T) {
	fetch := &recordingFetch{}
	m := New("seccion", "Buscar sección", fetch.fn,
		WithDebounce(time.Millisecond),
		WithParent("grado_id", "Seleccione un grado primero"))
	m.SetParentID("3")

	m, cmd := m.Focus()
	drain(m, cmd)

	fetch.mu.Lock()
	defer fetch.mu.Unlock()
	if len(fetch.filters) != 1 {
		t.Fatalf("got %d fetches, want 1", len(fetch.filters))
	}
	if fetch.filters[0]["grado_id"] != "3" {
		t.Errorf("filters = %v, want grado_id=3", fetch.filters[0])
	}
}

func TestDisabledFieldIsInert(t *testing.T) {
	fetch := &recordingFetch{}
	m := New("alumno", "Buscar alumno", fetch.fn, WithDebounce(time.Millisecond),
		WithInitial(models.Ref{ID: "5", Label: "Juan"}))
	m.SetDisabled(true)

	m, cmd := m.Focus()
	if cmd != nil {
		t.Error("Focus issued work while disabled")
	}
	m, cmd = m.Update(keyRunes("x"))
	if cmd != nil {
		t.Error("keystroke issued work while disabled")
	}
	if len(fetch.calls()) != 0 {
		t.Error("fetch fired while disabled")
	}
	if m.Selected().ID != "5" {
		t.Errorf("disabled selection mutated: %+v", m.Selected())
	}
}

func TestClearEmitsClearedMsg(t *testing.T) {
	fetch := &recordingFetch{}
	m := newFocused(t, fetch, WithInitial(models.Ref{ID: "5", Label: "Juan"}))

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	m, msgs := drain(m, cmd)

	found := false
	for _, msg := range msgs {
		if _, ok := msg.(ClearedMsg); ok {
			found = true
		}
	}
	if !found {
		t.Fatal("no ClearedMsg emitted")
	}
	if got := m.Selected(); got.ID != "" || m.Query() != "" {
		t.Errorf("clear left state behind: sel=%+v query=%q", got, m.Query())
	}
}
