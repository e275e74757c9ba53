// Package combobox is the one parameterized remote-search selection
// component used for every entity reference in the app (alumno, año, curso,
// docente, grado, nivel, periodo, sección, currículo, rol). Per-entity
// variability is injected as a fetch function; everything else — trailing
// debounce, browse-on-focus, selection-clears-on-edit, stale-response
// dropping — is shared.
package combobox

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avaldiviar/colegio/internal/api"
	"github.com/avaldiviar/colegio/internal/constants"
	"github.com/avaldiviar/colegio/internal/logger"
	"github.com/avaldiviar/colegio/internal/models"
	"github.com/avaldiviar/colegio/internal/search"
)

// FetchFunc retrieves candidates for a query. Wired to a service Search
// method; extra filters (grado_id, rol_id, ...) are merged in by the
// component.
type FetchFunc func(ctx context.Context, query string, filters api.Filters) ([]models.Candidate, error)

// ChosenMsg is emitted when the operator confirms a candidate. The parent
// form copies the id/label (and any mirrored Meta fields) into its state.
type ChosenMsg struct {
	ID        string
	Candidate models.Candidate
}

// ClearedMsg is emitted when the operator wipes the field.
type ClearedMsg struct {
	ID string
}

type debounceMsg struct {
	id  string
	seq int
}

type resultMsg struct {
	id    string
	seq   int
	cands []models.Candidate
	err   error
}

const maxVisible = 6

var (
	suggestionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			PaddingLeft(2)

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			PaddingLeft(1)

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	inertStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true).
			PaddingLeft(2)

	lockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			PaddingLeft(2).
			Italic(true)
)

type Model struct {
	id        string
	input     textinput.Model
	spin      spinner.Model
	sel       search.Selection
	fetch     FetchFunc
	filters   api.Filters
	debounce  time.Duration
	highlight int
	focused   bool

	// Dependent-field support: when parentKey is set the fetch carries
	// filters[parentKey] = parentID, and the field renders locked until
	// the parent is chosen.
	parentKey  string
	parentID   string
	parentHint string
}

type Option func(*Model)

// WithInitial seeds the field from a record the parent form already holds;
// the label shows without triggering a fetch.
func WithInitial(ref models.Ref) Option {
	return func(m *Model) { m.sel = search.New(ref) }
}

// WithDebounce overrides the default quiet period (the currículo variant
// uses the shorter constants.CurriculumDebounce).
func WithDebounce(d time.Duration) Option {
	return func(m *Model) { m.debounce = d }
}

// WithFilterMode marks the field as a table filter: disabled candidates
// become choosable.
func WithFilterMode() Option {
	return func(m *Model) { m.sel.FilterMode = true }
}

// WithFilters attaches fixed entity-specific query filters.
func WithFilters(f api.Filters) Option {
	return func(m *Model) { m.filters = f }
}

// WithParent declares a dependency on a sibling selection. Until
// SetParentID is called with a non-empty id the field is locked and shows
// the hint instead of an input.
func WithParent(filterKey, hint string) Option {
	return func(m *Model) {
		m.parentKey = filterKey
		m.parentHint = hint
	}
}

func New(id, placeholder string, fetch FetchFunc, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	ti.CharLimit = 80

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	m := Model{
		id:       id,
		input:    ti,
		spin:     sp,
		fetch:    fetch,
		debounce: constants.SearchDebounce,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.input.SetValue(m.sel.Query)
	return m
}

func (m Model) ID() string { return m.id }

// Selected returns the confirmed selection; the id is empty while the field
// holds unconfirmed text.
func (m Model) Selected() models.Ref {
	return models.Ref{ID: m.sel.SelectedID, Label: m.sel.SelectedLabel}
}

// Query returns the raw text, which in filter mode is meaningful on its own.
func (m Model) Query() string { return m.sel.Query }

// Locked reports whether the field is waiting on its parent selection.
func (m Model) Locked() bool {
	return m.parentKey != "" && m.parentID == ""
}

// SetDisabled toggles the inert state; every handler entry point checks it.
func (m *Model) SetDisabled(disabled bool) {
	m.sel.Disabled = disabled
	if disabled {
		m.input.Blur()
		m.focused = false
	}
}

// Preload seeds the browse cache (e.g. from the recents store) so the first
// focus opens instantly instead of fetching.
func (m *Model) Preload(cands []models.Candidate) {
	if len(m.sel.Suggestions) == 0 {
		m.sel.Suggestions = cands
	}
}

// SetParentID reacts to a change in the sibling this field depends on: the
// current selection, cached suggestions, and list visibility all reset.
func (m *Model) SetParentID(id string) {
	if id == m.parentID {
		return
	}
	m.parentID = id
	m.sel.ResetForParent()
	m.input.SetValue("")
	m.highlight = 0
}

// Focus gives the field keyboard focus. Per the browse-on-focus rule an
// empty cache triggers an empty-query fetch; otherwise the cached list just
// reopens.
func (m Model) Focus() (Model, tea.Cmd) {
	if m.sel.Disabled || m.Locked() {
		return m, nil
	}
	m.focused = true
	cmds := []tea.Cmd{m.input.Focus()}
	if seq, fetch := m.sel.OpenBrowse(); fetch {
		cmds = append(cmds, m.fetchCmd(seq, ""), m.spin.Tick)
	}
	return m, tea.Batch(cmds...)
}

// Blur is the "click outside": the list closes, focus leaves the input, the
// selection is untouched.
func (m Model) Blur() Model {
	m.focused = false
	m.input.Blur()
	m.sel.Close()
	return m
}

func (m Model) Focused() bool { return m.focused }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case debounceMsg:
		if msg.id != m.id {
			return m, nil
		}
		// Only the timer for the newest keystroke survives; earlier
		// timers are stale and ignored.
		if !m.sel.DebounceElapsed(msg.seq) {
			return m, nil
		}
		return m, tea.Batch(m.fetchCmd(msg.seq, m.sel.Query), m.spin.Tick)

	case resultMsg:
		if msg.id != m.id {
			return m, nil
		}
		if m.sel.ApplyResult(msg.seq, msg.cands, msg.err) {
			m.highlight = 0
		}
		return m, nil

	case spinner.TickMsg:
		if !m.sel.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if !m.focused || m.sel.Disabled || m.Locked() {
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "down":
		if !m.sel.Open {
			if seq, fetch := m.sel.OpenBrowse(); fetch {
				return m, tea.Batch(m.fetchCmd(seq, ""), m.spin.Tick)
			}
			return m, nil
		}
		if m.highlight < len(m.sel.Suggestions)-1 {
			m.highlight++
		}
		return m, nil

	case "up":
		if m.highlight > 0 {
			m.highlight--
		}
		return m, nil

	case "enter":
		if !m.sel.Open {
			return m, nil
		}
		c, ok := m.sel.Choose(m.highlight)
		if !ok {
			// Inert candidate (closed year, full section): nothing
			// changes, the list stays open.
			return m, nil
		}
		m.input.SetValue(m.sel.Query)
		id := m.id
		return m, func() tea.Msg { return ChosenMsg{ID: id, Candidate: c} }

	case "esc":
		m.sel.Close()
		return m, nil

	case "ctrl+x":
		seq, refetch := m.sel.Clear()
		m.input.SetValue("")
		m.highlight = 0
		id := m.id
		cleared := func() tea.Msg { return ClearedMsg{ID: id} }
		if refetch {
			return m, tea.Batch(cleared, m.fetchCmd(seq, ""), m.spin.Tick)
		}
		return m, cleared
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	seq := m.sel.SetQuery(m.input.Value())
	if seq == 0 {
		return m, cmd
	}
	id, debounce := m.id, m.debounce
	timer := tea.Tick(debounce, func(time.Time) tea.Msg {
		return debounceMsg{id: id, seq: seq}
	})
	return m, tea.Batch(cmd, timer)
}

func (m Model) fetchCmd(seq int, query string) tea.Cmd {
	id, fetch := m.id, m.fetch
	filters := api.Filters{}
	for k, v := range m.filters {
		filters[k] = v
	}
	if m.parentKey != "" {
		filters[m.parentKey] = m.parentID
	}
	return func() tea.Msg {
		cands, err := fetch(context.Background(), query, filters)
		if err != nil {
			// Soft-fail: the list degrades to "sin resultados", the
			// form stays usable.
			logger.Warn("search failed", "field", id, "error", err)
		}
		return resultMsg{id: id, seq: seq, cands: cands, err: err}
	}
}

func (m Model) View() string {
	if m.Locked() {
		return lockedStyle.Render("🔒 " + m.parentHint)
	}

	line := m.input.View()
	if m.sel.Loading {
		line += " " + m.spin.View()
	}
	if !m.sel.Open {
		return line
	}

	rows := []string{line}
	if len(m.sel.Suggestions) == 0 && !m.sel.Loading {
		rows = append(rows, emptyStyle.Render("sin resultados"))
	}
	for i, c := range m.sel.Suggestions {
		if i >= maxVisible {
			rows = append(rows, detailStyle.Render("  …"))
			break
		}
		label := c.Label
		if c.Detail != "" {
			label += "  " + detailStyle.Render(c.Detail)
		}
		switch {
		case c.Disabled && !m.sel.FilterMode:
			rows = append(rows, inertStyle.Render(label))
		case i == m.highlight:
			rows = append(rows, highlightStyle.Render("▸ "+label))
		default:
			rows = append(rows, suggestionStyle.Render(label))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
