// Package search holds the selection state machine behind every remote-search
// combobox in the app. The Bubble Tea component wraps it; keeping the state
// transitions here keeps them testable without a terminal.
package search

import "github.com/avaldiviar/colegio/internal/models"

// Selection is the local state of one searchable field: the raw text, the
// confirmed selection, and the last fetched suggestion page.
//
// SelectedID is non-empty only when it was set from a candidate present in
// Suggestions (or preloaded through New). Editing the query clears it, so a
// previously chosen id can never be submitted under different visible text.
type Selection struct {
	Query         string
	SelectedID    string
	SelectedLabel string
	Suggestions   []models.Candidate
	Open          bool
	Loading       bool

	// FilterMode relaxes the "must pick from list" rule when the field is
	// used as a table filter rather than a form field: disabled candidates
	// become choosable and free text is meaningful on its own.
	FilterMode bool

	// Disabled makes every entry point a no-op.
	Disabled bool

	// seq tags debounce timers and in-flight fetches. Only messages
	// carrying the current sequence are honored; anything else is stale
	// and dropped.
	seq int
}

// New seeds a selection from a record the parent form already holds. The
// label is displayed without triggering a fetch.
func New(initial models.Ref) Selection {
	return Selection{
		Query:         initial.Label,
		SelectedID:    initial.ID,
		SelectedLabel: initial.Label,
	}
}

// SetQuery records a keystroke edit. Any existing selection is cleared
// immediately, before a new fetch can resolve. The returned sequence is
// non-zero when the caller should (re)schedule the debounce timer tagged
// with it; rescheduling on every keystroke is what makes the debounce
// trailing.
func (s *Selection) SetQuery(q string) int {
	if s.Disabled || q == s.Query {
		return 0
	}
	s.Query = q
	s.SelectedID = ""
	s.SelectedLabel = ""
	s.seq++
	return s.seq
}

// DebounceElapsed reports whether the timer tagged seq is still current.
// Timers superseded by a later keystroke are ignored, so only the final
// quiet-period expiry issues a fetch. On success the selection enters
// loading state and the caller must issue a fetch tagged with the same
// sequence.
func (s *Selection) DebounceElapsed(seq int) bool {
	if s.Disabled || seq != s.seq {
		return false
	}
	s.Loading = true
	return true
}

// OpenBrowse handles focusing the field while the list is closed: with
// nothing cached yet it requests an empty-query "browse all" fetch,
// otherwise it just reopens the cached list. The returned bool says whether
// the caller should fetch.
func (s *Selection) OpenBrowse() (int, bool) {
	if s.Disabled {
		return 0, false
	}
	if len(s.Suggestions) > 0 {
		s.Open = true
		return 0, false
	}
	s.seq++
	s.Loading = true
	return s.seq, true
}

// ApplyResult installs a fetch response. The list is replaced wholesale, not
// merged. A response tagged with a stale sequence is dropped; the visible
// list always corresponds to the newest request. A failed fetch degrades to
// an empty list (the caller logs the error, the user just sees no results).
func (s *Selection) ApplyResult(seq int, cands []models.Candidate, err error) bool {
	if seq != s.seq {
		return false
	}
	s.Loading = false
	if err != nil {
		s.Suggestions = nil
	} else {
		s.Suggestions = cands
	}
	s.Open = true
	return true
}

// Choose confirms the candidate at index i. Candidates marked disabled are
// inert outside filter mode: the click changes nothing, the list stays open.
func (s *Selection) Choose(i int) (models.Candidate, bool) {
	if s.Disabled || i < 0 || i >= len(s.Suggestions) {
		return models.Candidate{}, false
	}
	c := s.Suggestions[i]
	if c.Disabled && !s.FilterMode {
		return models.Candidate{}, false
	}
	s.SelectedID = c.ID
	s.SelectedLabel = c.Label
	s.Query = c.Label
	s.Open = false
	return c, true
}

// Close hides the suggestion list without touching the selection. This is
// the "click outside" path.
func (s *Selection) Close() {
	s.Open = false
}

// Clear is the "×" affordance: query and selection reset, and if the list
// was open it is refilled with the empty-query browse page.
func (s *Selection) Clear() (int, bool) {
	if s.Disabled {
		return 0, false
	}
	wasOpen := s.Open
	s.Query = ""
	s.SelectedID = ""
	s.SelectedLabel = ""
	if !wasOpen {
		return 0, false
	}
	s.seq++
	s.Loading = true
	return s.seq, true
}

// ResetForParent discards everything when a sibling field this one depends
// on changes (e.g. sección after grado). Selection, cache and visibility all
// reset; bumping the sequence also invalidates any fetch still in flight.
func (s *Selection) ResetForParent() {
	s.Query = ""
	s.SelectedID = ""
	s.SelectedLabel = ""
	s.Suggestions = nil
	s.Open = false
	s.Loading = false
	s.seq++
}
