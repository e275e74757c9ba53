// Package schedule implements the weekly schedule matrix behind the teacher
// assignment form: per-day time blocks, derived hour totals, and the
// comparison against the currículo's required weekly hours.
package schedule

import (
	"fmt"
	"time"

	"github.com/avaldiviar/colegio/internal/constants"
)

// Day is a working day, 1 = Monday through 5 = Friday. The week is fixed;
// there is no weekend configuration.
type Day int

const (
	Lunes Day = iota + 1
	Martes
	Miercoles
	Jueves
	Viernes
)

// Days lists the working days in display order.
var Days = []Day{Lunes, Martes, Miercoles, Jueves, Viernes}

var dayNames = map[Day]string{
	Lunes:     "Lunes",
	Martes:    "Martes",
	Miercoles: "Miércoles",
	Jueves:    "Jueves",
	Viernes:   "Viernes",
}

func (d Day) String() string {
	if n, ok := dayNames[d]; ok {
		return n
	}
	return fmt.Sprintf("Día(%d)", int(d))
}

// Block is one day's time range. Times are "HH:MM" strings, possibly empty
// while the operator is still filling the form.
type Block struct {
	Start string
	End   string
}

// Field selects which side of a block SetTime edits.
type Field int

const (
	FieldStart Field = iota
	FieldEnd
)

// Matrix maps active days to their block. A day present in the map is
// active; toggling a day off deletes its entry outright, there is no
// soft-disable that would retain stale times.
type Matrix map[Day]Block

// Toggle activates an inactive day with an empty block, or removes an active
// day along with its times.
func (m Matrix) Toggle(d Day) {
	if _, ok := m[d]; ok {
		delete(m, d)
		return
	}
	m[d] = Block{}
}

// Active reports whether the day currently has an entry.
func (m Matrix) Active(d Day) bool {
	_, ok := m[d]
	return ok
}

// SetTime updates one side of an active day's block. Inactive days are
// ignored; the form never shows time inputs for them.
func (m Matrix) SetTime(d Day, f Field, value string) {
	b, ok := m[d]
	if !ok {
		return
	}
	switch f {
	case FieldStart:
		b.Start = value
	case FieldEnd:
		b.End = value
	}
	m[d] = b
}

// AssignedMinutes sums the spans of all active days. Malformed or reversed
// ranges contribute zero, never a negative amount, so the total is always
// non-negative.
func (m Matrix) AssignedMinutes() int {
	total := 0
	for _, b := range m {
		total += b.minutes()
	}
	return total
}

func (b Block) minutes() int {
	start, err := parseMinutes(b.Start)
	if err != nil {
		return 0
	}
	end, err := parseMinutes(b.End)
	if err != nil {
		return 0
	}
	if end <= start {
		return 0
	}
	return end - start
}

// Overlaps reports whether two blocks on the same day intersect. Used for
// display when checking a new block against a docente's existing
// assignments; blocks that merely touch do not overlap.
func Overlaps(a, b Block) bool {
	as, err := parseMinutes(a.Start)
	if err != nil {
		return false
	}
	ae, err := parseMinutes(a.End)
	if err != nil {
		return false
	}
	bs, err := parseMinutes(b.Start)
	if err != nil {
		return false
	}
	be, err := parseMinutes(b.End)
	if err != nil {
		return false
	}
	return as < be && bs < ae
}

func parseMinutes(s string) (int, error) {
	t, err := time.Parse(constants.TimeFormat, s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Hour classifications as the backend and the status badge name them.
const (
	Incompleto = "incompleto"
	Completo   = "completo"
	Excedido   = "excedido"
	Neutral    = "neutral"
)

// Summary is the derived comparison between assigned and required weekly
// hours. It is recomputed from scratch on every edit; nothing here is
// stored.
type Summary struct {
	AssignedHours  float64
	RequiredHours  float64
	DeficitHours   float64
	Classification string
}

// Totals derives the hour summary for the matrix against the currículo's
// required weekly hours. A zero or unset requirement yields Neutral
// regardless of what is assigned.
func Totals(m Matrix, requiredHours float64) Summary {
	assigned := float64(m.AssignedMinutes()) / 60
	s := Summary{
		AssignedHours: assigned,
		RequiredHours: requiredHours,
	}
	if requiredHours <= 0 {
		s.Classification = Neutral
		return s
	}
	s.DeficitHours = requiredHours - assigned
	switch {
	case s.DeficitHours > 0:
		s.Classification = Incompleto
	case s.DeficitHours < 0:
		s.Classification = Excedido
	default:
		s.Classification = Completo
	}
	return s
}
