package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/avaldiviar/colegio/internal/api"
	"github.com/avaldiviar/colegio/internal/constants"
	"github.com/avaldiviar/colegio/internal/models"
	"github.com/avaldiviar/colegio/internal/tui/components/caja"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	client, err := api.New("http://localhost:1", "token", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(client, nil, t.TempDir())
}

func TestTabCyclingWrapsAroundMainTabs(t *testing.T) {
	m := newTestModel(t)

	for i := 0; i < int(constants.NumMainTabs); i++ {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
		m = next.(Model)
	}
	if m.state != constants.StateAlumnos {
		t.Errorf("state after full cycle = %d", m.state)
	}
}

func TestConfirmAnularDecline(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(caja.AnularPagoMsg{Pago: models.Pago{ID: "p1", Recibo: "R-001"}})
	m = next.(Model)
	if m.state != constants.StateConfirmAnular {
		t.Fatalf("state = %d", m.state)
	}
	if !strings.Contains(m.View(), "R-001") {
		t.Error("confirmation view lacks receipt number")
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m = next.(Model)
	if cmd != nil {
		t.Error("declined confirmation issued a command")
	}
	if m.state != constants.StateCaja {
		t.Errorf("state after decline = %d", m.state)
	}
	if m.pagoToAnular != nil {
		t.Error("void target not cleared")
	}
}

func TestPagoStoredUpdatesHistoryAndStatus(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(pagoStoredMsg{
		pago:       models.Pago{ID: "p1", Recibo: "R-001", Monto: 350},
		ticketPath: "/tmp/tickets/R-001.pdf",
	})
	m = next.(Model)

	if !strings.Contains(m.status, "R-001") {
		t.Errorf("status = %q", m.status)
	}
	m.state = constants.StateCaja
	if !strings.Contains(m.View(), "R-001") {
		t.Error("caja view lacks the recorded payment")
	}
}

func TestSaveTicketNamesFileFromReceipt(t *testing.T) {
	dir := t.TempDir()
	pdf := []byte("%PDF-1.4 fake ticket")

	path := saveTicket(dir, models.Pago{Recibo: "R-001", Monto: 350}, pdf)
	if filepath.Base(path) != "R-001.pdf" {
		t.Errorf("path = %q", path)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading ticket: %v", err)
	}
	if string(got) != string(pdf) {
		t.Error("ticket bytes do not round-trip")
	}

	// A record with no receipt or id must still get a distinct name, never
	// a bare ".pdf" that later tickets would overwrite.
	first := saveTicket(dir, models.Pago{}, pdf)
	second := saveTicket(dir, models.Pago{}, pdf)
	if filepath.Base(first) == ".pdf" || filepath.Base(second) == ".pdf" {
		t.Errorf("unnamed ticket: %q, %q", first, second)
	}
	if first == second {
		t.Errorf("distinct payments share a ticket file: %q", first)
	}
}

func TestAPIErrorShownInStatusLine(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(apiErrMsg{err: api.ErrUnauthorized})
	m = next.(Model)

	if !strings.Contains(m.View(), m.errMsg) || m.errMsg == "" {
		t.Errorf("error not surfaced: %q", m.errMsg)
	}
}
