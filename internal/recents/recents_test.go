package recents

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/avaldiviar/colegio/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "recents.db"))
	if err := s.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTouchAndList(t *testing.T) {
	s := openTestStore(t)

	if err := s.Touch("alumno", models.Candidate{ID: "1", Label: "Quispe, Ana", Detail: "DNI 44556677"}); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	if err := s.Touch("alumno", models.Candidate{ID: "2", Label: "Rojas, Luis"}); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	if err := s.Touch("curso", models.Candidate{ID: "9", Label: "Matemática"}); err != nil {
		t.Fatalf("Touch: %v", err)
	}

	got, err := s.List("alumno", 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	// Newest first.
	if got[0].ID != "2" || got[1].ID != "1" {
		t.Errorf("order = %q, %q", got[0].ID, got[1].ID)
	}
	if got[1].Detail != "DNI 44556677" {
		t.Errorf("detail = %q", got[1].Detail)
	}
}

func TestTouchRefreshesExisting(t *testing.T) {
	s := openTestStore(t)

	s.Touch("alumno", models.Candidate{ID: "1", Label: "Quispe, Ana"})
	s.Touch("alumno", models.Candidate{ID: "2", Label: "Rojas, Luis"})
	s.Touch("alumno", models.Candidate{ID: "1", Label: "Quispe Mamani, Ana"})

	got, err := s.List("alumno", 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("duplicate row created: %d entries", len(got))
	}
	if got[0].ID != "1" || got[0].Label != "Quispe Mamani, Ana" {
		t.Errorf("refreshed entry = %+v", got[0])
	}
}

func TestOrderingWithinTheSameSecond(t *testing.T) {
	s := openTestStore(t)

	// Two touches inside one wall-clock second: the later one differs only
	// in the sub-second part and must still sort first.
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC).UnixNano()
	insert := func(id string, usedAt int64) {
		t.Helper()
		if _, err := s.db.Exec(`
			INSERT INTO recents (kind, id, label, used_at)
			VALUES ('alumno', ?, ?, ?)`, id, "Alumno "+id, usedAt); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	insert("whole", base)
	insert("fraction", base+int64(500*time.Millisecond))

	got, err := s.List("alumno", 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != "fraction" || got[1].ID != "whole" {
		t.Errorf("order = %+v", got)
	}
}

func TestListRespectsLimit(t *testing.T) {
	s := openTestStore(t)
	for _, id := range []string{"1", "2", "3", "4", "5"} {
		s.Touch("grado", models.Candidate{ID: id, Label: "Grado " + id})
	}
	got, err := s.List("grado", 3)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d entries, want 3", len(got))
	}
}
