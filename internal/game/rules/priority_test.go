package rules

import "testing"

func TestPriorityWindowResponders(t *testing.T) {
	w := NewPriorityWindow(PhaseMain, 2, "bob", []string{"alice", "bob", "carol"})
	if w.ActivePlayer != "bob" || w.Phase != PhaseMain || w.Round != 2 {
		t.Fatalf("unexpected window %+v", w)
	}
	if len(w.Responders) != 2 || w.Responders[0] != "carol" || w.Responders[1] != "alice" {
		t.Fatalf("expected [carol alice], got %v", w.Responders)
	}
	if w.ID == "" {
		t.Fatalf("expected window ID")
	}
}
