package counters

import "testing"

func TestCountersAddRemove(t *testing.T) {
	cs := NewCounters()
	cs.Add(CounterShield, 1)
	cs.Add(CounterShield, 1)
	if got := cs.GetCount("Shield"); got != 2 {
		t.Fatalf("expected 2 shields, got %d", got)
	}
	if !cs.RemoveCounter("Shield", 5) {
		t.Fatalf("expected removal to succeed")
	}
	if cs.HasCounter("Shield") {
		t.Fatalf("expected shield counters to be gone")
	}
	if cs.RemoveCounter("Shield", 1) {
		t.Fatalf("expected removal of missing counter to fail")
	}
}

func TestCountersStatBoost(t *testing.T) {
	cs := NewCounters()
	cs.Add(CounterExperience, 2)
	cs.Add(CounterShield, 1)
	a, h := cs.StatBoost()
	if a != 2 || h != 2 {
		t.Fatalf("expected +2/+2, got +%d/+%d", a, h)
	}
}

func TestCountersCopyIsIndependent(t *testing.T) {
	cs := NewCounters()
	cs.Add(CounterExperience, 1)
	cp := cs.Copy()
	cp.Add(CounterExperience, 3)
	if cs.GetCount("Experience") != 1 {
		t.Fatalf("copy mutated original")
	}
	if names := cp.Names(); len(names) != 1 || names[0] != "Experience" {
		t.Fatalf("unexpected names %v", names)
	}
}
