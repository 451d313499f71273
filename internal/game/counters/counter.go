package counters

import "sort"

// Counters tracks how many counters of each type sit on one instance.
// Types with a zero count are never stored.
type Counters struct {
	counts map[CounterType]int
}

// NewCounters creates an empty set.
func NewCounters() *Counters {
	return &Counters{counts: make(map[CounterType]int)}
}

// Add places amount counters of type ct. Non-positive amounts are ignored.
func (cs *Counters) Add(ct CounterType, amount int) {
	if amount <= 0 {
		return
	}
	cs.counts[ct] += amount
}

// RemoveCounter takes up to amount counters named name off the instance and
// reports whether any were present.
func (cs *Counters) RemoveCounter(name string, amount int) bool {
	ct := CounterType(name)
	have, ok := cs.counts[ct]
	if !ok || amount <= 0 {
		return false
	}
	if amount >= have {
		delete(cs.counts, ct)
	} else {
		cs.counts[ct] = have - amount
	}
	return true
}

// GetCount returns the number of counters named name.
func (cs *Counters) GetCount(name string) int {
	return cs.counts[CounterType(name)]
}

// HasCounter reports whether at least one counter named name is present.
func (cs *Counters) HasCounter(name string) bool {
	return cs.GetCount(name) > 0
}

// StatBoost totals the attack/health bonus granted by every counter.
func (cs *Counters) StatBoost() (attack, health int) {
	for ct, n := range cs.counts {
		a, h := ct.StatBoost()
		attack += a * n
		health += h * n
	}
	return attack, health
}

// Clear removes every counter.
func (cs *Counters) Clear() {
	clear(cs.counts)
}

// Names returns the present counter names in sorted order.
func (cs *Counters) Names() []string {
	names := make([]string, 0, len(cs.counts))
	for ct := range cs.counts {
		names = append(names, string(ct))
	}
	sort.Strings(names)
	return names
}

// Copy returns an independent copy.
func (cs *Counters) Copy() *Counters {
	out := NewCounters()
	for ct, n := range cs.counts {
		out.counts[ct] = n
	}
	return out
}
