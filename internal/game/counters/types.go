package counters

// CounterType names a kind of counter that can sit on a card instance.
type CounterType string

const (
	// CounterShield prevents the next damage event dealt to the host, then is removed.
	CounterShield CounterType = "Shield"
	// CounterExperience grants +1/+1 per counter.
	CounterExperience CounterType = "Experience"
)

// String returns the counter type name.
func (ct CounterType) String() string {
	return string(ct)
}

// StatBoost returns the attack/health bonus a single counter of this type grants.
func (ct CounterType) StatBoost() (attack, health int) {
	if ct == CounterExperience {
		return 1, 1
	}
	return 0, 0
}
