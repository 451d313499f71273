package rules

import "sync"

// Watcher observes events and tracks a condition until it is reset.
type Watcher interface {
	// Watch is called for every published event.
	Watch(event Event)

	// Reset clears the watcher's condition and state.
	Reset()

	// ConditionMet returns true if the condition this watcher tracks has been met.
	ConditionMet() bool

	// ResetTiming is the timing at which the registry resets this watcher.
	ResetTiming() Timing

	// GetKey returns a unique key for this watcher instance.
	GetKey() string
}

// BaseWatcher provides the bookkeeping shared by all watchers.
type BaseWatcher struct {
	resetOn   Timing
	condition bool
	key       string
}

// NewBaseWatcher creates a base watcher reset at the given timing.
func NewBaseWatcher(resetOn Timing, key string) *BaseWatcher {
	return &BaseWatcher{resetOn: resetOn, key: key}
}

// ResetTiming returns the timing at which the watcher is reset.
func (bw *BaseWatcher) ResetTiming() Timing {
	return bw.resetOn
}

// ConditionMet returns whether the condition has been met.
func (bw *BaseWatcher) ConditionMet() bool {
	return bw.condition
}

// SetCondition sets the condition flag.
func (bw *BaseWatcher) SetCondition(condition bool) {
	bw.condition = condition
}

// Reset clears the condition.
func (bw *BaseWatcher) Reset() {
	bw.condition = false
}

// GetKey returns the unique key for this watcher.
func (bw *BaseWatcher) GetKey() string {
	return bw.key
}

// WatcherRegistry manages watchers for a game.
type WatcherRegistry struct {
	mu       sync.RWMutex
	watchers []Watcher
}

// NewWatcherRegistry creates a new watcher registry.
func NewWatcherRegistry() *WatcherRegistry {
	return &WatcherRegistry{}
}

// AddWatcher adds a watcher, replacing any watcher registered under the same key.
func (wr *WatcherRegistry) AddWatcher(watcher Watcher) {
	if watcher == nil {
		return
	}
	wr.mu.Lock()
	defer wr.mu.Unlock()
	for i, w := range wr.watchers {
		if w.GetKey() == watcher.GetKey() {
			wr.watchers[i] = watcher
			return
		}
	}
	wr.watchers = append(wr.watchers, watcher)
}

// RemoveWatcher removes a watcher from the registry.
func (wr *WatcherRegistry) RemoveWatcher(key string) {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	for i, w := range wr.watchers {
		if w.GetKey() == key {
			wr.watchers = append(wr.watchers[:i], wr.watchers[i+1:]...)
			return
		}
	}
}

// GetWatcher retrieves a watcher by key.
func (wr *WatcherRegistry) GetWatcher(key string) Watcher {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	for _, w := range wr.watchers {
		if w.GetKey() == key {
			return w
		}
	}
	return nil
}

// ResetWatchers resets the watchers whose reset timing matches.
func (wr *WatcherRegistry) ResetWatchers(timing Timing) {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	for _, w := range wr.watchers {
		if w.ResetTiming() == timing {
			w.Reset()
		}
	}
}

// NotifyWatchers notifies all watchers of an event.
func (wr *WatcherRegistry) NotifyWatchers(event Event) {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	for _, w := range wr.watchers {
		w.Watch(event)
	}
}
