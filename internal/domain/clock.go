package domain

import "github.com/jonboulle/clockwork"

// clock stamps SnapshotEvent.GeneratedAt. Tests freeze it with SetClock.
var clock = clockwork.NewRealClock()

// SetClock replaces the event time source. nil restores the real clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
