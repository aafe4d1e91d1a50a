package services

import "sync"

// bookingLocks serializes check-then-insert sequences per party so two
// concurrent requests for the same faculty member or facility cannot
// both pass the conflict check before either writes. Single-process
// deployment only; a multi-instance deployment needs the check moved
// into a database transaction with a serializable predicate.
var bookingLocks sync.Map

func lockParty(key string) func() {
	v, _ := bookingLocks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
