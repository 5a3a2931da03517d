//go:build sortlock_spin

package sortlock

type (
	mutex   = ticketLock
	rwMutex = spinRWLock
)
