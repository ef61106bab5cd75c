package invoicing

import "sync"

// keyLock serializes critical sections per string key. The registration
// manager uses it to make get-or-create-then-mutate atomic per
// (customer, year, month) within the process; the storage's unique
// constraint remains as the cross-process backstop.
type keyLock struct {
	mu    sync.Mutex
	locks map[string]*keyLockEntry
}

type keyLockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyLock() *keyLock {
	return &keyLock{locks: make(map[string]*keyLockEntry)}
}

// Lock acquires the lock for key and returns the matching unlock func.
// Entries are dropped once the last holder releases, so the map does not
// grow with the number of billing periods ever seen.
func (l *keyLock) Lock(key string) func() {
	l.mu.Lock()
	entry, ok := l.locks[key]
	if !ok {
		entry = &keyLockEntry{}
		l.locks[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}
