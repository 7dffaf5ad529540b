package store

import "sync"

// keyLocks hands out one mutex per collection key. Holding the mutex for
// the duration of a read-modify-write cycle makes saves to the same key
// apply in acquisition order instead of last-write-wins.
type keyLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

// acquire locks the mutex for key and returns it so callers can write
// `defer l.acquire(key).Unlock()`.
func (l *keyLocks) acquire(key string) *sync.Mutex {
	l.mu.Lock()
	if l.m == nil {
		l.m = make(map[string]*sync.Mutex)
	}
	km, ok := l.m[key]
	if !ok {
		km = &sync.Mutex{}
		l.m[key] = km
	}
	l.mu.Unlock()

	km.Lock()
	return km
}
