package store

import "sync"

// KeyMutex serializes operations per entity id. Read-modify-write sequences
// (adding a book to a challenge, merging settings) take the lock for their id
// so two racing updates cannot lose each other's writes; operations on
// different ids proceed independently.
type KeyMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyMutex creates an empty per-key mutex set.
func NewKeyMutex() *KeyMutex {
	return &KeyMutex{locks: make(map[string]*keyLock)}
}

// Lock acquires the mutex for key and returns the release func.
// Locks are created on demand and removed once no goroutine holds or waits
// on them, so the map does not grow with the keyspace.
func (k *KeyMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
