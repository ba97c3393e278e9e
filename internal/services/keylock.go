package services

import "sync"

// keyLock serializes read-modify-write cycles per storage key. Scheduling
// mutations load a document, transform it and write it back; two concurrent
// mutations on the same lecture or item would otherwise lose one of the
// writes. The lock table is never pruned; the key space of a personal study
// database stays small.
type keyLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyLock() *keyLock {
	return &keyLock{locks: make(map[string]*sync.Mutex)}
}

func (k *keyLock) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	if m, ok := k.locks[key]; ok {
		return m
	}
	m := &sync.Mutex{}
	k.locks[key] = m
	return m
}

// Lock acquires the mutex for key and returns its unlock function.
func (k *keyLock) Lock(key string) func() {
	m := k.get(key)
	m.Lock()
	return m.Unlock
}
