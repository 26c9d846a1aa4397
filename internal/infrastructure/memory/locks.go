package memory

import "sync"

type keyedLock struct {
	rw   sync.RWMutex
	refs int
}

// keyedLocks выдаёт RWMutex на строку и освобождает его, когда держателей не осталось.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[string]*keyedLock)}
}

func (k *keyedLocks) acquire(key string, exclusive bool) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	if exclusive {
		l.rw.Lock()
	} else {
		l.rw.RLock()
	}

	return func() {
		if exclusive {
			l.rw.Unlock()
		} else {
			l.rw.RUnlock()
		}

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
