package mutex

import (
	"context"
	"sync"
)

// MultiMutex keeps one Mutex per key alive for as long as someone holds or waits on it.
type MultiMutex struct {
	mutexFactory MutexFactory
	mutexes      map[string]Mutex
	mutexCounts  map[string]int
	syncMutex    *sync.Mutex
}

func NewMultiMutex(mutexFactory MutexFactory) *MultiMutex {
	return &MultiMutex{
		mutexFactory: mutexFactory,
		mutexes:      make(map[string]Mutex),
		mutexCounts:  make(map[string]int),
		syncMutex:    &sync.Mutex{},
	}
}

func (m *MultiMutex) Lock(ctx context.Context, key string) error {
	mutex := m.retain(key)
	if err := mutex.Lock(ctx); err != nil {
		// Never held, give the reference back.
		m.release(key)
		return err
	}
	return nil
}

func (m *MultiMutex) Unlock(ctx context.Context, key string) error {
	m.syncMutex.Lock()
	mutex, ok := m.mutexes[key]
	m.syncMutex.Unlock()
	if !ok {
		panic("attempting to obtain unset mutex for unlock: " + key)
	}

	err := mutex.Unlock(ctx)
	m.release(key)
	return err
}

func (m *MultiMutex) retain(key string) Mutex {
	m.syncMutex.Lock()
	defer m.syncMutex.Unlock()

	mutex, ok := m.mutexes[key]
	if !ok {
		mutex = m.mutexFactory.Make(key)
		m.mutexes[key] = mutex
	}
	m.mutexCounts[key]++

	return mutex
}

func (m *MultiMutex) release(key string) {
	m.syncMutex.Lock()
	defer m.syncMutex.Unlock()

	m.mutexCounts[key]--
	if m.mutexCounts[key] <= 0 {
		delete(m.mutexes, key)
		delete(m.mutexCounts, key)
	}
}

// Len reports how many keys currently have a live mutex.
func (m *MultiMutex) Len() int {
	m.syncMutex.Lock()
	defer m.syncMutex.Unlock()

	return len(m.mutexes)
}
