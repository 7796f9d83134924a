package sync

import (
	"context"

	"github.com/ezraisw/joblock/adapter/util/mutex"
)

type chanMutexFactory struct {
}

func NewMutexFactory() mutex.MutexFactory {
	return &chanMutexFactory{}
}

func (m chanMutexFactory) Make(key string) mutex.Mutex {
	return &chanMutex{
		ch: make(chan struct{}, 1),
	}
}

// chanMutex is a mutex whose Lock can be abandoned through the context.
type chanMutex struct {
	ch chan struct{}
}

func (m chanMutex) Lock(ctx context.Context) error {
	select {
	case m.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m chanMutex) Unlock(ctx context.Context) error {
	select {
	case <-m.ch:
		return nil
	default:
		panic("unlock of unlocked mutex")
	}
}
