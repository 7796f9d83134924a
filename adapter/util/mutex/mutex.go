package mutex

import "context"

type MutexFactory interface {
	Make(key string) Mutex
}

// Mutex guards a single key. Lock must give up once ctx is done.
type Mutex interface {
	Lock(ctx context.Context) error
	Unlock(ctx context.Context) error
}
