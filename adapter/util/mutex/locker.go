package mutex

import "context"

// Locker hands out keyed locks. Obtain blocks until the key is free or ctx is done.
type Locker interface {
	Obtain(ctx context.Context, key string) (Lock, error)
}

type Lock interface {
	Release(ctx context.Context) error
}
