package joblock

import (
	"context"
	"time"
)

type (
	// ActionFunc is the guarded unit of work.
	ActionFunc func(ctx context.Context) (interface{}, error)

	// KeyFunc derives the lock identifier of a job from its name and arguments.
	// It must be pure: identical inputs always give the identical identifier.
	KeyFunc func(name string, args []interface{}) (string, error)

	// Symbol is an interned name argument. It is keyed exactly like its string form.
	Symbol string

	Job interface {
		// Name of the job type. Used as a base for the lock key.
		Name() string

		// Set how long a claim stays valid. Rounded up to whole seconds.
		// Must exceed the longest expected run of the job plus scheduling and clock skew.
		SetTimeout(time.Duration) Job

		// Set the key derivation for this job type, e.g. NameKeyFunc for one global lock.
		SetKeyFunc(KeyFunc) Job

		// Set context for the store calls and the action.
		SetContext(context.Context) Job

		// Derive the lock identifier for the given arguments.
		Key(args ...interface{}) (string, error)

		// Pre-admission hook. Returns false when another valid claim exists,
		// in which case the job must not be scheduled now.
		Admit(args ...interface{}) (bool, error)

		// Execution guard. Runs action once and always releases the lock afterwards.
		// Errors from action are returned unchanged.
		Perform(action ActionFunc, args ...interface{}) (interface{}, error)

		// Whether a valid claim currently exists for the given arguments.
		Locked(args ...interface{}) (bool, error)

		// Delete the claim for the given arguments.
		Release(args ...interface{}) error
	}

	Manager interface {
		// Create a job type. The name will be used as a base for the lock key.
		On(name string) Job

		// Make a single attempt at claiming key for timeout.
		TryAcquire(ctx context.Context, key string, timeout time.Duration) (bool, error)

		// Run action and delete key on every exit path.
		RunGuarded(ctx context.Context, key string, action ActionFunc) (interface{}, error)

		// Whether a valid claim exists for key.
		Held(ctx context.Context, key string) (bool, error)

		// Delete the claim at key.
		Release(ctx context.Context, key string) error
	}

	// Keyable arguments provide their own stable representation for keys.
	Keyable interface {
		Key() (string, error)
	}
)
