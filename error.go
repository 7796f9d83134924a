package joblock

import (
	"errors"
	"fmt"
)

const (
	CategoryKey    = "key"
	CategorySetNX  = "setnx"
	CategoryGet    = "get"
	CategoryGetSet = "getset"
	CategoryDelete = "delete"
)

type lockError struct {
	category    string
	message     string
	key         string
	previousErr error
}

func newLockError(category string, message string, key string, previousErr error) *lockError {
	return &lockError{
		category:    category,
		message:     message,
		key:         key,
		previousErr: previousErr,
	}
}

func (e lockError) Error() string {
	if e.key == "" {
		return fmt.Sprintf("%s (%s)", e.message, e.previousErr.Error())
	}
	return fmt.Sprintf("%s %s (%s)", e.message, e.key, e.previousErr.Error())
}

func (e lockError) Unwrap() error {
	return e.previousErr
}

// ErrorCategory reports which step failed for errors returned by this package.
// Errors returned by guarded actions have no category.
func ErrorCategory(err error) (string, bool) {
	var lErr *lockError
	if errors.As(err, &lErr) {
		return lErr.category, true
	}
	return "", false
}
