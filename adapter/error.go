package adapter

import "errors"

var (
	ErrNotFound     = errors.New("joblock: not found")
	ErrFailedLock   = errors.New("joblock: failed lock")
	ErrFailedUnlock = errors.New("joblock: failed unlock")
)
