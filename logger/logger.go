package logger

// Logger receives lock lifecycle events. Debug for every protocol step,
// Info for reclaimed stale locks, Error for release failures that could not be returned.
type Logger interface {
	Info(...any)
	Debug(...any)
	Error(...any)
}
