package joblock

import (
	"context"
	"errors"
	"time"

	"github.com/ezraisw/joblock/adapter"
	"github.com/ezraisw/joblock/codec"
	"github.com/ezraisw/joblock/logger"
	"github.com/ezraisw/joblock/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/ezraisw/joblock"

const (
	TimeoutDefault = time.Duration(3600) * time.Second
)

type (
	defaultManager struct {
		adapter adapter.Adapter
		codec   codec.Codec
		logger  logger.Logger

		now          func() time.Time
		prefix       string
		timeout      time.Duration
		metrics      *metrics.Collector
		tracer       trace.Tracer
		traceEnabled bool
	}

	defaultJob struct {
		m       *defaultManager
		name    string
		timeout time.Duration
		keyFunc KeyFunc
		ctx     context.Context
	}
)

// NewManager creates a Manager storing lock records through adapter.
// codec encodes job arguments for the default key function.
func NewManager(adapter adapter.Adapter, codec codec.Codec, logger logger.Logger, opts ...Option) Manager {
	m := &defaultManager{
		adapter: adapter,
		codec:   codec,
		logger:  logger,
		now:     time.Now,
		prefix:  PrefixDefault,
		timeout: TimeoutDefault,
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *defaultManager) On(name string) Job {
	return &defaultJob{
		m:       m,
		name:    name,
		timeout: m.timeout,
		keyFunc: CodecKeyFunc(m.prefix, m.codec),
		ctx:     context.Background(),
	}
}

func (m *defaultManager) TryAcquire(ctx context.Context, key string, timeout time.Duration) (bool, error) {
	var span trace.Span
	if m.traceEnabled {
		ctx, span = m.tracer.Start(ctx, "Manager.TryAcquire", trace.WithAttributes(attribute.String("joblock.key", key)))
		defer span.End()
	}

	result, err := m.acquire(ctx, key, timeout)
	if err != nil {
		result = metrics.ResultError
	}
	m.metrics.ObserveAcquire(result)

	if m.traceEnabled {
		span.SetAttributes(attribute.String("joblock.result", result))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}

	if err != nil {
		return false, err
	}
	return result == metrics.ResultAcquired || result == metrics.ResultReclaimed, nil
}

// acquire makes one attempt at claiming key and reports the outcome.
// The stored value is the epoch second after which the claim is stale.
func (m *defaultManager) acquire(ctx context.Context, key string, timeout time.Duration) (string, error) {
	now := m.now().Unix()
	// One extra second so a claim made at the end of a second is not stale within it.
	expiry := now + m.timeoutSeconds(timeout) + 1

	stored, err := m.adapter.SetNX(ctx, key, expiry)
	if err != nil {
		return "", newLockError(CategorySetNX, "error while claiming lock", key, err)
	}
	if stored {
		m.logger.Debug("lock acquired", key)
		return metrics.ResultAcquired, nil
	}

	current, err := m.readExpiry(ctx, key)
	if err != nil {
		return "", err
	}
	if now <= current {
		m.logger.Debug("lock contended", key)
		return metrics.ResultContended, nil
	}

	// Stale. Whoever swaps out a still stale value owns the lock.
	previous, err := m.adapter.GetSet(ctx, key, expiry)
	if err != nil {
		if !errors.Is(err, adapter.ErrNotFound) {
			return "", newLockError(CategoryGetSet, "error while reclaiming lock", key, err)
		}
		previous = 0
	}
	if now > previous {
		m.logger.Info("stale lock reclaimed", key, "expired at", current)
		return metrics.ResultReclaimed, nil
	}

	m.logger.Debug("lock reclaimed by another worker", key)
	return metrics.ResultLost, nil
}

// readExpiry returns 0 for a missing record, which is always stale.
func (m *defaultManager) readExpiry(ctx context.Context, key string) (int64, error) {
	expiry, err := m.adapter.Get(ctx, key)
	if err != nil {
		if errors.Is(err, adapter.ErrNotFound) {
			return 0, nil
		}
		return 0, newLockError(CategoryGet, "error while reading lock", key, err)
	}
	return expiry, nil
}

func (m *defaultManager) timeoutSeconds(timeout time.Duration) int64 {
	if timeout <= 0 {
		timeout = m.timeout
	}
	secs := int64(timeout / time.Second)
	if timeout%time.Second != 0 {
		secs++
	}
	return secs
}

func (m *defaultManager) RunGuarded(ctx context.Context, key string, action ActionFunc) (value interface{}, err error) {
	var span trace.Span
	if m.traceEnabled {
		ctx, span = m.tracer.Start(ctx, "Manager.RunGuarded", trace.WithAttributes(attribute.String("joblock.key", key)))
		defer span.End()
	}

	start := time.Now()
	defer func() {
		m.metrics.ObserveGuarded(time.Since(start))

		// The record must go even if the action cancelled ctx.
		releaseErr := m.Release(context.WithoutCancel(ctx), key)
		if releaseErr != nil {
			if err != nil {
				// The action's error is returned unchanged, so callers comparing it with ==
				// still match. The delete failure is only logged; the record turns stale
				// and gets reclaimed.
				m.logger.Error("error while releasing lock after failed action", key, releaseErr)
			} else {
				err = releaseErr
			}
		}

		if m.traceEnabled && err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	m.logger.Debug("perform action", key)
	return action(ctx)
}

func (m *defaultManager) Held(ctx context.Context, key string) (bool, error) {
	expiry, err := m.adapter.Get(ctx, key)
	if err != nil {
		if errors.Is(err, adapter.ErrNotFound) {
			return false, nil
		}
		return false, newLockError(CategoryGet, "error while reading lock", key, err)
	}
	return m.now().Unix() <= expiry, nil
}

func (m *defaultManager) Release(ctx context.Context, key string) error {
	if err := m.adapter.Delete(ctx, key); err != nil {
		m.metrics.ObserveRelease(metrics.ResultError)
		return newLockError(CategoryDelete, "error while releasing lock", key, err)
	}

	m.metrics.ObserveRelease(metrics.ResultOK)
	m.logger.Debug("lock released", key)
	return nil
}

func (j *defaultJob) Name() string {
	return j.name
}

func (j *defaultJob) SetTimeout(timeout time.Duration) Job {
	if timeout <= 0 {
		timeout = j.m.timeout
	}
	j.timeout = timeout
	return j
}

func (j *defaultJob) SetKeyFunc(keyFunc KeyFunc) Job {
	if keyFunc == nil {
		panic("nil key func")
	}

	j.keyFunc = keyFunc
	return j
}

func (j *defaultJob) SetContext(ctx context.Context) Job {
	j.ctx = ctx
	return j
}

func (j *defaultJob) Key(args ...interface{}) (string, error) {
	key, err := j.keyFunc(j.name, args)
	if err != nil {
		return "", newLockError(CategoryKey, "error while creating key", "", err)
	}

	j.m.logger.Debug("name", j.name, "key", key)
	return key, nil
}

func (j *defaultJob) Admit(args ...interface{}) (bool, error) {
	key, err := j.Key(args...)
	if err != nil {
		return false, err
	}

	return j.m.TryAcquire(j.ctx, key, j.timeout)
}

func (j *defaultJob) Perform(action ActionFunc, args ...interface{}) (interface{}, error) {
	key, err := j.Key(args...)
	if err != nil {
		return nil, err
	}

	return j.m.RunGuarded(j.ctx, key, action)
}

func (j *defaultJob) Locked(args ...interface{}) (bool, error) {
	key, err := j.Key(args...)
	if err != nil {
		return false, err
	}

	return j.m.Held(j.ctx, key)
}

func (j *defaultJob) Release(args ...interface{}) error {
	key, err := j.Key(args...)
	if err != nil {
		return err
	}

	return j.m.Release(j.ctx, key)
}
