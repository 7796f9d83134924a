package redigo

import (
	"context"
	"errors"

	"github.com/ezraisw/joblock/adapter"
	"github.com/gomodule/redigo/redis"
)

type redigoAdapter struct {
	pool *redis.Pool
}

func NewAdapter(pool *redis.Pool) adapter.Adapter {
	return &redigoAdapter{
		pool: pool,
	}
}

func (a redigoAdapter) SetNX(ctx context.Context, key string, value int64) (bool, error) {
	var stored bool
	err := a.with(ctx, func(conn redis.Conn) (err error) {
		stored, err = redis.Bool(redis.DoContext(conn, ctx, CommandSetNX, key, value))
		return err
	})
	return stored, err
}

func (a redigoAdapter) Get(ctx context.Context, key string) (int64, error) {
	var value int64
	err := a.with(ctx, func(conn redis.Conn) (err error) {
		value, err = redis.Int64(redis.DoContext(conn, ctx, CommandGet, key))
		return err
	})
	return value, mapNil(err)
}

func (a redigoAdapter) GetSet(ctx context.Context, key string, value int64) (int64, error) {
	var previous int64
	err := a.with(ctx, func(conn redis.Conn) (err error) {
		previous, err = redis.Int64(redis.DoContext(conn, ctx, CommandGetSet, key, value))
		return err
	})
	return previous, mapNil(err)
}

func (a redigoAdapter) Delete(ctx context.Context, key string) error {
	return a.with(ctx, func(conn redis.Conn) error {
		_, err := redis.DoContext(conn, ctx, CommandDel, key)
		return err
	})
}

func (a redigoAdapter) with(ctx context.Context, fn func(redis.Conn) error) error {
	conn, err := a.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(conn)
}

func mapNil(err error) error {
	if errors.Is(err, redis.ErrNil) {
		return adapter.ErrNotFound
	}
	return err
}
