package goredis

import (
	"context"
	"errors"

	"github.com/ezraisw/joblock/adapter"
	"github.com/redis/go-redis/v9"
)

type goredisAdapter struct {
	client redis.UniversalClient
}

func NewAdapter(client redis.UniversalClient) adapter.Adapter {
	return &goredisAdapter{
		client: client,
	}
}

func (a goredisAdapter) SetNX(ctx context.Context, key string, value int64) (bool, error) {
	// Zero expiration. Lock records carry their own expiry as the value.
	return a.client.SetNX(ctx, key, value, 0).Result()
}

func (a goredisAdapter) Get(ctx context.Context, key string) (int64, error) {
	value, err := a.client.Get(ctx, key).Int64()
	if err != nil {
		return 0, mapNil(err)
	}

	return value, nil
}

func (a goredisAdapter) GetSet(ctx context.Context, key string, value int64) (int64, error) {
	previous, err := a.client.GetSet(ctx, key, value).Int64()
	if err != nil {
		return 0, mapNil(err)
	}

	return previous, nil
}

func (a goredisAdapter) Delete(ctx context.Context, key string) error {
	return a.client.Del(ctx, key).Err()
}

func mapNil(err error) error {
	if errors.Is(err, redis.Nil) {
		return adapter.ErrNotFound
	}
	return err
}
