package goredis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/ezraisw/joblock/adapter"
	"github.com/ezraisw/joblock/adapter/adaptertest"
	"github.com/ezraisw/joblock/adapter/goredis"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func newClient(t *testing.T) (*miniredis.Miniredis, redis.UniversalClient) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return mr, client
}

func TestRunGoredisAdapterTestSuite(t *testing.T) {
	mr, client := newClient(t)

	suite.Run(t, &adaptertest.AdapterTestSuite{
		New: func() adapter.Adapter {
			mr.FlushAll()
			return goredis.NewAdapter(client)
		},
	})
}

func TestStoresPlainIntegers(t *testing.T) {
	mr, client := newClient(t)
	a := goredis.NewAdapter(client)

	_, err := a.SetNX(context.Background(), "lock:plain", 1700000000)
	require.NoError(t, err)

	raw, err := mr.Get("lock:plain")
	require.NoError(t, err)
	assert.Equal(t, "1700000000", raw)
	// No store level expiry.
	assert.Zero(t, mr.TTL("lock:plain"))
}

func TestGetNonIntegerValue(t *testing.T) {
	mr, client := newClient(t)
	a := goredis.NewAdapter(client)

	require.NoError(t, mr.Set("lock:garbage", "abc"))

	_, err := a.Get(context.Background(), "lock:garbage")
	require.Error(t, err)
	assert.NotErrorIs(t, err, adapter.ErrNotFound)
}

func TestUnreachableServer(t *testing.T) {
	mr, client := newClient(t)
	a := goredis.NewAdapter(client)
	mr.Close()

	_, err := a.SetNX(context.Background(), "lock:down", 1)
	assert.Error(t, err)
}
