// Package adaptertest holds the behaviour every adapter.Adapter must show.
package adaptertest

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ezraisw/joblock/adapter"
	"github.com/stretchr/testify/suite"
)

// AdapterTestSuite runs against the adapter returned by New before every test.
type AdapterTestSuite struct {
	suite.Suite

	New func() adapter.Adapter

	adapter adapter.Adapter
	ctx     context.Context
}

func (s *AdapterTestSuite) SetupTest() {
	s.adapter = s.New()
	s.ctx = context.Background()
}

func (s *AdapterTestSuite) TestSetNXOnMissingKey() {
	stored, err := s.adapter.SetNX(s.ctx, "lock:missing", 100)
	s.Require().NoError(err)
	s.True(stored)

	value, err := s.adapter.Get(s.ctx, "lock:missing")
	s.Require().NoError(err)
	s.Equal(int64(100), value)
}

func (s *AdapterTestSuite) TestSetNXOnExistingKey() {
	_, err := s.adapter.SetNX(s.ctx, "lock:existing", 100)
	s.Require().NoError(err)

	stored, err := s.adapter.SetNX(s.ctx, "lock:existing", 200)
	s.Require().NoError(err)
	s.False(stored)

	value, err := s.adapter.Get(s.ctx, "lock:existing")
	s.Require().NoError(err)
	s.Equal(int64(100), value)
}

func (s *AdapterTestSuite) TestGetMissingKey() {
	_, err := s.adapter.Get(s.ctx, "lock:nothing")
	s.ErrorIs(err, adapter.ErrNotFound)
}

func (s *AdapterTestSuite) TestGetSetReturnsPrevious() {
	_, err := s.adapter.SetNX(s.ctx, "lock:swap", 100)
	s.Require().NoError(err)

	previous, err := s.adapter.GetSet(s.ctx, "lock:swap", 300)
	s.Require().NoError(err)
	s.Equal(int64(100), previous)

	value, err := s.adapter.Get(s.ctx, "lock:swap")
	s.Require().NoError(err)
	s.Equal(int64(300), value)
}

func (s *AdapterTestSuite) TestGetSetMissingKey() {
	_, err := s.adapter.GetSet(s.ctx, "lock:fresh", 300)
	s.ErrorIs(err, adapter.ErrNotFound)

	value, err := s.adapter.Get(s.ctx, "lock:fresh")
	s.Require().NoError(err)
	s.Equal(int64(300), value)
}

func (s *AdapterTestSuite) TestDelete() {
	_, err := s.adapter.SetNX(s.ctx, "lock:gone", 100)
	s.Require().NoError(err)

	s.Require().NoError(s.adapter.Delete(s.ctx, "lock:gone"))

	_, err = s.adapter.Get(s.ctx, "lock:gone")
	s.ErrorIs(err, adapter.ErrNotFound)

	// Deleting again is fine.
	s.NoError(s.adapter.Delete(s.ctx, "lock:gone"))
}

func (s *AdapterTestSuite) TestConcurrentSetNXHasOneWinner() {
	const workers = 16

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stored, err := s.adapter.SetNX(s.ctx, "lock:race", int64(i))
			if err == nil && stored {
				atomic.AddInt32(&wins, 1)
			}
		}(i)
	}
	wg.Wait()

	s.Equal(int32(1), wins)
}

func (s *AdapterTestSuite) TestConcurrentGetSetSeesEveryValueOnce() {
	const workers = 16

	_, err := s.adapter.SetNX(s.ctx, "lock:chain", -1)
	s.Require().NoError(err)

	seen := make(chan int64, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			previous, err := s.adapter.GetSet(s.ctx, "lock:chain", int64(i))
			if err == nil {
				seen <- previous
			}
		}(i)
	}
	wg.Wait()
	close(seen)

	// Every swap observes a distinct predecessor.
	unique := make(map[int64]struct{})
	for v := range seen {
		_, dup := unique[v]
		s.False(dup, fmt.Sprintf("value %d observed twice", v))
		unique[v] = struct{}{}
	}
	s.Len(unique, workers)
}
