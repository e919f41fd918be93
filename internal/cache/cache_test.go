package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingle_CachesWithinTTL(t *testing.T) {
	s := NewSingle[string]()
	fetches := 0

	for i := 0; i < 3; i++ {
		v, err := s.Get("k", time.Minute, func() (string, error) {
			fetches++
			return "value", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "value", v)
	}
	assert.Equal(t, 1, fetches)
}

func TestSingle_ErrorIsNotCached(t *testing.T) {
	s := NewSingle[string]()

	_, err := s.Get("k", time.Minute, func() (string, error) {
		return "", errors.New("boom")
	})
	require.Error(t, err)

	v, err := s.Get("k", time.Minute, func() (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestSingle_ConcurrentFetchesCollapse(t *testing.T) {
	s := NewSingle[int]()
	var fetches atomic.Int32

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := s.Get("k", time.Minute, func() (int, error) {
				fetches.Add(1)
				time.Sleep(10 * time.Millisecond)
				return 42, nil
			})
			assert.NoError(t, err)
			assert.Equal(t, 42, v)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), fetches.Load())
}

func TestSingle_Forget(t *testing.T) {
	s := NewSingle[string]()
	fetches := 0
	fetch := func() (string, error) {
		fetches++
		return "v", nil
	}

	s.Get("k", time.Minute, fetch)
	s.Forget("k")
	s.Get("k", time.Minute, fetch)
	assert.Equal(t, 2, fetches)
}
