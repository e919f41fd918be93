package cache

import (
	"time"

	"github.com/puzpuzpuz/xsync/v4"
	"golang.org/x/sync/singleflight"
)

type entry[T any] struct {
	value     T
	fetchedAt time.Time
}

// Single caches idempotent fetches by key and collapses concurrent fetches
// for the same key into one call. A stale entry is served immediately while
// a refresh runs in the background.
type Single[T any] struct {
	entries *xsync.Map[string, entry[T]]
	sfg     singleflight.Group
}

func NewSingle[T any]() *Single[T] {
	return &Single[T]{
		entries: xsync.NewMap[string, entry[T]](),
	}
}

func (s *Single[T]) Get(key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	if e, ok := s.entries.Load(key); ok {
		if time.Since(e.fetchedAt) > ttl {
			go func() {
				s.sfg.Do(key, func() (any, error) {
					value, err := fn()
					if err == nil {
						s.entries.Store(key, entry[T]{value: value, fetchedAt: time.Now()})
					}
					return nil, nil
				})
			}()
		}
		return e.value, nil
	}

	v, err, _ := s.sfg.Do(key, func() (any, error) {
		if e, ok := s.entries.Load(key); ok {
			return e, nil
		}
		value, err := fn()
		if err != nil {
			return nil, err
		}
		e := entry[T]{value: value, fetchedAt: time.Now()}
		s.entries.Store(key, e)
		return e, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(entry[T]).value, nil
}

// Forget drops the cached entry for key so the next Get refetches.
func (s *Single[T]) Forget(key string) {
	s.entries.Delete(key)
}
