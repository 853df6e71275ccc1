package storage

import (
	"strings"
	"sync"

	"github.com/zhangyunhao116/skipmap"
)

var _ Storage[[]byte] = (*orderedStorage[[]byte])(nil)

// NewOrderedStorage keeps keys in a concurrent skip list, ranges walk it in order.
func NewOrderedStorage[V any]() *orderedStorage[V] {
	return &orderedStorage[V]{inner: skipmap.NewString[V]()}
}

type orderedStorage[V any] struct {
	// the skip list is safe on its own, the lock makes batches atomic for readers
	mx    sync.RWMutex
	inner *skipmap.StringMap[V]
}

func (s *orderedStorage[V]) Get(key string) (V, bool, error) {
	s.mx.RLock()
	defer s.mx.RUnlock()

	v, ok := s.inner.Load(key)
	return v, ok, nil
}

func (s *orderedStorage[V]) Apply(batch *Batch[V]) error {
	s.mx.Lock()
	defer s.mx.Unlock()

	batch.Each(func(key string, value V, del bool) {
		if del {
			s.inner.Delete(key)
			return
		}
		s.inner.Store(key, value)
	})
	return nil
}

func (s *orderedStorage[V]) Range(prefix string) (Range[string, V], error) {
	s.mx.RLock()
	defer s.mx.RUnlock()

	rng := &sliceRange[V]{}
	s.inner.Range(func(key string, value V) bool {
		if strings.HasPrefix(key, prefix) {
			rng.keys = append(rng.keys, key)
			rng.values = append(rng.values, value)
			return true
		}
		// keys are ascending: once past the prefix nothing else can match
		return key < prefix
	})

	return rng, nil
}

