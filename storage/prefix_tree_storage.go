package storage

import (
	"slices"
	"strings"
	"sync"

	"github.com/s0rg/trie"
)

var _ Storage[[]byte] = (*prefixTreeStorage[[]byte])(nil)

func NewPrefixTreeStorage[V any]() *prefixTreeStorage[V] {
	return &prefixTreeStorage[V]{inner: trie.New[V]()}
}

type prefixTreeStorage[V any] struct {
	mx    sync.RWMutex
	inner *trie.Trie[V]
}

func (s *prefixTreeStorage[V]) Get(key string) (V, bool, error) {
	s.mx.RLock()
	defer s.mx.RUnlock()

	v, ok := s.inner.Find(key)
	return v, ok, nil
}

func (s *prefixTreeStorage[V]) Apply(batch *Batch[V]) error {
	s.mx.Lock()
	defer s.mx.Unlock()

	batch.Each(func(key string, value V, del bool) {
		if del {
			s.inner.Del(key)
			return
		}
		s.inner.Add(key, value)
	})
	return nil
}

func (s *prefixTreeStorage[V]) Range(prefix string) (Range[string, V], error) {
	s.mx.RLock()
	defer s.mx.RUnlock()

	keys := s.keys(prefix)
	values := make([]V, 0, len(keys))
	for _, k := range keys {
		// SAFETY: the key is from the suggestion list the inner trie gave us
		// under the same lock, we can assume this key exists
		v, _ := s.inner.Find(k)
		values = append(values, v)
	}

	return &sliceRange[V]{keys: keys, values: values}, nil
}

// keys returns matching keys sorted, the trie makes no ordering promise.
func (s *prefixTreeStorage[V]) keys(prefix string) []string {
	suggested, _ := s.inner.Suggest(prefix)
	keys := make([]string, 0, len(suggested))
	for _, k := range suggested {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}
