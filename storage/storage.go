// Package storage provides the key/value backends records are committed to.
//
// Every backend ranges over keys in ascending byte order and applies a
// [Batch] atomically: readers observe either none or all of its operations.
package storage

// Storage is a flat key/value space.
type Storage[V any] interface {
	Get(key string) (V, bool, error)
	// Range iterates over every key with the given prefix, in key order.
	Range(prefix string) (Range[string, V], error)
	Apply(batch *Batch[V]) error
}

type Range[K comparable, V any] interface {
	Next() bool
	Value() (K, V)
}

type op[V any] struct {
	key   string
	value V
	del   bool
}

// Batch collects sets and deletes that are applied in order, all at once.
type Batch[V any] struct {
	ops []op[V]
}

func NewBatch[V any]() *Batch[V] {
	return &Batch[V]{}
}

func (b *Batch[V]) Set(key string, value V) {
	b.ops = append(b.ops, op[V]{key: key, value: value})
}

func (b *Batch[V]) Del(key string) {
	b.ops = append(b.ops, op[V]{key: key, del: true})
}

func (b *Batch[V]) Len() int {
	return len(b.ops)
}

// Each visits operations in the order they were added.
func (b *Batch[V]) Each(f func(key string, value V, del bool)) {
	for _, o := range b.ops {
		f(o.key, o.value, o.del)
	}
}

// sliceRange is a materialized range, so iteration never races with writers.
type sliceRange[V any] struct {
	keys   []string
	values []V
	curr   int
}

func (r *sliceRange[V]) Value() (string, V) {
	key, value := r.keys[r.curr], r.values[r.curr]
	r.curr++
	return key, value
}

func (r *sliceRange[V]) Next() bool {
	return r.curr < len(r.keys)
}
