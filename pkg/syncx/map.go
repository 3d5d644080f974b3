package syncx

import "sync"

// Map is a typed wrapper around sync.Map.
// The zero value is empty and ready for use.
type Map[K comparable, V any] struct {
	inner sync.Map
}

func (m *Map[K, V]) Load(key K) (V, bool) {
	value, ok := m.inner.Load(key)

	if !ok {
		var zero V
		return zero, false
	}

	return value.(V), true
}

func (m *Map[K, V]) Store(key K, value V) {
	m.inner.Store(key, value)
}

func (m *Map[K, V]) Delete(key K) {
	m.inner.Delete(key)
}

// Range calls f sequentially for each key and value present in the map.
// If f returns false, range stops the iteration.
func (m *Map[K, V]) Range(f func(key K, value V) bool) {
	m.inner.Range(func(key, value any) bool {
		return f(key.(K), value.(V))
	})
}

// Len counts the entries by ranging over the map; it is a snapshot,
// not an atomic counter.
func (m *Map[K, V]) Len() int {
	count := 0

	m.inner.Range(func(key, value any) bool {
		count++
		return true
	})

	return count
}
