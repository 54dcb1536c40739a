package ordered

// Map is an insertion-ordered map. Setting an existing key replaces its
// value in place and keeps the key's original position.
type Map[K comparable, V any] struct {
	keys  []K
	index map[K]int
	vals  []V
}

func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		index: make(map[K]int),
	}
}

func (m *Map[K, V]) Set(key K, value V) {
	if i, ok := m.index[key]; ok {
		m.vals[i] = value
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, value)
}

func (m *Map[K, V]) Get(key K) (V, bool) {
	i, ok := m.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return m.vals[i], true
}

func (m *Map[K, V]) Has(key K) bool {
	_, ok := m.index[key]
	return ok
}

func (m *Map[K, V]) Delete(key K) {
	i, ok := m.index[key]
	if !ok {
		return
	}

	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	m.vals = append(m.vals[:i], m.vals[i+1:]...)
	delete(m.index, key)
	for j := i; j < len(m.keys); j++ {
		m.index[m.keys[j]] = j
	}
}

func (m *Map[K, V]) Len() int {
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Values returns a copy of the values in insertion order.
func (m *Map[K, V]) Values() []V {
	vals := make([]V, len(m.vals))
	copy(vals, m.vals)
	return vals
}

// Each calls fn for every entry in insertion order until fn returns false.
func (m *Map[K, V]) Each(fn func(key K, value V) bool) {
	for i, k := range m.keys {
		if !fn(k, m.vals[i]) {
			return
		}
	}
}

func (m *Map[K, V]) Clone() *Map[K, V] {
	clone := &Map[K, V]{
		keys:  make([]K, len(m.keys)),
		index: make(map[K]int, len(m.index)),
		vals:  make([]V, len(m.vals)),
	}
	copy(clone.keys, m.keys)
	copy(clone.vals, m.vals)
	for k, i := range m.index {
		clone.index[k] = i
	}
	return clone
}
