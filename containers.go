package icdb

import "math"

// SequenceExternalizer writes elements back to back with no count prefix and
// reads until the stream is exhausted. The format is append-friendly but not
// self-delimiting: it only works as the sole or final record of a stream,
// and zero elements is indistinguishable from no record at all. Prefer
// CountedListExternalizer unless compatibility with an existing store
// requires this layout.
type SequenceExternalizer[T any] struct {
	Elem Externalizer[T]
}

func (e SequenceExternalizer[T]) Save(out *Output, v []T) error {
	for _, el := range v {
		if err := e.Elem.Save(out, el); err != nil {
			return err
		}
	}
	return nil
}

func (e SequenceExternalizer[T]) Read(in *Input) ([]T, error) {
	var result []T
	for {
		more, err := in.More()
		if err != nil {
			return nil, err
		}
		if !more {
			return result, nil
		}
		el, err := e.Elem.Read(in)
		if err != nil {
			return nil, err
		}
		result = append(result, el)
	}
}

// CountedListExternalizer writes an int32 element count followed by the
// elements. Fully self-delimiting, so it composes inside larger records.
type CountedListExternalizer[T any] struct {
	Elem Externalizer[T]
}

func (e CountedListExternalizer[T]) Save(out *Output, v []T) error {
	if len(v) > math.MaxInt32 {
		return dataErrf(nil, out.Offset(), nil, "list too long: %d elements", len(v))
	}
	if err := out.WriteInt32(int32(len(v))); err != nil {
		return err
	}
	for _, el := range v {
		if err := e.Elem.Save(out, el); err != nil {
			return err
		}
	}
	return nil
}

func (e CountedListExternalizer[T]) Read(in *Input) ([]T, error) {
	n, err := in.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, dataErrf(nil, in.Offset(), nil, "negative element count: %d", n)
	}
	if n == 0 {
		return nil, nil
	}
	result := make([]T, 0, n)
	for i := int32(0); i < n; i++ {
		el, err := e.Elem.Read(in)
		if err != nil {
			return nil, err
		}
		result = append(result, el)
	}
	return result, nil
}

// OrderedMap is a map that iterates in insertion order. Re-putting an
// existing key updates the value without changing the key's position.
type OrderedMap[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

func (m *OrderedMap[K, V]) Len() int {
	return len(m.keys)
}

func (m *OrderedMap[K, V]) Get(k K) (V, bool) {
	v, ok := m.values[k]
	return v, ok
}

func (m *OrderedMap[K, V]) Put(k K, v V) {
	if m.values == nil {
		m.values = make(map[K]V)
	}
	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = v
}

// Keys returns the keys in insertion order. The slice is owned by the map.
func (m *OrderedMap[K, V]) Keys() []K {
	return m.keys
}

func (m *OrderedMap[K, V]) Each(f func(k K, v V) error) error {
	for _, k := range m.keys {
		if err := f(k, m.values[k]); err != nil {
			return err
		}
	}
	return nil
}

// OrderedMapExternalizer writes an int32 pair count, then interleaved
// key/value pairs in insertion order. The order round-trips bit-for-bit.
type OrderedMapExternalizer[K comparable, V any] struct {
	Key   Externalizer[K]
	Value Externalizer[V]
}

func (e OrderedMapExternalizer[K, V]) Save(out *Output, m *OrderedMap[K, V]) error {
	if err := out.WriteInt32(int32(m.Len())); err != nil {
		return err
	}
	return m.Each(func(k K, v V) error {
		if err := e.Key.Save(out, k); err != nil {
			return err
		}
		return e.Value.Save(out, v)
	})
}

func (e OrderedMapExternalizer[K, V]) Read(in *Input) (*OrderedMap[K, V], error) {
	n, err := in.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, dataErrf(nil, in.Offset(), nil, "negative pair count: %d", n)
	}
	m := new(OrderedMap[K, V])
	for i := int32(0); i < n; i++ {
		k, err := e.Key.Read(in)
		if err != nil {
			return nil, err
		}
		v, err := e.Value.Read(in)
		if err != nil {
			return nil, err
		}
		m.Put(k, v)
	}
	return m, nil
}

// Optional carries a value plus an explicit presence marker, so "absent" and
// "present zero value" stay distinguishable across a round trip.
type Optional[T any] struct {
	Value   T
	Present bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Present: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

// OptionalExternalizer writes a presence boolean, then the value only when
// present.
type OptionalExternalizer[T any] struct {
	Elem Externalizer[T]
}

func (e OptionalExternalizer[T]) Save(out *Output, v Optional[T]) error {
	if err := out.WriteBool(v.Present); err != nil {
		return err
	}
	if !v.Present {
		return nil
	}
	return e.Elem.Save(out, v.Value)
}

func (e OptionalExternalizer[T]) Read(in *Input) (Optional[T], error) {
	present, err := in.ReadBool()
	if err != nil || !present {
		return Optional[T]{}, err
	}
	v, err := e.Elem.Read(in)
	if err != nil {
		return Optional[T]{}, err
	}
	return Some(v), nil
}
