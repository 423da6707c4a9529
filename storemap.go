package icdb

import (
	"bytes"
	"encoding/binary"

	"go.etcd.io/bbolt"
)

// Map is a typed handle onto one named map of a store. Bolt keys are the
// 8-byte big-endian descriptor hash; the stored value is a collision chain
// of (key bytes, value bytes) pairs resolved by the descriptor's Equal.
type Map[K, V any] struct {
	store *Store
	name  string
	buck  []byte
	key   KeyDescriptor[K]
	val   Externalizer[V]
}

// OpenMap binds a named map, creating it on first use and registering it in
// the store manifest.
func OpenMap[K, V any](s *Store, name string, key KeyDescriptor[K], val Externalizer[V]) (*Map[K, V], error) {
	if err := s.registerMap(name); err != nil {
		return nil, err
	}
	return &Map[K, V]{
		store: s,
		name:  name,
		buck:  []byte(name),
		key:   key,
		val:   val,
	}, nil
}

func (m *Map[K, V]) Name() string {
	return m.name
}

func (m *Map[K, V]) hashKey(k K) []byte {
	var hk [8]byte
	binary.BigEndian.PutUint64(hk[:], m.key.Hash(k))
	return hk[:]
}

// Get returns the value stored under k, with ok=false when absent. Any
// decode failure surfaces as a StoreError wrapping a DataError; the caller
// is expected to DropMap and rebuild.
func (m *Map[K, V]) Get(k K) (v V, ok bool, err error) {
	hk := m.hashKey(k)
	err = m.store.bdb.View(func(btx *bbolt.Tx) error {
		raw := btx.Bucket(m.buck).Get(hk)
		if raw == nil {
			return nil
		}
		pairs, err := decodeChain(raw)
		if err != nil {
			return storeErrf(m.store.path, m.name, hk, err, "get")
		}
		for _, p := range pairs {
			dk, err := Unmarshal[K](m.key, p.key)
			if err != nil {
				return storeErrf(m.store.path, m.name, hk, err, "get: key")
			}
			if m.key.Equal(k, dk) {
				v, err = Unmarshal(m.val, p.value)
				if err != nil {
					return storeErrf(m.store.path, m.name, hk, err, "get: value")
				}
				ok = true
				return nil
			}
		}
		return nil
	})
	return
}

// Put stores v under k, replacing any existing value for an equal key.
func (m *Map[K, V]) Put(k K, v V) error {
	kb, err := Marshal[K](m.key, k)
	if err != nil {
		return storeErrf(m.store.path, m.name, nil, err, "put: key")
	}
	vb, err := Marshal(m.val, v)
	if err != nil {
		return storeErrf(m.store.path, m.name, nil, err, "put: value")
	}
	hk := m.hashKey(k)

	err = m.store.bdb.Update(func(btx *bbolt.Tx) error {
		b := btx.Bucket(m.buck)
		var pairs []rawPair
		if raw := b.Get(hk); raw != nil {
			pairs, err = decodeChain(raw)
			if err != nil {
				return storeErrf(m.store.path, m.name, hk, err, "put")
			}
		}
		replaced := false
		for i, p := range pairs {
			dk, err := Unmarshal[K](m.key, p.key)
			if err != nil {
				return storeErrf(m.store.path, m.name, hk, err, "put: key")
			}
			if m.key.Equal(k, dk) {
				pairs[i] = rawPair{kb, vb}
				replaced = true
				break
			}
		}
		if !replaced {
			pairs = append(pairs, rawPair{kb, vb})
		}
		chain, err := encodeChain(pairs)
		if err != nil {
			return storeErrf(m.store.path, m.name, hk, err, "put")
		}
		return b.Put(hk, chain)
	})
	if err == nil && m.store.verbose {
		m.store.logf("icdb: PUT %s/%x", m.name, hk)
	}
	return err
}

// Delete removes the entry for k, reporting whether one existed.
func (m *Map[K, V]) Delete(k K) (found bool, err error) {
	hk := m.hashKey(k)
	err = m.store.bdb.Update(func(btx *bbolt.Tx) error {
		b := btx.Bucket(m.buck)
		raw := b.Get(hk)
		if raw == nil {
			return nil
		}
		pairs, err := decodeChain(raw)
		if err != nil {
			return storeErrf(m.store.path, m.name, hk, err, "delete")
		}
		for i, p := range pairs {
			dk, err := Unmarshal[K](m.key, p.key)
			if err != nil {
				return storeErrf(m.store.path, m.name, hk, err, "delete: key")
			}
			if m.key.Equal(k, dk) {
				pairs = append(pairs[:i], pairs[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			return nil
		}
		if len(pairs) == 0 {
			return b.Delete(hk)
		}
		chain, err := encodeChain(pairs)
		if err != nil {
			return storeErrf(m.store.path, m.name, hk, err, "delete")
		}
		return b.Put(hk, chain)
	})
	if err == nil && found && m.store.verbose {
		m.store.logf("icdb: DELETE %s/%x", m.name, hk)
	}
	return
}

// Each invokes f for every entry. Iteration order follows the hash index,
// not insertion order.
func (m *Map[K, V]) Each(f func(k K, v V) error) error {
	return m.store.bdb.View(func(btx *bbolt.Tx) error {
		return btx.Bucket(m.buck).ForEach(func(hk, raw []byte) error {
			pairs, err := decodeChain(raw)
			if err != nil {
				return storeErrf(m.store.path, m.name, hk, err, "scan")
			}
			for _, p := range pairs {
				k, err := Unmarshal[K](m.key, p.key)
				if err != nil {
					return storeErrf(m.store.path, m.name, hk, err, "scan: key")
				}
				v, err := Unmarshal(m.val, p.value)
				if err != nil {
					return storeErrf(m.store.path, m.name, hk, err, "scan: value")
				}
				if err := f(k, v); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// Count returns the number of entries, counting collision-chain members
// individually.
func (m *Map[K, V]) Count() (int, error) {
	var total int
	err := m.store.bdb.View(func(btx *bbolt.Tx) error {
		return btx.Bucket(m.buck).ForEach(func(hk, raw []byte) error {
			pairs, err := decodeChain(raw)
			if err != nil {
				return storeErrf(m.store.path, m.name, hk, err, "count")
			}
			total += len(pairs)
			return nil
		})
	})
	return total, err
}

type rawPair struct {
	key   []byte
	value []byte
}

// Chain format: int32 pair count, then length-prefixed key and value bytes
// per pair. Framed with the same primitives as the record formats so icdump
// can walk any map without knowing its types.
func encodeChain(pairs []rawPair) ([]byte, error) {
	var buf bytes.Buffer
	out := NewOutput(&buf)
	if err := out.WriteInt32(int32(len(pairs))); err != nil {
		return nil, err
	}
	for _, p := range pairs {
		if err := out.WriteBytes(p.key); err != nil {
			return nil, err
		}
		if err := out.WriteBytes(p.value); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func decodeChain(data []byte) ([]rawPair, error) {
	in := NewInput(bytes.NewReader(data))
	n, err := in.ReadInt32()
	if err != nil {
		return nil, dataErrf(data, 0, err, "invalid chain")
	}
	if n < 0 {
		return nil, dataErrf(data, in.Offset(), nil, "invalid chain: negative pair count %d", n)
	}
	pairs := make([]rawPair, 0, n)
	for i := int32(0); i < n; i++ {
		k, err := in.ReadBytes()
		if err != nil {
			return nil, dataErrf(data, in.Offset(), err, "invalid chain: pair %d key", i)
		}
		v, err := in.ReadBytes()
		if err != nil {
			return nil, dataErrf(data, in.Offset(), err, "invalid chain: pair %d value", i)
		}
		pairs = append(pairs, rawPair{k, v})
	}
	if more, err := in.More(); err != nil {
		return nil, err
	} else if more {
		return nil, dataErrf(data, in.Offset(), nil, "invalid chain: trailing bytes")
	}
	return pairs, nil
}
