package icdb

import (
	"encoding/binary"

	"go.etcd.io/bbolt"
)

// RawEntry is one key/value pair as stored, before typed decoding. Used by
// inspection tooling that has no access to the map's externalizers.
type RawEntry struct {
	Hash  uint64
	Key   []byte
	Value []byte
}

// EachRaw walks a map's entries at the chain-framing level.
func (s *Store) EachRaw(name string, f func(e RawEntry) error) error {
	return s.bdb.View(func(btx *bbolt.Tx) error {
		b := btx.Bucket([]byte(name))
		if b == nil {
			return storeErrf(s.path, name, nil, nil, "unknown map")
		}
		return b.ForEach(func(hk, raw []byte) error {
			pairs, err := decodeChain(raw)
			if err != nil {
				return storeErrf(s.path, name, hk, err, "scan")
			}
			hash := binary.BigEndian.Uint64(hk)
			for _, p := range pairs {
				if err := f(RawEntry{hash, p.key, p.value}); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// VerifyMap checks the chain framing of every entry and returns the entry
// count. The first corruption aborts the walk with a StoreError.
func (s *Store) VerifyMap(name string) (int, error) {
	var total int
	err := s.EachRaw(name, func(e RawEntry) error {
		total++
		return nil
	})
	return total, err
}
