package icdb

import (
	"fmt"
	"slices"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"
)

const storeFormatVersion = 1

var (
	metaBuckName = []byte("meta")
	manifestKey  = []byte("manifest")
)

type Options struct {
	Logf    func(format string, args ...any)
	Verbose bool

	// Portable records that this store uses machine-independent path keys.
	// Every PathKeyDescriptor bound to this store must match.
	Portable bool

	// FullFidelityKeys makes lookup-key maps write full name/scope strings
	// (format version 0) instead of hash pairs (version 1). Reads accept
	// both regardless.
	FullFidelityKeys bool

	IsTesting bool
	MmapSize  int
}

// Store is a persistent key-value store for incremental-compilation caches.
// Each named map binds a key descriptor and a value externalizer; entries
// are bucketed by the descriptor's hash and resolved by its equality.
//
// Writes are serialized through bolt transactions; one writer at a time,
// any number of readers.
type Store struct {
	bdb      *bbolt.DB
	path     string
	logf     func(format string, args ...any)
	verbose  bool
	manifest manifest
}

// manifest pins the wire-format choices a store was created with. Mixing
// formats within one cache directory would corrupt it silently, so Open
// refuses options that disagree with the recorded manifest.
type manifest struct {
	FormatVersion int      `msgpack:"v"`
	Portable      bool     `msgpack:"p"`
	FullFidelity  bool     `msgpack:"f"`
	Maps          []string `msgpack:"m"`
}

func Open(path string, opt Options) (*Store, error) {
	return open(path, opt, false)
}

// OpenAny opens an existing store accepting whatever format flags its
// manifest records. Inspection tooling uses this; regular callers use Open
// so their descriptors provably match the store. Format flags in opt are
// ignored.
func OpenAny(path string, opt Options) (*Store, error) {
	return open(path, opt, true)
}

func open(path string, opt Options, adopt bool) (*Store, error) {
	bopt := &bbolt.Options{}
	*bopt = *bbolt.DefaultOptions
	bopt.Timeout = 10 * time.Second
	if opt.IsTesting {
		bopt.NoSync = true
		bopt.NoFreelistSync = true
		bopt.InitialMmapSize = 1024 * 1024 * 5
	} else {
		bopt.InitialMmapSize = 1024 * 1024 * 64
		bopt.FreelistType = bbolt.FreelistMapType
	}
	if opt.MmapSize != 0 {
		bopt.InitialMmapSize = opt.MmapSize
	}

	bdb, err := bbolt.Open(path, 0666, bopt)
	if err != nil {
		return nil, fmt.Errorf("icdb: %w", err)
	}

	logf := opt.Logf
	if logf == nil {
		logf = func(format string, args ...any) {}
	}

	s := &Store{
		bdb:     bdb,
		path:    path,
		logf:    logf,
		verbose: opt.Verbose,
	}

	err = bdb.Update(func(btx *bbolt.Tx) error {
		mb, err := btx.CreateBucketIfNotExists(metaBuckName)
		if err != nil {
			return err
		}
		raw := mb.Get(manifestKey)
		if raw == nil {
			s.manifest = manifest{
				FormatVersion: storeFormatVersion,
				Portable:      opt.Portable,
				FullFidelity:  opt.FullFidelityKeys,
			}
			return s.saveManifest(btx)
		}
		if err := msgpack.Unmarshal(raw, &s.manifest); err != nil {
			return storeErrf(s.path, "", nil, err, "corrupt manifest")
		}
		if s.manifest.FormatVersion != storeFormatVersion {
			return storeErrf(s.path, "", nil, nil, "unsupported store format version %d", s.manifest.FormatVersion)
		}
		if adopt {
			return nil
		}
		if s.manifest.Portable != opt.Portable {
			return storeErrf(s.path, "", nil, nil, "store portable=%v, opened with portable=%v", s.manifest.Portable, opt.Portable)
		}
		if s.manifest.FullFidelity != opt.FullFidelityKeys {
			return storeErrf(s.path, "", nil, nil, "store fullFidelity=%v, opened with fullFidelity=%v", s.manifest.FullFidelity, opt.FullFidelityKeys)
		}
		return nil
	})
	if err != nil {
		bdb.Close()
		return nil, err
	}

	s.logf("icdb: OPEN %s portable=%v fullFidelity=%v maps=%d", path, s.manifest.Portable, s.manifest.FullFidelity, len(s.manifest.Maps))
	return s, nil
}

func (s *Store) saveManifest(btx *bbolt.Tx) error {
	raw, err := msgpack.Marshal(&s.manifest)
	if err != nil {
		panic(fmt.Errorf("icdb: encoding manifest: %w", err))
	}
	return btx.Bucket(metaBuckName).Put(manifestKey, raw)
}

func (s *Store) Bolt() *bbolt.DB {
	return s.bdb
}

// Portable reports the path-key mode recorded in the store manifest.
func (s *Store) Portable() bool {
	return s.manifest.Portable
}

// FullFidelityKeys reports the lookup-key write format recorded in the
// store manifest.
func (s *Store) FullFidelityKeys() bool {
	return s.manifest.FullFidelity
}

// MapNames returns the registered map names in registration order.
func (s *Store) MapNames() []string {
	return slices.Clone(s.manifest.Maps)
}

func (s *Store) Close() {
	err := s.bdb.Close()
	if err != nil {
		panic(fmt.Errorf("icdb: closing: %w", err))
	}
}

func (s *Store) registerMap(name string) error {
	if name == "" || name == string(metaBuckName) {
		return storeErrf(s.path, name, nil, nil, "reserved map name")
	}
	return s.bdb.Update(func(btx *bbolt.Tx) error {
		if _, err := btx.CreateBucketIfNotExists([]byte(name)); err != nil {
			return err
		}
		if !slices.Contains(s.manifest.Maps, name) {
			s.manifest.Maps = append(s.manifest.Maps, name)
			return s.saveManifest(btx)
		}
		return nil
	})
}

// DropMap deletes all entries of a map. Callers invoke this after any
// DataError from the map: corrupt records are never retried, the map is
// rebuilt from scratch.
func (s *Store) DropMap(name string) error {
	err := s.bdb.Update(func(btx *bbolt.Tx) error {
		if !slices.Contains(s.manifest.Maps, name) {
			return storeErrf(s.path, name, nil, nil, "unknown map")
		}
		if err := btx.DeleteBucket([]byte(name)); err != nil && err != bbolt.ErrBucketNotFound {
			return err
		}
		_, err := btx.CreateBucketIfNotExists([]byte(name))
		return err
	})
	if err == nil {
		s.logf("icdb: DROP %s", name)
	}
	return err
}
