package icdb

import "unicode/utf16"

// LookupKey identifies a symbol-lookup entry: a named member of a scope.
// Identity is defined purely over (NameHash, ScopeHash); Name and Scope are
// carried only when the descriptor runs in full-fidelity mode, and two keys
// with matching hashes compare equal regardless of the string fields.
type LookupKey struct {
	NameHash  int32
	ScopeHash int32
	Name      string
	Scope     string
}

// NewLookupKey builds a key with both hashes computed from the strings.
func NewLookupKey(name, scope string) LookupKey {
	return LookupKey{
		NameHash:  StringHash(name),
		ScopeHash: StringHash(scope),
		Name:      name,
		Scope:     scope,
	}
}

// StringHash is the 32-bit polynomial hash over UTF-16 code units
// (h = 31*h + unit), matching the JVM's String.hashCode. Records written by
// JVM-based producers key on this exact function, so it cannot be swapped
// for a native Go hash.
func StringHash(s string) int32 {
	var h int32
	for _, r := range s {
		if r < 0x10000 {
			h = 31*h + int32(r)
		} else {
			r1, r2 := utf16.EncodeRune(r)
			h = 31*h + int32(r1)
			h = 31*h + int32(r2)
		}
	}
	return h
}

// LookupKey record format versions. The version byte leads every record, so
// records written in either mode coexist in one store.
const (
	lookupKeyVerFull   = 0 // full strings, hashes recomputed on read
	lookupKeyVerHashes = 1 // hash fields only
)

// LookupKeyDescriptor externalizes LookupKey and supplies the hash/equality
// contract for persistent maps keyed by it. FullFidelity selects the write
// format for the whole process; reads dispatch on the per-record version
// byte regardless.
type LookupKeyDescriptor struct {
	FullFidelity bool
}

var _ KeyDescriptor[LookupKey] = LookupKeyDescriptor{}

func (d LookupKeyDescriptor) Save(out *Output, k LookupKey) error {
	if d.FullFidelity {
		if err := out.WriteByte(lookupKeyVerFull); err != nil {
			return err
		}
		if err := out.WriteString(k.Name); err != nil {
			return err
		}
		return out.WriteString(k.Scope)
	}
	if err := out.WriteByte(lookupKeyVerHashes); err != nil {
		return err
	}
	if err := out.WriteInt32(k.NameHash); err != nil {
		return err
	}
	return out.WriteInt32(k.ScopeHash)
}

func (d LookupKeyDescriptor) Read(in *Input) (LookupKey, error) {
	ver, err := in.ReadByte()
	if err != nil {
		return LookupKey{}, err
	}
	switch ver {
	case lookupKeyVerFull:
		name, err := in.ReadString()
		if err != nil {
			return LookupKey{}, err
		}
		scope, err := in.ReadString()
		if err != nil {
			return LookupKey{}, err
		}
		return NewLookupKey(name, scope), nil
	case lookupKeyVerHashes:
		nameHash, err := in.ReadInt32()
		if err != nil {
			return LookupKey{}, err
		}
		scopeHash, err := in.ReadInt32()
		if err != nil {
			return LookupKey{}, err
		}
		return LookupKey{NameHash: nameHash, ScopeHash: scopeHash}, nil
	default:
		return LookupKey{}, dataErrf(nil, in.Offset(), nil, "unknown lookup key version %d", ver)
	}
}

func (d LookupKeyDescriptor) Hash(k LookupKey) uint64 {
	return uint64(uint32(k.NameHash))<<32 | uint64(uint32(k.ScopeHash))
}

func (d LookupKeyDescriptor) Equal(a, b LookupKey) bool {
	return a.NameHash == b.NameHash && a.ScopeHash == b.ScopeHash
}
