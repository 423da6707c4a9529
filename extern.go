package icdb

import "bytes"

// An Externalizer is a paired encode/decode routine for one value type.
// Save and Read must mirror each other exactly; the formats are shared
// across processes via cache directories, so they are part of the public
// contract and must not change shape without a version tag.
type Externalizer[T any] interface {
	Save(out *Output, v T) error
	Read(in *Input) (T, error)
}

// A KeyDescriptor is an externalizer plus the hash/equality contract a
// persistent map uses to index its keys. Hash and Equal must agree: equal
// keys hash identically.
type KeyDescriptor[K any] interface {
	Externalizer[K]
	Hash(k K) uint64
	Equal(a, b K) bool
}

// Marshal runs an externalizer against an in-memory buffer.
func Marshal[T any](ext Externalizer[T], v T) ([]byte, error) {
	var buf bytes.Buffer
	if err := ext.Save(NewOutput(&buf), v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a value from an in-memory buffer.
func Unmarshal[T any](ext Externalizer[T], data []byte) (T, error) {
	v, err := ext.Read(NewInput(bytes.NewReader(data)))
	if err != nil {
		var zero T
		return zero, dataErrf(data, 0, err, "decoding %T", zero)
	}
	return v, nil
}
