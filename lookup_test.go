package icdb

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

func TestStringHash(t *testing.T) {
	tests := []struct {
		input    string
		expected int32
	}{
		{"", 0},
		{"a", 97},
		{"ab", 3105},
		{"hello", 99162322},
		{"Aa", 2112},
		{"BB", 2112}, // the classic JVM collision
	}
	for _, test := range tests {
		if got := StringHash(test.input); got != test.expected {
			t.Errorf("StringHash(%q) = %d, wanted %d", test.input, got, test.expected)
		}
	}
}

func TestStringHashSurrogatePairs(t *testing.T) {
	// U+10437 encodes as the UTF-16 pair D801 DC37; the hash runs over the
	// pair, not the rune.
	want := 31*int32(0xD801) + int32(0xDC37)
	if got := StringHash("\U00010437"); got != want {
		t.Fatalf("StringHash = %d, wanted %d", got, want)
	}
}

func TestLookupKeyLayouts(t *testing.T) {
	key := NewLookupKey("a", "b")
	tests := []struct {
		desc     LookupKeyDescriptor
		expected string
	}{
		{LookupKeyDescriptor{FullFidelity: true}, "00 00000001 61 00000001 62"},
		{LookupKeyDescriptor{FullFidelity: false}, "01 00000061 00000062"},
	}
	for _, test := range tests {
		data := must(Marshal[LookupKey](test.desc, key))
		expected := strings.Map(removeSpaces, test.expected)
		if got := hex.EncodeToString(data); got != expected {
			t.Errorf("Marshal(fullFidelity=%v) = %v, wanted %v", test.desc.FullFidelity, got, expected)
			continue
		}
		decoded := must(Unmarshal[LookupKey](test.desc, data))
		if !test.desc.Equal(decoded, key) {
			t.Errorf("Unmarshal(%s) = %+v, not equal to original %+v", expected, decoded, key)
		}
	}
}

func TestLookupKeyFullFidelityRecomputesHashes(t *testing.T) {
	desc := LookupKeyDescriptor{FullFidelity: true}
	key := NewLookupKey("topLevelName", "org.example.pkg")
	decoded := must(Unmarshal[LookupKey](desc, must(Marshal[LookupKey](desc, key))))
	if decoded != key {
		t.Fatalf("round trip = %+v, wanted %+v", decoded, key)
	}
}

func TestLookupKeyHashOnlyDropsStrings(t *testing.T) {
	desc := LookupKeyDescriptor{FullFidelity: false}
	key := NewLookupKey("name", "scope")
	decoded := must(Unmarshal[LookupKey](desc, must(Marshal[LookupKey](desc, key))))
	if decoded.Name != "" || decoded.Scope != "" {
		t.Fatalf("decoded strings = (%q, %q), wanted empty", decoded.Name, decoded.Scope)
	}
	if decoded.NameHash != key.NameHash || decoded.ScopeHash != key.ScopeHash {
		t.Fatalf("decoded hashes = (%d, %d), wanted (%d, %d)", decoded.NameHash, decoded.ScopeHash, key.NameHash, key.ScopeHash)
	}
	if !desc.Equal(decoded, key) {
		t.Fatalf("hash-only key not equal to full key with same hashes")
	}
}

// Records written in both formats must decode from a single stream, each by
// its own version byte.
func TestLookupKeyVersionCoexistence(t *testing.T) {
	full := LookupKeyDescriptor{FullFidelity: true}
	hashes := LookupKeyDescriptor{FullFidelity: false}
	key := NewLookupKey("member", "scope.path")

	var buf bytes.Buffer
	out := NewOutput(&buf)
	ensure(full.Save(out, key))
	ensure(hashes.Save(out, key))

	in := NewInput(&buf)
	first := must(full.Read(in))
	second := must(full.Read(in)) // reader mode is irrelevant, the record tags itself
	if !full.Equal(first, second) {
		t.Fatalf("v0 key %+v != v1 key %+v", first, second)
	}
	if first.Name != "member" {
		t.Fatalf("v0 record lost its name: %+v", first)
	}
	if second.Name != "" {
		t.Fatalf("v1 record grew a name: %+v", second)
	}
}

func TestLookupKeyUnknownVersion(t *testing.T) {
	_, err := Unmarshal[LookupKey](LookupKeyDescriptor{}, unhex(t, "02 00000061 00000062"))
	var de *DataError
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, wanted DataError", err)
	}
	if !strings.Contains(err.Error(), "unknown lookup key version 2") {
		t.Fatalf("err = %v, wanted mention of version 2", err)
	}
}

func TestLookupKeyEqualityIgnoresStrings(t *testing.T) {
	desc := LookupKeyDescriptor{}
	a := LookupKey{NameHash: 1, ScopeHash: 2, Name: "x", Scope: "y"}
	b := LookupKey{NameHash: 1, ScopeHash: 2}
	if !desc.Equal(a, b) {
		t.Fatalf("keys with equal hashes compare unequal")
	}
	if desc.Hash(a) != desc.Hash(b) {
		t.Fatalf("keys with equal hashes hash differently")
	}
	c := LookupKey{NameHash: 1, ScopeHash: 3}
	if desc.Equal(a, c) {
		t.Fatalf("keys with different scope hashes compare equal")
	}
}
