package icdb

import (
	"errors"
	"strings"
	"testing"
)

func TestDataError_ErrorAndUnwrap(t *testing.T) {
	t.Run("small data", func(t *testing.T) {
		inner := errors.New("inner")
		err := dataErrf([]byte{0xAA, 0xBB}, 1, inner, "oops")
		var de *DataError
		if !errors.As(err, &de) {
			t.Fatalf("err = %T, wanted *DataError", err)
		}
		if !errors.Is(err, inner) {
			t.Fatalf("errors.Is(err, inner) = false, wanted true")
		}
		s := err.Error()
		if !strings.Contains(s, "oops") || !strings.Contains(s, "inner") || !strings.Contains(s, "(2)") {
			t.Fatalf("err.Error() = %q, wanted message with oops/inner/(2)", s)
		}
	})

	t.Run("no data window", func(t *testing.T) {
		err := dataErrf(nil, 7, nil, "truncated record")
		s := err.Error()
		if !strings.Contains(s, "truncated record") || !strings.Contains(s, "offset 7") {
			t.Fatalf("err.Error() = %q, wanted message with offset 7", s)
		}
	})

	t.Run("large data includes prefix+suffix", func(t *testing.T) {
		data := make([]byte, 200)
		for i := range data {
			data[i] = byte(i)
		}
		err := dataErrf(data, 0, nil, "oops")
		s := err.Error()
		if !strings.Contains(s, "(200)") || !strings.Contains(s, "...") {
			t.Fatalf("err.Error() = %q, wanted message with (200) and ...", s)
		}
	})
}

func TestStoreError_ErrorAndUnwrap(t *testing.T) {
	inner := errors.New("inner")
	err := storeErrf("cache.icdb", "lookups", []byte{0x0F}, inner, "oops %d", 1)
	if !errors.Is(err, inner) {
		t.Fatalf("errors.Is(err, inner) = false, wanted true")
	}
	s := err.Error()
	if !strings.Contains(s, "cache.icdb.lookups") || !strings.Contains(s, "/0f") || !strings.Contains(s, "oops 1") || !strings.Contains(s, "inner") {
		t.Fatalf("err.Error() = %q, wanted store/map/key/msg/inner", s)
	}

	s = (&StoreError{Store: "s", Err: inner}).Error()
	if !strings.Contains(s, "s: inner") {
		t.Fatalf("StoreError.Error() = %q, wanted %q", s, "s: inner")
	}
}

func TestHexstr(t *testing.T) {
	if got := hexstr(nil); got != "<nil>" {
		t.Fatalf("hexstr(nil) = %q, wanted <nil>", got)
	}
	if got := hexstr([]byte{}); got != "<empty>" {
		t.Fatalf("hexstr(empty) = %q, wanted <empty>", got)
	}
	if got := hexstr([]byte{0xAB}); got != "ab" {
		t.Fatalf("hexstr = %q, wanted ab", got)
	}
}
