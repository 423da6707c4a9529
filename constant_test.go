package icdb

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

func TestConstantLayouts(t *testing.T) {
	tests := []struct {
		input    ConstantValue
		expected string
	}{
		{IntConstant(0x42), "00 00000042"},
		{IntConstant(-1), "00 ffffffff"},
		{FloatConstant(1.5), "01 3fc00000"},
		{LongConstant(0x0102030405060708), "02 0102030405060708"},
		{DoubleConstant(1.5), "03 3ff8000000000000"},
		{StringConstant("test"), "04 00000004 74657374"},
		{StringConstant(""), "04 00000000"},
	}
	ext := ConstantExternalizer{}
	for _, test := range tests {
		data := must(Marshal[ConstantValue](ext, test.input))
		expected := strings.Map(removeSpaces, test.expected)
		if got := hex.EncodeToString(data); got != expected {
			t.Errorf("Marshal(%v %v) = %v, wanted %v", test.input.Kind, test.input, got, expected)
			continue
		}
		decoded := must(Unmarshal[ConstantValue](ext, data))
		if decoded != test.input {
			t.Errorf("Unmarshal(%s) = %v, wanted %v", expected, decoded, test.input)
		}
	}
}

func TestConstantUnknownKind(t *testing.T) {
	_, err := Unmarshal[ConstantValue](ConstantExternalizer{}, unhex(t, "05 00000042"))
	var de *DataError
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, wanted DataError", err)
	}
	if !strings.Contains(err.Error(), "unknown constant kind 5") {
		t.Fatalf("err = %v, wanted mention of unknown kind 5", err)
	}
}

func TestConstantTruncated(t *testing.T) {
	// Long tag followed by only four payload bytes.
	_, err := Unmarshal[ConstantValue](ConstantExternalizer{}, unhex(t, "02 01020304"))
	var de *DataError
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, wanted DataError", err)
	}
}

func TestConstantSaveRejectsInvalidKind(t *testing.T) {
	_, err := Marshal[ConstantValue](ConstantExternalizer{}, ConstantValue{Kind: 9})
	if err == nil {
		t.Fatalf("Marshal(kind 9) succeeded, wanted error")
	}
}
