package icdb

import (
	"encoding/hex"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestProtoRecordLayout(t *testing.T) {
	rec := ProtoRecord{
		IsPackageFacade: true,
		Payload:         []byte{0xDE, 0xAD},
		StringTable:     []string{"x", "y"},
	}
	data := must(Marshal[ProtoRecord](ProtoRecordExternalizer{}, rec))
	expected := strings.Map(removeSpaces, "01 00000002 dead 00000002 00000001 78 00000001 79")
	if got := hex.EncodeToString(data); got != expected {
		t.Fatalf("Marshal = %v, wanted %v", got, expected)
	}
	decoded := must(Unmarshal[ProtoRecord](ProtoRecordExternalizer{}, data))
	if !reflect.DeepEqual(decoded, rec) {
		t.Fatalf("Unmarshal = %+v, wanted %+v", decoded, rec)
	}
}

func TestProtoRecordEmpty(t *testing.T) {
	rec := ProtoRecord{}
	data := must(Marshal[ProtoRecord](ProtoRecordExternalizer{}, rec))
	expected := strings.Map(removeSpaces, "00 00000000 00000000")
	if got := hex.EncodeToString(data); got != expected {
		t.Fatalf("Marshal = %v, wanted %v", got, expected)
	}
	decoded := must(Unmarshal[ProtoRecord](ProtoRecordExternalizer{}, data))
	if !reflect.DeepEqual(decoded, rec) {
		t.Fatalf("Unmarshal = %+v, wanted %+v", decoded, rec)
	}
}

// String table order is referenced by index elsewhere and must survive
// byte-for-byte.
func TestProtoRecordStringTableOrder(t *testing.T) {
	rec := ProtoRecord{
		Payload:     []byte{1},
		StringTable: []string{"c", "a", "b", "a"},
	}
	decoded := must(Unmarshal[ProtoRecord](ProtoRecordExternalizer{}, must(Marshal[ProtoRecord](ProtoRecordExternalizer{}, rec))))
	if !reflect.DeepEqual(decoded.StringTable, rec.StringTable) {
		t.Fatalf("string table = %v, wanted %v", decoded.StringTable, rec.StringTable)
	}
}

func TestProtoRecordTruncatedPayload(t *testing.T) {
	// Declares a 4-byte payload but carries only two bytes.
	_, err := Unmarshal[ProtoRecord](ProtoRecordExternalizer{}, unhex(t, "01 00000004 dead"))
	var de *DataError
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, wanted DataError", err)
	}
}

func TestProtoRecordTruncatedStringTable(t *testing.T) {
	// Declares two table strings but carries only one.
	_, err := Unmarshal[ProtoRecord](ProtoRecordExternalizer{}, unhex(t, "00 00000000 00000002 00000001 78"))
	var de *DataError
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, wanted DataError", err)
	}
}
