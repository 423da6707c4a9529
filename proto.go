package icdb

// ProtoRecord is a serialized metadata payload: an opaque protobuf blob plus
// the string table it references by index. StringTable order is significant
// and round-trips exactly.
type ProtoRecord struct {
	IsPackageFacade bool
	Payload         []byte
	StringTable     []string
}

// ProtoRecordExternalizer frames a ProtoRecord as a presence-independent
// fixed layout: facade flag, length-prefixed payload, then a counted string
// table. It never interprets the payload bytes.
type ProtoRecordExternalizer struct{}

var _ Externalizer[ProtoRecord] = ProtoRecordExternalizer{}

func (ProtoRecordExternalizer) Save(out *Output, v ProtoRecord) error {
	if err := out.WriteBool(v.IsPackageFacade); err != nil {
		return err
	}
	if err := out.WriteBytes(v.Payload); err != nil {
		return err
	}
	if err := out.WriteInt32(int32(len(v.StringTable))); err != nil {
		return err
	}
	for _, s := range v.StringTable {
		if err := out.WriteString(s); err != nil {
			return err
		}
	}
	return nil
}

func (ProtoRecordExternalizer) Read(in *Input) (ProtoRecord, error) {
	var rec ProtoRecord
	var err error
	rec.IsPackageFacade, err = in.ReadBool()
	if err != nil {
		return ProtoRecord{}, err
	}
	rec.Payload, err = in.ReadBytes()
	if err != nil {
		return ProtoRecord{}, err
	}
	n, err := in.ReadInt32()
	if err != nil {
		return ProtoRecord{}, err
	}
	if n < 0 {
		return ProtoRecord{}, dataErrf(nil, in.Offset(), nil, "negative string table size: %d", n)
	}
	if n == 0 {
		return rec, nil
	}
	rec.StringTable = make([]string, n)
	for i := range rec.StringTable {
		rec.StringTable[i], err = in.ReadString()
		if err != nil {
			return ProtoRecord{}, err
		}
	}
	return rec, nil
}
