package icdb

// Externalizers for primitive scalars, usable directly or as element codecs
// inside the container externalizers.

type StringExternalizer struct{}

func (StringExternalizer) Save(out *Output, v string) error { return out.WriteString(v) }
func (StringExternalizer) Read(in *Input) (string, error)   { return in.ReadString() }

type Int32Externalizer struct{}

func (Int32Externalizer) Save(out *Output, v int32) error { return out.WriteInt32(v) }
func (Int32Externalizer) Read(in *Input) (int32, error)   { return in.ReadInt32() }

type Int64Externalizer struct{}

func (Int64Externalizer) Save(out *Output, v int64) error { return out.WriteInt64(v) }
func (Int64Externalizer) Read(in *Input) (int64, error)   { return in.ReadInt64() }

type BoolExternalizer struct{}

func (BoolExternalizer) Save(out *Output, v bool) error { return out.WriteBool(v) }
func (BoolExternalizer) Read(in *Input) (bool, error)   { return in.ReadBool() }

type BytesExternalizer struct{}

func (BytesExternalizer) Save(out *Output, v []byte) error { return out.WriteBytes(v) }
func (BytesExternalizer) Read(in *Input) ([]byte, error)   { return in.ReadBytes() }
