package icdb

// ConstantKind tags the variants of ConstantValue. The ordinals are part of
// the wire format.
type ConstantKind byte

const (
	ConstInt ConstantKind = iota
	ConstFloat
	ConstLong
	ConstDouble
	ConstString

	constantKindCount
)

func (k ConstantKind) String() string {
	switch k {
	case ConstInt:
		return "int"
	case ConstFloat:
		return "float"
	case ConstLong:
		return "long"
	case ConstDouble:
		return "double"
	case ConstString:
		return "string"
	default:
		return "invalid"
	}
}

// ConstantValue is a tagged union over the five scalar constant kinds.
// Only the field selected by Kind is meaningful.
type ConstantValue struct {
	Kind   ConstantKind
	Int    int32
	Float  float32
	Long   int64
	Double float64
	Str    string
}

func IntConstant(v int32) ConstantValue     { return ConstantValue{Kind: ConstInt, Int: v} }
func FloatConstant(v float32) ConstantValue { return ConstantValue{Kind: ConstFloat, Float: v} }
func LongConstant(v int64) ConstantValue    { return ConstantValue{Kind: ConstLong, Long: v} }
func DoubleConstant(v float64) ConstantValue {
	return ConstantValue{Kind: ConstDouble, Double: v}
}
func StringConstant(v string) ConstantValue { return ConstantValue{Kind: ConstString, Str: v} }

// ConstantExternalizer encodes a ConstantValue as a one-byte kind tag
// followed by the kind-appropriate payload.
type ConstantExternalizer struct{}

var _ Externalizer[ConstantValue] = ConstantExternalizer{}

func (ConstantExternalizer) Save(out *Output, v ConstantValue) error {
	if v.Kind >= constantKindCount {
		return dataErrf(nil, out.Offset(), nil, "invalid constant kind %d", v.Kind)
	}
	if err := out.WriteByte(byte(v.Kind)); err != nil {
		return err
	}
	switch v.Kind {
	case ConstInt:
		return out.WriteInt32(v.Int)
	case ConstFloat:
		return out.WriteFloat32(v.Float)
	case ConstLong:
		return out.WriteInt64(v.Long)
	case ConstDouble:
		return out.WriteFloat64(v.Double)
	default:
		return out.WriteString(v.Str)
	}
}

func (ConstantExternalizer) Read(in *Input) (ConstantValue, error) {
	tag, err := in.ReadByte()
	if err != nil {
		return ConstantValue{}, err
	}
	switch ConstantKind(tag) {
	case ConstInt:
		v, err := in.ReadInt32()
		return ConstantValue{Kind: ConstInt, Int: v}, err
	case ConstFloat:
		v, err := in.ReadFloat32()
		return ConstantValue{Kind: ConstFloat, Float: v}, err
	case ConstLong:
		v, err := in.ReadInt64()
		return ConstantValue{Kind: ConstLong, Long: v}, err
	case ConstDouble:
		v, err := in.ReadFloat64()
		return ConstantValue{Kind: ConstDouble, Double: v}, err
	case ConstString:
		v, err := in.ReadString()
		return ConstantValue{Kind: ConstString, Str: v}, err
	default:
		return ConstantValue{}, dataErrf(nil, in.Offset(), nil, "unknown constant kind %d", tag)
	}
}
