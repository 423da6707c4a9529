package icdb

import (
	"encoding/binary"
	"io"
	"math"
)

// Output writes big-endian fixed-width scalars and length-prefixed strings
// to an underlying stream. It is not safe for concurrent use; one Output
// owns one stream.
type Output struct {
	w   io.Writer
	off int
	buf [8]byte
}

func NewOutput(w io.Writer) *Output {
	return &Output{w: w}
}

// Offset returns the number of bytes written so far.
func (o *Output) Offset() int {
	return o.off
}

func (o *Output) writeRaw(b []byte) error {
	n, err := o.w.Write(b)
	o.off += n
	return err
}

func (o *Output) WriteByte(v byte) error {
	o.buf[0] = v
	return o.writeRaw(o.buf[:1])
}

func (o *Output) WriteBool(v bool) error {
	if v {
		return o.WriteByte(1)
	}
	return o.WriteByte(0)
}

func (o *Output) WriteInt32(v int32) error {
	binary.BigEndian.PutUint32(o.buf[:4], uint32(v))
	return o.writeRaw(o.buf[:4])
}

func (o *Output) WriteInt64(v int64) error {
	binary.BigEndian.PutUint64(o.buf[:8], uint64(v))
	return o.writeRaw(o.buf[:8])
}

func (o *Output) WriteFloat32(v float32) error {
	binary.BigEndian.PutUint32(o.buf[:4], math.Float32bits(v))
	return o.writeRaw(o.buf[:4])
}

func (o *Output) WriteFloat64(v float64) error {
	binary.BigEndian.PutUint64(o.buf[:8], math.Float64bits(v))
	return o.writeRaw(o.buf[:8])
}

// WriteString writes an int32 byte count followed by the UTF-8 bytes.
// Strings are never null-terminated, so embedded zero bytes are safe.
func (o *Output) WriteString(s string) error {
	if len(s) > math.MaxInt32 {
		return dataErrf(nil, o.off, nil, "string too long: %d bytes", len(s))
	}
	if err := o.WriteInt32(int32(len(s))); err != nil {
		return err
	}
	return o.writeRaw([]byte(s))
}

// WriteBytes writes an int32 byte count followed by the raw bytes.
func (o *Output) WriteBytes(b []byte) error {
	if len(b) > math.MaxInt32 {
		return dataErrf(nil, o.off, nil, "chunk too long: %d bytes", len(b))
	}
	if err := o.WriteInt32(int32(len(b))); err != nil {
		return err
	}
	return o.writeRaw(b)
}

// Input reads the formats produced by Output. A short read is a fatal
// DataError (a truncated record cannot be retried); genuine I/O failures
// from the underlying reader propagate unchanged.
type Input struct {
	r      io.Reader
	off    int
	peek   byte
	peeked bool
	buf    [8]byte
}

func NewInput(r io.Reader) *Input {
	return &Input{r: r}
}

// Offset returns the number of bytes consumed so far.
func (in *Input) Offset() int {
	return in.off
}

// More reports whether at least one more byte is available. It reads ahead
// a single byte; the byte is returned by the next read call.
func (in *Input) More() (bool, error) {
	if in.peeked {
		return true, nil
	}
	var b [1]byte
	for {
		n, err := in.r.Read(b[:])
		if n == 1 {
			in.peek, in.peeked = b[0], true
			return true, nil
		}
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}
	}
}

func (in *Input) readFull(b []byte) error {
	i := 0
	if in.peeked && len(b) > 0 {
		b[0] = in.peek
		in.peeked = false
		in.off++
		i = 1
	}
	n, err := io.ReadFull(in.r, b[i:])
	in.off += n
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return dataErrf(nil, in.off, io.ErrUnexpectedEOF, "truncated record: wanted %d more bytes", len(b)-i-n)
		}
		return err
	}
	return nil
}

func (in *Input) ReadByte() (byte, error) {
	err := in.readFull(in.buf[:1])
	return in.buf[0], err
}

func (in *Input) ReadBool() (bool, error) {
	v, err := in.ReadByte()
	return v != 0, err
}

func (in *Input) ReadInt32() (int32, error) {
	err := in.readFull(in.buf[:4])
	return int32(binary.BigEndian.Uint32(in.buf[:4])), err
}

func (in *Input) ReadInt64() (int64, error) {
	err := in.readFull(in.buf[:8])
	return int64(binary.BigEndian.Uint64(in.buf[:8])), err
}

func (in *Input) ReadFloat32() (float32, error) {
	err := in.readFull(in.buf[:4])
	return math.Float32frombits(binary.BigEndian.Uint32(in.buf[:4])), err
}

func (in *Input) ReadFloat64() (float64, error) {
	err := in.readFull(in.buf[:8])
	return math.Float64frombits(binary.BigEndian.Uint64(in.buf[:8])), err
}

func (in *Input) ReadString() (string, error) {
	b, err := in.ReadBytes()
	return string(b), err
}

func (in *Input) ReadBytes() ([]byte, error) {
	n, err := in.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, dataErrf(nil, in.off, nil, "negative length prefix: %d", n)
	}
	if n == 0 {
		return nil, nil
	}
	b := make([]byte, n)
	if err := in.readFull(b); err != nil {
		return nil, err
	}
	return b, nil
}
