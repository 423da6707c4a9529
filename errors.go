package icdb

import (
	"fmt"
	"strings"
)

// DataError indicates corrupted or version-skewed record data. It is never
// recoverable at this layer; callers are expected to drop and rebuild the
// affected map.
type DataError struct {
	Data []byte
	Off  int
	Err  error
	Msg  string
}

func dataErrf(data []byte, off int, err error, format string, args ...any) error {
	return &DataError{data, off, err, fmt.Sprintf(format, args...)}
}

func (e *DataError) Unwrap() error {
	return e.Err
}

func (e *DataError) Error() string {
	const prefixLen = 64
	const suffixLen = 32
	var loc string
	if e.Off > 0 {
		loc = fmt.Sprintf(" at offset %d", e.Off)
	}
	n := len(e.Data)
	if n == 0 {
		if e.Err != nil {
			return fmt.Sprintf("%s%s: %v", e.Msg, loc, e.Err)
		}
		return e.Msg + loc
	}
	if n <= prefixLen+suffixLen {
		if e.Err != nil {
			return fmt.Sprintf("%s%s: %v: (%d) %x", e.Msg, loc, e.Err, n, e.Data)
		}
		return fmt.Sprintf("%s%s: (%d) %x", e.Msg, loc, n, e.Data)
	}
	p, s := e.Data[:prefixLen], e.Data[n-suffixLen:]
	if e.Err != nil {
		return fmt.Sprintf("%s%s: %v: (%d) %x...%x", e.Msg, loc, e.Err, n, p, s)
	}
	return fmt.Sprintf("%s%s: (%d) %x...%x", e.Msg, loc, n, p, s)
}

// StoreError wraps a failure with store/map/key context.
type StoreError struct {
	Store string
	Map   string
	Key   []byte
	Msg   string
	Err   error
}

func storeErrf(store, mp string, key []byte, err error, format string, args ...any) error {
	return &StoreError{store, mp, key, fmt.Sprintf(format, args...), err}
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Store)
	if e.Map != "" {
		buf.WriteByte('.')
		buf.WriteString(e.Map)
	}
	if e.Key != nil {
		buf.WriteByte('/')
		buf.WriteString(hexstr(e.Key))
	}
	if e.Msg != "" {
		buf.WriteString(": ")
		buf.WriteString(e.Msg)
		if e.Err != nil {
			buf.WriteString(": ")
			buf.WriteString(e.Err.Error())
		}
	} else if e.Err != nil {
		buf.WriteString(": ")
		buf.WriteString(e.Err.Error())
	}
	return buf.String()
}
