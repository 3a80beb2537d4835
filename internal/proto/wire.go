// Package proto defines the wire messages and gRPC service descriptor of
// timevault.VaultService.
//
// Messages are encoded in the protobuf binary format with protowire, so any
// protobuf implementation can talk to the service given the field numbers
// documented on each type.
package proto

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Message is implemented by every request and response type.
type Message interface {
	MarshalWire() ([]byte, error)
	UnmarshalWire(b []byte) error
}

var errWireType = errors.New("proto: unexpected wire type")

type encoder struct {
	b []byte
}

func (e *encoder) bytes(num protowire.Number, v []byte) {
	if len(v) == 0 {
		return
	}
	e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
	e.b = protowire.AppendBytes(e.b, v)
}

func (e *encoder) string(num protowire.Number, v string) {
	if v == "" {
		return
	}
	e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
	e.b = protowire.AppendString(e.b, v)
}

func (e *encoder) uint64(num protowire.Number, v uint64) {
	if v == 0 {
		return
	}
	e.b = protowire.AppendTag(e.b, num, protowire.VarintType)
	e.b = protowire.AppendVarint(e.b, v)
}

func (e *encoder) int64(num protowire.Number, v int64) {
	e.uint64(num, uint64(v))
}

func (e *encoder) message(num protowire.Number, m Message) error {
	b, err := m.MarshalWire()
	if err != nil {
		return err
	}
	e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
	e.b = protowire.AppendBytes(e.b, b)
	return nil
}

// field is one decoded tag. Accessors consume the value; a field left
// unconsumed is skipped.
type field struct {
	num protowire.Number
	typ protowire.Type
	buf []byte
	n   int
}

func (f *field) bytes() ([]byte, error) {
	if f.typ != protowire.BytesType {
		return nil, fmt.Errorf("%w: field %d", errWireType, f.num)
	}
	v, n := protowire.ConsumeBytes(f.buf)
	if n < 0 {
		return nil, protowire.ParseError(n)
	}
	f.n = n
	return append([]byte(nil), v...), nil
}

func (f *field) string() (string, error) {
	b, err := f.bytes()
	return string(b), err
}

func (f *field) uint64() (uint64, error) {
	if f.typ != protowire.VarintType {
		return 0, fmt.Errorf("%w: field %d", errWireType, f.num)
	}
	v, n := protowire.ConsumeVarint(f.buf)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	f.n = n
	return v, nil
}

func (f *field) int64() (int64, error) {
	v, err := f.uint64()
	return int64(v), err
}

func (f *field) message(m Message) error {
	b, err := f.bytes()
	if err != nil {
		return err
	}
	return m.UnmarshalWire(b)
}

func decode(b []byte, fn func(f *field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		f := &field{num: num, typ: typ, buf: b}
		if err := fn(f); err != nil {
			return err
		}
		if f.n == 0 {
			f.n = protowire.ConsumeFieldValue(num, typ, b)
			if f.n < 0 {
				return protowire.ParseError(f.n)
			}
		}
		b = b[f.n:]
	}
	return nil
}
