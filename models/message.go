package models

import (
	"errors"

	"github.com/vmihailenco/msgpack/v5"
)

// Message is one array-framed RPC frame: [method] or [method, args].
// The method carries the subsystem prefix ("mp:status"); args is any
// msgpack-encodable payload.
type Message struct {
	Method string
	Args   interface{}
}

var (
	_ msgpack.CustomEncoder = (*Message)(nil)
	_ msgpack.CustomDecoder = (*Message)(nil)
)

func (m *Message) EncodeMsgpack(enc *msgpack.Encoder) error {
	arrLen := 1
	if m.Args != nil {
		arrLen = 2
	}
	if arrLenErr := enc.EncodeArrayLen(arrLen); arrLenErr != nil {
		return arrLenErr
	}
	if methodErr := enc.EncodeString(m.Method); methodErr != nil {
		return methodErr
	}
	if m.Args != nil {
		return enc.Encode(m.Args)
	}
	return nil
}

func (m *Message) DecodeMsgpack(dec *msgpack.Decoder) error {
	arrLen, arrLenErr := dec.DecodeArrayLen()
	if arrLenErr != nil {
		return arrLenErr
	}
	if arrLen < 1 {
		return errors.New("message frame is empty")
	}
	method, methodErr := dec.DecodeString()
	if methodErr != nil {
		return methodErr
	}
	m.Method = method
	if arrLen > 1 {
		args, argsErr := dec.DecodeInterface()
		if argsErr != nil {
			return argsErr
		}
		m.Args = args
	} else {
		m.Args = nil
	}
	return nil
}
