package base

import (
	"errors"

	"github.com/Artiqlate/nicosia/models"
	"github.com/vmihailenco/msgpack/v5"
)

// Ping is the client handshake: the capabilities list names the subsystems
// the client wants enabled ("mp").
type Ping struct {
	models.Serializable
	Message      string
	Capabilities []string
}

func NewPing(message string, capabilities []string) (*Ping, error) {
	baseSerializable, constructError := models.NewSerializable()
	if constructError != nil {
		return nil, constructError
	}
	return &Ping{*baseSerializable, message, capabilities}, nil
}

// -- GETTERS & SETTERS

func (p *Ping) GetMessage() string {
	return p.Message
}

// -- ENCODERS & DECODERS

func (p *Ping) Encode() ([]byte, error) {
	if p == nil {
		return nil, errors.New("ping is null")
	}
	marshaledPing, marshalErr := msgpack.Marshal(p)
	if marshalErr != nil {
		return nil, marshalErr
	}
	return marshaledPing, nil
}

// DecodePing decodes the args element of a "ping" frame. The decoder is
// positioned past the method string by the transmission layer.
func DecodePing(decoder *msgpack.Decoder) (*Ping, error) {
	var serializedPing Ping
	decodeErr := decoder.Decode(&serializedPing)
	if decodeErr != nil {
		return nil, decodeErr
	}
	return &serializedPing, nil
}
