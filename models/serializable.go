package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

type ISerializable interface {
	Encode() ([]byte, error)
}

type Serializable struct {
	Type      int8
	Id        uuid.UUID
	Timestamp time.Time
}

func NewSerializable() (*Serializable, error) {
	idVal, idErr := uuid.NewRandom()
	if idErr != nil {
		return nil, idErr
	}
	return &Serializable{
		Id:        idVal,
		Timestamp: time.Now(),
	}, nil
}

// -- GETTERS AND SETTERS

func (ser *Serializable) GetType() int8 {
	return ser.Type
}

func (ser *Serializable) GetId() uuid.UUID {
	return ser.Id
}

func (ser *Serializable) GetTimestamp() time.Time {
	return ser.Timestamp
}

// -- METHODS

func (ser *Serializable) Encode() ([]byte, error) {
	if ser == nil {
		return nil, errors.New("serializable object marshaling error")
	}
	marshalled, marshalErr := msgpack.Marshal(ser)
	if marshalErr != nil {
		return nil, marshalErr
	}
	return marshalled, nil
}

func DecodeSerializable(data []byte) (*Serializable, error) {
	if data == nil {
		return nil, errors.New("null data")
	}
	var serialized Serializable
	marshalErr := msgpack.Unmarshal(data, &serialized)
	if marshalErr != nil {
		return nil, marshalErr
	}
	return &serialized, nil
}
