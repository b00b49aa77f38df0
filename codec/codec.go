/*
Package codec provides the binary serialization shared by all persisted
models, messages and the transaction envelope.

Concrete structures can be serialized without any registration. Interface
values (ie. the message carried by a transaction) must have all their
implementations registered before the first use.
*/
package codec

import (
	"github.com/iov-one/custody/errors"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// RegisterInterface declares an interface that can be serialized. Pass a
// nil pointer to the interface type.
func RegisterInterface(ptr interface{}) {
	cdc.RegisterInterface(ptr, nil)
}

// RegisterConcrete declares an implementation of a registered interface
// under a unique name.
func RegisterConcrete(o interface{}, name string) {
	cdc.RegisterConcrete(o, name, nil)
}

// Marshal returns the binary representation of given value.
func Marshal(o interface{}) ([]byte, error) {
	raw, err := cdc.MarshalBinaryBare(o)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrType, "cannot marshal %T: %s", o, err)
	}
	return raw, nil
}

// Unmarshal loads the binary representation into given pointer.
func Unmarshal(raw []byte, ptr interface{}) error {
	if err := cdc.UnmarshalBinaryBare(raw, ptr); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot unmarshal %T: %s", ptr, err)
	}
	return nil
}

// MarshalJSON returns the JSON representation of given value, using the
// registered names for interface values.
func MarshalJSON(o interface{}) ([]byte, error) {
	raw, err := cdc.MarshalJSON(o)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrType, "cannot marshal %T: %s", o, err)
	}
	return raw, nil
}

// UnmarshalJSON is the inverse of MarshalJSON.
func UnmarshalJSON(raw []byte, ptr interface{}) error {
	if err := cdc.UnmarshalJSON(raw, ptr); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot unmarshal %T: %s", ptr, err)
	}
	return nil
}
