package sigs

import "github.com/iov-one/custody/errors"

// ErrInvalidSequence is returned when a signature nonce does not match the
// expected account sequence.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
