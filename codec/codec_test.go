package codec

import (
	"testing"

	"github.com/iov-one/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shape interface {
	Area() int64
}

type square struct {
	Side int64
}

func (s square) Area() int64 { return s.Side * s.Side }

type drawing struct {
	Name  string
	Shape shape
}

func init() {
	RegisterInterface((*shape)(nil))
	RegisterConcrete(square{}, "test/square")
}

func TestInterfaceRoundTrip(t *testing.T) {
	in := drawing{Name: "box", Shape: square{Side: 3}}

	raw, err := Marshal(in)
	require.NoError(t, err)

	var out drawing
	require.NoError(t, Unmarshal(raw, &out))
	assert.Equal(t, in, out)
	assert.Equal(t, int64(9), out.Shape.Area())

	js, err := MarshalJSON(in)
	require.NoError(t, err)
	assert.Contains(t, string(js), "test/square")
}

func TestUnmarshalGarbage(t *testing.T) {
	var out drawing
	err := Unmarshal([]byte{0xff, 0xff, 0xff}, &out)
	assert.True(t, errors.ErrInput.Is(err))
}
