package custodytest

import "github.com/iov-one/custody"

// Tx is a transaction carrying a single message.
type Tx struct {
	Msg custody.Msg
	// Err if set is returned by GetMsg.
	Err error
}

var _ custody.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (custody.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) Unmarshal([]byte) error {
	panic("not implemented")
}

func (tx *Tx) Marshal() ([]byte, error) {
	panic("not implemented")
}

// Msg is a message that routes to RoutePath.
type Msg struct {
	RoutePath string
	// Err if set is returned by Validate.
	Err error
}

var _ custody.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}
