package community

import "github.com/iov-one/custody/errors"

var (
	// ErrPercentage is returned when the percentages of a split do not add
	// up to 100.
	ErrPercentage = errors.Register(400, "invalid percentage sum")

	// ErrTransfer is returned when the token ledger refused to move the
	// funds of a deposit, withdrawal or transfer.
	ErrTransfer = errors.Register(401, "token transfer failed")
)
