/*
Package coin provides the token amount type used by all balances, deposits
and transfers.
*/
package coin

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/iov-one/custody/errors"
)

// IsCC is the RegExp to ensure valid currency codes
var IsCC = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

// Coin is an indivisible amount of a single token.
type Coin struct {
	Ticker string `json:"ticker"`
	Amount int64  `json:"amount"`
}

// NewCoin creates a coin of the given token.
func NewCoin(amount int64, ticker string) Coin {
	return Coin{Ticker: ticker, Amount: amount}
}

// Add combines two coins. Returns error if they are of different currencies,
// or if the combination would cause an overflow.
func (c Coin) Add(o Coin) (Coin, error) {
	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "adding %s to %s", o.Ticker, c.Ticker)
	}
	sum := c.Amount + o.Amount
	if (o.Amount > 0 && sum < c.Amount) || (o.Amount < 0 && sum > c.Amount) {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "%s + %s", c, o)
	}
	return NewCoin(sum, c.Ticker), nil
}

// Subtract returns c - o.
func (c Coin) Subtract(o Coin) (Coin, error) {
	if o.Amount == -o.Amount && o.Amount != 0 {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "%s - %s", c, o)
	}
	return c.Add(o.Negative())
}

// Negative returns the opposite value.
func (c Coin) Negative() Coin {
	return NewCoin(-c.Amount, c.Ticker)
}

// Percent returns the given percent of this coin, rounded down. Percent must
// not be negative.
func (c Coin) Percent(pct int64) (Coin, error) {
	if pct < 0 {
		return Coin{}, errors.Wrapf(errors.ErrInput, "negative percent %d", pct)
	}
	// Split the amount so that only the hundreds are multiplied at full
	// size. The result is exact floor division.
	whole, err := mul64(c.Amount/100, pct)
	if err != nil {
		return Coin{}, errors.Wrapf(err, "%s times %d%%", c, pct)
	}
	rest, err := mul64(c.Amount%100, pct)
	if err != nil {
		return Coin{}, errors.Wrapf(err, "%s times %d%%", c, pct)
	}
	v := whole + rest/100
	if v < whole {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "%s times %d%%", c, pct)
	}
	return NewCoin(v, c.Ticker), nil
}

// mul64 multiplies two int64 numbers. If the result overflows the int64 size
// the ErrOverflow is returned.
func mul64(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	c := a * b
	if c/a != b {
		return c, errors.ErrOverflow
	}
	return c, nil
}

// Compare returns -1 if c is less than o, 0 if they are equal and 1 if c is
// greater. Coins of a different ticker are not comparable and return -2.
func (c Coin) Compare(o Coin) int {
	switch {
	case !c.SameType(o):
		return -2
	case c.Amount < o.Amount:
		return -1
	case c.Amount > o.Amount:
		return 1
	default:
		return 0
	}
}

func (c Coin) Equals(o Coin) bool {
	return c.Compare(o) == 0
}

// IsGTE returns true if c is the same type and at least as large as o.
func (c Coin) IsGTE(o Coin) bool {
	return c.SameType(o) && c.Amount >= o.Amount
}

func (c Coin) IsZero() bool {
	return c.Amount == 0
}

func (c Coin) IsPositive() bool {
	return c.Amount > 0
}

func (c Coin) SameType(o Coin) bool {
	return c.Ticker == o.Ticker
}

// Validate ensures that the ticker is valid and the amount is not
// negative.
func (c Coin) Validate() error {
	if !IsCC(c.Ticker) {
		return errors.Wrapf(errors.ErrCurrency, "invalid ticker: %q", c.Ticker)
	}
	if c.Amount < 0 {
		return errors.Wrapf(errors.ErrAmount, "negative amount %d", c.Amount)
	}
	return nil
}

// String provides a human readable representation of the coin that can be
// parsed back with ParseHumanFormat.
func (c Coin) String() string {
	if c.Ticker == "" {
		return strconv.FormatInt(c.Amount, 10)
	}
	return fmt.Sprintf("%d %s", c.Amount, c.Ticker)
}

// UnmarshalJSON accepts both the object and the human readable string
// representation.
func (c *Coin) UnmarshalJSON(raw []byte) error {
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		val, err := ParseHumanFormat(human)
		if err != nil {
			return err
		}
		*c = val
		return nil
	}

	type coin Coin
	var obj coin
	if err := json.Unmarshal(raw, &obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot decode coin: %s", err)
	}
	*c = Coin(obj)
	return nil
}

var humanCoinFormatRx = regexp.MustCompile(`^(\-?\d+)\s*([A-Z]{3,4})$`)

// ParseHumanFormat parse a human readable coin representation. Accepted
// format is a string:
//   "<amount> <ticker>"
func ParseHumanFormat(h string) (Coin, error) {
	m := humanCoinFormatRx.FindStringSubmatch(h)
	if m == nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "invalid coin format: %q", h)
	}
	amount, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "amount %q: %s", m[1], err)
	}
	return NewCoin(amount, m[2]), nil
}

// Set updates this coin value to what is provided. This method implements
// flag.Value interface.
func (c *Coin) Set(raw string) error {
	val, err := ParseHumanFormat(raw)
	if err != nil {
		return err
	}
	*c = val
	return nil
}
