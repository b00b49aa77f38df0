package coin

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/iov-one/custody/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCoinArithmetic(t *testing.T) {
	Convey("Given coins of the same ticker", t, func() {
		a := NewCoin(150, "IOV")
		b := NewCoin(50, "IOV")

		Convey("they can be added and subtracted", func() {
			sum, err := a.Add(b)
			So(err, ShouldBeNil)
			So(sum, ShouldResemble, NewCoin(200, "IOV"))

			diff, err := b.Subtract(a)
			So(err, ShouldBeNil)
			So(diff, ShouldResemble, NewCoin(-100, "IOV"))
			So(diff.IsPositive(), ShouldBeFalse)
		})

		Convey("they compare by amount", func() {
			So(a.Compare(b), ShouldEqual, 1)
			So(b.Compare(a), ShouldEqual, -1)
			So(a.Equals(NewCoin(150, "IOV")), ShouldBeTrue)
			So(a.IsGTE(b), ShouldBeTrue)
			So(b.IsGTE(a), ShouldBeFalse)
		})

		Convey("overflow is detected", func() {
			_, err := NewCoin(math.MaxInt64, "IOV").Add(NewCoin(1, "IOV"))
			So(errors.ErrOverflow.Is(err), ShouldBeTrue)
			_, err = NewCoin(math.MinInt64, "IOV").Subtract(NewCoin(1, "IOV"))
			So(errors.ErrOverflow.Is(err), ShouldBeTrue)
		})
	})

	Convey("Given coins of a different ticker", t, func() {
		a := NewCoin(1, "IOV")
		b := NewCoin(1, "ETH")

		_, err := a.Add(b)
		So(errors.ErrCurrency.Is(err), ShouldBeTrue)
		So(a.Equals(b), ShouldBeFalse)
		So(a.IsGTE(b), ShouldBeFalse)
	})
}

func TestCoinPercent(t *testing.T) {
	cases := map[string]struct {
		coin    Coin
		pct     int64
		want    Coin
		wantErr *errors.Error
	}{
		"exact":            {coin: NewCoin(1000, "IOV"), pct: 25, want: NewCoin(250, "IOV")},
		"rounded down":     {coin: NewCoin(101, "IOV"), pct: 25, want: NewCoin(25, "IOV")},
		"zero percent":     {coin: NewCoin(101, "IOV"), pct: 0, want: NewCoin(0, "IOV")},
		"negative percent": {coin: NewCoin(101, "IOV"), pct: -1, wantErr: errors.ErrInput},
		"largest amount":   {coin: NewCoin(math.MaxInt64, "IOV"), pct: 50, want: NewCoin(4611686018427387903, "IOV")},
		"all of largest":   {coin: NewCoin(math.MaxInt64, "IOV"), pct: 100, want: NewCoin(math.MaxInt64, "IOV")},
		"large remainder":  {coin: NewCoin(math.MaxInt64/2, "IOV"), pct: 30, want: NewCoin(1383505805528216370, "IOV")},
		"overflow":         {coin: NewCoin(math.MaxInt64, "IOV"), pct: 200, wantErr: errors.ErrOverflow},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := tc.coin.Percent(tc.pct)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil && got != tc.want {
				t.Fatalf("want %s, got %s", tc.want, got)
			}
		})
	}
}

func TestCoinValidate(t *testing.T) {
	cases := map[string]struct {
		coin    Coin
		wantErr *errors.Error
	}{
		"valid":           {coin: NewCoin(10, "IOV")},
		"zero is valid":   {coin: NewCoin(0, "ETH")},
		"negative":        {coin: NewCoin(-1, "IOV"), wantErr: errors.ErrAmount},
		"lower ticker":    {coin: NewCoin(1, "iov"), wantErr: errors.ErrCurrency},
		"missing ticker":  {coin: NewCoin(1, ""), wantErr: errors.ErrCurrency},
		"too long ticker": {coin: NewCoin(1, "TOOLONG"), wantErr: errors.ErrCurrency},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.coin.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestCoinHumanFormat(t *testing.T) {
	Convey("human format can be parsed back", t, func() {
		c := NewCoin(42, "IOV")
		So(c.String(), ShouldEqual, "42 IOV")

		parsed, err := ParseHumanFormat(c.String())
		So(err, ShouldBeNil)
		So(parsed, ShouldResemble, c)

		var flagVal Coin
		So(flagVal.Set("-7ETH"), ShouldBeNil)
		So(flagVal, ShouldResemble, NewCoin(-7, "ETH"))

		_, err = ParseHumanFormat("7.5 IOV")
		So(errors.ErrInput.Is(err), ShouldBeTrue)
	})

	Convey("json accepts both object and string", t, func() {
		var fromObj, fromString Coin
		So(json.Unmarshal([]byte(`{"ticker": "IOV", "amount": 5}`), &fromObj), ShouldBeNil)
		So(json.Unmarshal([]byte(`"5 IOV"`), &fromString), ShouldBeNil)
		So(fromObj, ShouldResemble, fromString)

		So(json.Unmarshal([]byte(`"five IOV"`), &fromString), ShouldNotBeNil)
	})
}
