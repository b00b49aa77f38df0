package custody_test

import (
	"encoding/json"
	"fmt"
	"reflect"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressPrinting(t *testing.T) {
	Convey("addresses are printed as upper case hex", t, func() {
		addr := custody.Address([]byte{0xab, 0x01})
		So(addr.String(), ShouldEqual, "AB01")
		So(custody.Address(nil).String(), ShouldEqual, "(nil)")
	})

	Convey("conditions keep ascii extension and type", t, func() {
		cond := custody.NewCondition("community", "custody", []byte{0x00, 0x07})
		So(cond.String(), ShouldEqual, "community/custody/0007")

		broken := custody.Condition("no-slashes")
		So(broken.Validate(), ShouldNotBeNil)
		So(broken.String(), ShouldStartWith, "Invalid Condition")
	})

	Convey("condition addresses are deterministic", t, func() {
		a := custody.NewCondition("sigs", "ed25519", []byte("key")).Address()
		b := custody.NewCondition("sigs", "ed25519", []byte("key")).Address()
		c := custody.NewCondition("sigs", "ed25519", []byte("other")).Address()
		So(a.Equals(b), ShouldBeTrue)
		So(a.Equals(c), ShouldBeFalse)
		So(a.Validate(), ShouldBeNil)
	})
}

func TestAddressUnmarshalJSON(t *testing.T) {
	addr := custody.NewCondition("foo", "bar", []byte("conditiondata")).Address()

	cases := map[string]struct {
		json     string
		wantErr  *errors.Error
		wantAddr custody.Address
	}{
		"default decoding": {
			json:     fmt.Sprintf(`"%s"`, addr),
			wantAddr: addr,
		},
		"hex decoding": {
			json:     fmt.Sprintf(`"hex:%s"`, addr),
			wantAddr: addr,
		},
		"cond decoding": {
			json:     `"cond:foo/bar/636f6e646974696f6e64617461"`,
			wantAddr: addr,
		},
		"invalid condition format": {
			json:    `"cond:foo/636f6e646974696f6e64617461"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition data": {
			json:    `"cond:foo/bar/zzzzz"`,
			wantErr: errors.ErrInput,
		},
		"hex address of a wrong length": {
			json:    `"6865782d61646472"`,
			wantErr: errors.ErrInput,
		},
		"unknown format": {
			json:    `"foobar:xxx"`,
			wantErr: errors.ErrType,
		},
		"zero address": {
			json:     `""`,
			wantAddr: nil,
		},
		"zero cond address": {
			json:     `"cond:"`,
			wantAddr: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var a custody.Address
			err := json.Unmarshal([]byte(tc.json), &a)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil && !reflect.DeepEqual(a, tc.wantAddr) {
				t.Fatalf("got address: %q", a)
			}
		})
	}
}

func TestAddressBech32(t *testing.T) {
	addr := custody.NewCondition("foo", "bar", []byte("data")).Address()

	enc, err := addr.Bech32("tiov")
	require.NoError(t, err)

	got, err := custody.ParseAddress("bech32:" + enc)
	require.NoError(t, err)
	assert.Equal(t, addr, got)

	_, err = custody.Address([]byte("short")).Bech32("tiov")
	assert.True(t, errors.ErrInput.Is(err))
}

func TestConditionJSON(t *testing.T) {
	cond := custody.NewCondition("foo", "bar", []byte("conditiondata"))

	raw, err := json.Marshal(cond)
	require.NoError(t, err)
	assert.Equal(t, `"foo/bar/636F6E646974696F6E64617461"`, string(raw))

	var got custody.Condition
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.True(t, cond.Equals(got))

	raw, err = json.Marshal(custody.Condition(nil))
	require.NoError(t, err)
	assert.Equal(t, `""`, string(raw))

	err = json.Unmarshal([]byte(`"foo/zz"`), &got)
	assert.True(t, errors.ErrInput.Is(err))
}
