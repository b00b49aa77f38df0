package errors

import (
	"fmt"
	"testing"
)

func TestABCIInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"nil error": {
			err:      nil,
			wantCode: SuccessABCICode,
			wantLog:  "",
		},
		"registered error": {
			err:      ErrNotFound,
			wantCode: ErrNotFound.code,
			wantLog:  "not found",
		},
		"wrapped registered error": {
			err:      Wrap(ErrUnauthorized, "owner only"),
			wantCode: ErrUnauthorized.code,
			wantLog:  "owner only: unauthorized",
		},
		"stdlib error is redacted": {
			err:      fmt.Errorf("database path /tmp/x"),
			wantCode: internalABCICode,
			wantLog:  internalABCILog,
		},
		"stdlib error in debug mode": {
			err:      fmt.Errorf("database path /tmp/x"),
			debug:    true,
			wantCode: internalABCICode,
			wantLog:  "database path /tmp/x",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := ABCIInfo(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("want code %d, got %d", tc.wantCode, code)
			}
			if log != tc.wantLog {
				t.Errorf("want log %q, got %q", tc.wantLog, log)
			}
		})
	}
}

func TestABCIErrorRoundTrip(t *testing.T) {
	code, log := ABCIInfo(Wrap(ErrInsufficientBalance, "withdraw"), false)
	err := ABCIError(code, log)
	if !ErrInsufficientBalance.Is(err) {
		t.Fatalf("want insufficient balance, got %+v", err)
	}

	unknown := ABCIError(987654, "whatever")
	if abciCode(unknown) != internalABCICode {
		t.Fatalf("unknown codes must be internal: %+v", unknown)
	}
}

func TestRedact(t *testing.T) {
	if err := Redact(ErrPanic, false); ErrPanic.Is(err) {
		t.Fatal("panic must be redacted")
	}
	if err := Redact(ErrPanic, true); !ErrPanic.Is(err) {
		t.Fatal("debug mode must not redact")
	}
	if err := Redact(ErrNotFound, false); !ErrNotFound.Is(err) {
		t.Fatal("registered errors must not be redacted")
	}
}
