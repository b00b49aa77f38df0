package custodyd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/commands/server"
	"github.com/iov-one/custody/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode. The account is the default admin of the
// first registry and every admin of the first community.
//
// You can set the ticker and the address: init [ticker] [address]
func GenInitOptions(args []string) (json.RawMessage, error) {
	ticker := "IOV"
	if len(args) > 0 {
		ticker = args[0]
		if !coin.IsCC(ticker) {
			return nil, errors.Wrapf(errors.ErrCurrency, "invalid ticker %s", ticker)
		}
	}

	var addr custody.Address
	if len(args) > 1 {
		a, err := custody.ParseAddress(args[1])
		if err != nil {
			return nil, err
		}
		addr = a
	} else {
		// if no address provided, auto-generate one
		// and print out the keys
		a, keys, err := server.GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		addr = a
		fmt.Println(keys)
	}

	opts := fmt.Sprintf(`
	{
	  "token": [
	    {
	      "address": "%[1]s",
	      "coins": [{"amount": 123456789, "ticker": "%[2]s"}]
	    }
	  ],
	  "acl": [
	    {"admins": ["%[1]s"]}
	  ],
	  "community": [
	    {
	      "name": "community",
	      "owner": "%[1]s",
	      "admins": {"rewards": "%[1]s", "treasury": "%[1]s", "validations": "%[1]s", "foundation": "%[1]s"},
	      "percentages": {"rewards": 25, "treasury": 25, "validations": 25, "foundation": 25},
	      "registry": 1
	    }
	  ]
	}`, addr, ticker)
	return []byte(opts), nil
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "custody.db")
	}

	application, err := Application("custodyd", Stack(), TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}
	application.WithLogger(logger)
	return application, nil
}
