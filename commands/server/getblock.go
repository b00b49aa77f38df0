package server

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/custody/errors"
	"github.com/spf13/cobra"
	amino "github.com/tendermint/go-amino"
	"github.com/tendermint/tendermint/blockchain"
	dbm "github.com/tendermint/tendermint/libs/db"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
)

const flagHeight = "height"

var cdc = amino.NewCodec()

func init() {
	ctypes.RegisterAmino(cdc)
}

// GetBlockCmd extracts a block from a blockstore.db and prints it as JSON.
// It takes the last block unless --height is given.
func GetBlockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "getblock <path to blockstore.db>",
		Short: "Extract a block from blockstore.db",
		Args:  cobra.ExactArgs(1),
	}
	height := cmd.Flags().Int64(flagHeight, 0, "height of the block to extract (default latest)")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		db, err := openDb(args[0])
		if err != nil {
			return err
		}
		defer db.Close()
		return printBlock(os.Stdout, blockchain.NewBlockStore(db), *height)
	}
	return cmd
}

// openDb opens a goleveldb directory given with its ".db" suffix.
func openDb(dir string) (dbm.DB, error) {
	dir = filepath.Clean(dir)
	if !strings.HasSuffix(dir, ".db") {
		return nil, errors.Wrapf(errors.ErrInput, "database directory must end with .db, got %q", dir)
	}
	dir = strings.TrimSuffix(dir, ".db")
	db, err := dbm.NewGoLevelDB(filepath.Base(dir), filepath.Dir(dir))
	if err != nil {
		return nil, errors.Wrap(err, "cannot open database")
	}
	return db, nil
}

func printBlock(w io.Writer, store *blockchain.BlockStore, height int64) error {
	if height == 0 {
		height = store.Height()
	}
	block := store.LoadBlock(height)
	if block == nil {
		return errors.Wrapf(errors.ErrNotFound, "no block for height %d", height)
	}
	js, err := cdc.MarshalJSONIndent(block, "", "  ")
	if err != nil {
		return errors.Wrap(err, "cannot serialize block")
	}
	_, err = fmt.Fprintln(w, string(js))
	return err
}
