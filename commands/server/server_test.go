package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// setupHome creates a home directory and points viper to it.
func setupHome(t *testing.T) (string, func()) {
	t.Helper()
	home, err := ioutil.TempDir("", "custody-server")
	require.NoError(t, err)
	viper.Set(FlagHome, home)
	return home, func() {
		viper.Reset()
		os.RemoveAll(home)
	}
}

func TestInit(t *testing.T) {
	home, cleanup := setupHome(t)
	defer cleanup()

	gen := func(args []string) (json.RawMessage, error) {
		return json.RawMessage(`{"token": []}`), nil
	}
	cmd := InitCmd(gen, log.NewNopLogger())
	require.NoError(t, cmd.RunE(cmd, nil))

	genFile := filepath.Join(home, "config", "genesis.json")
	var doc genesisDoc
	bz, err := ioutil.ReadFile(genFile)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(bz, &doc))

	var chainID string
	require.NoError(t, json.Unmarshal(doc["chain_id"], &chainID))
	assert.True(t, strings.HasPrefix(chainID, "test-chain-"), chainID)
	assert.NotEmpty(t, doc["validators"])
	assert.JSONEq(t, `{"token": []}`, string(doc[appStateKey]))

	// a second run keeps the genesis and replaces the app_state
	gen = func(args []string) (json.RawMessage, error) {
		return json.RawMessage(`{"acl": []}`), nil
	}
	cmd = InitCmd(gen, log.NewNopLogger())
	require.NoError(t, cmd.RunE(cmd, nil))

	bz, err = ioutil.ReadFile(genFile)
	require.NoError(t, err)
	var again genesisDoc
	require.NoError(t, json.Unmarshal(bz, &again))
	assert.Equal(t, string(doc["chain_id"]), string(again["chain_id"]))
	assert.JSONEq(t, `{"acl": []}`, string(again[appStateKey]))
}

func TestInitGeneratorError(t *testing.T) {
	_, cleanup := setupHome(t)
	defer cleanup()

	gen := func(args []string) (json.RawMessage, error) {
		return nil, errors.Wrap(errors.ErrInput, "bad ticker")
	}
	cmd := InitCmd(gen, log.NewNopLogger())
	err := cmd.RunE(cmd, []string{"x"})
	assert.True(t, errors.ErrInput.Is(err), "%+v", err)
}

// sectionInit refuses a genesis without the "required" section.
type sectionInit struct{}

func (sectionInit) FromGenesis(opts custody.Options, kv custody.KVStore) error {
	var v int
	if err := opts.ReadOptions("required", &v); err != nil {
		return err
	}
	if v == 0 {
		return errors.Wrap(errors.ErrEmpty, "required")
	}
	return nil
}

func TestValidateGenesis(t *testing.T) {
	dir, err := ioutil.TempDir("", "custody-genesis")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, ioutil.WriteFile(path, []byte(content), 0600))
		return path
	}
	good := write("good.json", `{"chain_id": "x", "app_state": {"required": 1}}`)
	empty := write("empty.json", `{"chain_id": "x", "app_state": {}}`)
	broken := write("broken.json", `{"app_state": `)

	assert.NoError(t, ValidateGenesis(sectionInit{}, []string{good}))

	err = ValidateGenesis(sectionInit{}, []string{good, empty})
	assert.True(t, errors.ErrEmpty.Is(err), "%+v", err)
	assert.Contains(t, err.Error(), "empty.json")

	err = ValidateGenesis(sectionInit{}, []string{broken})
	assert.True(t, errors.ErrInput.Is(err), "%+v", err)

	cmd := ValidateCmd(sectionInit{})
	assert.NoError(t, cmd.RunE(cmd, []string{good}))
}

func TestRunServer(t *testing.T) {
	_, cleanup := setupHome(t)
	defer cleanup()
	viper.Set(FlagBind, "tcp://localhost:36658")

	var gotDebug bool
	gen := func(home string, logger log.Logger, debug bool) (abci.Application, error) {
		gotDebug = debug
		return abci.NewBaseApplication(), nil
	}
	viper.Set(FlagDebug, true)

	stop := make(chan os.Signal, 1)
	done := make(chan error, 1)
	go func() { done <- runServer(gen, log.NewNopLogger(), stop) }()

	time.Sleep(200 * time.Millisecond)
	stop <- syscall.SIGTERM

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.True(t, gotDebug)
}

func TestRunServerGeneratorError(t *testing.T) {
	_, cleanup := setupHome(t)
	defer cleanup()

	gen := func(home string, logger log.Logger, debug bool) (abci.Application, error) {
		return nil, errors.Wrap(errors.ErrState, "no app")
	}
	err := runServer(gen, log.NewNopLogger(), make(chan os.Signal))
	assert.True(t, errors.ErrState.Is(err), "%+v", err)
}

func TestOpenDb(t *testing.T) {
	_, err := openDb("/tmp/blockstore")
	assert.True(t, errors.ErrInput.Is(err), "%+v", err)
}
