package server

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	cfg "github.com/tendermint/tendermint/config"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/privval"
	tmtypes "github.com/tendermint/tendermint/types"
)

const (
	// FlagHome is the directory holding the configuration and the data.
	FlagHome = "home"

	appStateKey = "app_state"
)

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// InitCmd will initialize all files for tendermint,
// along with proper app_state.
// The application passes in a function to generate
// the options, that may use GenerateCoinKey
// to create default account(s).
func InitCmd(gen GenOptions, logger log.Logger) *cobra.Command {
	c := initCmd{gen: gen, logger: logger}
	return &cobra.Command{
		Use:   "init [args...]",
		Short: "Initialize the tendermint files and the app_state of the genesis file",
		RunE:  c.run,
	}
}

// GenerateCoinKey returns the address of a new key, along with the JSON
// representation of the key pair. You can fund this address in the
// genesis file and import the keys in a client to use them.
func GenerateCoinKey() (custody.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	pubKey := privKey.PublicKey()

	out := struct {
		Pubkey *crypto.PublicKey  `json:"pub_key"`
		Secret *crypto.PrivateKey `json:"secret"`
	}{Pubkey: pubKey, Secret: privKey}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", errors.Wrap(err, "cannot serialize keys")
	}
	return pubKey.Address(), string(keys), nil
}

type initCmd struct {
	gen    GenOptions
	logger log.Logger
}

func (c initCmd) run(cmd *cobra.Command, args []string) error {
	home := viper.GetString(FlagHome)
	if home == "" {
		return errors.Wrap(errors.ErrInput, "home directory is required")
	}
	cfg.EnsureRoot(home)
	config := cfg.DefaultConfig().SetRoot(home)

	if err := c.initTendermintFiles(config); err != nil {
		return err
	}

	// no app_state, leave like tendermint
	if c.gen == nil {
		return nil
	}
	options, err := c.gen(args)
	if err != nil {
		return errors.Wrap(err, "cannot generate app_state")
	}
	return addGenesisOptions(config.GenesisFile(), options)
}

// initTendermintFiles creates the private validator and a single validator
// genesis, unless they exist already.
func (c initCmd) initTendermintFiles(config *cfg.Config) error {
	pv := privval.LoadOrGenFilePV(config.PrivValidatorKeyFile(), config.PrivValidatorStateFile())
	c.logger.Info("Private validator", "path", config.PrivValidatorKeyFile())

	genFile := config.GenesisFile()
	if fileExists(genFile) {
		c.logger.Info("Found genesis file", "path", genFile)
		return nil
	}
	genDoc := tmtypes.GenesisDoc{
		ChainID: fmt.Sprintf("test-chain-%v", cmn.RandStr(6)),
		Validators: []tmtypes.GenesisValidator{{
			Address: pv.GetPubKey().Address(),
			PubKey:  pv.GetPubKey(),
			Power:   10,
		}},
	}
	if err := genDoc.SaveAs(genFile); err != nil {
		return errors.Wrap(err, "cannot save genesis")
	}
	c.logger.Info("Generated genesis file", "path", genFile)
	return nil
}

func fileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}

// genesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type genesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, options json.RawMessage) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "cannot read genesis")
	}
	var doc genesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	doc[appStateKey] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "cannot serialize genesis")
	}
	return ioutil.WriteFile(filename, out, 0600)
}
