package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/custody"
	custodyd "github.com/iov-one/custody/cmd/custodyd/app"
	"github.com/iov-one/custody/commands/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/cli/flags"
	"github.com/tendermint/tendermint/libs/log"
)

const flagLogLevel = "log_level"

func main() {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "custody")

	root := &cobra.Command{
		Use:          "custodyd",
		Short:        "Community fund custody node",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			filtered, err := flags.ParseLogLevel(viper.GetString(flagLogLevel), logger, "info")
			if err != nil {
				return err
			}
			logger = filtered
			return nil
		},
	}
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".custodyd")
	root.PersistentFlags().String(server.FlagHome, defaultHome, "directory to store files under")
	root.PersistentFlags().String(flagLogLevel, "info", "log level, eg. \"*:info\" or \"main:debug,*:error\"")

	viper.SetEnvPrefix("CUSTODYD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// logger is replaced once the flags are parsed
	lazy := lazyLogger{get: func() log.Logger { return logger }}
	root.AddCommand(
		server.InitCmd(custodyd.GenInitOptions, lazy),
		server.StartCmd(custodyd.GenerateApp, lazy),
		server.ValidateCmd(custodyd.Initializers()),
		server.GetBlockCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print the app version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Println(custody.Version())
			},
		},
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// lazyLogger forwards to the logger configured by the --log_level flag.
type lazyLogger struct {
	get func() log.Logger
}

func (l lazyLogger) Debug(msg string, keyvals ...interface{}) { l.get().Debug(msg, keyvals...) }
func (l lazyLogger) Info(msg string, keyvals ...interface{})  { l.get().Info(msg, keyvals...) }
func (l lazyLogger) Error(msg string, keyvals ...interface{}) { l.get().Error(msg, keyvals...) }
func (l lazyLogger) With(keyvals ...interface{}) log.Logger   { return l.get().With(keyvals...) }
