package server

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/iov-one/custody/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// FlagBind is the address the ABCI server listens on.
	FlagBind = "bind"
	// FlagDebug returns call stacks with errors.
	FlagDebug = "debug"
)

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(home string, logger log.Logger, debug bool) (abci.Application, error)

// StartCmd runs the ABCI server until the process is signaled.
func StartCmd(gen AppGenerator, logger log.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the abci server",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			return runServer(gen, logger, stop)
		},
	}
	cmd.Flags().String(FlagBind, "tcp://localhost:26658", "address server listens on")
	cmd.Flags().Bool(FlagDebug, false, "call stack returned on error")
	return cmd
}

// runServer serves the application until stop receives.
func runServer(gen AppGenerator, logger log.Logger, stop <-chan os.Signal) error {
	addr := viper.GetString(FlagBind)
	app, err := gen(viper.GetString(FlagHome), logger, viper.GetBool(FlagDebug))
	if err != nil {
		return errors.Wrap(err, "cannot create application")
	}

	logger.Info("Starting ABCI app", "bind", addr)
	svr, err := server.NewServer(addr, "socket", app)
	if err != nil {
		return errors.Wrap(err, "cannot create listener")
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrap(err, "cannot start server")
	}

	sig := <-stop
	logger.Info("Stopping ABCI app", "signal", sig)
	return svr.Stop()
}
