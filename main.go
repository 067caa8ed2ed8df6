package main

import (
	"os"

	"github.com/spf13/cobra"

	"fixengine/cmd/server"
	"fixengine/pkg/logs"
)

var rootCmd = &cobra.Command{
	Use:           "fixengine",
	Short:         "FIX session engine",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("env", ".env", "dotenv file read before the environment")
	rootCmd.AddCommand(server.AcceptorCmd, server.InitiatorCmd, server.StoreCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logs.Log.Error().Err(err).Msg("fixengine failed")
		os.Exit(1)
	}
}
