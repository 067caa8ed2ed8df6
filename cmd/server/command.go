package server

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fixengine/internal/config"
	"fixengine/internal/fix"
	"fixengine/internal/store"
	"fixengine/pkg/logs"
	"fixengine/pkg/utils"
)

var (
	// AcceptorCmd serves the configured sessions to inbound connections.
	AcceptorCmd = &cobra.Command{
		Use:     "acceptor",
		Short:   "Accept FIX connections for the configured sessions",
		Aliases: []string{"serve"},
		Example: "fixengine acceptor --env .env",
		RunE:    runMode(ModeAcceptor),
	}

	// InitiatorCmd connects every configured session to FIX_CONNECT_ADDR.
	InitiatorCmd = &cobra.Command{
		Use:     "initiator",
		Short:   "Connect the configured sessions to a counterparty",
		Example: "fixengine initiator --env .env",
		RunE:    runMode(ModeInitiator),
	}

	StoreCmd = &cobra.Command{
		Use:   "store",
		Short: "Inspect the message store",
	}

	dumpCmd = &cobra.Command{
		Use:     "dump SESSION_ID",
		Short:   "Print the sequences and stored messages of a session",
		Example: "fixengine store dump 'FIX.4.4:ENGINE->CLIENT' --from 10",
		Args:    cobra.ExactArgs(1),
		RunE:    dump,
	}
)

func init() {
	dumpCmd.Flags().Int("from", 1, "first sequence number")
	dumpCmd.Flags().Int("to", 0, "last sequence number, 0 for all")
	StoreCmd.AddCommand(dumpCmd)
}

func envFile(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("env")
	return path
}

func runMode(mode Mode) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFile(cmd))
		if err != nil {
			return err
		}
		utils.InitLogger()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv, err := New(ctx, cfg, mode)
		if err != nil {
			return err
		}
		defer srv.Close()

		err = srv.Run(ctx)
		logs.Log.Info().Msg("engine exiting")
		return err
	}
}

func dump(cmd *cobra.Command, args []string) error {
	id, err := fix.ParseSessionID(args[0])
	if err != nil {
		return err
	}
	from, _ := cmd.Flags().GetInt("from")
	to, _ := cmd.Flags().GetInt("to")

	cfg, err := config.LoadStore(envFile(cmd))
	if err != nil {
		return err
	}
	utils.InitLogger()
	ctx := cmd.Context()
	st, err := store.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	return Dump(ctx, cmd.OutOrStdout(), st, id, from, to)
}
