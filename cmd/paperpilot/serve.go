package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/paperpilot/internal/server"
)

func newServeCommand() *cobra.Command {
	var (
		address string
		store   PreferencesStore
	)
	command := &cobra.Command{
		Use:   "serve",
		Short: "Run the background process that performs every lookup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if address == "" {
				address = cfg.Server.Address
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			bg, err := newBackground(ctx, cfg, resolveStore(store, cfg))
			if err != nil {
				return err
			}
			defer func() {
				if err := bg.Close(); err != nil {
					slog.Default().Warn("failed to close background resources", "error", err)
				}
			}()

			if err := server.New(bg.handler, bg.preferences).ListenAndServe(ctx, address); err != nil {
				return fmt.Errorf("server.ListenAndServe > %w", err)
			}
			return nil
		},
	}
	command.Flags().StringVar(&address, "address", "", "address to listen on (default from server.address)")
	addStoreFlag(command.Flags(), &store)
	return command
}
